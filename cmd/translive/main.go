package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/evalieri/translive/internal/api"
	"github.com/evalieri/translive/internal/cache"
	"github.com/evalieri/translive/internal/chunker"
	"github.com/evalieri/translive/internal/config"
	"github.com/evalieri/translive/internal/output"
	"github.com/evalieri/translive/internal/tui"
	"github.com/evalieri/translive/internal/voice"
)

var version = "dev"

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "translive",
	Short: "Real-time voice and text translation from the command line",
}

func init() {
	rootCmd.AddCommand(
		voiceCmd(),
		textCmd(),
		languagesCmd(),
		usageCmd(),
		glossaryCmd(),
		configureCmd(),
		versionCmd(),
	)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	return cfg, nil
}

func requireAPIKey(cfg *config.Config) (string, error) {
	key := cfg.ResolveAPIKey()
	if key == "" {
		return "", fmt.Errorf("no API key configured: run 'translive configure' or set DEEPL_AUTH_KEY")
	}
	return key, nil
}

func voiceCmd() *cobra.Command {
	var (
		file        string
		targets     []string
		source      string
		formality   string
		glossaryID  string
		noReconnect bool
	)

	cmd := &cobra.Command{
		Use:   "voice",
		Short: "Stream audio and translate speech in real time",
		Long: `Stream raw audio from a file (or stdin) to the realtime translation
service and print incremental transcripts and translations as they arrive.
Press Ctrl+C once to finish early and keep the partial result; twice to abort.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVoice(file, targets, source, formality, glossaryID, noReconnect)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "audio file to stream (default: stdin)")
	cmd.Flags().StringSliceVarP(&targets, "to", "t", nil, "target languages (overrides config)")
	cmd.Flags().StringVar(&source, "from", "", "spoken language (overrides config, \"auto\" to detect)")
	cmd.Flags().StringVar(&formality, "formality", "", "formality: more, less, prefer_more, prefer_less")
	cmd.Flags().StringVar(&glossaryID, "glossary", "", "glossary id to apply")
	cmd.Flags().BoolVar(&noReconnect, "no-reconnect", false, "fail instead of resuming after a dropped connection")

	return cmd
}

func runVoice(file string, targets []string, source, formality, glossaryID string, noReconnect bool) error {
	// Streaming sessions can run for a long time; watch the config file so
	// edits made mid-session are validated immediately and the log level
	// follows without a restart.
	manager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := manager.GetConfig()
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}
	key, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}

	opts := voice.StreamOptions{
		TargetLangs:          cfg.Voice.TargetLangs,
		SourceLang:           cfg.Voice.SourceLang,
		Formality:            cfg.Voice.Formality,
		GlossaryID:           cfg.Voice.GlossaryID,
		PaceInterval:         cfg.Voice.PaceInterval,
		Reconnect:            cfg.Voice.Reconnect,
		MaxReconnectAttempts: cfg.Voice.MaxReconnectAttempts,
	}
	if len(targets) > 0 {
		opts.TargetLangs = targets
	}
	if source != "" {
		opts.SourceLang = source
	}
	if formality != "" {
		opts.Formality = formality
	}
	if glossaryID != "" {
		opts.GlossaryID = glossaryID
	}
	if noReconnect {
		opts.Reconnect = false
	}

	var in io.Reader = os.Stdin
	if file != "" {
		f, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("failed to open audio file: %w", err)
		}
		defer f.Close()
		in = f
	}

	client, err := voice.New(key)
	if err != nil {
		return err
	}

	renderer := output.NewRenderer(os.Stdout)
	session := voice.NewSession(client, opts, voice.Callbacks{
		OnSourceTranscript: renderer.SourceUpdate,
		OnTargetTranscript: renderer.TargetUpdate,
		OnReconnect:        renderer.Reconnecting,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.StartWatching(ctx); err != nil {
		log.Warn().Err(err).Msg("config file watch unavailable")
	} else {
		defer manager.Stop()
	}

	// First Ctrl+C asks the server for a graceful finish; the second aborts.
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Info().Msg("finishing stream, press Ctrl+C again to abort")
		session.Cancel()
		<-sigCh
		cancel()
	}()

	result, err := session.Run(ctx, chunker.New(in, cfg.Voice.ChunkSize))
	if err != nil {
		return fmt.Errorf("voice session failed: %w", err)
	}

	renderer.Result(result)
	return nil
}

func textCmd() *cobra.Command {
	var (
		target    string
		source    string
		formality string
	)

	cmd := &cobra.Command{
		Use:   "text <text>...",
		Short: "Translate text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runText(args, target, source, formality)
		},
	}

	cmd.Flags().StringVarP(&target, "to", "t", "", "target language (required)")
	cmd.Flags().StringVar(&source, "from", "", "source language (default: detect)")
	cmd.Flags().StringVar(&formality, "formality", "", "formality: more, less (overrides config)")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runText(texts []string, target, source, formality string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}
	if formality == "" {
		formality = cfg.Translation.Formality
	}

	var store *cache.Cache
	if cfg.Translation.Cache {
		if store, err = cache.Open(); err != nil {
			log.Warn().Err(err).Msg("translation cache unavailable")
			store = nil
		}
	}

	// Serve what we can from the cache; translate the rest in one call.
	results := make([]api.Translation, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if store != nil {
			if hit, ok := store.Get(cache.Key(source, target, formality, text)); ok {
				results[i] = api.Translation{Text: hit}
				continue
			}
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) > 0 {
		client, err := api.New(key)
		if err != nil {
			return err
		}
		translated, err := client.TranslateText(context.Background(), api.TranslateRequest{
			Text:       missing,
			TargetLang: target,
			SourceLang: source,
			Formality:  formality,
		})
		if err != nil {
			return err
		}
		for i, tr := range translated {
			results[missingIdx[i]] = tr
			if store != nil {
				if err := store.Put(cache.Key(source, target, formality, missing[i]), tr.Text); err != nil {
					log.Warn().Err(err).Msg("failed to persist translation cache")
				}
			}
		}
	}

	output.Translations(os.Stdout, results, source == "")
	return nil
}

func languagesCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages the service supports",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLanguages(kind)
		},
	}

	cmd.Flags().StringVar(&kind, "type", "both", "which listing: source, target, both")

	return cmd
}

func runLanguages(kind string) error {
	if kind != "source" && kind != "target" && kind != "both" {
		return fmt.Errorf("invalid type: %s (use source, target, or both)", kind)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	key, err := requireAPIKey(cfg)
	if err != nil {
		return err
	}
	client, err := api.New(key)
	if err != nil {
		return err
	}
	ctx := context.Background()

	if kind == "source" || kind == "both" {
		langs, err := client.SourceLanguages(ctx)
		if err != nil {
			return err
		}
		output.Languages(os.Stdout, "Source languages", langs)
	}
	if kind == "target" || kind == "both" {
		langs, err := client.TargetLanguages(ctx)
		if err != nil {
			return err
		}
		output.Languages(os.Stdout, "Target languages", langs)
	}
	return nil
}

func usageCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "usage",
		Short: "Show quota consumption for the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key, err := requireAPIKey(cfg)
			if err != nil {
				return err
			}
			client, err := api.New(key)
			if err != nil {
				return err
			}
			u, err := client.Usage(context.Background())
			if err != nil {
				return err
			}
			output.Usage(os.Stdout, u)
			return nil
		},
	}
}

func glossaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "glossary",
		Short: "Manage translation glossaries",
	}

	cmd.AddCommand(glossaryListCmd())
	cmd.AddCommand(glossaryCreateCmd())
	cmd.AddCommand(glossaryDeleteCmd())

	return cmd
}

func glossaryListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List glossaries on the account",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}
			glossaries, err := client.ListGlossaries(context.Background())
			if err != nil {
				return err
			}
			output.Glossaries(os.Stdout, glossaries)
			return nil
		},
	}
}

func glossaryCreateCmd() *cobra.Command {
	var (
		name    string
		source  string
		target  string
		entries []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a glossary from term pairs",
		RunE: func(cmd *cobra.Command, args []string) error {
			pairs := make(map[string]string, len(entries))
			for _, e := range entries {
				src, dst, ok := strings.Cut(e, "=")
				if !ok {
					return fmt.Errorf("invalid entry %q (use source=target)", e)
				}
				pairs[src] = dst
			}

			client, err := apiClient()
			if err != nil {
				return err
			}
			g, err := client.CreateGlossary(context.Background(), name, source, target, pairs)
			if err != nil {
				return err
			}
			fmt.Printf("created glossary %s (%s→%s, %d entries)\n", g.ID, g.SourceLang, g.TargetLang, g.EntryCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "glossary name")
	cmd.Flags().StringVar(&source, "from", "", "source language")
	cmd.Flags().StringVar(&target, "to", "", "target language")
	cmd.Flags().StringArrayVar(&entries, "entry", nil, "term pair source=target (repeatable)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagRequired("entry")

	return cmd
}

func glossaryDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <glossary-id>",
		Short: "Delete a glossary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := apiClient()
			if err != nil {
				return err
			}
			if err := client.DeleteGlossary(context.Background(), args[0]); err != nil {
				return err
			}
			fmt.Printf("glossary '%s' removed\n", args[0])
			return nil
		},
	}
}

func apiClient() (*api.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	key, err := requireAPIKey(cfg)
	if err != nil {
		return nil, err
	}
	return api.New(key)
}

func configureCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Interactive configuration setup",
		Long: `Interactive configuration wizard for translive.
This will guide you through setting up:
- The DeepL API key
- Voice streaming languages and behavior
- Text translation and caching preferences`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigure()
		},
	}
}

func runConfigure() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	result, err := tui.Run(cfg)
	if err != nil {
		return fmt.Errorf("configuration wizard error: %w", err)
	}
	if result.Cancelled {
		fmt.Println("Configuration cancelled.")
		return nil
	}

	if err := result.Config.Validate(); err != nil {
		fmt.Printf("Configuration validation failed: %v\n", err)
		return err
	}

	if err := config.Save(result.Config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	configPath, _ := config.GetConfigPath()
	fmt.Println()
	fmt.Println("Configuration saved successfully!")
	fmt.Printf("Config file location: %s\n", configPath)
	return nil
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the translive version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("translive " + version)
		},
	}
}
