package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/evalieri/translive/internal/config"
	"github.com/evalieri/translive/internal/language"
)

// ConfigureResult holds the configuration result from the wizard
type ConfigureResult struct {
	Config    *config.Config
	Cancelled bool
}

// ConfigSection represents a configuration section
type ConfigSection string

const (
	SectionCredential  ConfigSection = "credential"
	SectionVoice       ConfigSection = "voice"
	SectionTranslation ConfigSection = "translation"
	SectionLogging     ConfigSection = "logging"
	SectionSaveExit    ConfigSection = "save_exit"
	SectionDiscardExit ConfigSection = "discard_exit"
)

var (
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	statusSetStyle  = lipgloss.NewStyle().Foreground(ColorSuccess)
	statusMissStyle = lipgloss.NewStyle().Foreground(ColorWarning)
)

// Run starts the interactive configuration wizard.
func Run(cfg *config.Config) (*ConfigureResult, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	for {
		clearScreen()
		fmt.Println(headerStyle.Render("translive configuration"))
		fmt.Println()

		section, err := selectSection(cfg)
		if err != nil {
			return &ConfigureResult{Cancelled: true}, nil
		}

		switch section {
		case SectionSaveExit:
			return &ConfigureResult{Config: cfg, Cancelled: false}, nil

		case SectionDiscardExit:
			return &ConfigureResult{Cancelled: true}, nil

		case SectionCredential:
			if err := editCredential(cfg); err != nil {
				continue
			}

		case SectionVoice:
			if err := editVoice(cfg); err != nil {
				continue
			}

		case SectionTranslation:
			if err := editTranslation(cfg); err != nil {
				continue
			}

		case SectionLogging:
			if err := editLogging(cfg); err != nil {
				continue
			}
		}
	}
}

func selectSection(cfg *config.Config) (ConfigSection, error) {
	options := []huh.Option[ConfigSection]{
		huh.NewOption(credentialLabel(cfg), SectionCredential),
		huh.NewOption(voiceLabel(cfg), SectionVoice),
		huh.NewOption(translationLabel(cfg), SectionTranslation),
		huh.NewOption(fmt.Sprintf("Logging (%s)", cfg.Logging.Level), SectionLogging),
		huh.NewOption("Save & Exit", SectionSaveExit),
		huh.NewOption("Discard & Exit", SectionDiscardExit),
	}

	var selected ConfigSection
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[ConfigSection]().
				Title("Configuration Menu").
				Description("↑/↓ navigate • enter select • esc cancel").
				Options(options...).
				Value(&selected),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return "", err
	}
	return selected, nil
}

func credentialLabel(cfg *config.Config) string {
	if cfg.ResolveAPIKey() == "" {
		return "API Key " + statusMissStyle.Render("(not set)")
	}
	return "API Key " + statusSetStyle.Render("(configured)")
}

func voiceLabel(cfg *config.Config) string {
	return fmt.Sprintf("Voice Streaming (%s → %s)",
		language.FromCode(cfg.Voice.SourceLang).Name,
		strings.Join(cfg.Voice.TargetLangs, ", "))
}

func translationLabel(cfg *config.Config) string {
	cache := "cache off"
	if cfg.Translation.Cache {
		cache = "cache on"
	}
	return fmt.Sprintf("Text Translation (%s)", cache)
}

func editCredential(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("DeepL API Key").
				Description("Keys ending in \":fx\" use the free-tier endpoint. Leave empty to use DEEPL_AUTH_KEY.").
				EchoMode(huh.EchoModePassword).
				Value(&cfg.Auth.APIKey),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func editVoice(cfg *config.Config) error {
	targets := make([]string, len(cfg.Voice.TargetLangs))
	copy(targets, cfg.Voice.TargetLangs)

	sourceOptions := []huh.Option[string]{huh.NewOption("Auto-detect", "auto")}
	var targetOptions []huh.Option[string]
	for _, lang := range language.List() {
		label := fmt.Sprintf("%s (%s)", lang.Name, lang.Code)
		sourceOptions = append(sourceOptions, huh.NewOption(label, lang.Code))
		targetOptions = append(targetOptions, huh.NewOption(label, lang.Code))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Spoken Language").
				Options(sourceOptions...).
				Value(&cfg.Voice.SourceLang),
			huh.NewMultiSelect[string]().
				Title("Translate Into").
				Description("Pick at least one target language").
				Options(targetOptions...).
				Value(&targets).
				Validate(func(langs []string) error {
					if len(langs) == 0 {
						return fmt.Errorf("pick at least one target language")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Formality").
				Options(
					huh.NewOption("Default", ""),
					huh.NewOption("More formal", "more"),
					huh.NewOption("Less formal", "less"),
					huh.NewOption("Prefer more formal", "prefer_more"),
					huh.NewOption("Prefer less formal", "prefer_less"),
				).
				Value(&cfg.Voice.Formality),
			huh.NewConfirm().
				Title("Reconnect after unexpected drops?").
				Value(&cfg.Voice.Reconnect),
		),
	).WithTheme(getTheme())

	if err := form.Run(); err != nil {
		return err
	}
	cfg.Voice.TargetLangs = targets
	return nil
}

func editTranslation(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Formality").
				Options(
					huh.NewOption("Default", ""),
					huh.NewOption("More formal", "more"),
					huh.NewOption("Less formal", "less"),
				).
				Value(&cfg.Translation.Formality),
			huh.NewConfirm().
				Title("Cache translations locally?").
				Value(&cfg.Translation.Cache),
		),
	).WithTheme(getTheme())
	return form.Run()
}

func editLogging(cfg *config.Config) error {
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Log Level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&cfg.Logging.Level),
		),
	).WithTheme(getTheme())
	return form.Run()
}

// clearScreen clears the terminal screen
func clearScreen() {
	output := termenv.NewOutput(os.Stdout)
	output.ClearScreen()
}

func getTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(ColorPrimary).Bold(true)
	t.Focused.Description = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Focused.Base = lipgloss.NewStyle().BorderForeground(ColorPrimary)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(ColorSecondary)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(ColorText)

	t.Focused.ErrorIndicator = lipgloss.NewStyle().Foreground(ColorError)
	t.Focused.ErrorMessage = lipgloss.NewStyle().Foreground(ColorError)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(ColorMuted)
	t.Blurred.Description = lipgloss.NewStyle().Foreground(ColorSubtle)

	return t
}
