package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/evalieri/translive/internal/api"
	"github.com/evalieri/translive/internal/voice"
)

var (
	styleSourceTag = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#06B6D4"))
	styleTargetTag = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#2563EB"))
	styleTentative = lipgloss.NewStyle().Faint(true).Italic(true)
	styleNotice    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	styleHeading   = lipgloss.NewStyle().Bold(true)
	styleMuted     = lipgloss.NewStyle().Faint(true)
)

// Renderer prints live session events and final results. It is driven from
// the session's callback goroutine, so all methods write sequentially.
type Renderer struct {
	w io.Writer
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// SourceUpdate prints one incremental source-transcript update.
func (r *Renderer) SourceUpdate(ev voice.SourceTranscriptUpdate) {
	r.printSegments("src", styleSourceTag, ev.Segments)
}

// TargetUpdate prints one incremental translation update.
func (r *Renderer) TargetUpdate(ev voice.TargetTranscriptUpdate) {
	tag := ev.Language
	if tag == "" {
		tag = "???"
	}
	r.printSegments(tag, styleTargetTag, ev.Segments)
}

func (r *Renderer) printSegments(tag string, tagStyle lipgloss.Style, segs []voice.Segment) {
	for _, seg := range segs {
		text := seg.Text
		if seg.Tentative {
			text = styleTentative.Render(text + " …")
		}
		fmt.Fprintf(r.w, "%s %s\n", tagStyle.Render("["+tag+"]"), text)
	}
}

// Reconnecting prints a notice that the session lost its connection and is
// resuming.
func (r *Renderer) Reconnecting(attempt int) {
	fmt.Fprintln(r.w, styleNotice.Render(fmt.Sprintf("-- connection lost, reconnecting (attempt %d) --", attempt)))
}

// Result prints the completed session's transcripts.
func (r *Renderer) Result(res *voice.SessionResult) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, styleHeading.Render("Source ("+res.Source.Lang+")"))
	fmt.Fprintln(r.w, emptyDash(res.Source.Text))
	for _, target := range res.Targets {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, styleHeading.Render("Translation ("+target.Lang+")"))
		fmt.Fprintln(r.w, emptyDash(target.Text))
	}
}

func emptyDash(s string) string {
	if s == "" {
		return styleMuted.Render("(no speech recognized)")
	}
	return s
}

// Translations prints text-translation results, one per line, with the
// detected source language when the caller did not fix one.
func Translations(w io.Writer, results []api.Translation, showDetected bool) {
	for _, tr := range results {
		if showDetected && tr.DetectedSourceLang != "" {
			fmt.Fprintf(w, "%s %s\n", styleMuted.Render("["+strings.ToLower(tr.DetectedSourceLang)+"]"), tr.Text)
			continue
		}
		fmt.Fprintln(w, tr.Text)
	}
}

// Languages prints a supported-language table.
func Languages(w io.Writer, heading string, langs []api.Language) {
	fmt.Fprintln(w, styleHeading.Render(heading))
	for _, lang := range langs {
		line := fmt.Sprintf("  %-8s %s", strings.ToLower(lang.Code), lang.Name)
		if lang.SupportsFormality {
			line += styleMuted.Render("  (formality)")
		}
		fmt.Fprintln(w, line)
	}
}

// Usage prints the quota consumption with a percentage.
func Usage(w io.Writer, u api.Usage) {
	fmt.Fprintf(w, "characters used: %d / %d", u.CharacterCount, u.CharacterLimit)
	if u.CharacterLimit > 0 {
		fmt.Fprintf(w, " (%.1f%%)", 100*float64(u.CharacterCount)/float64(u.CharacterLimit))
	}
	fmt.Fprintln(w)
	if u.Exhausted() {
		fmt.Fprintln(w, styleNotice.Render("quota exhausted for the current period"))
	}
}

// Glossaries prints the account's glossaries.
func Glossaries(w io.Writer, glossaries []api.Glossary) {
	if len(glossaries) == 0 {
		fmt.Fprintln(w, styleMuted.Render("no glossaries"))
		return
	}
	for _, g := range glossaries {
		status := "ready"
		if !g.Ready {
			status = "processing"
		}
		fmt.Fprintf(w, "%s  %s→%s  %-12s %s (%d entries)\n",
			g.ID, g.SourceLang, g.TargetLang, status, g.Name, g.EntryCount)
	}
}
