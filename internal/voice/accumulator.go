package voice

import "strings"

// accumulator collects the concluded segments for one tracked language.
// It is append-only while the session runs and frozen once the matching
// end-of-transcript signal arrives. Only the session's event goroutine
// touches it, so no locking is needed.
type accumulator struct {
	requestedLang string
	detectedLang  string
	segments      []Segment
	frozen        bool
}

func newAccumulator(lang string) *accumulator {
	return &accumulator{requestedLang: lang}
}

// add appends the concluded segments from one update. Tentative segments
// are skipped, and nothing is recorded after the accumulator froze. The
// first concluded segment carrying an explicit language tag fixes the
// detected language.
func (a *accumulator) add(segs []Segment) {
	if a.frozen {
		return
	}
	for _, seg := range segs {
		if seg.Tentative {
			continue
		}
		if a.detectedLang == "" && seg.Language != "" {
			a.detectedLang = seg.Language
		}
		a.segments = append(a.segments, seg)
	}
}

func (a *accumulator) freeze() {
	a.frozen = true
}

func (a *accumulator) lang() string {
	if a.detectedLang != "" {
		return a.detectedLang
	}
	if a.requestedLang != "" {
		return a.requestedLang
	}
	return AutoDetect
}

func (a *accumulator) transcript() Transcript {
	texts := make([]string, len(a.segments))
	for i, seg := range a.segments {
		texts[i] = seg.Text
	}
	return Transcript{
		Lang:     a.lang(),
		Text:     strings.Join(texts, " "),
		Segments: a.segments,
	}
}
