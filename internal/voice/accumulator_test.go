package voice

import "testing"

func TestAccumulatorSkipsTentativeSegments(t *testing.T) {
	a := newAccumulator("de")
	a.add([]Segment{
		{Text: "hallo"},
		{Text: "wel", Tentative: true},
		{Text: "welt"},
	})

	tr := a.transcript()
	if tr.Text != "hallo welt" {
		t.Errorf("text = %q, want %q", tr.Text, "hallo welt")
	}
	if len(tr.Segments) != 2 {
		t.Errorf("segments = %d, want 2", len(tr.Segments))
	}
}

func TestAccumulatorFreezeStopsAccumulation(t *testing.T) {
	a := newAccumulator("de")
	a.add([]Segment{{Text: "before"}})
	a.freeze()
	a.add([]Segment{{Text: "after"}})

	if tr := a.transcript(); tr.Text != "before" {
		t.Errorf("text = %q, want %q", tr.Text, "before")
	}
}

func TestAccumulatorLanguageResolution(t *testing.T) {
	// Requested language wins until a segment carries an explicit tag.
	a := newAccumulator("de")
	if got := a.lang(); got != "de" {
		t.Errorf("lang = %q, want de", got)
	}

	// First tagged segment fixes the detected language.
	a.add([]Segment{{Text: "x"}, {Text: "y", Language: "en"}, {Text: "z", Language: "fr"}})
	if got := a.lang(); got != "en" {
		t.Errorf("lang = %q, want en", got)
	}

	// No request and no tags falls back to the auto-detect sentinel.
	b := newAccumulator("")
	b.add([]Segment{{Text: "x"}})
	if got := b.lang(); got != AutoDetect {
		t.Errorf("lang = %q, want %q", got, AutoDetect)
	}
}

func TestAccumulatorEmptyTranscript(t *testing.T) {
	a := newAccumulator("fr")
	tr := a.transcript()
	if tr.Text != "" || len(tr.Segments) != 0 || tr.Lang != "fr" {
		t.Errorf("transcript = %+v", tr)
	}
}
