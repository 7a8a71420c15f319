package voice

import (
	"encoding/base64"
	"encoding/json"
	"testing"
	"time"
)

func TestEncodeAudioChunk(t *testing.T) {
	frame, err := encodeAudioChunk([]byte{0x00, 0x01, 0xFF})
	if err != nil {
		t.Fatalf("encodeAudioChunk: %v", err)
	}
	var decoded struct {
		SourceMediaChunk struct {
			Data string `json:"data"`
		} `json:"source_media_chunk"`
	}
	if err := json.Unmarshal(frame, &decoded); err != nil {
		t.Fatalf("frame is not valid JSON: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(decoded.SourceMediaChunk.Data)
	if err != nil {
		t.Fatalf("payload is not valid base64: %v", err)
	}
	if len(raw) != 3 || raw[0] != 0x00 || raw[1] != 0x01 || raw[2] != 0xFF {
		t.Errorf("payload = %v", raw)
	}
}

func TestParseServerFrame(t *testing.T) {
	cases := []struct {
		name  string
		frame string
		want  Event
	}{
		{
			name:  "source transcript update",
			frame: `{"source_transcript_update":{"segments":[{"text":"hi","start_time":1.5,"end_time":2.25,"language":"en"}]}}`,
			want: SourceTranscriptUpdate{Segments: []Segment{{
				Text:     "hi",
				Start:    1500 * time.Millisecond,
				End:      2250 * time.Millisecond,
				Language: "en",
			}}},
		},
		{
			name:  "target transcript update",
			frame: `{"target_transcript_update":{"language":"de","segments":[{"text":"hallo","start_time":0,"end_time":1,"tentative":true}]}}`,
			want: TargetTranscriptUpdate{Language: "de", Segments: []Segment{{
				Text:      "hallo",
				End:       time.Second,
				Tentative: true,
			}}},
		},
		{
			name:  "end of source transcript",
			frame: `{"end_of_source_transcript":{}}`,
			want:  EndOfSourceTranscript{},
		},
		{
			name:  "end of target transcript",
			frame: `{"end_of_target_transcript":{"language":"fr"}}`,
			want:  EndOfTargetTranscript{Language: "fr"},
		},
		{
			name:  "end of stream",
			frame: `{"end_of_stream":{}}`,
			want:  EndOfStream{},
		},
		{
			name:  "error",
			frame: `{"error":{"request_type":"source_media_chunk","error_code":400,"reason_code":3,"message":"bad chunk"}}`,
			want:  ErrorEvent{RequestType: "source_media_chunk", ErrorCode: 400, ReasonCode: 3, Message: "bad chunk"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev, ok := parseServerFrame([]byte(tc.frame))
			if !ok {
				t.Fatal("frame not recognized")
			}
			assertEventEqual(t, ev, tc.want)
		})
	}
}

func TestParseServerFrameDropsUnusable(t *testing.T) {
	for _, frame := range []string{
		``,
		`not json`,
		`{"totally_new_thing":{}}`,
		`{}`,
		`[1,2,3]`,
	} {
		if ev, ok := parseServerFrame([]byte(frame)); ok {
			t.Errorf("frame %q parsed to %T, want dropped", frame, ev)
		}
	}
}

func TestParseServerFrameMultiKeyPriority(t *testing.T) {
	// A frame carrying several known keys resolves to exactly one event, with
	// transcript updates winning over terminators.
	frame := `{"end_of_stream":{},"source_transcript_update":{"segments":[{"text":"x","start_time":0,"end_time":1}]}}`
	ev, ok := parseServerFrame([]byte(frame))
	if !ok {
		t.Fatal("frame not recognized")
	}
	if _, isSource := ev.(SourceTranscriptUpdate); !isSource {
		t.Errorf("event = %T, want SourceTranscriptUpdate", ev)
	}
}

func assertEventEqual(t *testing.T, got, want Event) {
	t.Helper()
	switch want := want.(type) {
	case SourceTranscriptUpdate:
		g, ok := got.(SourceTranscriptUpdate)
		if !ok {
			t.Fatalf("event = %T, want SourceTranscriptUpdate", got)
		}
		assertSegmentsEqual(t, g.Segments, want.Segments)
	case TargetTranscriptUpdate:
		g, ok := got.(TargetTranscriptUpdate)
		if !ok {
			t.Fatalf("event = %T, want TargetTranscriptUpdate", got)
		}
		if g.Language != want.Language {
			t.Errorf("language = %q, want %q", g.Language, want.Language)
		}
		assertSegmentsEqual(t, g.Segments, want.Segments)
	default:
		if got != want {
			t.Errorf("event = %#v, want %#v", got, want)
		}
	}
}

func assertSegmentsEqual(t *testing.T, got, want []Segment) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("segments = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("segment %d = %#v, want %#v", i, got[i], want[i])
		}
	}
}
