package voice

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// Client → server frames.

type sourceMediaChunk struct {
	Data string `json:"data"`
}

type clientFrame struct {
	SourceMediaChunk *sourceMediaChunk `json:"source_media_chunk,omitempty"`
	EndOfSourceMedia *struct{}         `json:"end_of_source_media,omitempty"`
}

func encodeAudioChunk(data []byte) ([]byte, error) {
	return json.Marshal(clientFrame{
		SourceMediaChunk: &sourceMediaChunk{Data: base64.StdEncoding.EncodeToString(data)},
	})
}

var endOfSourceFrame = []byte(`{"end_of_source_media":{}}`)

// Server → client frames, discriminated by top-level key.

type wireSegment struct {
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	Language  string  `json:"language"`
	Tentative bool    `json:"tentative"`
}

type transcriptPayload struct {
	Language string        `json:"language"`
	Segments []wireSegment `json:"segments"`
}

type endPayload struct {
	Language string `json:"language"`
}

type errorPayload struct {
	RequestType string `json:"request_type"`
	ErrorCode   int    `json:"error_code"`
	ReasonCode  int    `json:"reason_code"`
	Message     string `json:"message"`
}

type serverFrame struct {
	SourceTranscriptUpdate *transcriptPayload `json:"source_transcript_update"`
	TargetTranscriptUpdate *transcriptPayload `json:"target_transcript_update"`
	EndOfSourceTranscript  *endPayload        `json:"end_of_source_transcript"`
	EndOfTargetTranscript  *endPayload        `json:"end_of_target_transcript"`
	EndOfStream            *struct{}          `json:"end_of_stream"`
	Error                  *errorPayload      `json:"error"`
}

// parseServerFrame turns one inbound text frame into an event. Frames that
// fail to parse or carry none of the known keys are dropped: unknown or
// malformed messages must never take the session down. When a frame carries
// several known keys, exactly one handler wins, in this priority.
func parseServerFrame(data []byte) (Event, bool) {
	var f serverFrame
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, false
	}
	switch {
	case f.SourceTranscriptUpdate != nil:
		return SourceTranscriptUpdate{Segments: toSegments(f.SourceTranscriptUpdate.Segments)}, true
	case f.TargetTranscriptUpdate != nil:
		return TargetTranscriptUpdate{
			Language: f.TargetTranscriptUpdate.Language,
			Segments: toSegments(f.TargetTranscriptUpdate.Segments),
		}, true
	case f.EndOfSourceTranscript != nil:
		return EndOfSourceTranscript{}, true
	case f.EndOfTargetTranscript != nil:
		return EndOfTargetTranscript{Language: f.EndOfTargetTranscript.Language}, true
	case f.EndOfStream != nil:
		return EndOfStream{}, true
	case f.Error != nil:
		return ErrorEvent{
			RequestType: f.Error.RequestType,
			ErrorCode:   f.Error.ErrorCode,
			ReasonCode:  f.Error.ReasonCode,
			Message:     f.Error.Message,
		}, true
	}
	return nil, false
}

func toSegments(ws []wireSegment) []Segment {
	segs := make([]Segment, 0, len(ws))
	for _, w := range ws {
		segs = append(segs, Segment{
			Text:      w.Text,
			Start:     time.Duration(w.StartTime * float64(time.Second)),
			End:       time.Duration(w.EndTime * float64(time.Second)),
			Language:  w.Language,
			Tentative: w.Tentative,
		})
	}
	return segs
}
