package voice

import (
	"context"
	"time"
)

// AutoDetect is the source-language sentinel meaning the service picks the
// spoken language from the audio itself.
const AutoDetect = "auto"

// SessionDescriptor is the URL/token/id triple needed to open or resume a
// streaming connection. CreateSession issues the first one; every reconnect
// exchanges the token for a fresh descriptor while SessionID stays stable.
type SessionDescriptor struct {
	StreamingURL string `json:"streaming_url"`
	Token        string `json:"token"`
	SessionID    string `json:"session_id,omitempty"`
}

// CreateSessionRequest is the body of the session-provisioning REST call.
type CreateSessionRequest struct {
	TargetLangs []string `json:"target_languages"`
	MediaType   string   `json:"source_media_content_type"`
	SourceLang  string   `json:"source_language,omitempty"`
	Formality   string   `json:"formality,omitempty"`
	GlossaryID  string   `json:"glossary_id,omitempty"`
}

// StreamOptions configures a streaming session.
type StreamOptions struct {
	// TargetLangs is the non-empty list of languages to translate into.
	// Order is preserved in the SessionResult.
	TargetLangs []string

	// SourceLang is the spoken language, or empty/AutoDetect for automatic
	// detection.
	SourceLang string

	// Formality and GlossaryID tune the translation; both optional.
	Formality  string
	GlossaryID string

	// MediaType describes the uploaded audio (e.g. "audio/pcm;rate=16000").
	// Defaults to DefaultMediaType.
	MediaType string

	// PaceInterval is the delay between consecutive chunk sends. Zero means
	// send as fast as the producer yields.
	PaceInterval time.Duration

	// Reconnect allows resuming after an unexpected connection drop.
	// MaxReconnectAttempts bounds how many resumes a single session may do.
	Reconnect            bool
	MaxReconnectAttempts int
}

// DefaultMediaType is used when StreamOptions.MediaType is empty.
const DefaultMediaType = "audio/pcm;rate=16000;channels=1"

// DefaultStreamOptions returns options with reconnection enabled.
func DefaultStreamOptions(targetLangs ...string) StreamOptions {
	return StreamOptions{
		TargetLangs:          targetLangs,
		SourceLang:           AutoDetect,
		MediaType:            DefaultMediaType,
		PaceInterval:         100 * time.Millisecond,
		Reconnect:            true,
		MaxReconnectAttempts: 3,
	}
}

// Segment is one concluded (or, inside an update event, possibly tentative)
// piece of transcribed or translated speech.
type Segment struct {
	Text      string
	Start     time.Duration
	End       time.Duration
	Language  string
	Tentative bool
}

// Transcript is the final per-language output: concluded segments in arrival
// order plus their space-joined concatenation.
type Transcript struct {
	Lang     string
	Text     string
	Segments []Segment
}

// SessionResult is produced exactly once, on successful completion. Targets
// appear in the order the languages were requested, regardless of event
// arrival order.
type SessionResult struct {
	SessionID string
	Source    Transcript
	Targets   []Transcript
}

// ChunkSource yields the audio chunks to upload. Next blocks until a chunk
// is available, returns io.EOF when the stream is exhausted, and any other
// error aborts the session with that exact error.
type ChunkSource interface {
	Next(ctx context.Context) ([]byte, error)
}

// Callbacks proxy server events to the caller as they arrive. All fields
// are optional and are invoked from the session's event goroutine.
type Callbacks struct {
	OnSourceTranscript      func(SourceTranscriptUpdate)
	OnTargetTranscript      func(TargetTranscriptUpdate)
	OnEndOfSourceTranscript func()
	OnEndOfTargetTranscript func(lang string)
	OnEndOfStream           func()
	OnError                 func(ErrorEvent)
	OnReconnect             func(attempt int)
}
