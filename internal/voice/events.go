package voice

// Event is one inbound occurrence on a streaming connection: a parsed server
// frame, or a Disconnect once the socket is gone. Events are delivered in
// arrival order on Conn.Events.
type Event interface {
	event()
}

// SourceTranscriptUpdate carries new source-language segments. Tentative
// segments are informational only and never enter the final result.
type SourceTranscriptUpdate struct {
	Segments []Segment
}

// TargetTranscriptUpdate carries new segments for one target language.
type TargetTranscriptUpdate struct {
	Language string
	Segments []Segment
}

// EndOfSourceTranscript signals the source transcript is complete.
type EndOfSourceTranscript struct{}

// EndOfTargetTranscript signals the transcript for one target language is
// complete.
type EndOfTargetTranscript struct {
	Language string
}

// EndOfStream signals the server will send nothing further; a close follows.
type EndOfStream struct{}

// ErrorEvent is an explicit protocol-level error frame.
type ErrorEvent struct {
	RequestType string
	ErrorCode   int
	ReasonCode  int
	Message     string
}

// Disconnect reports that the connection is gone. Err is nil on a normal
// close and carries the socket error otherwise. It is the last event a
// connection delivers.
type Disconnect struct {
	Err error
}

func (SourceTranscriptUpdate) event() {}
func (TargetTranscriptUpdate) event() {}
func (EndOfSourceTranscript) event()  {}
func (EndOfTargetTranscript) event()  {}
func (EndOfStream) event()            {}
func (ErrorEvent) event()             {}
func (Disconnect) event()             {}
