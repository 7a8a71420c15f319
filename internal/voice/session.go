package voice

import (
	"context"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// flowControlPause is how long the sender backs off when the outbound queue
// crosses the high-water mark. Bounded so the sender never busy-loops and
// buffered audio cannot grow without limit.
const flowControlPause = 50 * time.Millisecond

// Session owns the lifecycle of one realtime voice translation: it drives a
// caller-supplied chunk producer, accumulates server transcripts, survives
// unexpected disconnects via token-based reconnection, and resolves exactly
// once with a SessionResult or a terminal error.
type Session struct {
	client *Client
	opts   StreamOptions
	cb     Callbacks

	mu        sync.Mutex
	conn      *Conn // active connection slot; swapped atomically on reconnect
	swapCh    chan struct{}
	desc      SessionDescriptor
	cancelled bool
	endSent   bool
	started   bool

	done     chan struct{}
	termOnce sync.Once

	// Accumulators are mutated only by the event goroutine.
	source  *accumulator
	targets []*accumulator
	byLang  map[string]*accumulator
}

// NewSession prepares a session. Run starts it; a Session is single-use.
func NewSession(client *Client, opts StreamOptions, cb Callbacks) *Session {
	if opts.MediaType == "" {
		opts.MediaType = DefaultMediaType
	}
	s := &Session{
		client: client,
		opts:   opts,
		cb:     cb,
		swapCh: make(chan struct{}),
		done:   make(chan struct{}),
		source: newAccumulator(opts.SourceLang),
		byLang: make(map[string]*accumulator, len(opts.TargetLangs)),
	}
	for _, lang := range opts.TargetLangs {
		acc := newAccumulator(lang)
		s.targets = append(s.targets, acc)
		s.byLang[lang] = acc
	}
	return s
}

// Run uploads the producer's chunks and blocks until the server signals end
// of stream, a terminal error occurs, or the producer fails. On success the
// result carries the source transcript plus one target transcript per
// requested language, in request order.
func (s *Session) Run(ctx context.Context, source ChunkSource) (*SessionResult, error) {
	if source == nil {
		return nil, &ValidationError{Message: "chunk source must not be nil"}
	}
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil, errors.New("voice: session already started")
	}
	s.started = true
	s.mu.Unlock()

	if len(s.opts.TargetLangs) == 0 {
		s.terminate()
		return nil, &ValidationError{Message: "at least one target language is required"}
	}

	desc, err := s.client.CreateSession(ctx, CreateSessionRequest{
		TargetLangs: s.opts.TargetLangs,
		MediaType:   s.opts.MediaType,
		SourceLang:  s.opts.SourceLang,
		Formality:   s.opts.Formality,
		GlossaryID:  s.opts.GlossaryID,
	})
	if err != nil {
		s.terminate()
		return nil, err
	}

	conn, err := s.client.Dial(ctx, desc)
	if err != nil {
		s.terminate()
		return nil, err
	}
	s.install(desc, conn)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.sendLoop(gctx, source)
	})
	g.Go(func() error {
		defer s.terminate()
		return s.eventLoop(gctx)
	})
	err = g.Wait()
	s.terminate()
	s.closeActive()
	if err != nil {
		return nil, err
	}

	result := &SessionResult{
		SessionID: s.sessionID(),
		Source:    s.source.transcript(),
	}
	for _, acc := range s.targets {
		result.Targets = append(result.Targets, acc.transcript())
	}
	return result, nil
}

// Cancel asks the server for a graceful early stop by sending the
// end-of-source sentinel on the active connection. It does not resolve the
// in-flight Run: the server's end_of_stream (or the following close) still
// drives completion. Calling Cancel after the session resolved is a no-op.
func (s *Session) Cancel() {
	select {
	case <-s.done:
		return
	default:
	}
	s.mu.Lock()
	if s.cancelled {
		s.mu.Unlock()
		return
	}
	s.cancelled = true
	s.mu.Unlock()
	s.sendEndOfSource()
	log.Debug().Msg("voice: cancel requested, end of source sent")
}

// sendLoop pulls chunks from the producer one at a time and forwards them
// with pacing and flow-control backoff. Producer errors abort the session
// as-is; they originate outside this subsystem and are not wrapped.
func (s *Session) sendLoop(ctx context.Context, source ChunkSource) error {
	// Unblock a pending Next once the session reaches a terminal state.
	pullCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go func() {
		select {
		case <-s.done:
			cancel()
		case <-pullCtx.Done():
		}
	}()

	for {
		if s.isCancelled() || s.terminated() {
			return nil
		}
		chunk, err := source.Next(pullCtx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.sendEndOfSource()
				return nil
			}
			if s.terminated() {
				return nil
			}
			return err
		}
		s.dispatchChunk(ctx, chunk)
	}
}

// dispatchChunk sends one chunk on the active connection. If the connection
// died underneath the send, the chunk is dropped (audio consumed from the
// producer is never retransmitted) and the sender waits for the replacement
// connection before pulling the next chunk.
func (s *Session) dispatchChunk(ctx context.Context, chunk []byte) {
	conn, swapped := s.activeConn()
	if conn == nil {
		return
	}
	below, err := conn.SendAudioChunk(chunk)
	if err != nil {
		select {
		case <-swapped:
		case <-s.done:
		case <-ctx.Done():
		}
		return
	}
	if !below {
		s.pause(ctx, flowControlPause)
	}
	s.pause(ctx, s.opts.PaceInterval)
}

// eventLoop is the session's single event-processing path. It consumes the
// active connection's events in arrival order and owns every state
// transition. A superseded connection is never read again after the swap.
func (s *Session) eventLoop(ctx context.Context) error {
	attempts := 0
	eosSeen := false

	for {
		conn, _ := s.activeConn()
		select {
		case <-ctx.Done():
			conn.Close()
			return ctx.Err()

		case ev, ok := <-conn.Events():
			if !ok {
				ev = Disconnect{}
			}
			switch ev := ev.(type) {
			case SourceTranscriptUpdate:
				s.source.add(ev.Segments)
				if s.cb.OnSourceTranscript != nil {
					s.cb.OnSourceTranscript(ev)
				}

			case TargetTranscriptUpdate:
				if acc, tracked := s.byLang[ev.Language]; tracked {
					acc.add(ev.Segments)
				}
				if s.cb.OnTargetTranscript != nil {
					s.cb.OnTargetTranscript(ev)
				}

			case EndOfSourceTranscript:
				s.source.freeze()
				if s.cb.OnEndOfSourceTranscript != nil {
					s.cb.OnEndOfSourceTranscript()
				}

			case EndOfTargetTranscript:
				if acc, tracked := s.byLang[ev.Language]; tracked {
					acc.freeze()
				}
				if s.cb.OnEndOfTargetTranscript != nil {
					s.cb.OnEndOfTargetTranscript(ev.Language)
				}

			case EndOfStream:
				eosSeen = true
				if s.cb.OnEndOfStream != nil {
					s.cb.OnEndOfStream()
				}
				// The server is done; close our side and let the
				// Disconnect that follows complete the session.
				conn.Close()

			case ErrorEvent:
				if s.cb.OnError != nil {
					s.cb.OnError(ev)
				}
				conn.Close()
				return &ProtocolError{
					RequestType: ev.RequestType,
					ErrorCode:   ev.ErrorCode,
					ReasonCode:  ev.ReasonCode,
					Message:     ev.Message,
				}

			case Disconnect:
				if eosSeen || s.isCancelled() {
					return nil
				}
				if !s.opts.Reconnect || attempts >= s.opts.MaxReconnectAttempts {
					if ev.Err != nil {
						log.Debug().Err(ev.Err).Msg("voice: connection lost")
					}
					return ErrClosedUnexpectedly
				}
				attempts++
				log.Info().Int("attempt", attempts).Msg("voice: reconnecting after unexpected close")
				if s.cb.OnReconnect != nil {
					s.cb.OnReconnect(attempts)
				}
				desc, err := s.client.ReconnectSession(ctx, s.token())
				if err != nil {
					return err
				}
				next, err := s.client.Dial(ctx, desc)
				if err != nil {
					return err
				}
				s.install(desc, next)
			}
		}
	}
}

// install makes conn the active connection. The previous swap channel is
// closed so a sender blocked on a dead connection picks the new one up.
// If the producer already finished, the sentinel is repeated on the fresh
// connection so the server still learns that no more audio is coming.
func (s *Session) install(desc SessionDescriptor, conn *Conn) {
	s.mu.Lock()
	if desc.SessionID == "" {
		desc.SessionID = s.desc.SessionID
	}
	s.desc = desc
	s.conn = conn
	prev := s.swapCh
	s.swapCh = make(chan struct{})
	resend := s.endSent
	s.mu.Unlock()

	close(prev)
	if resend {
		conn.SendEndOfSource()
	}
}

func (s *Session) activeConn() (*Conn, chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn, s.swapCh
}

func (s *Session) closeActive() {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.Close()
	}
}

func (s *Session) sendEndOfSource() {
	s.mu.Lock()
	if s.endSent {
		s.mu.Unlock()
		return
	}
	s.endSent = true
	conn := s.conn
	s.mu.Unlock()
	if conn != nil {
		conn.SendEndOfSource()
	}
}

func (s *Session) token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc.Token
}

func (s *Session) sessionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.desc.SessionID
}

func (s *Session) isCancelled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancelled
}

func (s *Session) terminate() {
	s.termOnce.Do(func() { close(s.done) })
}

func (s *Session) terminated() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *Session) pause(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	case <-s.done:
	}
}
