package voice

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// sendHighWater is the flow-control threshold: once this many bytes sit
	// in the outbound queue, SendAudioChunk starts reporting congestion.
	sendHighWater = 256 << 10

	sendQueueLen   = 256
	eventBufferLen = 64
)

// Conn owns one streaming WebSocket. A writer goroutine drains the outbound
// queue and a reader goroutine parses inbound frames into Events. At most
// one Conn is active per session; a superseded Conn is closed before its
// replacement takes over.
type Conn struct {
	ws *websocket.Conn

	events chan Event
	sendCh chan []byte
	queued atomic.Int64

	done      chan struct{}
	closeOnce sync.Once
	endOnce   sync.Once
	wg        sync.WaitGroup
}

func newConn(ws *websocket.Conn) *Conn {
	c := &Conn{
		ws:     ws,
		events: make(chan Event, eventBufferLen),
		sendCh: make(chan []byte, sendQueueLen),
		done:   make(chan struct{}),
	}
	c.wg.Add(2)
	go c.writeLoop()
	go c.readLoop()
	return c
}

// Events delivers parsed server events in arrival order. The channel closes
// after a final Disconnect event.
func (c *Conn) Events() <-chan Event {
	return c.events
}

// SendAudioChunk enqueues one audio chunk. The boolean is a flow-control
// signal, not a delivery receipt: it reports whether the outbound queue is
// still below the high-water mark after enqueueing. The chunk is always
// accepted while the connection is open.
func (c *Conn) SendAudioChunk(data []byte) (bool, error) {
	frame, err := encodeAudioChunk(data)
	if err != nil {
		return false, err
	}
	n := int64(len(frame))
	total := c.queued.Add(n)
	select {
	case c.sendCh <- frame:
		return total < sendHighWater, nil
	case <-c.done:
		c.queued.Add(-n)
		return false, ErrConnectionClosed
	}
}

// SendEndOfSource tells the server no more audio will arrive. It sends at
// most once per connection and is silently ignored once the connection is
// closed.
func (c *Conn) SendEndOfSource() error {
	c.endOnce.Do(func() {
		c.queued.Add(int64(len(endOfSourceFrame)))
		select {
		case c.sendCh <- endOfSourceFrame:
		case <-c.done:
			c.queued.Add(-int64(len(endOfSourceFrame)))
		}
	})
	return nil
}

// Close tears the socket down. Safe to call multiple times and concurrently
// with sends; pending events drain and the Events channel closes.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)
		deadline := time.Now().Add(time.Second)
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		_ = c.ws.Close()
	})
	return nil
}

func (c *Conn) closed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Conn) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case frame := <-c.sendCh:
			err := c.ws.WriteMessage(websocket.TextMessage, frame)
			c.queued.Add(-int64(len(frame)))
			if err != nil {
				// The reader surfaces the failure as a Disconnect.
				c.Close()
				return
			}
		case <-c.done:
			return
		}
	}
}

func (c *Conn) readLoop() {
	defer c.wg.Done()
	defer close(c.events)

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			var dis Disconnect
			if !isNormalClose(err) && !c.closed() {
				dis.Err = err
			}
			select {
			case c.events <- dis:
			case <-c.done:
			}
			c.Close()
			return
		}

		ev, ok := parseServerFrame(data)
		if !ok {
			continue
		}
		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func isNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
