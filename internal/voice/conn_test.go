package voice

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func newStreamServer(t *testing.T, handle func(ws *websocket.Conn)) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := testUpgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		handle(ws)
	}))
	t.Cleanup(srv.Close)
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dialConn(t *testing.T, url string) *Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return newConn(ws)
}

func nextEvent(t *testing.T, c *Conn) (Event, bool) {
	t.Helper()
	select {
	case ev, ok := <-c.Events():
		return ev, ok
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return nil, false
	}
}

func TestConnSendsEncodedFramesAndEndOfSourceOnce(t *testing.T) {
	frames := make(chan []byte, 8)
	url := newStreamServer(t, func(ws *websocket.Conn) {
		for {
			_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
			_, data, err := ws.ReadMessage()
			if err != nil {
				close(frames)
				return
			}
			frames <- data
		}
	})

	c := dialConn(t, url)
	defer c.Close()

	if _, err := c.SendAudioChunk([]byte("hello")); err != nil {
		t.Fatalf("SendAudioChunk: %v", err)
	}
	if err := c.SendEndOfSource(); err != nil {
		t.Fatalf("SendEndOfSource: %v", err)
	}
	// The second call must not emit another sentinel frame.
	if err := c.SendEndOfSource(); err != nil {
		t.Fatalf("SendEndOfSource again: %v", err)
	}

	readFrame := func() []byte {
		select {
		case f := <-frames:
			return f
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for frame")
			return nil
		}
	}
	got := [][]byte{readFrame(), readFrame()}
	c.Close()

	select {
	case f, open := <-frames:
		if open {
			t.Fatalf("unexpected extra frame: %s", f)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server never saw the connection close")
	}

	var chunk struct {
		SourceMediaChunk struct {
			Data string `json:"data"`
		} `json:"source_media_chunk"`
	}
	if err := json.Unmarshal(got[0], &chunk); err != nil {
		t.Fatalf("decode chunk frame: %v", err)
	}
	raw, err := base64.StdEncoding.DecodeString(chunk.SourceMediaChunk.Data)
	if err != nil || string(raw) != "hello" {
		t.Errorf("chunk payload = %q (err %v), want hello", raw, err)
	}
	if string(got[1]) != `{"end_of_source_media":{}}` {
		t.Errorf("sentinel frame = %s", got[1])
	}
}

func TestConnSendAudioChunkSignalsCongestion(t *testing.T) {
	url := newStreamServer(t, func(ws *websocket.Conn) {
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
		}
	})

	c := dialConn(t, url)
	defer c.Close()

	below, err := c.SendAudioChunk([]byte("tiny"))
	if err != nil {
		t.Fatalf("SendAudioChunk: %v", err)
	}
	if !below {
		t.Error("near-empty queue reported as congested")
	}

	// Base64 encoding makes the frame larger than the raw chunk, so this
	// single chunk puts the queue at the high-water mark by itself.
	below, err = c.SendAudioChunk(make([]byte, sendHighWater))
	if err != nil {
		t.Fatalf("SendAudioChunk: %v", err)
	}
	if below {
		t.Error("queue at high-water mark still reported as below it")
	}
}

func TestConnSendAfterCloseFails(t *testing.T) {
	url := newStreamServer(t, func(ws *websocket.Conn) {
		_, _, _ = ws.ReadMessage()
		_ = ws.Close()
	})

	c := dialConn(t, url)
	c.Close()

	if _, err := c.SendAudioChunk([]byte("x")); !errors.Is(err, ErrConnectionClosed) {
		t.Fatalf("SendAudioChunk error = %v, want ErrConnectionClosed", err)
	}
	if err := c.SendEndOfSource(); err != nil {
		t.Fatalf("SendEndOfSource after close = %v, want nil", err)
	}
}

func TestConnNormalCloseYieldsCleanDisconnect(t *testing.T) {
	url := newStreamServer(t, func(ws *websocket.Conn) {
		writeFrames(ws, `{"end_of_stream":{}}`)
		closeNormal(ws)
	})

	c := dialConn(t, url)
	defer c.Close()

	ev, _ := nextEvent(t, c)
	if _, ok := ev.(EndOfStream); !ok {
		t.Fatalf("first event = %T, want EndOfStream", ev)
	}
	ev, _ = nextEvent(t, c)
	dis, ok := ev.(Disconnect)
	if !ok {
		t.Fatalf("second event = %T, want Disconnect", ev)
	}
	if dis.Err != nil {
		t.Errorf("clean close carried error: %v", dis.Err)
	}
	if _, open := nextEvent(t, c); open {
		t.Error("events channel still open after Disconnect")
	}
}

func TestConnAbruptCloseYieldsDisconnectError(t *testing.T) {
	url := newStreamServer(t, func(ws *websocket.Conn) {
		_ = ws.Close()
	})

	c := dialConn(t, url)
	defer c.Close()

	ev, _ := nextEvent(t, c)
	dis, ok := ev.(Disconnect)
	if !ok {
		t.Fatalf("event = %T, want Disconnect", ev)
	}
	if dis.Err == nil {
		t.Error("abrupt close carried no error")
	}
}

func TestConnIgnoresMalformedFrames(t *testing.T) {
	url := newStreamServer(t, func(ws *websocket.Conn) {
		writeFrames(ws,
			`garbage`,
			`{"unknown_key":{}}`,
			`{"end_of_stream":{}}`,
		)
		closeNormal(ws)
	})

	c := dialConn(t, url)
	defer c.Close()

	ev, _ := nextEvent(t, c)
	if _, ok := ev.(EndOfStream); !ok {
		t.Fatalf("event = %T, want EndOfStream (malformed frames skipped)", ev)
	}
}
