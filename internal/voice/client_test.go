package voice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestNewRequiresAuthKey(t *testing.T) {
	if _, err := New(""); err == nil {
		t.Fatal("New with empty key succeeded, want error")
	}
}

func TestCreateSessionRequest(t *testing.T) {
	var gotAuth, gotContentType string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v3/voice/realtime" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"streaming_url": "wss://voice.deepl.com/stream",
			"token":         "tok",
			"session_id":    "sess",
		})
	}))
	defer srv.Close()

	c, err := New("my-key", WithBaseURL(srv.URL))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	desc, err := c.CreateSession(context.Background(), CreateSessionRequest{
		TargetLangs: []string{"de", "fr"},
		MediaType:   DefaultMediaType,
		SourceLang:  AutoDetect,
		GlossaryID:  "gl-1",
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if desc.StreamingURL != "wss://voice.deepl.com/stream" || desc.Token != "tok" || desc.SessionID != "sess" {
		t.Errorf("descriptor = %+v", desc)
	}
	if gotAuth != "DeepL-Auth-Key my-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %q", gotContentType)
	}
	if _, present := gotBody["source_language"]; present {
		t.Error("auto-detect source language was sent on the wire")
	}
	if gotBody["source_media_content_type"] != DefaultMediaType {
		t.Errorf("media type = %v", gotBody["source_media_content_type"])
	}
	if gotBody["glossary_id"] != "gl-1" {
		t.Errorf("glossary id = %v", gotBody["glossary_id"])
	}
	langs, _ := gotBody["target_languages"].([]any)
	if len(langs) != 2 || langs[0] != "de" || langs[1] != "fr" {
		t.Errorf("target languages = %v", gotBody["target_languages"])
	}
}

func TestCreateSessionStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "forbidden maps to streaming not permitted",
			status: http.StatusForbidden,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrStreamingNotPermitted) {
					t.Errorf("err = %v, want ErrStreamingNotPermitted", err)
				}
			},
		},
		{
			name:   "bad request maps to validation error with server message",
			status: http.StatusBadRequest,
			body:   `{"message":"unsupported target language"}`,
			check: func(t *testing.T, err error) {
				var verr *ValidationError
				if !errors.As(err, &verr) {
					t.Fatalf("err = %v, want *ValidationError", err)
				}
				if verr.Message != "unsupported target language" {
					t.Errorf("message = %q", verr.Message)
				}
			},
		},
		{
			name:   "server error maps to request error",
			status: http.StatusInternalServerError,
			check: func(t *testing.T, err error) {
				var rerr *RequestError
				if !errors.As(err, &rerr) {
					t.Fatalf("err = %v, want *RequestError", err)
				}
				if rerr.StatusCode != http.StatusInternalServerError {
					t.Errorf("status = %d", rerr.StatusCode)
				}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			c, _ := New("key", WithBaseURL(srv.URL))
			_, err := c.CreateSession(context.Background(), CreateSessionRequest{
				TargetLangs: []string{"de"},
				MediaType:   DefaultMediaType,
			})
			if err == nil {
				t.Fatal("CreateSession succeeded, want error")
			}
			tc.check(t, err)
		})
	}
}

func TestCreateSessionValidatesInput(t *testing.T) {
	c, _ := New("key")

	_, err := c.CreateSession(context.Background(), CreateSessionRequest{MediaType: DefaultMediaType})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Errorf("missing targets: err = %v, want *ValidationError", err)
	}

	_, err = c.CreateSession(context.Background(), CreateSessionRequest{TargetLangs: []string{"de"}})
	if !errors.As(err, &verr) {
		t.Errorf("missing media type: err = %v, want *ValidationError", err)
	}
}

func TestReconnectSession(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		gotToken = r.URL.Query().Get("token")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"streaming_url": "wss://voice.deepl.com/stream",
			"token":         "fresh",
		})
	}))
	defer srv.Close()

	c, _ := New("key", WithBaseURL(srv.URL))
	desc, err := c.ReconnectSession(context.Background(), "stale token")
	if err != nil {
		t.Fatalf("ReconnectSession: %v", err)
	}
	if gotToken != "stale token" {
		t.Errorf("token query = %q", gotToken)
	}
	if desc.Token != "fresh" {
		t.Errorf("token = %q, want fresh", desc.Token)
	}

	var verr *ValidationError
	if _, err := c.ReconnectSession(context.Background(), ""); !errors.As(err, &verr) {
		t.Errorf("empty token: err = %v, want *ValidationError", err)
	}
}

func TestDialRejectsUntrustedURLs(t *testing.T) {
	c, _ := New("key")
	cases := []struct {
		name string
		url  string
	}{
		{"plain websocket scheme", "ws://voice.deepl.com/stream"},
		{"https scheme", "https://voice.deepl.com/stream"},
		{"foreign host", "wss://evil.example.com/stream"},
		{"lookalike suffix", "wss://notdeepl.com/stream"},
		{"trusted domain embedded in foreign host", "wss://deepl.com.evil.example/stream"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := c.Dial(context.Background(), SessionDescriptor{StreamingURL: tc.url, Token: "t"})
			var uerr *URLError
			if !errors.As(err, &uerr) {
				t.Fatalf("Dial(%q) error = %v, want *URLError", tc.url, err)
			}
		})
	}
}

func TestValidateStreamingURLAcceptsTrustedHosts(t *testing.T) {
	c, _ := New("key")
	for _, raw := range []string{
		"wss://deepl.com/stream",
		"wss://voice.deepl.com/stream",
		"wss://eu.voice.deepl.com/stream",
	} {
		u, err := url.Parse(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if err := c.validateStreamingURL(u); err != nil {
			t.Errorf("validateStreamingURL(%q) = %v, want nil", raw, err)
		}
	}
}
