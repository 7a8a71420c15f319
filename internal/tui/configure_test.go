package tui

import (
	"strings"
	"testing"

	"github.com/evalieri/translive/internal/config"
)

func TestCredentialLabelReflectsKeyState(t *testing.T) {
	t.Setenv("DEEPL_AUTH_KEY", "")

	cfg := config.DefaultConfig()
	if got := credentialLabel(cfg); !strings.Contains(got, "not set") {
		t.Errorf("label without key = %q, want it to mention 'not set'", got)
	}

	cfg.Auth.APIKey = "key"
	if got := credentialLabel(cfg); !strings.Contains(got, "configured") {
		t.Errorf("label with key = %q, want it to mention 'configured'", got)
	}
}

func TestVoiceLabelShowsLanguages(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Voice.SourceLang = "es"
	cfg.Voice.TargetLangs = []string{"de", "fr"}

	got := voiceLabel(cfg)
	for _, want := range []string{"Spanish", "de", "fr"} {
		if !strings.Contains(got, want) {
			t.Errorf("voice label = %q, missing %q", got, want)
		}
	}
}
