package api

import (
	"context"
	"fmt"
)

// TranslateRequest carries one text translation call. TargetLang is required;
// an empty SourceLang lets the service detect the language.
type TranslateRequest struct {
	Text       []string `json:"text"`
	TargetLang string   `json:"target_lang"`
	SourceLang string   `json:"source_lang,omitempty"`
	Formality  string   `json:"formality,omitempty"`
	GlossaryID string   `json:"glossary_id,omitempty"`
}

// Translation is one translated text with the language the service detected.
type Translation struct {
	DetectedSourceLang string `json:"detected_source_language"`
	Text               string `json:"text"`
}

// TranslateText translates one or more texts in a single call. The result
// has one Translation per input text, in order.
func (c *Client) TranslateText(ctx context.Context, req TranslateRequest) ([]Translation, error) {
	if len(req.Text) == 0 {
		return nil, fmt.Errorf("api: nothing to translate")
	}
	if req.TargetLang == "" {
		return nil, fmt.Errorf("api: target language is required")
	}

	var out struct {
		Translations []Translation `json:"translations"`
	}
	if err := c.postJSON(ctx, "/v2/translate", req, &out); err != nil {
		return nil, err
	}
	if len(out.Translations) != len(req.Text) {
		return nil, fmt.Errorf("api: got %d translations for %d texts", len(out.Translations), len(req.Text))
	}
	return out.Translations, nil
}
