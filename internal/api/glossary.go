package api

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Glossary is a named set of fixed term translations between one language
// pair.
type Glossary struct {
	ID           string    `json:"glossary_id"`
	Name         string    `json:"name"`
	Ready        bool      `json:"ready"`
	SourceLang   string    `json:"source_lang"`
	TargetLang   string    `json:"target_lang"`
	CreationTime time.Time `json:"creation_time"`
	EntryCount   int       `json:"entry_count"`
}

type createGlossaryRequest struct {
	Name          string `json:"name"`
	SourceLang    string `json:"source_lang"`
	TargetLang    string `json:"target_lang"`
	Entries       string `json:"entries"`
	EntriesFormat string `json:"entries_format"`
}

// CreateGlossary registers a glossary from source→target term pairs. Entries
// are uploaded in DeepL's tab-separated format.
func (c *Client) CreateGlossary(ctx context.Context, name, sourceLang, targetLang string, entries map[string]string) (Glossary, error) {
	if name == "" {
		return Glossary{}, fmt.Errorf("api: glossary name is required")
	}
	if sourceLang == "" || targetLang == "" {
		return Glossary{}, fmt.Errorf("api: glossary language pair is required")
	}
	if len(entries) == 0 {
		return Glossary{}, fmt.Errorf("api: glossary needs at least one entry")
	}

	var sb strings.Builder
	for src, dst := range entries {
		sb.WriteString(src)
		sb.WriteByte('\t')
		sb.WriteString(dst)
		sb.WriteByte('\n')
	}

	var out Glossary
	err := c.postJSON(ctx, "/v2/glossaries", createGlossaryRequest{
		Name:          name,
		SourceLang:    sourceLang,
		TargetLang:    targetLang,
		Entries:       sb.String(),
		EntriesFormat: "tsv",
	}, &out)
	if err != nil {
		return Glossary{}, err
	}
	return out, nil
}

// ListGlossaries returns all glossaries registered on the account.
func (c *Client) ListGlossaries(ctx context.Context) ([]Glossary, error) {
	var out struct {
		Glossaries []Glossary `json:"glossaries"`
	}
	if err := c.get(ctx, "/v2/glossaries", nil, &out); err != nil {
		return nil, err
	}
	return out.Glossaries, nil
}

// DeleteGlossary removes a glossary by id.
func (c *Client) DeleteGlossary(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("api: glossary id is required")
	}
	return c.delete(ctx, "/v2/glossaries/"+url.PathEscape(id))
}
