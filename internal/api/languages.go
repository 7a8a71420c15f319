package api

import (
	"context"
	"net/url"
)

// Language is one entry of the supported-language listing.
type Language struct {
	Code              string `json:"language"`
	Name              string `json:"name"`
	SupportsFormality bool   `json:"supports_formality"`
}

// SourceLanguages lists the languages accepted as translation input.
func (c *Client) SourceLanguages(ctx context.Context) ([]Language, error) {
	return c.languages(ctx, "source")
}

// TargetLanguages lists the languages available as translation output.
func (c *Client) TargetLanguages(ctx context.Context) ([]Language, error) {
	return c.languages(ctx, "target")
}

func (c *Client) languages(ctx context.Context, kind string) ([]Language, error) {
	var out []Language
	q := url.Values{"type": {kind}}
	if err := c.get(ctx, "/v2/languages", q, &out); err != nil {
		return nil, err
	}
	return out, nil
}
