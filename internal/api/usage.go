package api

import "context"

// Usage reports the account's character consumption for the current period.
type Usage struct {
	CharacterCount int64 `json:"character_count"`
	CharacterLimit int64 `json:"character_limit"`
}

// Exhausted reports whether the character quota is used up.
func (u Usage) Exhausted() bool {
	return u.CharacterLimit > 0 && u.CharacterCount >= u.CharacterLimit
}

// Usage fetches the account's quota consumption.
func (c *Client) Usage(ctx context.Context) (Usage, error) {
	var out Usage
	if err := c.get(ctx, "/v2/usage", nil, &out); err != nil {
		return Usage{}, err
	}
	return out, nil
}
