package cart

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var ErrMalformed = errors.New("cart: malformed encoding")

type envelope struct {
	Version   int64      `json:"version"`
	UpdatedAt time.Time  `json:"updatedAt"`
	Lines     []CartLine `json:"lines"`
}

// Encode renders c in its canonical text form.
func Encode(c Cart) (string, error) {
	lines := c.Lines
	if lines == nil {
		lines = []CartLine{}
	}
	b, err := json.Marshal(envelope{Version: c.Version, UpdatedAt: c.UpdatedAt.UTC(), Lines: lines})
	if err != nil {
		return "", fmt.Errorf("cart: encode: %w", err)
	}
	return string(b), nil
}

// Decode parses the canonical form. A bare JSON array of lines (the legacy
// local-storage shape) is accepted too. Lines are normalized on the way in.
func Decode(s string) (Cart, error) {
	raw := bytes.TrimSpace([]byte(s))
	if len(raw) == 0 {
		return Cart{}, ErrMalformed
	}

	if raw[0] == '[' {
		var lines []CartLine
		if err := json.Unmarshal(raw, &lines); err != nil {
			return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Cart{Lines: Normalize(lines)}, nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if env.Version < 0 {
		return Cart{}, fmt.Errorf("%w: negative version", ErrMalformed)
	}
	return Cart{
		Lines:     Normalize(env.Lines),
		Version:   env.Version,
		UpdatedAt: env.UpdatedAt,
	}, nil
}
