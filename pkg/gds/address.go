package gds

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// AddressLines accepts either a JSON string or an array of strings and always
// encodes as an array. Older clients send a single street line as a string.
type AddressLines []string

func (l *AddressLines) UnmarshalJSON(raw []byte) error {
	lines, err := NormalizeAddressLines(raw)
	if err != nil {
		return err
	}
	*l = lines
	return nil
}

// NormalizeAddressLines coerces a raw "lines" value into an array. A string
// becomes a one-element array; an array is kept exactly as sent; null
// yields nil.
func NormalizeAddressLines(raw json.RawMessage) (AddressLines, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	switch raw[0] {
	case '"':
		var single string
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("gds: decode address line: %w", err)
		}
		return AddressLines{single}, nil
	case '[':
		var many []string
		if err := json.Unmarshal(raw, &many); err != nil {
			return nil, fmt.Errorf("gds: decode address lines: %w", err)
		}
		return many, nil
	default:
		return nil, fmt.Errorf("gds: address lines must be a string or an array of strings")
	}
}
