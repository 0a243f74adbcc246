package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ChildNames is a replaceable child collection (technologies, tags) as it
// arrives over the wire. Both ["go"] and [{"technologyName": "go"}] decode.
type ChildNames []string

func (n *ChildNames) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("expected an array: %w", err)
	}

	names := make([]string, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '"' {
			var s string
			if err := json.Unmarshal(item, &s); err != nil {
				return err
			}
			names = append(names, s)
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal(item, &obj); err != nil {
			return fmt.Errorf("expected a string or object entry: %w", err)
		}
		for _, key := range []string{"technologyName", "tagName", "name"} {
			if s, ok := obj[key].(string); ok {
				names = append(names, s)
				break
			}
		}
	}

	*n = names
	return nil
}

// NormalizeNames trims entries, drops blanks and collapses case-insensitive
// duplicates keeping the first spelling.
func NormalizeNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// nullIfBlank maps "" (after trimming) to nil so optional columns are cleared.
func nullIfBlank(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
