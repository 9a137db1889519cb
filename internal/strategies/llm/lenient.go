package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/custodia-labs/verdict-cli/internal/core/domain"
)

// ExtractJSON pulls the JSON object out of a model reply. Code fences and
// any prose around the outermost braces are dropped.
func ExtractJSON(reply string) ([]byte, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```JSON")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", domain.ErrSchemaViolation)
	}
	return []byte(s[start : end+1]), nil
}

// DecodeFields reads a flat JSON object into raw fields, keeping key
// order. Nulls are skipped; numbers become text.
func DecodeFields(data []byte) (domain.RawFields, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode fields: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, fmt.Errorf("%w: expected JSON object", domain.ErrSchemaViolation)
	}

	out := domain.RawFields{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode fields: %w", err)
		}
		key, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		if string(raw) == "null" {
			continue
		}
		var v domain.FieldValue
		if err := json.Unmarshal(raw, &v); err != nil {
			return nil, fmt.Errorf("decode %s: %w", key, err)
		}
		out.Set(key, v)
	}
	return out, nil
}
