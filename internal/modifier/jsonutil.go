package modifier

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// decodeObject parses content as a JSON object. Empty content yields an
// empty object so modifiers can target freshly created files.
func decodeObject(content []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(content)) == 0 {
		return map[string]any{}, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, fmt.Errorf("content is not a JSON object: %w", err)
	}
	return doc, nil
}

// encodeObject serializes a document with two-space indentation and a
// trailing newline. encoding/json sorts object keys, so repeated encodings
// of equal documents are byte-identical; that property is what makes the
// merge modifiers idempotent at the file level.
func encodeObject(doc map[string]any) ([]byte, error) {
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// subObject returns doc[key] as an object, creating it when absent.
func subObject(doc map[string]any, key string) (map[string]any, error) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		sub := map[string]any{}
		doc[key] = sub
		return sub, nil
	}
	sub, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("field %q is not an object", key)
	}
	return sub, nil
}
