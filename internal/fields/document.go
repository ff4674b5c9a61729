package fields

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// DecodeDocument parses a JSON body into a plain nested value made of
// map[string]any, []any, string, bool, int64, float64 and nil.
// Integral numbers become int64 so that a status code reads as 200, not 200.0.
func DecodeDocument(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	// Reject trailing garbage such as "{}<html>".
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("unexpected data after JSON value")
	}
	return normalizeNumbers(doc), nil
}

func normalizeNumbers(v any) any {
	switch node := v.(type) {
	case map[string]any:
		for k, child := range node {
			node[k] = normalizeNumbers(child)
		}
		return node
	case []any:
		for i, child := range node {
			node[i] = normalizeNumbers(child)
		}
		return node
	case json.Number:
		if i, err := node.Int64(); err == nil {
			return i
		}
		if f, err := node.Float64(); err == nil {
			return f
		}
		return node.String()
	default:
		return v
	}
}
