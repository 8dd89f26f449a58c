package responses

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/formbase/formbase/pkg/fb/apperr"
)

var ErrInvalidValues = apperr.New(apperr.Validation, "Submission body must be a JSON object")

// DecodeValues reads a JSON object of field values keeping the document's key
// order. A repeated key keeps its first position and its last value.
//
// Values are stored as text in this form:
//
//	null            ""
//	"text"          text
//	42, 1.50, true  the JSON literal as written: 42, 1.50, true
//	["a", "b"]      compact JSON: ["a","b"]
//	{"k": 1}        compact JSON: {"k":1}
func DecodeValues(r io.Reader) ([]FieldValue, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, ErrInvalidValues
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, ErrInvalidValues
	}

	var values []FieldValue
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, ErrInvalidValues
		}
		key, ok := tok.(string)
		if !ok {
			return nil, ErrInvalidValues
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, ErrInvalidValues
		}
		value, err := coerce(raw)
		if err != nil {
			return nil, ErrInvalidValues
		}

		if i, seen := index[key]; seen {
			values[i].Value = value
			continue
		}
		index[key] = len(values)
		values = append(values, FieldValue{Key: key, Value: value})
	}

	if _, err := dec.Token(); err != nil {
		return nil, ErrInvalidValues
	}
	return values, nil
}

// coerce renders a JSON value as stored text: null is empty, strings are
// unquoted, numbers and booleans keep their literal and composites are
// compacted JSON.
func coerce(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", nil
	}

	switch raw[0] {
	case 'n':
		return "", nil
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		return string(raw), nil
	}
}
