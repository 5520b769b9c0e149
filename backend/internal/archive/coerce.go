package archive

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Exports are loosely typed: optional fields may hold any JSON value, and a
// field only counts when its value is truthy. These helpers apply those rules
// to raw values.

// truthy reports whether a raw JSON value counts as set. null, false, 0 and
// "" do not; every object and array does.
func truthy(raw json.RawMessage) bool {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return false
	}
	switch v[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		return json.Unmarshal(v, &s) == nil && s != ""
	default:
		f, err := strconv.ParseFloat(string(v), 64)
		return err == nil && f != 0
	}
}

// textOf renders a raw JSON value as display text. Objects become
// "[object Object]" and arrays join their elements with commas, nulls
// rendering as empty.
func textOf(raw json.RawMessage) string {
	v := bytes.TrimSpace(raw)
	if len(v) == 0 {
		return ""
	}
	switch v[0] {
	case 'n':
		return "null"
	case '"':
		var s string
		_ = json.Unmarshal(v, &s)
		return s
	case '{':
		return "[object Object]"
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(v, &elems); err != nil {
			return ""
		}
		out := make([]string, len(elems))
		for i, e := range elems {
			if bytes.Equal(bytes.TrimSpace(e), []byte("null")) {
				continue
			}
			out[i] = textOf(e)
		}
		return strings.Join(out, ",")
	default:
		return string(v)
	}
}
