// Package archive validates a ChatGPT conversation export and decodes it into
// a closed set of types the extractor can walk without further shape checks.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"

	apperrors "chat-wordmap/backend/pkg/errors"
)

// Parse decodes a raw export. It returns ErrMalformedJSON when the data is not
// JSON, ErrInvalidFormat when the top level is not an array and ErrProcessing
// when nested values have shapes the export format does not allow.
func Parse(data []byte) ([]Conversation, error) {
	var probe json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, apperrors.NewMalformedJSON(err)
	}

	trimmed := bytes.TrimSpace(probe)
	if len(trimmed) == 0 {
		return nil, apperrors.NewInvalidFormat("null")
	}
	if trimmed[0] != '[' {
		return nil, apperrors.NewInvalidFormat(jsonKind(trimmed[0]))
	}

	var entries []*Conversation
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, apperrors.NewProcessing("decode", err)
	}

	conversations := make([]Conversation, 0, len(entries))
	for i, conv := range entries {
		if conv == nil {
			return nil, apperrors.NewProcessing("validate", fmt.Errorf("conversation %d is null", i))
		}
		for _, entry := range conv.Mapping.Entries() {
			if entry.Node == nil {
				return nil, apperrors.NewProcessing("validate",
					fmt.Errorf("conversation %d: mapping entry %q is null", i, entry.ID))
			}
		}
		conversations = append(conversations, *conv)
	}

	return conversations, nil
}

func jsonKind(first byte) string {
	switch first {
	case '{':
		return "object"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
