package archive

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// PartKind tags the shape of a single content part
type PartKind int

const (
	// PartUnknown is any part the extractor ignores
	PartUnknown PartKind = iota
	// PartText is a plain string part
	PartText
	// PartStructured is an object part carrying a truthy "text" field
	PartStructured
)

func (k PartKind) String() string {
	switch k {
	case PartText:
		return "text"
	case PartStructured:
		return "structured"
	default:
		return "unknown"
	}
}

// Part is one entry of message.content.parts
type Part struct {
	Kind PartKind
	Text string
}

// TextPart builds a plain string part
func TextPart(text string) Part {
	return Part{Kind: PartText, Text: text}
}

// StructuredPart builds an object part with a text field
func StructuredPart(text string) Part {
	return Part{Kind: PartStructured, Text: text}
}

// HasText reports whether the part contributes text
func (p Part) HasText() bool {
	return p.Kind == PartText || p.Kind == PartStructured
}

var errNullPart = errors.New("content part is null")

// UnmarshalJSON classifies a raw part. A string is a text part and an object
// with a truthy "text" is a structured part; other values are PartUnknown.
// A null part is an error.
func (p *Part) UnmarshalJSON(data []byte) error {
	*p = Part{Kind: PartUnknown}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case 'n':
		return errNullPart
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			*p = TextPart(s)
		}
	case '{':
		var obj struct {
			Text json.RawMessage `json:"text"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return nil
		}
		if truthy(obj.Text) {
			*p = StructuredPart(textOf(obj.Text))
		}
	}
	return nil
}

// Content holds the parts of a message
type Content struct {
	Parts []Part `json:"parts"`
}

// UnmarshalJSON accepts parts as an array. A falsy or string value means no
// parts, since a string only yields single-character tokens. Any other value
// is an error.
func (c *Content) UnmarshalJSON(data []byte) error {
	*c = Content{}

	var raw struct {
		Parts json.RawMessage `json:"parts"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if !truthy(raw.Parts) {
		return nil
	}

	parts := bytes.TrimSpace(raw.Parts)
	switch parts[0] {
	case '[':
		return json.Unmarshal(parts, &c.Parts)
	case '"':
		return nil
	default:
		return fmt.Errorf("content parts must be an array, got %s", parts)
	}
}

// Message is the payload of a mapping entry
type Message struct {
	Content *Content `json:"content"`
}

// UnmarshalJSON treats a content value other than an object as no content
func (m *Message) UnmarshalJSON(data []byte) error {
	*m = Message{}

	var raw struct {
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	content := bytes.TrimSpace(raw.Content)
	if len(content) == 0 || content[0] != '{' {
		return nil
	}

	m.Content = &Content{}
	return json.Unmarshal(content, m.Content)
}

// TextParts returns the parts that contribute text, in order
func (m *Message) TextParts() []Part {
	if m == nil || m.Content == nil {
		return nil
	}
	parts := make([]Part, 0, len(m.Content.Parts))
	for _, part := range m.Content.Parts {
		if part.HasText() {
			parts = append(parts, part)
		}
	}
	return parts
}

// MessageNode is one entry in a conversation mapping
type MessageNode struct {
	Message *Message `json:"message"`
}

// UnmarshalJSON keeps any truthy message. A message that is not an object
// still counts but carries no content. A node that is not an object has no
// message.
func (n *MessageNode) UnmarshalJSON(data []byte) error {
	*n = MessageNode{}

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var raw struct {
		Message json.RawMessage `json:"message"`
	}
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	if !truthy(raw.Message) {
		return nil
	}

	n.Message = &Message{}
	if msg := bytes.TrimSpace(raw.Message); msg[0] == '{' {
		return json.Unmarshal(msg, n.Message)
	}
	return nil
}

// MappingEntry pairs a message id with its node
type MappingEntry struct {
	ID   string
	Node *MessageNode
}

// Mapping is a conversation's message-id -> node object, kept in document order
type Mapping struct {
	present bool
	entries []MappingEntry
}

// NewMapping builds a mapping from entries in the given order
func NewMapping(entries ...MappingEntry) Mapping {
	return Mapping{present: true, entries: entries}
}

// UnmarshalJSON decodes the mapping object while keeping key order.
// A repeated key keeps its first position and its last value.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	*m = Mapping{}
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("mapping must be an object, got %v", tok)
	}

	seen := make(map[string]int)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var node *MessageNode
		if err := dec.Decode(&node); err != nil {
			return fmt.Errorf("mapping entry %q: %w", key, err)
		}

		if idx, ok := seen[key]; ok {
			m.entries[idx].Node = node
			continue
		}
		seen[key] = len(m.entries)
		m.entries = append(m.entries, MappingEntry{ID: key, Node: node})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	m.present = true
	return nil
}

// Present reports whether the mapping was set (an empty object counts)
func (m Mapping) Present() bool {
	return m.present
}

// Len returns the number of entries
func (m Mapping) Len() int {
	return len(m.entries)
}

// Entries returns the entries in document order
func (m Mapping) Entries() []MappingEntry {
	return m.entries
}

// Conversation is a single entry of the export archive
type Conversation struct {
	Mapping Mapping `json:"mapping"`
}
