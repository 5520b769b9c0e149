// Package extract counts meaningful words across a conversation archive.
package extract

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"go.uber.org/zap"

	"chat-wordmap/backend/internal/archive"
	"chat-wordmap/backend/internal/constants"
	apperrors "chat-wordmap/backend/pkg/errors"
	"chat-wordmap/backend/pkg/logger"
)

// WordEntry is a ranked word and how often it occurred
type WordEntry struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// Stats are the archive-wide counts reported alongside the graph
type Stats struct {
	TotalConversations int `json:"total_conversations"`
	TotalMessages      int `json:"total_messages"`
	TotalWords         int `json:"total_words"`
	UniqueWords        int `json:"unique_words"`
}

// Result is the output of an extraction run
type Result struct {
	Stats
	Words []WordEntry `json:"words"`
}

// Extractor walks conversations and ranks the words they contain
type Extractor struct {
	logger *zap.Logger
}

// New creates an extractor. A nil logger falls back to the global one.
func New(log *zap.Logger) *Extractor {
	if log == nil {
		log = logger.Named("extract")
	}
	return &Extractor{logger: log}
}

// Extract counts conversations, messages and filtered words, returning at most
// limit words ranked by frequency. Ties keep first-occurrence order. A limit
// of zero or less means the default cap.
func (e *Extractor) Extract(conversations []archive.Conversation, limit int) (result *Result, err error) {
	if limit <= 0 {
		limit = constants.DefaultNumWordsToDisplay
	}

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Failed to extract words from conversations", zap.Any("panic", r))
			result = nil
			err = apperrors.NewProcessing("extract", fmt.Errorf("%v", r))
		}
	}()

	counter := newFrequencyCounter()
	tok := &tokenizer{emit: counter.add}
	stats := Stats{}

	for _, conv := range conversations {
		if !conv.Mapping.Present() {
			continue
		}
		stats.TotalConversations++

		for _, entry := range conv.Mapping.Entries() {
			msg := entry.Node.Message
			if msg == nil {
				continue
			}
			stats.TotalMessages++

			for _, part := range msg.TextParts() {
				tok.feed(part.Text)
			}
		}
	}

	stats.TotalWords = counter.total
	stats.UniqueWords = len(counter.entries)

	result = &Result{
		Stats: stats,
		Words: counter.top(limit),
	}

	e.logger.Debug("Extracted words",
		zap.Int("conversations", stats.TotalConversations),
		zap.Int("messages", stats.TotalMessages),
		zap.Int("total_words", stats.TotalWords),
		zap.Int("unique_words", stats.UniqueWords),
		zap.Int("returned", len(result.Words)),
	)

	return result, nil
}

// frequencyCounter counts words while remembering first-occurrence order
type frequencyCounter struct {
	index   map[string]int
	entries []WordEntry
	total   int
}

func newFrequencyCounter() *frequencyCounter {
	return &frequencyCounter{index: make(map[string]int)}
}

func (c *frequencyCounter) add(word string) {
	if !meaningful(word) {
		return
	}
	c.total++
	if i, ok := c.index[word]; ok {
		c.entries[i].Frequency++
		return
	}
	c.index[word] = len(c.entries)
	c.entries = append(c.entries, WordEntry{Word: word, Frequency: 1})
}

func (c *frequencyCounter) top(limit int) []WordEntry {
	ranked := make([]WordEntry, len(c.entries))
	copy(ranked, c.entries)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Frequency > ranked[j].Frequency
	})
	if len(ranked) > limit {
		ranked = ranked[:limit:limit]
	}
	return ranked
}

// tokenizer turns part text into lowercase alphabetic tokens. Characters
// that are neither ASCII letters nor whitespace are dropped, so "don't"
// becomes "dont". Each fed part ends a token, as if followed by a space.
type tokenizer struct {
	buf  strings.Builder
	emit func(string)
}

func (t *tokenizer) feed(text string) {
	for _, r := range text {
		switch {
		case r >= 'a' && r <= 'z':
			t.buf.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			t.buf.WriteRune(unicode.ToLower(r))
		case isSpace(r):
			t.flush()
		}
	}
	t.flush()
}

func (t *tokenizer) flush() {
	if t.buf.Len() == 0 {
		return
	}
	t.emit(t.buf.String())
	t.buf.Reset()
}

// isSpace treats U+FEFF as whitespace and U+0085 as not.
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return r == '\ufeff' || unicode.IsSpace(r)
}

// Tokenize returns the filtered tokens of text in order. It is the same
// pipeline Extract applies to each message part.
func Tokenize(text string) []string {
	var tokens []string
	tok := &tokenizer{emit: func(w string) {
		if meaningful(w) {
			tokens = append(tokens, w)
		}
	}}
	tok.feed(text)
	return tokens
}

func meaningful(word string) bool {
	return len(word) >= constants.MinWordLength && !IsStopWord(word)
}
