package analysis

import (
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/archive"
	"chat-wordmap/backend/internal/extract"
	"chat-wordmap/backend/internal/wordgraph"
)

// Report is what the visualization layer consumes
type Report struct {
	Stats extract.Stats    `json:"stats"`
	Nodes []wordgraph.Node `json:"nodes"`
	Links []wordgraph.Link `json:"links"`
}

// Analyze parses a raw export, ranks its words and builds the graph.
// Every error it returns is an archive error from pkg/errors.
func Analyze(data []byte, limit int, rnd wordgraph.RandomSource) (*Report, error) {
	result, err := ExtractArchive(data, limit, nil)
	if err != nil {
		return nil, err
	}
	return NewReport(result, rnd), nil
}

// ExtractArchive runs the deterministic half of Analyze
func ExtractArchive(data []byte, limit int, log *zap.Logger) (*extract.Result, error) {
	conversations, err := archive.Parse(data)
	if err != nil {
		return nil, err
	}
	return extract.New(log).Extract(conversations, limit)
}

// NewReport synthesizes a fresh graph for an extraction result
func NewReport(result *extract.Result, rnd wordgraph.RandomSource) *Report {
	graph := wordgraph.Build(result.Words, rnd)
	return &Report{
		Stats: result.Stats,
		Nodes: graph.Nodes,
		Links: graph.Links,
	}
}
