package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/extract"
	"chat-wordmap/backend/internal/wordgraph"
	"chat-wordmap/backend/pkg/logger"
)

// Repository writes word graphs to Neo4j
type Repository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext) *Repository {
	return &Repository{
		driver: driver,
		logger: logger.Named("graph"),
	}
}

// Close closes the Neo4j driver connection
func (r *Repository) Close() error {
	return r.driver.Close(context.Background())
}

// EnsureSchema creates the indexes SaveGraph relies on
func (r *Repository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	statements := []string{
		`CREATE CONSTRAINT analysis_id IF NOT EXISTS FOR (a:Analysis) REQUIRE a.id IS UNIQUE`,
		`CREATE INDEX word_analysis IF NOT EXISTS FOR (w:Word) ON (w.analysis_id, w.node_id)`,
	}
	for _, stmt := range statements {
		result, err := session.Run(ctx, stmt, nil)
		if err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
		if _, err := result.Consume(ctx); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// SaveGraph stores one analysis with its words and links in a single write
// transaction. Words are scoped to the analysis, so repeated exports of the
// same archive produce separate subgraphs.
func (r *Repository) SaveGraph(ctx context.Context, analysisID string, stats extract.Stats, nodes []wordgraph.Node, links []wordgraph.Link) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	start := time.Now()
	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, createAnalysisQuery, map[string]any{
			"analysisID":         analysisID,
			"totalConversations": stats.TotalConversations,
			"totalMessages":      stats.TotalMessages,
			"totalWords":         stats.TotalWords,
			"uniqueWords":        stats.UniqueWords,
		}); err != nil {
			return nil, err
		}

		if len(nodes) > 0 {
			if err := run(ctx, tx, createWordsQuery, map[string]any{
				"analysisID": analysisID,
				"words":      nodeParams(nodes),
			}); err != nil {
				return nil, err
			}
		}

		if len(links) > 0 {
			if err := run(ctx, tx, createLinksQuery, map[string]any{
				"analysisID": analysisID,
				"links":      linkParams(links),
			}); err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to save graph %s: %w", analysisID, err)
	}

	r.logger.Debug("Saved word graph",
		zap.String("analysis_id", analysisID),
		zap.Int("nodes", len(nodes)),
		zap.Int("links", len(links)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return nil
}

const createAnalysisQuery = `
	CREATE (a:Analysis {
		id: $analysisID,
		total_conversations: $totalConversations,
		total_messages: $totalMessages,
		total_words: $totalWords,
		unique_words: $uniqueWords,
		created_at: datetime()
	})
`

const createWordsQuery = `
	MATCH (a:Analysis {id: $analysisID})
	UNWIND $words AS w
	CREATE (a)-[:HAS_WORD]->(:Word {
		analysis_id: $analysisID,
		node_id: w.id,
		word: w.word,
		frequency: w.frequency,
		size: w.size,
		group: w.group
	})
`

const createLinksQuery = `
	UNWIND $links AS l
	MATCH (s:Word {analysis_id: $analysisID, node_id: l.source})
	MATCH (t:Word {analysis_id: $analysisID, node_id: l.target})
	CREATE (s)-[:LINKS {strength: l.strength}]->(t)
`

func run(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) error {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return fmt.Errorf("failed to execute query: %w", err)
	}
	if _, err := result.Consume(ctx); err != nil {
		return fmt.Errorf("failed to consume result: %w", err)
	}
	return nil
}

func nodeParams(nodes []wordgraph.Node) []any {
	out := make([]any, len(nodes))
	for i, n := range nodes {
		out[i] = map[string]any{
			"id":        n.ID,
			"word":      n.Word,
			"frequency": n.Frequency,
			"size":      n.Size,
			"group":     n.Group,
		}
	}
	return out
}

func linkParams(links []wordgraph.Link) []any {
	out := make([]any, len(links))
	for i, l := range links {
		out[i] = map[string]any{
			"source":   l.Source,
			"target":   l.Target,
			"strength": l.Strength,
		}
	}
	return out
}

// GraphSummary describes an exported analysis
type GraphSummary struct {
	AnalysisID string        `json:"analysis_id"`
	Stats      extract.Stats `json:"stats"`
	WordCount  int64         `json:"word_count"`
	LinkCount  int64         `json:"link_count"`
}

// FetchSummary reads back the counts stored for an exported analysis
func (r *Repository) FetchSummary(ctx context.Context, analysisID string) (*GraphSummary, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	query := `
		MATCH (a:Analysis {id: $analysisID})
		OPTIONAL MATCH (a)-[:HAS_WORD]->(w:Word)
		OPTIONAL MATCH (w)-[l:LINKS]->(:Word)
		RETURN
			a.total_conversations as total_conversations,
			a.total_messages as total_messages,
			a.total_words as total_words,
			a.unique_words as unique_words,
			count(DISTINCT w) as word_count,
			count(l) as link_count
	`

	result, err := session.Run(ctx, query, map[string]any{"analysisID": analysisID})
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}

	if !result.Next(ctx) {
		if err := result.Err(); err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return nil, ErrAnalysisNotFound{AnalysisID: analysisID}
	}

	record := result.Record()
	return &GraphSummary{
		AnalysisID: analysisID,
		Stats: extract.Stats{
			TotalConversations: getIntFromRecord(record, "total_conversations"),
			TotalMessages:      getIntFromRecord(record, "total_messages"),
			TotalWords:         getIntFromRecord(record, "total_words"),
			UniqueWords:        getIntFromRecord(record, "unique_words"),
		},
		WordCount: getInt64FromRecord(record, "word_count"),
		LinkCount: getInt64FromRecord(record, "link_count"),
	}, nil
}

// ErrAnalysisNotFound is returned when no exported analysis has the id
type ErrAnalysisNotFound struct {
	AnalysisID string
}

func (e ErrAnalysisNotFound) Error() string {
	return fmt.Sprintf("analysis not found: %s", e.AnalysisID)
}

// DeleteAnalysis removes one exported analysis with its words and links
func (r *Repository) DeleteAnalysis(ctx context.Context, analysisID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, `
			MATCH (a:Analysis {id: $analysisID})
			OPTIONAL MATCH (a)-[:HAS_WORD]->(w:Word)
			WITH a, collect(w) AS words
			FOREACH (w IN words | DETACH DELETE w)
			DETACH DELETE a
			RETURN count(*) as deleted
		`, map[string]any{"analysisID": analysisID})
		if err != nil {
			return nil, fmt.Errorf("failed to execute query: %w", err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return getInt64FromRecord(record, "deleted"), nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete analysis %s: %w", analysisID, err)
	}
	if deleted.(int64) == 0 {
		return ErrAnalysisNotFound{AnalysisID: analysisID}
	}

	r.logger.Debug("Deleted analysis", zap.String("analysis_id", analysisID))
	return nil
}

// DeleteAll removes every exported analysis and returns how many were deleted.
// Nodes with other labels are left alone.
func (r *Repository) DeleteAll(ctx context.Context) (int64, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	deleted, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		if err := run(ctx, tx, `MATCH (w:Word) WHERE w.analysis_id IS NOT NULL DETACH DELETE w`, nil); err != nil {
			return nil, err
		}
		result, err := tx.Run(ctx, `MATCH (a:Analysis) WITH a, a.id AS id DETACH DELETE a RETURN count(id) as deleted`, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to execute query: %w", err)
		}
		record, err := result.Single(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch record: %w", err)
		}
		return getInt64FromRecord(record, "deleted"), nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete analyses: %w", err)
	}
	return deleted.(int64), nil
}
