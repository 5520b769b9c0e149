package analysis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/constants"
	"chat-wordmap/backend/internal/extract"
	"chat-wordmap/backend/internal/wordgraph"
	apperrors "chat-wordmap/backend/pkg/errors"
	"chat-wordmap/backend/pkg/logger"
)

// ResultCache stores extraction results keyed by archive content
type ResultCache interface {
	Get(ctx context.Context, key string) (*extract.Result, bool, error)
	Set(ctx context.Context, key string, result *extract.Result) error
}

// GraphExporter pushes a finished graph to an external store
type GraphExporter interface {
	SaveGraph(ctx context.Context, analysisID string, stats extract.Stats, nodes []wordgraph.Node, links []wordgraph.Link) error
}

// Service runs analyses for the HTTP and CLI front ends
type Service struct {
	cache    ResultCache
	exporter GraphExporter
	logger   *zap.Logger
	random   wordgraph.RandomSource
}

// NewService creates a service. cache and exporter may be nil.
func NewService(cache ResultCache, exporter GraphExporter, log *zap.Logger) *Service {
	if log == nil {
		log = logger.Named("analysis")
	}
	return &Service{
		cache:    cache,
		exporter: exporter,
		logger:   log,
		random:   wordgraph.DefaultRandom,
	}
}

// WithRandom replaces the random source used for link generation
func (s *Service) WithRandom(rnd wordgraph.RandomSource) *Service {
	s.random = rnd
	return s
}

// ExportEnabled reports whether Export can succeed
func (s *Service) ExportEnabled() bool {
	return s.exporter != nil
}

// Analyze builds a report for a raw export and returns it with a new analysis id
func (s *Service) Analyze(ctx context.Context, data []byte, limit int) (*Report, string, error) {
	analysisID := uuid.New().String()
	start := time.Now()

	if limit <= 0 {
		limit = constants.DefaultNumWordsToDisplay
	}

	result, err := s.extract(ctx, data, limit)
	if err != nil {
		s.logger.Warn("Analysis failed",
			zap.String("analysis_id", analysisID),
			zap.Int("bytes", len(data)),
			zap.Error(err),
		)
		return nil, analysisID, err
	}

	report := NewReport(result, s.random)

	s.logger.Info("Analysis complete",
		zap.String("analysis_id", analysisID),
		zap.Int("bytes", len(data)),
		zap.Int("conversations", report.Stats.TotalConversations),
		zap.Int("messages", report.Stats.TotalMessages),
		zap.Int("nodes", len(report.Nodes)),
		zap.Int("links", len(report.Links)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report, analysisID, nil
}

// Export analyzes data and writes the resulting graph through the exporter
func (s *Service) Export(ctx context.Context, data []byte, limit int) (*Report, string, error) {
	if s.exporter == nil {
		return nil, "", apperrors.ErrExportDisabled
	}

	report, analysisID, err := s.Analyze(ctx, data, limit)
	if err != nil {
		return nil, analysisID, err
	}

	if err := s.exporter.SaveGraph(ctx, analysisID, report.Stats, report.Nodes, report.Links); err != nil {
		s.logger.Error("Failed to export graph", zap.String("analysis_id", analysisID), zap.Error(err))
		return nil, analysisID, apperrors.NewExportFailed(analysisID, err)
	}

	s.logger.Info("Graph exported", zap.String("analysis_id", analysisID))
	return report, analysisID, nil
}

// extract consults the cache before parsing. Cache failures never fail the request.
func (s *Service) extract(ctx context.Context, data []byte, limit int) (*extract.Result, error) {
	if s.cache == nil {
		return ExtractArchive(data, limit, s.logger)
	}

	key := CacheKey(data, limit)
	cached, ok, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("Result cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		s.logger.Debug("Result cache hit", zap.String("key", key))
		return cached, nil
	}

	result, err := ExtractArchive(data, limit, s.logger)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, result); err != nil {
		s.logger.Warn("Result cache write failed", zap.String("key", key), zap.Error(err))
	}
	return result, nil
}

// CacheKey identifies an extraction by archive content and word limit
func CacheKey(data []byte, limit int) string {
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%d", hex.EncodeToString(sum[:]), limit)
}
