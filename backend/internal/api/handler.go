// Package api exposes the analysis pipeline over HTTP.
package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/analysis"
	"chat-wordmap/backend/internal/extract"
	"chat-wordmap/backend/internal/graph"
	apperrors "chat-wordmap/backend/pkg/errors"
	"chat-wordmap/backend/pkg/logger"
)

const analysisIDHeader = "X-Analysis-ID"

// SummaryFetcher reads back exported graphs
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, analysisID string) (*graph.GraphSummary, error)
}

// Handler serves the analysis endpoints
type Handler struct {
	service        *analysis.Service
	summaries      SummaryFetcher
	logger         *zap.Logger
	defaultLimit   int
	maxUploadBytes int64
}

// NewHandler creates a handler. summaries may be nil when export is disabled.
func NewHandler(service *analysis.Service, summaries SummaryFetcher, log *zap.Logger, defaultLimit int, maxUploadBytes int64) *Handler {
	if log == nil {
		log = logger.Named("http")
	}
	return &Handler{
		service:        service,
		summaries:      summaries,
		logger:         log,
		defaultLimit:   defaultLimit,
		maxUploadBytes: maxUploadBytes,
	}
}

// NewRouter wires the handler into a gin engine
func NewRouter(h *Handler, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(h.logger))
	router.Use(gin.Recovery())
	router.Use(cors())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/analyze", h.Analyze)
		api.POST("/analyze/export", h.Export)
		api.GET("/graphs/:id", h.GraphSummary)
		api.GET("/stopwords", h.StopWords)
	}

	return router
}

// Analyze returns {stats, nodes, links} for an uploaded export
func (h *Handler) Analyze(c *gin.Context) {
	data, limit, ok := h.readUpload(c)
	if !ok {
		return
	}

	report, analysisID, err := h.service.Analyze(c.Request.Context(), data, limit)
	c.Header(analysisIDHeader, analysisID)
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// Export analyzes an upload and stores the graph in Neo4j
func (h *Handler) Export(c *gin.Context) {
	if !h.service.ExportEnabled() {
		h.writeError(c, apperrors.ErrExportDisabled)
		return
	}

	data, limit, ok := h.readUpload(c)
	if !ok {
		return
	}

	report, analysisID, err := h.service.Export(c.Request.Context(), data, limit)
	if analysisID != "" {
		c.Header(analysisIDHeader, analysisID)
	}
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"analysis_id": analysisID,
		"stats":       report.Stats,
		"node_count":  len(report.Nodes),
		"link_count":  len(report.Links),
	})
}

// GraphSummary reports what was stored for an exported analysis
func (h *Handler) GraphSummary(c *gin.Context) {
	if h.summaries == nil {
		h.writeError(c, apperrors.ErrExportDisabled)
		return
	}

	summary, err := h.summaries.FetchSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		var notFound graph.ErrAnalysisNotFound
		if errors.As(err, &notFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Analysis not found"})
			return
		}
		h.logger.Error("Failed to fetch graph summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch graph"})
		return
	}

	c.JSON(http.StatusOK, summary)
}

// StopWords lists the words excluded from counting
func (h *Handler) StopWords(c *gin.Context) {
	words := extract.StopWords()
	c.JSON(http.StatusOK, gin.H{"count": len(words), "words": words})
}

// readUpload reads the export from a multipart "file" field or the raw body,
// and the optional limit query parameter. It writes the error response itself.
func (h *Handler) readUpload(c *gin.Context) ([]byte, int, bool) {
	limit := h.defaultLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return nil, 0, false
		}
		limit = n
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)

	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		data, err = readFormFile(c, "file")
	} else {
		data, err = io.ReadAll(c.Request.Body)
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Upload exceeds the size limit"})
			return nil, 0, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, 0, false
	}

	return data, limit, true
}

func readFormFile(c *gin.Context, field string) ([]byte, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, err
	}
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// writeError maps pipeline errors onto status codes and user-facing messages
func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeMalformedJSON):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.MsgMalformedJSON, "type": apperrors.ErrorTypeMalformedJSON})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeInvalidFormat):
		c.JSON(http.StatusBadRequest, gin.H{"error": apperrors.MsgInvalidFormat, "type": apperrors.ErrorTypeInvalidFormat})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeProcessing):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": apperrors.MsgProcessing, "type": apperrors.ErrorTypeProcessing})
	case errors.Is(err, apperrors.ErrExportDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Graph export is not configured"})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeExport):
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export graph"})
	default:
		h.logger.Error("Unhandled analysis error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
	}
}
