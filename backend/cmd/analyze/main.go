package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"chat-wordmap/backend/internal/analysis"
	"chat-wordmap/backend/pkg/config"
	apperrors "chat-wordmap/backend/pkg/errors"
	"chat-wordmap/backend/pkg/logger"
)

const outputSuffix = ".graph.json"

type options struct {
	limit       int
	outDir      string
	concurrency int
	files       []string
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	opts, err := parseArgs(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Initialize logger
	if err := logger.Init(cfg.Env); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	service := analysis.NewService(nil, nil, logger.Named("analysis"))
	if err := run(context.Background(), opts, service, os.Stdout, logger.Named("cli")); err != nil {
		logger.Sync()
		os.Exit(1)
	}
}

func parseArgs(args []string, cfg *config.Config, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: analyze [-limit N] [-out DIR] [-concurrency N] FILE...")
		fs.PrintDefaults()
	}

	opts := &options{}
	fs.IntVar(&opts.limit, "limit", cfg.NumWordsToDisplay, "Number of top words to keep")
	fs.StringVar(&opts.outDir, "out", "", "Directory for <name>"+outputSuffix+" files")
	fs.IntVar(&opts.concurrency, "concurrency", cfg.CLIConcurrency, "Files analyzed in parallel")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("at least one export file is required")
	}
	if opts.limit <= 0 {
		return nil, fmt.Errorf("-limit must be positive, got %d", opts.limit)
	}
	if opts.concurrency <= 0 {
		return nil, fmt.Errorf("-concurrency must be positive, got %d", opts.concurrency)
	}
	return opts, nil
}

// run analyzes every file. A failing file is logged and does not stop the rest.
func run(ctx context.Context, opts *options, service *analysis.Service, stdout io.Writer, log *zap.Logger) error {
	toStdout := opts.outDir == "" && len(opts.files) == 1
	if opts.outDir != "" {
		if err := os.MkdirAll(opts.outDir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	var (
		mu       sync.Mutex
		failures []error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency)

	for _, path := range opts.files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			report, err := analyzeFile(gctx, service, path, opts.limit)
			if err == nil {
				if toStdout {
					err = writeReport(stdout, report)
				} else {
					err = writeReportFile(outputPath(opts.outDir, path), report)
				}
			}

			if err != nil {
				log.Error("Failed to analyze file",
					zap.String("file", path),
					zap.String("reason", apperrors.UserMessage(err)),
					zap.Error(err),
				)
				mu.Lock()
				failures = append(failures, fmt.Errorf("%s: %w", path, err))
				mu.Unlock()
				return nil
			}

			log.Info("Analyzed file",
				zap.String("file", path),
				zap.Int("conversations", report.Stats.TotalConversations),
				zap.Int("messages", report.Stats.TotalMessages),
				zap.Int("total_words", report.Stats.TotalWords),
				zap.Int("unique_words", report.Stats.UniqueWords),
				zap.Int("nodes", len(report.Nodes)),
				zap.Int("links", len(report.Links)),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return errors.Join(failures...)
}

func analyzeFile(ctx context.Context, service *analysis.Service, path string, limit int) (*analysis.Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	report, _, err := service.Analyze(ctx, data, limit)
	return report, err
}

func writeReport(w io.Writer, report *analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func writeReportFile(path string, report *analysis.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeReport(f, report); err != nil {
		f.Close()
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return f.Close()
}

// outputPath places <name>.graph.json in outDir, or beside the input when outDir is empty
func outputPath(outDir, input string) string {
	base := filepath.Base(input)
	name := strings.TrimSuffix(base, filepath.Ext(base)) + outputSuffix
	if outDir == "" {
		return filepath.Join(filepath.Dir(input), name)
	}
	return filepath.Join(outDir, name)
}
