package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"chat-wordmap/backend/internal/graph"
	"chat-wordmap/backend/pkg/config"
	"chat-wordmap/backend/pkg/logger"
)

func main() {
	show := flag.String("show", "", "Print the stored summary for an analysis ID")
	deleteID := flag.String("delete", "", "Delete one exported analysis by ID")
	reset := flag.Bool("reset", false, "Delete every exported analysis")
	skipConfirm := flag.Bool("y", false, "Skip confirmation prompt")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if !cfg.ExportEnabled() {
		log.Fatal("NEO4J_URI is not set")
	}

	if *reset && !*skipConfirm {
		log.Warn("This will DELETE every exported analysis from Neo4j")
		if !confirm(os.Stdin, os.Stdout) {
			log.Info("Aborted.")
			return
		}
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver)

	log.Info("Applying schema...")
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to apply schema", zap.Error(err))
	}

	switch {
	case *reset:
		deleted, err := repo.DeleteAll(ctx)
		if err != nil {
			log.Fatal("Failed to delete analyses", zap.Error(err))
		}
		log.Info("Deleted analyses", zap.Int64("count", deleted))

	case *deleteID != "":
		if err := repo.DeleteAnalysis(ctx, *deleteID); err != nil {
			log.Fatal("Failed to delete analysis", zap.String("analysis_id", *deleteID), zap.Error(err))
		}
		log.Info("Deleted analysis", zap.String("analysis_id", *deleteID))

	case *show != "":
		summary, err := repo.FetchSummary(ctx, *show)
		if err != nil {
			log.Fatal("Failed to fetch analysis", zap.String("analysis_id", *show), zap.Error(err))
		}
		if err := printSummary(os.Stdout, summary); err != nil {
			log.Fatal("Failed to print summary", zap.Error(err))
		}
	}

	log.Info("Done")
}

// confirm asks on out and reads a yes/no answer from in
func confirm(in io.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Are you sure you want to continue? (yes/no): ")
	response, _ := bufio.NewReader(in).ReadString('\n')
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "yes" || response == "y"
}

func printSummary(w io.Writer, summary *graph.GraphSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
