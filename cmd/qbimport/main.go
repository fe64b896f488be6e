package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"prepkart/internal/config"
	"prepkart/internal/database"
	"prepkart/internal/qbank"
	"prepkart/internal/repository"

	"github.com/google/uuid"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		quizFlag   = flag.String("quiz", "", "ID of the quiz to append questions to")
		taxonomyID = flag.String("taxonomy", "", "Question bank taxonomy ID to import")
		limit      = flag.Int64("limit", 100, "Maximum number of questions to import")
		language   = flag.Int("language", 1, "Preferred content language")
		timeout    = flag.Duration("timeout", 5*time.Minute, "Overall import timeout")
	)
	flag.Parse()

	quizID, err := uuid.Parse(*quizFlag)
	if err != nil {
		return fmt.Errorf("invalid -quiz value %q: %w", *quizFlag, err)
	}

	cfg, err := config.LoadImporter()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := config.NewLogger(cfg.Logger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	client, err := qbank.Connect(ctx, cfg.Mongo.URI)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to disconnect from mongo")
		}
	}()

	coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
	importer := qbank.NewImporter(
		qbank.NewMongoSource(coll, logger),
		repository.NewQuizRepository(pool, logger),
		int32(*language),
		logger,
	)

	res, err := importer.Import(ctx, quizID, qbank.Filter{TaxonomyID: *taxonomyID, Limit: *limit})
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Fetched %d, imported %d, skipped %d questions\n", res.Fetched, res.Imported, res.Skipped)
	return nil
}
