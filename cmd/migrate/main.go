// Command migrate prepares a MongoDB database for the API: it creates the
// indexes and rewrites application references stored as hex strings into
// ObjectIDs.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"job-marketplace-api/config"
	"job-marketplace-api/internal/repository/mongodb"
	"job-marketplace-api/pkg/database"
	"job-marketplace-api/pkg/logger"
)

func main() {
	indexesOnly := flag.Bool("indexes-only", false, "only create indexes, skip reference normalization")
	timeout := flag.Duration("timeout", 10*time.Minute, "overall time limit")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	client, db, err := database.NewMongoConnection(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		logger.Log.Error("Failed to create indexes", "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Indexes ensured")

	if *indexesOnly {
		return
	}

	changed, err := mongodb.NormalizeJobRefs(ctx, db)
	if err != nil {
		logger.Log.Error("Reference normalization stopped", "updated", changed, "error", err)
		os.Exit(1)
	}
	logger.Log.Info("Application references normalized", "updated", changed)
}
