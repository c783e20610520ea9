package main

import (
	"flag"
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/adapters/stream"
	"url-event-pipeline/internal/config"
)

func main() {
	var (
		dbPath  = flag.String("db", config.GetEnv("SQLITE_PATH", "./data/events.db"), "SQLite sink database path")
		action  = flag.String("action", stream.MigrateUp, "Migration action: up, down, status")
		verbose = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	// Setup logger
	if *verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	absDBPath, err := filepath.Abs(*dbPath)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to get absolute database path")
	}

	logrus.WithFields(logrus.Fields{
		"db_path": absDBPath,
		"action":  *action,
	}).Info("Starting sink migration tool")

	status, err := stream.MigrateSink(absDBPath, *action)
	if err != nil {
		logrus.WithError(err).Fatal("Sink migration failed")
	}

	fmt.Printf("Migration Status:\n")
	fmt.Printf("  Version: %d\n", status.Version)
	fmt.Printf("  Applied: %t\n", status.Applied)
	fmt.Printf("  Dirty: %t\n", status.Dirty)

	logrus.Info("Sink migration tool completed successfully")
}
