// Command russell2000 refreshes the Russell 2000 constituent list. Intended
// to run monthly; all configuration is compiled in.
package main

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"russell2000/pkg/universe"
	"russell2000/pkg/verify"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	logger := zap.Must(zap.NewProduction())
	defer logger.Sync()

	runID := uuid.NewString()
	logger = logger.With(zap.String("run_id", runID))

	updater := universe.NewUpdater(logger)
	updater.RunID = runID
	if err := updater.Run(); err != nil {
		logger.Error("update failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	verify.CheckTradable(universe.LoadExisting(updater.OutputPath), logger)
}
