// Package cmd holds the stylemanager command line.
package cmd

import (
	"fmt"
	"log"

	"stylemanager-backend/config"
	"stylemanager-backend/models"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go out as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
}

// loadConfig reads the environment into config.App.
func loadConfig() config.Config {
	config.App = config.Load()
	return config.App
}

// connect opens the database and the cache. It fails when no database is
// configured.
func connect(cfg config.Config, migrate bool) error {
	if !cfg.DB.Configured() {
		return fmt.Errorf("DB_URL is not set; add it to the environment or .env")
	}
	if err := config.ConnectDB(cfg.DB); err != nil {
		return err
	}
	log.Printf("Connected to %s database", cfg.DB.Driver)

	if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
		config.AppCache = config.NewCache(rdb)
	}

	if migrate {
		if err := models.AutoMigrate(config.DB); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}
	return nil
}
