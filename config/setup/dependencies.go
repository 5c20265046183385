package setup

import (
	"log/slog"
	"merquelo/app"
	"merquelo/config"
	"merquelo/database"
	"merquelo/services"
)

// InitDatabase initializes the SQLite database and runs migrations
func InitDatabase(dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("database initialized", "path", dbPath)
	return db, nil
}

// InitApp opens the database at application.DBPath and attaches the market
// service. Calling it on an App that is already ready is a no-op.
func InitApp(cfg *config.Config, application *app.App) error {
	if application.Ready() {
		return nil
	}

	db, err := InitDatabase(application.DBPath, application.Logger)
	if err != nil {
		return err
	}

	application.DB = db
	application.Market = services.NewMarketService(db, services.Config{
		Catalog:      cfg.DefaultStores,
		Logger:       application.Logger,
		PollInterval: cfg.PollInterval,
	})

	return nil
}

// Shutdown releases everything InitApp acquired
func Shutdown(application *app.App) {
	if application == nil {
		return
	}

	if application.Market != nil {
		application.Market.Close()
		application.Market = nil
	}

	if application.DB != nil {
		if err := application.DB.Close(); err != nil {
			application.Logger.Warn("failed to close database", "error", err)
		} else {
			application.Logger.Debug("database closed")
		}
		application.DB = nil
	}
}
