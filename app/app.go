package app

import (
	"log/slog"
	"merquelo/database"
	"merquelo/services"
	"merquelo/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	DB        *database.DB
	Market    *services.MarketService
	Validator *validator.Validator
	Logger    *slog.Logger

	// Set from command line flags before storage is opened
	DBPath     string
	PrettyJSON bool
}

// New creates an App without storage. DB and Market are attached by
// setup.InitApp once the database path is known.
func New(dbPath string, logger *slog.Logger) *App {
	return &App{
		Validator: validator.New(),
		Logger:    logger,
		DBPath:    dbPath,
	}
}

// Ready reports whether storage has been attached
func (a *App) Ready() bool {
	return a.DB != nil && a.Market != nil
}
