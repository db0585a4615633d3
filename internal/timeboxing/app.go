package timeboxing

import (
	"github.com/INF-Lucas/Timeboxing/internal/core/config"
	"github.com/INF-Lucas/Timeboxing/internal/data/db"
)

// App is the central entry point for all scheduling operations.
// Commands and TUI consume App instead of cherry-picking raw dependencies.
type App struct {
	Engine   *Service
	Settings *config.Settings
	DB       *db.DB
}

// NewApp constructs an App from explicit dependencies.
func NewApp(engine *Service, settings *config.Settings, database *db.DB) *App {
	return &App{
		Engine:   engine,
		Settings: settings,
		DB:       database,
	}
}
