// Package providers wires the sermon platform's components into a samber/do
// injector. Each Provide function builds one service from the ones it needs.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/Mastsam10/platform-sub000/internal/config"
	"github.com/Mastsam10/platform-sub000/internal/logger"
)

func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the process logger from the Logger and App sections.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	color := cfg.Logger.Color
	if color == "auto" {
		color = logger.ColorAuto
	}
	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		Format:      cfg.Logger.Format,
		Color:       color,
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	log.Info("starting sermon platform",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"database", cfg.Database.Driver,
		"data_path", cfg.Data.BasePath,
		"inbox", cfg.Inbox.Path != "",
	)
	return log, nil
}

// ProvideSlogLogger exposes the *slog.Logger for packages that take one.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	return do.MustInvoke[*logger.Logger](i).Logger, nil
}
