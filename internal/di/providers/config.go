// Package providers contains dependency injection providers for mkvchapters.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mkvchapters/internal/config"
	"github.com/listenupapp/mkvchapters/internal/logger"
)

// Args are the command-line arguments after the program name.
type Args []string

// CommandLine is the parsed configuration plus the positional arguments left after flags.
type CommandLine struct {
	Config     *config.Config
	Positional []string
}

// ProvideCommandLine parses flags, environment and config file.
func ProvideCommandLine(i do.Injector) (*CommandLine, error) {
	args := do.MustInvoke[Args](i)

	cfg, rest, err := config.LoadConfig(args)
	if err != nil {
		return nil, err
	}
	return &CommandLine{Config: cfg, Positional: rest}, nil
}

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return do.MustInvoke[*CommandLine](i).Config, nil
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development" && cfg.Logger.Level == "debug",
		Environment: cfg.App.Environment,
	})

	log.Debug("Configuration loaded",
		"environment", cfg.App.Environment,
		"config_file", cfg.App.ConfigFile,
		"tools_dir", cfg.Tools.Dir,
		"use_path", cfg.Tools.UsePath,
		"timeout", cfg.Tools.Timeout,
	)

	return log, nil
}
