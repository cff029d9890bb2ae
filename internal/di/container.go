// Package di provides dependency injection configuration for mkvchapters.
package di

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/mkvchapters/internal/config"
	"github.com/listenupapp/mkvchapters/internal/di/providers"
	"github.com/listenupapp/mkvchapters/internal/logger"
	"github.com/listenupapp/mkvchapters/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
// args are the command-line arguments after the program name.
func NewContainer(args []string) *do.RootScope {
	injector := do.New()

	do.ProvideValue(injector, providers.Args(args))

	// Core infrastructure
	do.Provide(injector, providers.ProvideCommandLine)
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Tools
	do.Provide(injector, providers.ProvideRunner)
	do.Provide(injector, providers.ProvideToolchain)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideChapterService)

	return injector
}

// Bootstrap resolves the services a command needs and returns the positional arguments.
// Configuration errors surface here, before any tool runs.
func Bootstrap(injector *do.RootScope) ([]string, error) {
	cl, err := do.Invoke[*providers.CommandLine](injector)
	if err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return nil, err
	}
	if _, err := do.Invoke[*service.ChapterService](injector); err != nil {
		return nil, err
	}
	return cl.Positional, nil
}
