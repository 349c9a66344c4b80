// Package app provides the application context and dependency management for
// the graphpub CLI. It centralizes configuration, logging, and the graph
// store client behind a single App value handed to every command.
package app

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/tracefold/graphpub/internal/api"
	"github.com/tracefold/graphpub/internal/config"
	"github.com/tracefold/graphpub/pkg/graph"
)

// App represents the graphpub application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string

	// Configuration
	config *config.Config

	// Logger
	logger *zerolog.Logger

	// Graph store client (lazy-initialized, singleton)
	mu     sync.Mutex
	client *api.Client
}

// New creates a new App instance with the given version information.
func New(version, commit, date string) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := NewLogger(cfg)

	return &App{
		version: version,
		commit:  commit,
		date:    date,
		config:  cfg,
		logger:  &logger,
	}, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// Client returns the graph store client, creating it lazily. Creation fails
// when the endpoint, API key, or space id is missing.
func (a *App) Client() (*api.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	if err := a.config.Validate(); err != nil {
		return nil, err
	}

	shared := make([]graph.ID, 0, len(a.config.SharedSpaces))
	for _, s := range a.config.SharedSpaces {
		shared = append(shared, graph.ID(s))
	}

	client, err := api.New(a.config.Endpoint, a.config.APIKey, api.WithSharedSpaces(shared...))
	if err != nil {
		return nil, err
	}
	a.client = client
	return client, nil
}

// Space returns the configured primary space id.
func (a *App) Space() graph.ID {
	return graph.ID(a.config.SpaceID)
}
