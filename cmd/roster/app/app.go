// Package app provides the application context and dependency management
// for the roster CLI. It centralizes configuration, logging and store
// construction so commands only depend on application.Application.
package app

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/config"
	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/pkg/store"
)

// App represents the roster application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Flags holds the parsed persistent flags.
	flags *Flags

	config *config.Config
	logger *zerolog.Logger
	now    func() time.Time

	stdout io.Writer
	stderr io.Writer
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded by Execute unless WithConfig supplies it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
		flags:   &Flags{},
		now:     time.Now,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	logger := zerolog.Nop()
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *config.Config {
	if a.config == nil {
		return config.Default()
	}
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the --format flag, empty when output should be
// detected from the terminal.
func (a *App) OutputFormat() string {
	return a.flags.Format
}

// Now returns the current time from the app clock.
func (a *App) Now() time.Time {
	return a.now()
}

// Store opens the dataset at path with the configured sheet and table.
func (a *App) Store(path string, opts ...store.Option) (store.Store, error) {
	all := append(a.Config().StoreOptions(), store.WithClock(a.now))
	return datastore.Open(path, append(all, opts...)...)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(cfg *config.Config) Option {
	return func(a *App) error {
		a.config = cfg
		return nil
	}
}

// WithLogger sets a custom logger. It is replaced once flags are parsed.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClock sets the clock used for ages and backup names.
func WithClock(now func() time.Time) Option {
	return func(a *App) error {
		a.now = now
		return nil
	}
}

// WithOutput redirects command output and messages.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(a *App) error {
		a.stdout = stdout
		a.stderr = stderr
		return nil
	}
}
