// Package application provides the application interface for roster commands.
//
// Commands accept Application rather than the concrete App so they can be
// tested against an in-memory store:
//
//	mock := &application.Mock{
//	    StoreFunc: func(path string, _ ...store.Option) (store.Store, error) {
//	        return memory.New(path, master), nil
//	    },
//	}
//	cmd := merge.NewCommand(mock)
package application

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/internal/config"
	"github.com/agentstation/roster/pkg/store"
)

// Application provides what commands need from the running app.
// The App struct from cmd/roster/app implements it.
type Application interface {
	// Config returns the effective configuration.
	Config() *config.Config

	// Store opens the dataset at path. The configured sheet and table
	// apply; opts are applied after them.
	Store(path string, opts ...store.Option) (store.Store, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Now is the clock used for ages and backup names.
	Now() time.Time

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
