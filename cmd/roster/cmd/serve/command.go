// Package serve provides the dashboard API server command.
package serve

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/cmd/cmdutil"
	"github.com/agentstation/roster/internal/cmd/emoji"
	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/internal/server"
	"github.com/agentstation/roster/internal/server/handlers"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/merge"
	"github.com/agentstation/roster/pkg/store"
)

// ShutdownTimeout bounds connection draining on shutdown.
const ShutdownTimeout = 30 * time.Second

// Flags holds the serve command flags.
type Flags struct {
	*cmdutil.MasterFlags
	Host        string
	Port        int
	CORSOrigins []string
	APIKey      string
}

// NewCommand creates the serve command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cfg := app.Config()
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the volunteer dashboard API",
		Long: `Serve exposes the master roster over HTTP for the volunteer dashboard.

Endpoints (under /api/v1 by default):
  GET  volunteers, stats, facets      filtered rows, KPIs and charts
  GET  export.csv, export.xlsx        filtered rows as a file
  GET  duplicates, duplicates.xlsx    duplicate groups
  POST merge                          upload an incoming batch and merge it
  POST reload                         re-read the master from disk
  GET  updates/ws                     websocket stream of dataset events

The loaded master is cached and reloaded after a merge, after POST reload,
or when the cache TTL expires. Set server.api_key to guard the POST
endpoints.`,
		Example: `  roster serve -m master.xlsx
  roster serve -m master.xlsx --host 0.0.0.0 --port 3000
  roster serve -m master.xlsx --cors-origins http://localhost:5173`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return Run(cmd.Context(), app, flags, cmd)
		},
	}

	flags.MasterFlags = cmdutil.AddMasterFlags(cmd, cfg)
	cmdutil.AddBackupFlag(cmd, flags.MasterFlags, cfg)
	cmd.Flags().StringVar(&flags.Host, "host", cfg.Server.Host, "Bind address")
	cmd.Flags().IntVar(&flags.Port, "port", cfg.Server.Port, "Server port")
	cmd.Flags().StringSliceVar(&flags.CORSOrigins, "cors-origins", cfg.Server.CORSOrigins, "Allowed CORS origins (comma-separated, * for any)")
	cmd.Flags().StringVar(&flags.APIKey, "api-key", cfg.Server.APIKey, "Require this key on POST endpoints")

	return cmd
}

// Build wires the dashboard server for the master named by flags. The
// returned store must be released with datastore.Close.
func Build(app application.Application, flags *Flags) (*server.Server, store.Store, error) {
	if flags.Path == "" {
		return nil, nil, &errors.ValidationError{Field: "master", Message: "a master dataset is required (--master or master.path)"}
	}
	cfg := app.Config()
	logger := app.Logger()

	master, err := app.Store(flags.Path, store.WithSheet(flags.Sheet))
	if err != nil {
		return nil, nil, err
	}
	resolver, err := cfg.Resolver()
	if err != nil {
		_ = datastore.Close(master)
		return nil, nil, err
	}

	srvCfg := cfg.Server
	srvCfg.Host = flags.Host
	srvCfg.Port = flags.Port
	srvCfg.CORSOrigins = flags.CORSOrigins
	srvCfg.APIKey = flags.APIKey

	srv, err := server.New(handlers.Deps{
		Master:        master,
		Engine:        merge.New(cfg.MergeOptions(logger)...),
		Resolver:      resolver,
		Backup:        flags.Backup(),
		IncomingSheet: cfg.Master.IncomingSheet,
		Now:           app.Now,
	}, srvCfg, logger)
	if err != nil {
		_ = datastore.Close(master)
		return nil, nil, err
	}
	return srv, master, nil
}

// Run serves until ctx is cancelled, then drains connections.
func Run(ctx context.Context, app application.Application, flags *Flags, cmd *cobra.Command) error {
	logger := app.Logger()

	srv, master, err := Build(app, flags)
	if err != nil {
		return err
	}
	defer func() { _ = datastore.Close(master) }()

	logger.Info().
		Str("addr", srv.Addr()).
		Str("master", master.Location()).
		Bool("cors", len(flags.CORSOrigins) > 0).
		Bool("api_key", flags.APIKey != "").
		Msg("Starting dashboard server")

	srv.Start()
	httpServer := srv.HTTPServer()

	fmt.Fprintf(cmd.ErrOrStderr(), "%s Dashboard API listening on http://%s\n", emoji.Info, srv.Addr())
	fmt.Fprintln(cmd.ErrOrStderr(), "   Press Ctrl+C to stop")

	return serve(ctx, httpServer, srv, cmd.ErrOrStderr(), logger)
}

// serve runs httpServer until it fails or ctx is done.
func serve(ctx context.Context, httpServer *http.Server, srv *server.Server, out io.Writer, logger *zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info().Msg("Shutting down dashboard server")
		fmt.Fprintf(out, "%s Stopping dashboard server\n", emoji.Stop)

		// The parent context is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Background services shutdown had issues")
		}
		logger.Info().Msg("Server stopped gracefully")
		return nil
	})

	return g.Wait()
}
