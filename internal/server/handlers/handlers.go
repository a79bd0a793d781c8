// Package handlers implements the dashboard API endpoints.
package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/roster/internal/analysis"
	"github.com/agentstation/roster/internal/dashboard"
	"github.com/agentstation/roster/internal/server/cache"
	"github.com/agentstation/roster/internal/server/events"
	ws "github.com/agentstation/roster/internal/server/websocket"
	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/merge"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

// Deps are the domain collaborators of the handlers.
type Deps struct {
	// Master is the dataset the dashboard serves and merges into.
	Master store.Store
	// Engine merges uploaded batches.
	Engine *merge.Engine
	// Resolver finds key columns for duplicate analysis.
	Resolver *columns.Resolver
	// Backup copies the master aside before a merge is persisted.
	Backup bool
	// IncomingSheet is read from uploaded workbooks.
	IncomingSheet string
	// MaxUploadBytes limits merge uploads.
	MaxUploadBytes int64
	// Now is the clock used for ages. Defaults to time.Now.
	Now func() time.Time
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	deps     Deps
	cache    *cache.Cache
	broker   *events.Broker
	wsHub    *ws.Hub
	upgrader websocket.Upgrader
	logger   *zerolog.Logger

	// mu serializes merges and reloads within the process.
	mu sync.Mutex
}

// New creates a new Handlers instance.
func New(
	deps Deps,
	cache *cache.Cache,
	broker *events.Broker,
	wsHub *ws.Hub,
	upgrader websocket.Upgrader,
	logger *zerolog.Logger,
) *Handlers {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Resolver == nil {
		deps.Resolver = columns.DefaultResolver()
	}
	if deps.Engine == nil {
		deps.Engine = merge.New()
	}
	return &Handlers{
		deps:     deps,
		cache:    cache,
		broker:   broker,
		wsHub:    wsHub,
		upgrader: upgrader,
		logger:   logger,
	}
}

// snapshot is one load of the master together with the views derived
// from it. The duplicate report is computed on first use.
type snapshot struct {
	master   *records.Dataset
	view     *dashboard.View
	loadedAt time.Time

	dupOnce sync.Once
	dups    *analysis.DuplicateReport
}

// snapshot returns the cached master, loading it on a miss. A master that
// does not exist yet is served as an empty dataset.
func (h *Handlers) snapshot(ctx context.Context) (*snapshot, error) {
	v, hit, err := h.cache.GetOrLoad(cache.KeyView, func() (any, error) {
		ds, err := h.loadMaster(ctx)
		if err != nil {
			return nil, err
		}
		now := h.deps.Now()
		return &snapshot{
			master:   ds,
			view:     dashboard.NewView(ds, normalize.DateOf(now)),
			loadedAt: now,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	snap := v.(*snapshot)
	if !hit {
		h.logger.Info().
			Str("master", h.deps.Master.Location()).
			Int("rows", snap.master.Len()).
			Msg("Master dataset loaded")
	}
	return snap, nil
}

func (h *Handlers) loadMaster(ctx context.Context) (*records.Dataset, error) {
	ds, err := h.deps.Master.Load(ctx)
	if errors.IsNotFound(err) {
		return records.New(h.deps.Master.Location()), nil
	}
	return ds, err
}

// invalidate drops every cached view of the master.
func (h *Handlers) invalidate() {
	h.cache.Clear()
}
