package cmdutil

import (
	"context"

	"github.com/agentstation/roster/internal/cmd/application"
	"github.com/agentstation/roster/internal/datastore"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/records"
	"github.com/agentstation/roster/pkg/store"
)

// Context attaches the app logger to ctx so library code logs through it.
func Context(ctx context.Context, app application.Application, operation string) context.Context {
	ctx = logging.WithLogger(ctx, app.Logger())
	return logging.WithOperation(ctx, operation)
}

// OpenMaster opens and loads the master described by flags. The returned
// store must be released with datastore.Close.
func OpenMaster(ctx context.Context, app application.Application, flags *MasterFlags) (store.Store, *records.Dataset, error) {
	if flags.Path == "" {
		return nil, nil, &errors.ValidationError{Field: "master", Message: "a master dataset is required (--master or master.path)"}
	}
	s, err := app.Store(flags.Path, store.WithSheet(flags.Sheet))
	if err != nil {
		return nil, nil, err
	}
	ds, err := s.Load(ctx)
	if err != nil {
		_ = datastore.Close(s)
		return nil, nil, err
	}
	return s, ds, nil
}

// LoadOrEmpty loads s, treating a missing dataset as an empty one.
func LoadOrEmpty(ctx context.Context, s store.Store) (*records.Dataset, error) {
	ds, err := s.Load(ctx)
	if errors.IsNotFound(err) {
		logging.FromContext(ctx).Warn().
			Str("location", s.Location()).
			Msg("Dataset not found, starting from an empty one")
		return records.New(s.Location()), nil
	}
	return ds, err
}

// SaveTo persists ds to path, taking a backup first when backup is set.
// An empty path saves to s itself.
func SaveTo(ctx context.Context, app application.Application, s store.Store, path, sheet string, ds *records.Dataset, backup bool) (string, error) {
	target := s
	if path != "" {
		var err error
		if target, err = app.Store(path, store.WithSheet(sheet)); err != nil {
			return "", err
		}
		defer func() { _ = datastore.Close(target) }()
	}
	return store.Persist(ctx, target, ds, backup)
}
