// Package store defines how datasets are loaded and persisted.
//
// Backends live in subpackages: csvfile, xlsx, sqlite and memory. File
// backends write through WriteFileAtomic so a failed save never leaves a
// partially written master behind.
package store

import (
	"context"

	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/records"
)

// Source loads a dataset.
type Source interface {
	Load(ctx context.Context) (*records.Dataset, error)
}

// Sink persists a dataset, replacing what was stored before.
type Sink interface {
	Save(ctx context.Context, ds *records.Dataset) error
}

// Store is a dataset location that can be read, written and backed up.
type Store interface {
	Source
	Sink
	// Backup copies the current contents aside and returns where they went.
	// It returns "" when there is nothing to back up yet.
	Backup(ctx context.Context) (string, error)
	// Location describes where the dataset lives.
	Location() string
}

// Persist saves ds to s, taking a backup first when backup is true. The
// backup location is returned. A failed backup aborts the save.
func Persist(ctx context.Context, s Store, ds *records.Dataset, backup bool) (string, error) {
	log := logging.FromContext(ctx)

	var saved string
	if backup {
		var err error
		if saved, err = s.Backup(ctx); err != nil {
			return "", err
		}
		if saved != "" {
			log.Info().Str("backup", saved).Msg("backup created")
		}
	}

	if err := s.Save(ctx, ds); err != nil {
		return saved, err
	}
	log.Info().
		Str("location", s.Location()).
		Int("rows", ds.Len()).
		Int("columns", len(ds.Columns)).
		Msg("dataset saved")
	return saved, nil
}
