package application

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/internal/config"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/store"
	"github.com/agentstation/roster/pkg/store/memory"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
type Mock struct {
	ConfigFunc       func() *config.Config
	StoreFunc        func(path string, opts ...store.Option) (store.Store, error)
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	NowFunc          func() time.Time
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Config returns the mock configuration or the defaults.
func (m *Mock) Config() *config.Config {
	if m.ConfigFunc != nil {
		return m.ConfigFunc()
	}
	return config.Default()
}

// Store opens a store using the mock function or fails.
func (m *Mock) Store(path string, opts ...store.Option) (store.Store, error) {
	if m.StoreFunc != nil {
		return m.StoreFunc(path, opts...)
	}
	return nil, errors.NewNotFoundError("store", path)
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "json".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "json"
}

// Now returns the mock time or the current time.
func (m *Mock) Now() time.Time {
	if m.NowFunc != nil {
		return m.NowFunc()
	}
	return time.Now()
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// WithMemoryStores makes Store serve stores by path. Unknown paths get an
// empty store that is kept in the map, so later calls see what was saved.
func (m *Mock) WithMemoryStores(stores map[string]*memory.Store) *Mock {
	var mu sync.Mutex
	m.StoreFunc = func(path string, _ ...store.Option) (store.Store, error) {
		mu.Lock()
		defer mu.Unlock()
		s, ok := stores[path]
		if !ok {
			s = memory.New(path, nil)
			stores[path] = s
		}
		return s, nil
	}
	return m
}

// Ensure Mock implements Application at compile time.
var _ Application = (*Mock)(nil)
