package merge

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/reconciler"
)

// DefaultCountryCandidates lists the columns a record's country is read
// from, in priority order.
var DefaultCountryCandidates = []string{
	constants.CountryColumn,
	"País de residencia",
	"País",
	"Pais",
	"País (Residencia)",
	"Country",
}

// options holds the engine configuration.
type options struct {
	logger     *zerolog.Logger
	patterns   columns.Patterns
	candidates []string
	canon      *normalize.CountryCanon
	areaPrefix string
	output     reconciler.Columns
	now        func() time.Time
}

func defaultOptions() *options {
	return &options{
		patterns:   columns.DefaultPatterns(),
		candidates: DefaultCountryCandidates,
		canon:      normalize.DefaultCountryCanon(),
		areaPrefix: constants.AreaColumnPrefix,
		output:     reconciler.DefaultColumns(),
		now:        time.Now,
	}
}

// Option configures an Engine.
type Option func(*options)

// WithLogger sets the logger. Without it the context logger is used.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithColumnPatterns overrides the key column patterns. Empty lists keep
// their defaults.
func WithColumnPatterns(p columns.Patterns) Option {
	return func(o *options) {
		o.patterns = p.WithDefaults()
	}
}

// WithCountryCandidates sets the country source columns.
func WithCountryCandidates(candidates ...string) Option {
	return func(o *options) {
		if len(candidates) > 0 {
			o.candidates = candidates
		}
	}
}

// WithCountryCanon sets the country lookup table.
func WithCountryCanon(canon *normalize.CountryCanon) Option {
	return func(o *options) {
		if canon != nil {
			o.canon = canon
		}
	}
}

// WithAreaPrefix sets the header prefix of the interest-area columns.
func WithAreaPrefix(prefix string) Option {
	return func(o *options) {
		if prefix != "" {
			o.areaPrefix = prefix
		}
	}
}

// WithOutputColumns sets the columns the engine writes.
func WithOutputColumns(c reconciler.Columns) Option {
	return func(o *options) {
		o.output = c.WithDefaults()
	}
}

// WithClock sets the time source used for report timing.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}
