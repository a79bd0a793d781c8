package reconciler

import (
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
)

// Columns names the master columns the reconciler may write.
type Columns struct {
	Country    string `mapstructure:"country" yaml:"country"`
	AreasList  string `mapstructure:"areas_list" yaml:"areas_list"`
	AreasCount string `mapstructure:"areas_count" yaml:"areas_count"`
}

// DefaultColumns returns the canonical output columns.
func DefaultColumns() Columns {
	return Columns{
		Country:    constants.CountryColumn,
		AreasList:  constants.AreasListColumn,
		AreasCount: constants.AreasCountColumn,
	}
}

// WithDefaults fills empty names from DefaultColumns.
func (c Columns) WithDefaults() Columns {
	d := DefaultColumns()
	if c.Country == "" {
		c.Country = d.Country
	}
	if c.AreasList == "" {
		c.AreasList = d.AreasList
	}
	if c.AreasCount == "" {
		c.AreasCount = d.AreasCount
	}
	return c
}

// options configures a reconciler.
type options struct {
	columns       Columns
	catalogueSize int
}

func defaultOptions() *options {
	return &options{columns: DefaultColumns()}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// WithColumns sets the output columns.
func WithColumns(c Columns) Option {
	return func(o *options) error {
		o.columns = c.WithDefaults()
		return nil
	}
}

// WithCatalogueSize sets the number of known area labels. A full selection
// of that many labels is treated as suspicious. Zero disables the check.
func WithCatalogueSize(n int) Option {
	return func(o *options) error {
		if n < 0 {
			return &errors.ValidationError{
				Field:   "catalogue_size",
				Value:   n,
				Message: "cannot be negative",
			}
		}
		o.catalogueSize = n
		return nil
	}
}
