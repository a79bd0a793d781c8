// Package constants provides shared constants used throughout the roster codebase.
// This includes file permissions, canonical column names, time formats and the
// defaults shared by the CLI and the dashboard server.
package constants

import "time"

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Canonical columns written by the merge engine into the master dataset.
const (
	// CountryColumn holds the canonical country display form.
	CountryColumn = "País (normalizado)"

	// AreasListColumn holds the selected interest areas joined by AreasSeparator.
	AreasListColumn = "Áreas de interés (lista)"

	// AreasCountColumn holds the number of selected interest areas.
	AreasCountColumn = "Áreas de interés (count)"

	// AreasSeparator joins labels in AreasListColumn.
	AreasSeparator = "; "

	// AreaColumnPrefix identifies checkbox-style interest area columns.
	AreaColumnPrefix = "Área(s) de Interés para Voluntariado"
)

// Columns read by the dashboard view.
const (
	FirstNameColumn  = "Nombre completo: First"
	LastNameColumn   = "Nombre completo: Last"
	FullNameColumn   = "Nombre completo"
	BirthDateColumn  = "Fecha de nacimiento"
	SexColumn        = "Sexo"
	EducationColumn  = "Nivel académico"
	AgeColumn        = "Edad (calculada)"
	NoAgeLabel       = "Sin edad"
	DefaultSheetName = "Merged"
	DefaultTableName = "volunteers"
)

// Limits used by the dashboard and analysis commands.
const (
	// DefaultPageSize is the default number of rows per page in the dashboard API
	DefaultPageSize = 100

	// MaxPageSize is the maximum allowed page size
	MaxPageSize = 1000

	// MinPhoneDigits is the minimum digit count for a phone to be a matching key
	MinPhoneDigits = 7

	// DefaultTopCountries is the default number of countries in the distribution
	DefaultTopCountries = 10

	// DefaultTopAreas is the number of areas in the distribution
	DefaultTopAreas = 10

	// DefaultAgeBins is the default number of age histogram bins
	DefaultAgeBins = 10

	// ChannelBufferSize is the default buffer size for event channels
	ChannelBufferSize = 100
)

// Cache constants
const (
	// CacheTTL is the default time-to-live for the loaded dataset
	CacheTTL = 5 * time.Minute

	// CacheCleanupInterval is how often to clean expired cache entries
	CacheCleanupInterval = 10 * time.Minute
)

// Format constants
const (
	// TimeFormatFilename is the format used in backup filenames
	TimeFormatFilename = "20060102-150405"

	// DateFormat is the display format for calendar dates
	DateFormat = "2006-01-02"
)

// Application identity
const (
	// AppName is the binary and config file stem
	AppName = "roster"

	// EnvPrefix is the prefix for environment overrides
	EnvPrefix = "ROSTER"
)
