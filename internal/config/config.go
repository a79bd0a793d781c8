// Package config loads roster configuration from .env files, environment
// variables and an optional YAML file.
//
// Precedence, highest first: flags (applied by the caller), environment
// variables prefixed with ROSTER_, the config file, then defaults. The file
// is --config when given, else ./roster.yaml, else ~/.roster.yaml.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/agentstation/roster/internal/server"
	"github.com/agentstation/roster/pkg/columns"
	"github.com/agentstation/roster/pkg/constants"
	"github.com/agentstation/roster/pkg/errors"
	"github.com/agentstation/roster/pkg/logging"
	"github.com/agentstation/roster/pkg/merge"
	"github.com/agentstation/roster/pkg/normalize"
	"github.com/agentstation/roster/pkg/reconciler"
	"github.com/agentstation/roster/pkg/store"
)

// Config file names searched when no explicit file is given.
const (
	LocalFile = "roster.yaml"
	HomeFile  = ".roster.yaml"
)

// Config is the effective roster configuration.
type Config struct {
	Master    MasterConfig      `mapstructure:"master" yaml:"master"`
	Merge     MergeConfig       `mapstructure:"merge" yaml:"merge"`
	Countries map[string]string `mapstructure:"countries" yaml:"countries,omitempty"`
	Server    server.Config     `mapstructure:"server" yaml:"server"`
	Log       LogConfig         `mapstructure:"log" yaml:"log"`

	// File is the config file that was read, if any.
	File string `mapstructure:"-" yaml:"-"`
}

// MasterConfig locates the master dataset.
type MasterConfig struct {
	Path          string `mapstructure:"path" yaml:"path"`
	Sheet         string `mapstructure:"sheet" yaml:"sheet"`
	Table         string `mapstructure:"table" yaml:"table"`
	Backup        bool   `mapstructure:"backup" yaml:"backup"`
	IncomingSheet string `mapstructure:"incoming_sheet" yaml:"incoming_sheet,omitempty"`
}

// MergeConfig tunes the merge engine.
type MergeConfig struct {
	AreaPrefix        string             `mapstructure:"area_prefix" yaml:"area_prefix"`
	CountryCandidates []string           `mapstructure:"country_candidates" yaml:"country_candidates"`
	Columns           columns.Patterns   `mapstructure:"columns" yaml:"columns"`
	Output            reconciler.Columns `mapstructure:"output" yaml:"output"`
}

// LogConfig selects the log level, format and destination.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Master: MasterConfig{
			Sheet:  constants.DefaultSheetName,
			Table:  constants.DefaultTableName,
			Backup: true,
		},
		Merge: MergeConfig{
			AreaPrefix:        constants.AreaColumnPrefix,
			CountryCandidates: append([]string(nil), merge.DefaultCountryCandidates...),
			Columns:           columns.DefaultPatterns(),
			Output:            reconciler.DefaultColumns(),
		},
		Server: server.DefaultConfig(),
		Log: LogConfig{
			Level:  "info",
			Format: "auto",
			Output: "stderr",
		},
	}
}

// Load reads .env files, the environment and the config file into a
// Config. An empty file searches the default locations; a missing default
// file is not an error, a missing explicit one is.
func Load(file string) (*Config, error) {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if file == "" {
		file = findFile()
	} else if _, err := os.Stat(file); err != nil {
		return nil, errors.NewConfigError("config", "config file not found: "+file, err)
	}

	if file != "" {
		v.SetConfigFile(file)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "failed to read "+file, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.NewConfigError("config", "failed to decode configuration", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it.
func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("master.path", d.Master.Path)
	v.SetDefault("master.sheet", d.Master.Sheet)
	v.SetDefault("master.table", d.Master.Table)
	v.SetDefault("master.backup", d.Master.Backup)
	v.SetDefault("master.incoming_sheet", d.Master.IncomingSheet)

	v.SetDefault("merge.area_prefix", d.Merge.AreaPrefix)
	v.SetDefault("merge.country_candidates", d.Merge.CountryCandidates)
	for _, key := range columns.Keys {
		v.SetDefault("merge.columns."+string(key), d.Merge.Columns.For(key))
	}
	v.SetDefault("merge.output.country", d.Merge.Output.Country)
	v.SetDefault("merge.output.areas_list", d.Merge.Output.AreasList)
	v.SetDefault("merge.output.areas_count", d.Merge.Output.AreasCount)

	v.SetDefault("countries", map[string]string{})

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.path_prefix", d.Server.PathPrefix)
	v.SetDefault("server.cors_origins", d.Server.CORSOrigins)
	v.SetDefault("server.api_key", d.Server.APIKey)
	v.SetDefault("server.cache_ttl", d.Server.CacheTTL)
	v.SetDefault("server.max_upload_bytes", d.Server.MaxUploadBytes)
	v.SetDefault("server.read_timeout", d.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", d.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", d.Server.IdleTimeout)

	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
	v.SetDefault("log.output", d.Log.Output)
}

// findFile returns the first default config file that exists.
func findFile() string {
	if store.FileExists(LocalFile) {
		return LocalFile
	}
	if home, err := os.UserHomeDir(); err == nil {
		if path := filepath.Join(home, HomeFile); store.FileExists(path) {
			return path
		}
	}
	return ""
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return errors.NewValidationError("server.port", c.Server.Port, "must be between 0 and 65535")
	}
	if c.Server.CacheTTL < 0 {
		return errors.NewValidationError("server.cache_ttl", c.Server.CacheTTL, "must not be negative")
	}
	if c.Server.MaxUploadBytes < 0 {
		return errors.NewValidationError("server.max_upload_bytes", c.Server.MaxUploadBytes, "must not be negative")
	}
	if _, err := columns.NewResolver(c.Merge.Columns.WithDefaults()); err != nil {
		return errors.NewConfigError("merge.columns", "invalid column pattern", err)
	}
	return nil
}

// CountryCanon returns the built-in country table with the configured
// overrides applied.
func (c *Config) CountryCanon() *normalize.CountryCanon {
	canon := normalize.DefaultCountryCanon()
	if len(c.Countries) == 0 {
		return canon
	}
	return canon.With(c.Countries)
}

// Resolver builds the column resolver from the configured patterns.
func (c *Config) Resolver() (*columns.Resolver, error) {
	return columns.NewResolver(c.Merge.Columns.WithDefaults())
}

// CountryCandidates returns the configured country source columns.
func (c *Config) CountryCandidates() []string {
	if len(c.Merge.CountryCandidates) == 0 {
		return merge.DefaultCountryCandidates
	}
	return c.Merge.CountryCandidates
}

// AreaPrefix returns the configured interest-area header prefix.
func (c *Config) AreaPrefix() string {
	if c.Merge.AreaPrefix == "" {
		return constants.AreaColumnPrefix
	}
	return c.Merge.AreaPrefix
}

// MergeOptions translates the merge section into engine options.
func (c *Config) MergeOptions(logger *zerolog.Logger) []merge.Option {
	opts := []merge.Option{
		merge.WithColumnPatterns(c.Merge.Columns),
		merge.WithCountryCandidates(c.CountryCandidates()...),
		merge.WithCountryCanon(c.CountryCanon()),
		merge.WithAreaPrefix(c.AreaPrefix()),
		merge.WithOutputColumns(c.Merge.Output),
	}
	if logger != nil {
		opts = append(opts, merge.WithLogger(logger))
	}
	return opts
}

// StoreOptions translates the master section into store options.
func (c *Config) StoreOptions() []store.Option {
	var opts []store.Option
	if c.Master.Sheet != "" {
		opts = append(opts, store.WithSheet(c.Master.Sheet))
	}
	if c.Master.Table != "" {
		opts = append(opts, store.WithTable(c.Master.Table))
	}
	return opts
}

// Logging returns the logger configuration for the log section.
func (c *Config) Logging() *logging.Config {
	lc := logging.DefaultConfig()
	if c.Log.Level != "" {
		lc.Level = c.Log.Level
	}
	if c.Log.Format != "" {
		lc.Format = c.Log.Format
	}
	if c.Log.Output != "" {
		lc.Output = c.Log.Output
	}
	return lc
}

// Masked returns a copy of c that is safe to print.
func (c *Config) Masked() *Config {
	out := *c
	if out.Server.APIKey != "" {
		out.Server.APIKey = "********"
	}
	return &out
}

// YAML renders the masked configuration.
func (c *Config) YAML() ([]byte, error) {
	return yaml.Marshal(c.Masked())
}
