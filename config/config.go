// Package config loads queryscope configuration.
//
// Configuration is YAML, merged from (lowest to highest precedence):
// /etc/queryscope/config.yml, ~/.queryscope/config.yml, a project-local
// queryscope.yml found by walking up from the working directory, then
// QUERYSCOPE_* environment variables.
package config

// Config represents the queryscope configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`
	FDH      FDHConfig      `mapstructure:"fdh" yaml:"fdh"`
	Osquery  OsqueryConfig  `mapstructure:"osquery" yaml:"osquery"`
	Log      LogConfig      `mapstructure:"log" yaml:"log"`
}

// DatabaseConfig configures the SQLite run ledger
type DatabaseConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// FDHConfig configures FDH schema analysis
type FDHConfig struct {
	Path             string `mapstructure:"path" yaml:"path"`                             // FDH schema JSON input
	SummaryPath      string `mapstructure:"summary_path" yaml:"summary_path"`             // summary JSON output
	AggregateCSVPath string `mapstructure:"aggregate_csv_path" yaml:"aggregate_csv_path"` // optional aggregate CSV dump ("" = skip)
	IncludeRaw       bool   `mapstructure:"include_raw" yaml:"include_raw"`               // include per-event-type raw attribute maps
}

// OsqueryConfig configures osquery export ingestion
type OsqueryConfig struct {
	Path            string `mapstructure:"path" yaml:"path"`                           // case-management CSV export
	LoadNRows       int    `mapstructure:"load_nrows" yaml:"load_nrows"`               // 0 = load all rows
	SummaryPath     string `mapstructure:"summary_path" yaml:"summary_path"`           // summary JSON output
	QuerySummaryCSV string `mapstructure:"query_summary_csv" yaml:"query_summary_csv"` // per-query summary CSV ("" = skip)
}

// LogConfig configures log output
type LogConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"` // Color theme: gruvbox, everforest
	JSON  bool   `mapstructure:"json" yaml:"json"`   // JSON structured output
}

// GetDatabasePath returns the configured ledger path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return "queryscope.db" // Fallback default
	}
	return c.Database.Path
}
