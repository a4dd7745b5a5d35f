package config

import (
	"github.com/spf13/viper"
)

// Default file permissions for the ~/.queryscope directory
const DefaultDirPermissions = 0o755

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Run ledger defaults
	v.SetDefault("database.path", "queryscope.db")

	// FDH schema analysis defaults
	v.SetDefault("fdh.summary_path", "fdh_summary.json")
	v.SetDefault("fdh.aggregate_csv_path", "")
	v.SetDefault("fdh.include_raw", true)

	// osquery ingestion defaults
	v.SetDefault("osquery.load_nrows", 0) // 0 = all rows
	v.SetDefault("osquery.summary_path", "osquery_summary.json")
	v.SetDefault("osquery.query_summary_csv", "query_summary.csv")

	// Log defaults
	v.SetDefault("log.theme", "everforest")
	v.SetDefault("log.json", false)
}

// BindSensitiveEnvVars explicitly binds configuration to environment variables
func BindSensitiveEnvVars(v *viper.Viper) {
	// Ledger path override for dev/CI runs
	v.BindEnv("database.path", "QUERYSCOPE_DATABASE_PATH")
	v.BindEnv("log.theme", "QUERYSCOPE_LOG_THEME")
}
