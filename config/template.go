package config

import (
	"bytes"
	"os"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/teranos/queryscope/errors"
)

const templateHeader = `# queryscope configuration
#
# Input paths are left empty; point fdh.path at an FDH schema JSON export and
# osquery.path at a case-management osquery CSV export.
`

// DefaultConfig returns a Config populated with the package defaults.
func DefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	// Defaults always unmarshal cleanly; guard anyway for future edits
	if err := v.Unmarshal(&cfg); err != nil {
		return &Config{}
	}
	return &cfg
}

// WriteTemplate writes a starter YAML config to path.
// Refuses to overwrite an existing file.
func WriteTemplate(path string) error {
	if _, err := os.Stat(path); err == nil {
		return errors.Newf("config file already exists: %s", path)
	}

	var buf bytes.Buffer
	buf.WriteString(templateHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(DefaultConfig()); err != nil {
		return errors.Wrap(err, "encode config template")
	}
	if err := enc.Close(); err != nil {
		return errors.Wrap(err, "finalize config template")
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "write config template to %s", path)
	}
	return nil
}
