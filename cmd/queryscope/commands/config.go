package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/queryscope/config"
	"github.com/teranos/queryscope/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage queryscope configuration",
	Long: `config — Manage queryscope configuration

Configuration merges /etc/queryscope/config.yml, ~/.queryscope/config.yml,
a project-local queryscope.yml, and QUERYSCOPE_* environment variables,
in that order of precedence.

Examples:
  queryscope config init           # Write queryscope.yml in the current directory
  queryscope config init ~/my.yml  # Write a starter config elsewhere
  queryscope config show           # Print the effective merged configuration`,
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write a starter configuration file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := "queryscope.yml"
		if len(args) == 1 {
			path = args[0]
		}
		if err := config.WriteTemplate(path); err != nil {
			return err
		}
		fmt.Printf("Wrote starter configuration to %s\n", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(cmd)
		if err != nil {
			return errors.Wrap(err, "load configuration")
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return errors.Wrap(err, "encode configuration")
		}
		fmt.Print(string(data))
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}
