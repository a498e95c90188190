package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Output is the --output flag: "table" (default) or "json".
var Output string

// Exported RootCmd
var RootCmd = &cobra.Command{
	Use:          "quotes",
	Short:        "Quote API CLI",
	Long:         "Command line interface for registering, logging in and managing quotes through the Quote API.",
	SilenceUsage: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&Output, "output", "o", "table", "Output format: table or json")
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// Optional helper to return the RootCmd
func GetRoot() *cobra.Command {
	return RootCmd
}

// JSONOutput reports whether --output json was requested.
func JSONOutput() bool {
	return Output == "json"
}
