package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "warren",
	Short: "Warren - Blackboard-based agent society runtime",
	Long: `Warren runs societies of collaborating agents over a shared
blackboard of typed concepts and relationships.

Agents publish concepts, subscribe to concepts or concept classes, and
signal each other through the board or over Redis-backed channels. The
inherent vocabulary gives every society a common starting ontology.`,
	Version: version,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
