// Adviceboard is a terminal client for the community advice board.
//
// It provides an interactive TUI for browsing, searching, posting, and
// replying, plus direct subcommands for scripting. Authentication uses a
// bearer token stored in the user's config directory.
//
// Usage:
//
//	adviceboard [command] [flags]
//
// Running without arguments launches the interactive interface.
// See 'adviceboard --help' for available commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/adviceboard/adviceboard/internal/logging"
	"github.com/adviceboard/adviceboard/internal/version"
)

func main() {
	if err := logging.InitializeFromEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
	}
	defer logging.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "adviceboard",
	Short: "Community advice board client",
	Long: `A terminal client for the community advice board.

Browse posts, search by title and content, create and edit your own posts,
and reply to others. Running without a subcommand launches the interactive
interface.`,
	Version: version.Version,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: run the TUI when no subcommand provided
		return runTUI(cmd, args)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("adviceboard %s (commit: %s)\n", version.Version, version.Commit)
	},
}
