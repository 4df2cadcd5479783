package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Trivaxy/Spyglass/src/internal/common"
	versionpkg "github.com/Trivaxy/Spyglass/src/internal/version"
)

// CLI Constants
const (
	CmdVersion      = "version"
	CmdCache        = "cache"
	CmdCacheInspect = "inspect"
	CmdCacheVerify  = "verify"
	FlagConfig      = "config"
	FlagVerbose     = "verbose"
)

// CLI Variables
var (
	configPath string
	verbose    bool
)

// Root command
var rootCmd = &cobra.Command{
	Use:   "spyglass",
	Short: "Spyglass - symbol indexing for Minecraft data packs",
	Long: `Spyglass maintains a queryable index of every identifier declared,
defined or referenced across a data pack workspace, scoped by
visibility rules and kept consistent as documents change.

AVAILABLE COMMANDS:
  spyglass version                        # Show version information
  spyglass cache inspect <file>           # Summarize a persisted symbol cache
  spyglass cache verify <file>            # Check tracked files against the cache`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   CmdVersion,
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(versionpkg.GetFullVersionInfo())
	},
}

var cacheCmd = &cobra.Command{
	Use:   CmdCache,
	Short: "Work with persisted symbol caches",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, FlagConfig, "", "Path to configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, FlagVerbose, "v", false, "Enable verbose logging")

	cacheCmd.AddCommand(cacheInspectCmd)
	cacheCmd.AddCommand(cacheVerifyCmd)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
}

// Execute runs the root command.
func Execute() error {
	cobra.OnInitialize(func() {
		verbosity := 1
		if verbose {
			verbosity = 2
		}
		common.ConfigureLogging(verbosity, nil)
	})
	return rootCmd.Execute()
}
