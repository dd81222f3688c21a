package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const defaultConfigPath = "cache_config.json"

func NewRootCommand(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crosscache",
		Short: "Incremental line-range indexes and cross-reference caches",
		Long: `Crosscache indexes an OpenAPI spec, SQL schema and query files, and
generated source files by line range, then assembles one cache bundle
per API operation and per named query with its referenced schemas,
tables, and generated code inlined.

Unchanged source files are skipped via content fingerprints, and cache
files are rewritten only when their bytes actually change.`,
	}

	generateCmd := &cobra.Command{
		Use:   "generate [config]",
		Short: "Index configured sources and rebuild cache bundles",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunGenerate,
	}
	generateCmd.Flags().Bool("json", false, "Print machine-readable run summary")

	statusCmd := &cobra.Command{
		Use:   "status [config]",
		Short: "Show which sources the next generate would re-index",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunStatus,
	}
	statusCmd.Flags().Bool("json", false, "Print machine-readable status output")

	watchCmd := &cobra.Command{
		Use:   "watch [config]",
		Short: "Watch configured sources and regenerate on change",
		Args:  cobra.MaximumNArgs(1),
		RunE:  RunWatch,
	}
	watchCmd.Flags().Bool("json", false, "Print machine-readable run summaries")
	watchCmd.Flags().Duration("debounce", 0, "Delay before regenerating after a change (default 400ms)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("crosscache %s\n", version)
		},
	}

	rootCmd.AddCommand(
		generateCmd,
		statusCmd,
		watchCmd,
		versionCmd,
	)

	return rootCmd
}

func configPathFromArgs(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return defaultConfigPath
}
