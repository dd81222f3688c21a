package cli

import (
	"fmt"
	"strings"

	"github.com/crosscache-dev/crosscache/internal/engine"
	"github.com/crosscache-dev/crosscache/internal/fileutil"
)

func PrintRunReport(report *engine.Report, asJSON bool) error {
	if asJSON {
		return fileutil.PrintJSON(report)
	}

	fmt.Printf("generate complete in %dms\n", report.DurationMS)
	fmt.Printf("output: %s\n", report.CacheDir)
	fmt.Printf("indexes: rebuilt=%d reused=%d\n", len(report.Indexed), len(report.Reused))
	fmt.Printf("bundles: operations=%d queries=%d assembled=%d failed=%d\n",
		report.Operations, report.Queries, report.Assembled, len(report.Failed))
	if len(report.Indexed) > 0 {
		fmt.Printf("rebuilt indexes (%d): %s\n", len(report.Indexed), SummarizePaths(report.Indexed, 8))
	}
	if len(report.Failed) > 0 {
		fmt.Printf("failed units (%d): %s\n", len(report.Failed), SummarizePaths(report.Failed, 8))
	}
	for _, diag := range report.Diagnostics {
		fmt.Printf("  note: %s\n", diag)
	}
	return nil
}

func SummarizePaths(paths []string, max int) string {
	if len(paths) <= max {
		return strings.Join(paths, ", ")
	}
	return fmt.Sprintf("%s ... (+%d more)", strings.Join(paths[:max], ", "), len(paths)-max)
}
