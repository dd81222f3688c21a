package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscache-dev/crosscache/internal/config"
	"github.com/crosscache-dev/crosscache/internal/engine"
	"github.com/crosscache-dev/crosscache/internal/fileutil"
)

type StatusReport struct {
	Mode     string                `json:"mode"`
	BaseDir  string                `json:"base_dir"`
	CacheDir string                `json:"cache_dir"`
	Clean    bool                  `json:"clean"`
	Sources  []engine.SourceStatus `json:"sources"`
}

func RunStatus(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}

	cfg, err := config.Load(configPathFromArgs(args))
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	report := StatusReport{
		Mode:     "status",
		BaseDir:  cfg.BaseDir,
		CacheDir: cfg.CacheDir,
		Clean:    true,
		Sources:  eng.Status(),
	}
	for _, s := range report.Sources {
		if s.Stale {
			report.Clean = false
		}
	}

	if asJSON {
		return fileutil.PrintJSON(report)
	}

	if report.Clean {
		fmt.Println("status: clean, generate would reuse every index")
	} else {
		fmt.Println("status: stale, generate would re-index changed sources")
	}
	for _, s := range report.Sources {
		switch {
		case s.Missing:
			fmt.Printf("  %-12s %s (missing)\n", s.Format, s.Path)
		case s.Stale:
			fmt.Printf("  %-12s %s (stale)\n", s.Format, s.Path)
		default:
			fmt.Printf("  %-12s %s\n", s.Format, s.Path)
		}
	}
	return nil
}
