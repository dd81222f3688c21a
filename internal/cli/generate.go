package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crosscache-dev/crosscache/internal/config"
	"github.com/crosscache-dev/crosscache/internal/engine"
)

func RunGenerate(cmd *cobra.Command, args []string) error {
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

	report, err := eng.Run(cmd.Context())
	if err != nil {
		return err
	}

	return PrintRunReport(report, asJSON)
}
