package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crosscache-dev/crosscache/internal/config"
	"github.com/crosscache-dev/crosscache/internal/engine"
	"github.com/crosscache-dev/crosscache/internal/watch"
)

func RunWatch(cmd *cobra.Command, args []string) error {
	asJSON, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("failed to read --json flag: %w", err)
	}
	debounce, err := cmd.Flags().GetDuration("debounce")
	if err != nil {
		return fmt.Errorf("failed to read --debounce flag: %w", err)
	}

	cfg, err := config.Load(configPathFromArgs(args))
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	regenerate := func() {
		report, err := eng.Run(ctx)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: generate failed: %v\n", err)
			return
		}
		if err := PrintRunReport(report, asJSON); err != nil {
			fmt.Fprintf(os.Stderr, "warning: %v\n", err)
		}
	}

	// One full pass up front so the watcher starts from a current cache.
	regenerate()

	w, err := watch.New(cfg.SourcePaths(), debounce, regenerate)
	if err != nil {
		return err
	}
	defer w.Close()

	if !asJSON {
		fmt.Printf("watching %d sources, ctrl-c to stop\n", len(cfg.SourcePaths()))
	}
	if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
