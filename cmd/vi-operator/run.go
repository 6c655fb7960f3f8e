package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-operator/logging"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts appOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Play a scenario through the operator panel",
		Long: `Play a scenario script through the operator panel.

The terminal shows the panel; q or Esc quits, p pauses, h hides the
current line and c clears the queue. With --headless the panel is written
to stdout as text and the run ends when the script has finished.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := ctx.cfg
			logOpts := logging.Options{
				Level:  cfg.Log.Level,
				Format: cfg.Log.Format,
				Path:   cfg.Log.Path,
				Writer: cmd.ErrOrStderr(),
			}
			if !opts.headless && logOpts.Path == "" {
				// The screen owns the terminal
				logOpts.Path = "vi-operator.log"
			}
			logger, closeLog, err := logging.New(logOpts)
			if err != nil {
				return err
			}
			defer closeLog()

			opts.out = cmd.OutOrStdout()
			a, err := newApp(cmd.Context(), cfg, opts, logger)
			if err != nil {
				return err
			}
			defer a.close()

			if err := a.run(cmd.Context()); err != nil {
				return fmt.Errorf("run: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.scenarioPath, "scenario", "s", "assets/scenario.toml", "Scenario script")
	cmd.Flags().StringVar(&opts.catalogPath, "catalog", "", "Catalog file (overrides config)")
	cmd.Flags().Uint64Var(&opts.seed, "seed", 0, "Variant selection seed (0 picks randomly)")
	cmd.Flags().BoolVar(&opts.headless, "headless", false, "Print panel frames instead of drawing the terminal")
	cmd.Flags().DurationVar(&opts.limit, "duration", 0, "Stop after this much wall time (0 runs until done or quit)")
	cmd.Flags().BoolVar(&opts.loop, "loop", false, "Repeat the scenario")
	return cmd
}
