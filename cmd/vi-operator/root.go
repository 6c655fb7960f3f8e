package main

import (
	"github.com/spf13/cobra"

	"github.com/lixenwraith/vi-operator/config"
)

// commandContext carries state resolved by the root command
type commandContext struct {
	configPath string
	cfg        config.Config
}

func newRootCommand() *cobra.Command {
	ctx := &commandContext{}

	root := &cobra.Command{
		Use:           "vi-operator",
		Short:         "Operator notification panel for the battleship HUD",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ctx.configPath)
			if err != nil {
				return err
			}
			ctx.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&ctx.configPath, "config", "c", "vi-operator.toml", "Configuration file (missing file uses defaults)")

	root.AddCommand(newRunCommand(ctx))
	root.AddCommand(newCheckCommand(ctx))
	return root
}
