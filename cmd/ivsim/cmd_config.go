package main

import (
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Long: `Config prints the configuration a run would use: the defaults, overlaid
by --config, overlaid by explicit flags. The output is a valid --config file.

Examples:
  ivsim config > sim.yaml
  ivsim config --config sim.yaml --seed 7`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			return cfg.WriteYAML(cmd.OutOrStdout())
		},
	}
	addSimulationFlags(cmd)
	return cmd
}
