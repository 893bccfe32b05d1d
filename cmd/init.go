package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/empath-labs/intake-server/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Interactively configure the intake server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.RunWizard()
		if err != nil {
			return err
		}
		fmt.Printf("Ready. Run `empath serve` to start on port %d.\n", cfg.Port)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
