package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Rorical/LeadForm/internal/config"
)

var useCmd = &cobra.Command{
	Use:   "use [profile-name]",
	Short: "Switch to a profile and start the form",
	Long:  `Switch to the specified endpoint profile and immediately start the form.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if err := cfg.Use(normalizeProfileName(args[0])); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		return runForm()
	},
}

func init() {
	rootCmd.AddCommand(useCmd)
}
