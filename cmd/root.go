package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Rorical/LeadForm/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "leadform",
	Short: "Marketing campaign lead predictor",
	Long: `LeadForm collects seven marketing-lead attributes, validates them and asks
a remote prediction endpoint whether the lead is likely to respond.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runForm()
	},
}

func runForm() error {
	application, err := app.NewApplication()
	if err != nil {
		return err
	}
	defer application.Stop()

	return application.Start()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(profileCmd)
}
