package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/Rorical/LeadForm/internal/config"
	"github.com/Rorical/LeadForm/internal/predict"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage endpoint profiles",
	Long:  `Manage named prediction endpoint profiles.`,
}

var listProfilesCmd = &cobra.Command{
	Use:   "list",
	Short: "List all profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Active Profile: %s\n\n", cfg.ActiveProfile)
		fmt.Fprintln(out, "Available Profiles:")
		for _, name := range cfg.ProfileNames() {
			profile := cfg.Profiles[name]
			marker := ""
			if name == cfg.ActiveProfile {
				marker = " (active)"
			}
			fmt.Fprintf(out, "  %s%s\n", name, marker)
			fmt.Fprintf(out, "    Endpoint: %s\n", profile.Endpoint)
			fmt.Fprintf(out, "    Timeout: %s\n", profileTimeout(profile))
			fmt.Fprintln(out)
		}
		return nil
	},
}

var showProfileCmd = &cobra.Command{
	Use:   "show [profile-name]",
	Short: "Show profile details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName := normalizeProfileName(args[0])
		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return eris.Errorf("profile '%s' does not exist", profileName)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Profile: %s\n", profileName)
		fmt.Fprintf(out, "Endpoint: %s\n", profile.Endpoint)
		fmt.Fprintf(out, "Timeout: %s\n", profileTimeout(profile))
		return nil
	},
}

var addProfileCmd = &cobra.Command{
	Use:   "add [profile-name]",
	Short: "Add a new profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		var profileName string
		if len(args) > 0 {
			profileName = args[0]
		} else {
			prompt := promptui.Prompt{
				Label:    "Profile name",
				Validate: validateProfileName,
			}
			profileName, err = prompt.Run()
			if err != nil {
				return eris.Wrap(err, "prompt failed")
			}
		}
		profileName = normalizeProfileName(profileName)

		if _, exists := cfg.Profiles[profileName]; exists {
			return eris.Errorf("profile '%s' already exists", profileName)
		}

		profile, err := promptProfile(config.Profile{
			Endpoint:       config.DefaultEndpoint,
			TimeoutSeconds: config.DefaultTimeout,
		})
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' added successfully!\n", profileName)
		return nil
	},
}

var editProfileCmd = &cobra.Command{
	Use:   "edit [profile-name]",
	Short: "Edit an existing profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to edit", "")
		if err != nil {
			return err
		}

		profile, exists := cfg.Profiles[profileName]
		if !exists {
			return eris.Errorf("profile '%s' does not exist", profileName)
		}

		profile, err = promptProfile(profile)
		if err != nil {
			return err
		}

		cfg.Profiles[profileName] = profile
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' updated successfully!\n", profileName)
		return nil
	},
}

var deleteProfileCmd = &cobra.Command{
	Use:   "delete [profile-name]",
	Short: "Delete a profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to delete", "")
		if err != nil {
			return err
		}

		if _, exists := cfg.Profiles[profileName]; !exists {
			return eris.Errorf("profile '%s' does not exist", profileName)
		}

		confirmPrompt := promptui.Prompt{
			Label:     fmt.Sprintf("Delete profile '%s'", profileName),
			IsConfirm: true,
		}
		if _, err := confirmPrompt.Run(); err != nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Deletion cancelled")
			return nil
		}

		if err := cfg.Remove(profileName); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile '%s' deleted successfully!\n", profileName)
		return nil
	},
}

var switchProfileCmd = &cobra.Command{
	Use:   "switch [profile-name]",
	Short: "Switch to a different profile",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		profileName, err := profileArgOrSelect(cfg, args, "Select profile to switch to", cfg.ActiveProfile)
		if err != nil {
			return err
		}

		if err := cfg.Use(profileName); err != nil {
			return err
		}
		if err := cfg.Save(); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Switched to profile '%s'\n", profileName)
		return nil
	},
}

var checkProfileCmd = &cobra.Command{
	Use:   "check [profile-name]",
	Short: "Check that a profile's endpoint is reachable",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		if len(args) > 0 {
			if err := cfg.Use(normalizeProfileName(args[0])); err != nil {
				return err
			}
		}

		client := predict.NewClient(cfg.GetEndpoint(), cfg.GetTimeout())
		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.GetTimeout())
		defer cancel()

		msg, err := client.Ping(ctx)
		if err != nil {
			return eris.Wrapf(err, "endpoint %s unreachable", cfg.GetEndpoint())
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s [OK] %s\n", cfg.GetEndpoint(), msg)
		return nil
	},
}

// profileArgOrSelect returns the profile named in args, or lets the user
// pick one. exclude is left out of the selection list.
func profileArgOrSelect(cfg *config.Config, args []string, label, exclude string) (string, error) {
	if len(args) > 0 {
		return normalizeProfileName(args[0]), nil
	}

	names := make([]string, 0, len(cfg.Profiles))
	for _, name := range cfg.ProfileNames() {
		if name != exclude {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "", eris.New("no profiles available")
	}

	prompt := promptui.Select{
		Label: label,
		Items: names,
	}
	_, name, err := prompt.Run()
	if err != nil {
		return "", eris.Wrap(err, "selection failed")
	}
	return name, nil
}

func promptProfile(current config.Profile) (config.Profile, error) {
	endpointPrompt := promptui.Prompt{
		Label:    "Endpoint",
		Default:  current.Endpoint,
		Validate: config.ValidateEndpoint,
	}
	endpoint, err := endpointPrompt.Run()
	if err != nil {
		return current, eris.Wrap(err, "prompt failed")
	}

	timeoutPrompt := promptui.Prompt{
		Label:    "Timeout (seconds)",
		Default:  strconv.Itoa(current.TimeoutSeconds),
		Validate: validateTimeout,
	}
	timeout, err := timeoutPrompt.Run()
	if err != nil {
		return current, eris.Wrap(err, "prompt failed")
	}
	seconds, _ := strconv.Atoi(strings.TrimSpace(timeout))

	return config.Profile{
		Endpoint:       strings.TrimRight(strings.TrimSpace(endpoint), "/"),
		TimeoutSeconds: seconds,
	}, nil
}

// Profile names are case-insensitive; the config loader lowercases keys.
func normalizeProfileName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func validateProfileName(input string) error {
	if normalizeProfileName(input) == "" {
		return eris.New("profile name is required")
	}
	return nil
}

func validateTimeout(input string) error {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || n <= 0 {
		return eris.New("timeout must be a positive number of seconds")
	}
	return nil
}

func profileTimeout(p config.Profile) time.Duration {
	if p.TimeoutSeconds <= 0 {
		return config.DefaultTimeout * time.Second
	}
	return time.Duration(p.TimeoutSeconds) * time.Second
}

func init() {
	profileCmd.AddCommand(listProfilesCmd)
	profileCmd.AddCommand(showProfileCmd)
	profileCmd.AddCommand(addProfileCmd)
	profileCmd.AddCommand(editProfileCmd)
	profileCmd.AddCommand(deleteProfileCmd)
	profileCmd.AddCommand(switchProfileCmd)
	profileCmd.AddCommand(checkProfileCmd)
}
