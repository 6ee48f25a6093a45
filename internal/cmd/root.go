package cmd

import (
	"github.com/spf13/cobra"
)

const (
	groupCore  = "core"
	groupSetup = "setup"
)

var (
	configFile string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   "launcher",
	Short: "application launcher with smart input",
	Long: `launcher - find and start applications from the terminal
  - type to fuzzy search installed applications and $PATH executables
  - 2+2, 10 km to mi, 20 usd → result to copy
  - ~/notes, example.com, $ htop → open or run`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddGroup(
		&cobra.Group{ID: groupCore, Title: "Launcher:"},
		&cobra.Group{ID: groupSetup, Title: "Setup:"},
	)
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/launcher/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		applyColorMode()
	}

	rootCmd.AddCommand(versionCmd)
}
