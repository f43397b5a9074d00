package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lance13c/formpilot/internal/config"
	"github.com/lance13c/formpilot/internal/logging"
)

var pilotConfig *config.Config

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "formpilot",
	Short: "Formpilot - form detection and assisted autofill",
	Long: `Formpilot drives a Chrome instance over the DevTools protocol,
detects fillable form fields on any page, matches them against your
profile, and fills them, either in bulk or interactively through an
in-page suggestion overlay.

Use 'scan' to inspect a page, 'fill' to bulk-fill it, or 'assist' to
attach the interactive overlay and work the form yourself.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("verbose", "V", false, "verbose output")
	rootCmd.PersistentFlags().StringP("project", "p", ".", "project directory")
	rootCmd.PersistentFlags().String("profile", "", "profile file (overrides config)")
	rootCmd.PersistentFlags().Bool("headless", false, "run Chrome headless")
}

// initConfig reads in config file and ENV variables.
func initConfig() {
	verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
	projectDir, _ := rootCmd.PersistentFlags().GetString("project")

	// Initialize logging first
	if err := logging.Initialize(projectDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to initialize logging: %v\n", err)
	} else {
		logging.RedirectStandardLog()
	}
	if verbose {
		logging.GetLogger().SetLevel(logging.DEBUG)
	}

	loader := config.NewLoader(projectDir)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if path, _ := rootCmd.PersistentFlags().GetString("profile"); path != "" {
		cfg.Profile.Path = path
	}
	if headless, _ := rootCmd.PersistentFlags().GetBool("headless"); headless {
		cfg.Browser.Headless = true
	}

	pilotConfig = cfg
	logging.Info("Config loaded: profile=%s headless=%v", cfg.Profile.Path, cfg.Browser.Headless)
}
