// Package cmd implements the command line interface for the application.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/gdmixer/internal/config"
)

var (
	cfgFile string         // Variable to hold the config file path from the flag
	cfg     *config.Config // Global variable to hold the loaded configuration

	// Flag variables mapped to config fields for override
	silentMode    bool // -> cfg.Silent
	abortOnError  bool // -> cfg.AbortOnError
	meltMode      bool // -> cfg.Melt
	removeCasts   bool // -> cfg.RemoveCasts
	stripComments bool // -> cfg.StripComments
	projectRoot   string // -> cfg.ProjectRoot
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gdmixer",
	Short: "A CLI tool to obfuscate GDScript projects.",
	Long: `gdmixer rewrites GDScript sources and scene/resource files so
user-chosen identifiers become opaque tokens while engine-reserved names,
resource paths, and translation keys are preserved.`,
	// PersistentPreRunE runs before any subcommand's RunE.
	// Use this to load configuration early.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil { // Only load config once
			loadedCfg, err := config.LoadConfig(cfgFile)
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err)
			}
			cfg = loadedCfg

			// Apply command-line flag overrides *after* loading config file
			applyFlagOverrides(cfg, cmd)
		}
		return nil
	},
	// Run: Executes if no subcommand is given. Print help.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// applyFlagOverrides applies command-line flag values to the config
// struct. Only overrides if the flag was explicitly set by the user.
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silentMode
	}
	if cmd.Flags().Changed("abort-on-error") {
		cfg.AbortOnError = abortOnError
	}
	if cmd.Flags().Changed("melt") {
		cfg.Melt = meltMode
	}
	if cmd.Flags().Changed("remove-casts") {
		cfg.RemoveCasts = removeCasts
	}
	if cmd.Flags().Changed("strip-comments") {
		cfg.StripComments = stripComments
	}
	if cmd.Flags().Changed("project-root") {
		cfg.ProjectRoot = projectRoot
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		// Cobra usually prints the error. We just need to exit non-zero.
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./gdmixer.yaml)")

	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Suppress informational output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&abortOnError, "abort-on-error", true, "Stop processing on the first error (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&meltMode, "melt", false, "Resolve and validate res:// paths against the project root (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&removeCasts, "remove-casts", true, "Strip type annotations and 'as' casts (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&stripComments, "strip-comments", true, "Delete plain comments from output (overrides config)")
	rootCmd.PersistentFlags().StringVar(&projectRoot, "project-root", "", "Project root for resource path resolution (overrides config)")

	rootCmd.AddCommand(fileCmd)
	rootCmd.AddCommand(dirCmd)
	rootCmd.AddCommand(whatisCmd)
}
