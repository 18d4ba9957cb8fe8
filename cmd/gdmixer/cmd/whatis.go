package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/obfuscator"
)

var whatisTargetDir string

// whatisCmd represents the whatis command
var whatisCmd = &cobra.Command{
	Use:   "whatis <scrambled_name>",
	Short: "Looks up the original name for a given scrambled name",
	Long: `Loads the saved obfuscation context from a previous run's target directory
and attempts to find the original identifier corresponding to the provided
scrambled name. Only run-wide (public) names are recorded in the context;
per-file private labels are never persisted.

You must specify the target directory where the context was saved using --target-dir (-t).`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if whatisTargetDir == "" {
			return fmt.Errorf("--target-dir (-t) flag is required")
		}
		info, err := os.Stat(whatisTargetDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("target directory '%s' not found", whatisTargetDir)
			}
			return fmt.Errorf("error checking target directory '%s': %w", whatisTargetDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("target path '%s' is not a directory", whatisTargetDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		scrambledName := args[0]
		cmd.SilenceUsage = true // Prevent usage print on expected errors (like not found)

		// Defaults suffice here; only the saved scramble map is consulted.
		dummyCfg, err := config.LoadConfig("")
		if err != nil {
			return fmt.Errorf("failed to load default config for context init: %w", err)
		}

		octx, err := obfuscator.NewObfuscationContext(dummyCfg)
		if err != nil {
			return fmt.Errorf("failed to initialize obfuscation context structure: %w", err)
		}
		if err := octx.Load(whatisTargetDir); err != nil {
			return fmt.Errorf("error loading obfuscation context from %s: %w", whatisTargetDir, err)
		}
		if !octx.Silent {
			fmt.Printf("Searching for original name of '%s' in context %s\n", scrambledName, whatisTargetDir)
		}

		originalName, ok := octx.Allocator().Unscramble(scrambledName)
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: Scrambled name '%s' not found in the loaded context.\n", scrambledName)
			return fmt.Errorf("name not found") // Return specific error for scripting
		}

		fmt.Printf("Found: '%s'\n", originalName)
		return nil
	},
}

func init() {
	whatisCmd.Flags().StringVarP(&whatisTargetDir, "target-dir", "t", "", "Target directory of a previous obfuscate run (required)")
}
