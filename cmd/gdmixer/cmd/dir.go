package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/gdmixer/internal/obfuscator"
)

var (
	outputDir string // Flag variable for output directory
	cleanMode bool   // Flag variable for cleaning target directory
)

// dirCmd represents the obfuscate dir command
var dirCmd = &cobra.Command{
	Use:   "dir <project_directory>",
	Short: "Obfuscate a Godot project tree recursively",
	Long: `Recursively scans the project directory for script and scene
files (based on configured extensions), rewrites them, and outputs the
results to the target directory, preserving the original structure.
Manages a shared context so renames stay stable across incremental runs.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		outputDirFromFlag, _ := cmd.Flags().GetString("output")
		if outputDirFromFlag == "" {
			return fmt.Errorf("output directory (-o, --output) is required for directory obfuscation")
		}
		sourceDir := args[0]
		info, err := os.Stat(sourceDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("source directory '%s' not found", sourceDir)
			}
			return fmt.Errorf("error checking source directory '%s': %w", sourceDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source path '%s' is not a directory", sourceDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		cmd.SilenceUsage = true

		sourceDir := args[0]
		targetDir := outputDir
		cfg.TargetDirectory = targetDir
		if cfg.ProjectRoot == "" {
			// Resource paths resolve against the tree being rewritten.
			cfg.ProjectRoot = sourceDir
		}

		if !cfg.Silent {
			fmt.Println("--- Project Obfuscation ---")
			fmt.Printf("Source Directory: %s\n", sourceDir)
			fmt.Printf("Target Directory: %s\n", cfg.TargetDirectory)
			fmt.Printf("Melt Mode: %t\n", cfg.Melt)
			fmt.Println("---------------------------")
		}

		if cleanMode {
			targetPath := cfg.TargetDirectory
			if targetPath == "" {
				return fmt.Errorf("cannot clean: target directory is not specified")
			}
			if _, err := os.Stat(targetPath); !os.IsNotExist(err) {
				if targetPath == "/" || targetPath == "." || targetPath == ".." {
					return fmt.Errorf("refusing to clean potentially dangerous path: %s", targetPath)
				}
				if !cfg.Silent {
					fmt.Printf("Info: Cleaning target directory: %s\n", targetPath)
				}
				if err := os.RemoveAll(targetPath); err != nil {
					return fmt.Errorf("failed to clean target directory %s: %w", targetPath, err)
				}
			}
		}

		octx, err := obfuscator.NewObfuscationContext(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize obfuscation context: %w", err)
		}
		if err := octx.Load(targetDir); err != nil {
			return fmt.Errorf("error loading obfuscation context: %w", err)
		}

		stats, err := obfuscator.ProcessDir(filepath.Clean(sourceDir), filepath.Clean(targetDir), octx)
		if err != nil {
			return err
		}

		if err := octx.Save(targetDir); err != nil {
			return fmt.Errorf("error saving obfuscation context: %w", err)
		}

		if !cfg.Silent {
			fmt.Printf("Done: %d rewritten, %d copied, %d skipped, %d errors\n",
				stats.Rewritten, stats.Copied, stats.Skipped, stats.Errors)
		}
		return nil
	},
}

func init() {
	dirCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (required)")
	dirCmd.Flags().BoolVar(&cleanMode, "clean", false, "Remove the target directory before writing")
}
