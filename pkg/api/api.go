// Package api provides the public API for using the GDScript obfuscator as a library.
//
// This package allows users to obfuscate Godot projects programmatically using the
// same techniques available in the command-line interface. The API provides
// methods for obfuscating GDScript code strings, files, and directories.
//
// Basic usage example:
//
//	obf, err := api.NewObfuscator(api.Options{ConfigPath: "config.yaml"})
//	if err != nil {
//	    log.Fatalf("Failed to create obfuscator: %v", err)
//	}
//
//	result, err := obf.ObfuscateCode("var health = 100\n")
//	if err != nil {
//	    log.Fatalf("Failed to obfuscate code: %v", err)
//	}
//
//	fmt.Println(result) // Prints obfuscated GDScript code
package api

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/obfuscator"
)

// PrintInfo prints formatted information to stdout, respecting the Testing flag.
// If Testing mode is active, no output will be generated.
// This function forwards to the internal config.PrintInfo function.
func PrintInfo(format string, args ...interface{}) {
	config.PrintInfo(format, args...)
}

// Obfuscator represents the main obfuscation engine that can be used to
// obfuscate GDScript code and Godot scene/resource files.
// It encapsulates the configuration and context needed for obfuscation operations.
type Obfuscator struct {
	// Context holds the obfuscation context including the name allocator and state
	Context *obfuscator.ObfuscationContext
	// Config holds the configuration settings for obfuscation
	Config *config.Config
}

// Options represents configuration options for creating a new Obfuscator instance.
type Options struct {
	// ConfigPath is the path to a YAML configuration file.
	// If empty, default configuration will be used.
	ConfigPath string

	// Silent suppresses informational messages during obfuscation.
	Silent bool

	// ProjectRoot is the directory res:// paths resolve against.
	// Only consulted when melt mode is enabled in the configuration.
	ProjectRoot string
}

// NewObfuscator creates a new Obfuscator instance using the provided options.
//
// If ConfigPath is empty, default configuration will be used.
// If Silent is true, informational messages will be suppressed.
//
// Returns an error if the configuration cannot be loaded or the context cannot be created.
func NewObfuscator(options Options) (*Obfuscator, error) {
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if options.Silent {
		cfg.Silent = true
	}
	if options.ProjectRoot != "" {
		cfg.ProjectRoot = options.ProjectRoot
	}

	octx, err := obfuscator.NewObfuscationContext(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create obfuscation context: %w", err)
	}

	return &Obfuscator{
		Context: octx,
		Config:  cfg,
	}, nil
}

// ObfuscateCode obfuscates a string of GDScript code and returns the result.
// The code is treated as the contents of a standalone script file.
//
// Returns the obfuscated GDScript code as a string, or an error if obfuscation fails.
func (o *Obfuscator) ObfuscateCode(code string) (string, error) {
	result, err := obfuscator.ProcessSource("code.gd", code, o.Context)
	if err != nil {
		return "", fmt.Errorf("failed to obfuscate code: %w", err)
	}
	return result, nil
}

// ObfuscateFile obfuscates a single file and returns the rewritten content.
// How the file is treated (script, scene, or plain copy-through) is decided
// by its extension against the configured extension lists.
//
// Returns the obfuscated content as a string, or an error if obfuscation fails.
func (o *Obfuscator) ObfuscateFile(filePath string) (string, error) {
	result, err := obfuscator.ProcessFile(filePath, o.Context)
	if err != nil {
		return "", fmt.Errorf("failed to obfuscate file %s: %w", filePath, err)
	}
	return result, nil
}

// ObfuscateFileToFile obfuscates a file and writes the result to another file.
//
// Returns an error if obfuscation or file operations fail.
func (o *Obfuscator) ObfuscateFileToFile(inputPath, outputPath string) error {
	result, err := obfuscator.ProcessFile(inputPath, o.Context)
	if err != nil {
		return fmt.Errorf("failed to obfuscate file %s: %w", inputPath, err)
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	if err := os.WriteFile(outputPath, []byte(result), 0644); err != nil {
		return fmt.Errorf("failed to write to output file %s: %w", outputPath, err)
	}

	return nil
}

// ObfuscateDirectory obfuscates all script and scene files in a directory
// and writes the results to another directory.
//
// The function will:
//  1. Load any existing context from the output directory
//  2. Process script files before scene files so scene substitutions see
//     every mapping the scripts created
//  3. Copy non-target files, preserving directory structure
//  4. Skip files that match patterns in the configuration's skip list
//  5. Save the obfuscation context to the output directory
//
// Returns an error if directory operations or obfuscation fail.
func (o *Obfuscator) ObfuscateDirectory(inputDir, outputDir string) error {
	inputInfo, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("failed to stat input directory %s: %w", inputDir, err)
	}
	if !inputInfo.IsDir() {
		return fmt.Errorf("input path %s is not a directory", inputDir)
	}

	if err := o.Context.Load(outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load existing context: %v\n", err)
		fmt.Fprintf(os.Stderr, "Starting with fresh context.\n")
	}

	o.Config.TargetDirectory = outputDir
	if o.Config.ProjectRoot == "" {
		o.Config.ProjectRoot = inputDir
	}

	if _, err := obfuscator.ProcessDir(filepath.Clean(inputDir), filepath.Clean(outputDir), o.Context); err != nil {
		return err
	}

	if err := o.Context.Save(outputDir); err != nil {
		return fmt.Errorf("failed to save obfuscation context: %w", err)
	}

	return nil
}

// LoadContext loads an existing obfuscation context from a directory.
//
// This is useful when you want to reuse the same obfuscation context
// (including name mappings) across multiple runs.
//
// Returns an error if the context cannot be loaded.
func (o *Obfuscator) LoadContext(baseDir string) error {
	return o.Context.Load(baseDir)
}

// SaveContext saves the current obfuscation context to a directory.
//
// This saves the current name mappings and other state to be loaded later.
//
// Returns an error if the context cannot be saved.
func (o *Obfuscator) SaveContext(baseDir string) error {
	return o.Context.Save(baseDir)
}

// LookupObfuscatedName looks up the obfuscated name an original identifier
// was mapped to. Only run-wide (public) names are recorded; per-file private
// labels are never retained after rewriting.
//
// Returns the obfuscated name, or an error if the name has no mapping.
func (o *Obfuscator) LookupObfuscatedName(name string) (string, error) {
	obfName, found := o.Context.Allocator().LookupObfuscated(name)
	if !found {
		return "", fmt.Errorf("name not found in context: %s", name)
	}
	return obfName, nil
}
