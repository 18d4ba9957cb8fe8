// Package obfuscator orchestrates the overall process and holds shared
// run state.
package obfuscator

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/lexer"
	"github.com/whit3rabbit/gdmixer/internal/rewriter"
	"github.com/whit3rabbit/gdmixer/internal/scrambler"
)

// ObfuscationContext holds the shared state needed across multiple files
// in one run: the public allocator, the banned/user-type registry, and
// the classifier. It is created once per run and passed by reference into
// each file's rewrite. Registries are monotonic for the life of the run.
type ObfuscationContext struct {
	Config  *config.Config
	Rewrite *rewriter.Context
	Silent  bool // Inherited from config for convenience
}

// NewObfuscationContext creates a new context over the OS filesystem.
func NewObfuscationContext(cfg *config.Config) (*ObfuscationContext, error) {
	return NewObfuscationContextFs(cfg, afero.NewOsFs())
}

// NewObfuscationContextFs creates a new context over an explicit
// filesystem, which tests swap for an in-memory one.
func NewObfuscationContextFs(cfg *config.Config, fs afero.Fs) (*ObfuscationContext, error) {
	rctx, err := rewriter.NewContext(cfg, fs)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rewrite context: %w", err)
	}
	return &ObfuscationContext{
		Config:  cfg,
		Rewrite: rctx,
		Silent:  cfg.Silent,
	}, nil
}

// Allocator exposes the run-wide public allocator, for lookups and
// persistence.
func (octx *ObfuscationContext) Allocator() *scrambler.Scrambler {
	return octx.Rewrite.Alloc
}

// ContextFilePath returns the expected path for the allocator's context
// file under a target directory.
func (octx *ObfuscationContext) ContextFilePath(baseDir string) string {
	return filepath.Join(baseDir, "context", string(scrambler.TypePublic)+".scramble")
}

// Load loads previously saved allocator state from the target directory,
// so renames stay stable across incremental runs.
func (octx *ObfuscationContext) Load(baseDir string) error {
	filePath := octx.ContextFilePath(baseDir)
	if _, err := os.Stat(filePath); os.IsNotExist(err) {
		if !octx.Silent {
			config.PrintInfo("Info: No existing obfuscation context found.\n")
		}
		return nil
	}
	if err := octx.Allocator().LoadState(filePath); err != nil {
		return fmt.Errorf("failed to load context from %s: %w", filePath, err)
	}
	if !octx.Silent {
		config.PrintInfo("Info: Loaded obfuscation context from %s\n", filePath)
	}
	return nil
}

// Save saves the allocator state to the target directory.
func (octx *ObfuscationContext) Save(baseDir string) error {
	contextDir := filepath.Join(baseDir, "context")
	if err := os.MkdirAll(contextDir, 0755); err != nil {
		return fmt.Errorf("failed to ensure context directory %s exists: %w", contextDir, err)
	}
	filePath := octx.ContextFilePath(baseDir)
	if err := octx.Allocator().SaveState(filePath); err != nil {
		return fmt.Errorf("failed to save context to %s: %w", filePath, err)
	}
	if !octx.Silent {
		config.PrintInfo("Info: Saved obfuscation context to %s\n", filePath)
	}
	return nil
}

// ModeForFile picks the lexer mode from a file's extension.
func (octx *ObfuscationContext) ModeForFile(path string) lexer.Mode {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range octx.Config.ScriptExtensions {
		if ext == e {
			return lexer.ModeScript
		}
	}
	for _, e := range octx.Config.SceneExtensions {
		if ext == e {
			return lexer.ModeScene
		}
	}
	return lexer.ModeGeneric
}

// ProcessFile reads, lexes, rewrites, and assembles a single file,
// returning the rewritten text. Fatal rewrite conditions abort with the
// file name attached.
func ProcessFile(filePath string, octx *ObfuscationContext) (string, error) {
	data, err := afero.ReadFile(octx.Rewrite.Fs, filePath)
	if err != nil {
		return "", fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return ProcessSource(filePath, string(data), octx)
}

// ProcessSource rewrites already-read source text under the mode implied
// by its file name.
func ProcessSource(filePath, src string, octx *ObfuscationContext) (string, error) {
	mode := octx.ModeForFile(filePath)
	toks := lexer.Tokenize(src, mode)
	rw, err := rewriter.New(octx.Rewrite, filePath, mode, toks)
	if err != nil {
		return "", err
	}
	out, err := rw.Rewrite()
	if err != nil {
		return "", err
	}
	if rw.PlatformDirectives && !octx.Silent {
		config.PrintInfo("Info: %s retains platform directive comments\n", filePath)
	}
	return out, nil
}

// Discover performs the registry pre-pass over one script's tokens:
// class_name declarations and keep directives take effect before any file
// is rewritten, so cross-file references resolve regardless of processing
// order.
func Discover(filePath, src string, octx *ObfuscationContext) {
	if octx.ModeForFile(filePath) != lexer.ModeScript {
		return
	}
	toks := lexer.Tokenize(src, lexer.ModeScript)
	for i, t := range toks {
		switch t.Kind {
		case lexer.KindIdent:
			if t.Text != "class_name" {
				continue
			}
			for j := i + 1; j < len(toks); j++ {
				if toks[j].Blank() {
					continue
				}
				if toks[j].Kind == lexer.KindIdent {
					octx.Rewrite.Reg.AddUserType(toks[j].Text)
				}
				break
			}
		case lexer.KindComment:
			body := strings.TrimSpace(strings.TrimPrefix(t.Text, "#"))
			if strings.HasPrefix(body, rewriter.DirectiveKeep) {
				for _, name := range strings.Split(strings.TrimPrefix(body, rewriter.DirectiveKeep), ",") {
					if name = strings.TrimSpace(name); name != "" {
						octx.Rewrite.Reg.Ban(name)
					}
				}
			}
		}
	}
}
