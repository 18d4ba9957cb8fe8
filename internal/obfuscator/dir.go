package obfuscator

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/afero"

	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/lexer"
)

// DirStats summarizes a directory run.
type DirStats struct {
	Rewritten int
	Copied    int
	Skipped   int
	Errors    int
}

// ProcessDir walks sourceDir, rewrites every script and scene file, and
// mirrors the tree under targetDir. Reading happens concurrently; the
// rewrite pass itself runs strictly sequentially in sorted path order,
// because the run-wide registries are populated incrementally and output
// must be deterministic. A discovery pre-pass over every script runs
// before any file is rewritten, so user types and keep directives
// declared in later files still apply to earlier ones.
func ProcessDir(sourceDir, targetDir string, octx *ObfuscationContext) (DirStats, error) {
	stats := DirStats{}
	fs := octx.Rewrite.Fs
	cfg := octx.Config

	var rewritePaths []string
	var copyPaths []string
	err := afero.Walk(fs, sourceDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(sourceDir, path)
		if relErr != nil {
			return relErr
		}
		if rel == "." {
			return nil
		}
		if matchAny(cfg.SkipPaths, rel) {
			stats.Skipped++
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if info.IsDir() {
			return nil
		}
		if matchAny(cfg.KeepPaths, rel) || !octx.isRewriteTarget(path) {
			copyPaths = append(copyPaths, rel)
			return nil
		}
		rewritePaths = append(rewritePaths, rel)
		return nil
	})
	if err != nil {
		return stats, fmt.Errorf("failed to walk source directory %s: %w", sourceDir, err)
	}
	// Scripts originate the public renames; scene files only consume
	// them, so scripts go first within the deterministic ordering.
	sort.SliceStable(rewritePaths, func(a, b int) bool {
		sa := octx.ModeForFile(rewritePaths[a]) == lexer.ModeScript
		sb := octx.ModeForFile(rewritePaths[b]) == lexer.ModeScript
		if sa != sb {
			return sa
		}
		return rewritePaths[a] < rewritePaths[b]
	})
	sort.Strings(copyPaths)

	// Read stage: files are independent until their tokens reach the
	// registries, so load them concurrently.
	sources := make(map[string]string, len(rewritePaths))
	var mu sync.Mutex
	p := pool.New().WithErrors()
	for _, rel := range rewritePaths {
		rel := rel
		p.Go(func() error {
			data, err := afero.ReadFile(fs, filepath.Join(sourceDir, rel))
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", rel, err)
			}
			mu.Lock()
			sources[rel] = string(data)
			mu.Unlock()
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return stats, err
	}

	// Discovery pre-pass: registries only ever grow, so this ordering
	// makes cross-file references independent of scan order.
	for _, rel := range rewritePaths {
		Discover(rel, sources[rel], octx)
	}

	for _, rel := range rewritePaths {
		out, err := ProcessSource(rel, sources[rel], octx)
		if err != nil {
			stats.Errors++
			if cfg.AbortOnError {
				return stats, err
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if err := writeOutput(fs, filepath.Join(targetDir, rel), []byte(out)); err != nil {
			return stats, err
		}
		stats.Rewritten++
		if !cfg.Silent {
			config.PrintInfo("Info: Rewrote %s\n", rel)
		}
	}

	for _, rel := range copyPaths {
		data, err := afero.ReadFile(fs, filepath.Join(sourceDir, rel))
		if err != nil {
			return stats, fmt.Errorf("failed to read %s: %w", rel, err)
		}
		if err := writeOutput(fs, filepath.Join(targetDir, rel), data); err != nil {
			return stats, err
		}
		stats.Copied++
	}

	return stats, nil
}

// isRewriteTarget reports whether the file's extension is configured for
// rewriting.
func (octx *ObfuscationContext) isRewriteTarget(path string) bool {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	for _, e := range octx.Config.ScriptExtensions {
		if ext == e {
			return true
		}
	}
	for _, e := range octx.Config.SceneExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range patterns {
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if ok, _ := filepath.Match(pattern, filepath.Base(rel)); ok {
			return true
		}
		// Directory patterns like "addons/*" also cover deeper paths.
		if strings.HasSuffix(pattern, "/*") &&
			strings.HasPrefix(rel, strings.TrimSuffix(pattern, "*")) {
			return true
		}
	}
	return false
}

func writeOutput(fs afero.Fs, path string, data []byte) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory for %s: %w", path, err)
	}
	if err := afero.WriteFile(fs, path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
