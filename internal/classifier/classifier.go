// Package classifier recognizes the special string shapes the rewriter
// must treat differently: translation-bearing strings, protocol-scheme
// resource paths, node-path references, and comments that must survive
// for later platform-specific processing.
package classifier

import (
	"regexp"
	"strings"

	"github.com/whit3rabbit/gdmixer/internal/config"
)

var (
	resourcePathRe = regexp.MustCompile(`^[a-z][a-z0-9+.-]*://`)
	nodePathRe     = regexp.MustCompile(`^\.?/?[A-Za-z_][A-Za-z0-9_ ]*(/[A-Za-z_.][A-Za-z0-9_. ]*)+$`)
)

// Classifier inspects decoded string contents and comment bodies.
type Classifier struct {
	translationPrefix string
}

// New builds a classifier from the configuration.
func New(cfg *config.Config) *Classifier {
	prefix := cfg.TranslationPrefix
	if prefix == "" {
		prefix = "TR_"
	}
	return &Classifier{translationPrefix: prefix}
}

// HasTranslation reports whether the decoded string carries at least one
// translation key (an identifier starting with the configured prefix).
func (c *Classifier) HasTranslation(s string) bool {
	idx := strings.Index(s, c.translationPrefix)
	if idx < 0 {
		return false
	}
	// The prefix must start an identifier, not sit inside one.
	if idx > 0 && isIdentByte(s[idx-1]) {
		return false
	}
	return true
}

// RewriteTranslation returns the string with its translation keys intact.
// Keys are looked up at runtime by the engine's translation server, so
// they must render exactly as written.
func (c *Classifier) RewriteTranslation(s string) string {
	return s
}

// IsResourcePath reports whether the decoded string has a protocol-scheme
// path shape such as res://… or user://….
func (c *Classifier) IsResourcePath(s string) bool {
	return resourcePathRe.MatchString(s)
}

// IsNodePath reports whether the decoded string looks like a node-path
// reference with at least two segments. Single bare names are left alone:
// too many ordinary strings would otherwise be rewritten.
func (c *Classifier) IsNodePath(s string) bool {
	return nodePathRe.MatchString(s)
}

// IsPlatformComment reports whether a comment body (text after the '#')
// belongs to a platform-processing block that must survive verbatim.
func (c *Classifier) IsPlatformComment(body string) bool {
	return strings.HasPrefix(strings.TrimSpace(body), "~")
}

func isIdentByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}
