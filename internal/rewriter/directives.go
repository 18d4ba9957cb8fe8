package rewriter

import (
	"strings"

	"github.com/whit3rabbit/gdmixer/internal/lexer"
)

// Directive comment markers, matched as fixed prefixes after stripping
// whitespace from the comment body.
const (
	DirectiveIgnore  = "!ignore"  // toggles the ignore block
	DirectiveKeep    = "!keep"    // comma list: ban names from renaming
	DirectiveRename  = "!rename"  // comma list: pre-register public renames
	DirectivePrivate = "!private" // comma list: mark names file-private
)

func commentBody(t lexer.Token) string {
	return strings.TrimSpace(strings.TrimPrefix(t.Text, "#"))
}

func (rw *Rewriter) isIgnoreToggle(t lexer.Token) bool {
	return strings.HasPrefix(commentBody(t), DirectiveIgnore)
}

// splitDirectiveList parses the comma-separated payload that follows a
// directive marker.
func splitDirectiveList(body, marker string) []string {
	rest := strings.TrimPrefix(body, marker)
	var names []string
	for _, part := range strings.Split(rest, ",") {
		if name := strings.TrimSpace(part); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// rewriteComment interprets directive comments and strips or keeps plain
// ones. Directives are a script-mode feature; scene and generic comments
// pass through untouched.
func (rw *Rewriter) rewriteComment(i int, t lexer.Token) error {
	if rw.mode != lexer.ModeScript {
		rw.emit(i, t.Text)
		return nil
	}

	body := commentBody(t)
	switch {
	case strings.HasPrefix(body, DirectiveIgnore):
		rw.inSpecialBlock = true
		rw.emit(i, "")
	case strings.HasPrefix(body, DirectiveKeep):
		for _, name := range splitDirectiveList(body, DirectiveKeep) {
			rw.ctx.Reg.Ban(name)
		}
		rw.emit(i, "")
	case strings.HasPrefix(body, DirectiveRename):
		// Pre-warm the public allocator without banning the names from
		// later contextual renaming.
		for _, name := range splitDirectiveList(body, DirectiveRename) {
			rw.ctx.Alloc.Scramble(name)
		}
		rw.emit(i, "")
	case strings.HasPrefix(body, DirectivePrivate):
		for _, name := range splitDirectiveList(body, DirectivePrivate) {
			rw.registerPrivate(name)
			rw.explicitPrivate[name] = true
		}
		rw.emit(i, "")
	case rw.ctx.Cls.IsPlatformComment(strings.TrimPrefix(t.Text, "#")):
		// Must survive verbatim for later platform-specific processing.
		rw.PlatformDirectives = true
		rw.emit(i, t.Text)
	default:
		if rw.ctx.Cfg.StripComments {
			rw.emit(i, "")
		} else {
			rw.emit(i, t.Text)
		}
	}
	return nil
}
