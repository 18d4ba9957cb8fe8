package rewriter

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/whit3rabbit/gdmixer/internal/lexer"
)

// RegEx methods whose string arguments carry opaque regex syntax and must
// pass through without decoding or re-encoding.
var regexCallNames = map[string]bool{
	"compile": true, "search": true, "search_all": true, "sub": true,
}

// Resource extensions whose references are structural: the engine loads
// them by exact path, so melt mode resolves and checks them on disk.
var structuralExtensions = map[string]bool{
	"gd": true, "tscn": true, "scn": true, "tres": true, "res": true,
}

// rewriteString handles a quoted-string token in script or generic mode.
func (rw *Rewriter) rewriteString(i int, t lexer.Token) error {
	// A string fed straight into placeholder formatting cannot be
	// rewritten safely.
	if n := rw.nextSig(i); n >= 0 && rw.tape[n].IsSymbol(".") {
		if m := rw.nextSig(n); m >= 0 && rw.tape[m].Kind == lexer.KindIdent && rw.tape[m].Text == "format" {
			return fmt.Errorf("%s: %w: %s", rw.file, ErrUnsupportedFormatting, t.Text)
		}
	}
	// Regex pattern and replacement arguments are opaque.
	if rw.isRegexArgument(i) {
		rw.emit(i, t.Text)
		return nil
	}

	decoded, ok := lexer.DecodeString(t.Text)
	if !ok {
		rw.emit(i, t.Text)
		return nil
	}
	quote := lexer.Quote(t.Text)
	cls := rw.ctx.Cls

	switch {
	case cls.HasTranslation(decoded):
		rw.emit(i, lexer.EncodeString(cls.RewriteTranslation(decoded), quote))
	case cls.IsResourcePath(decoded):
		if err := rw.validateResourcePath(decoded); err != nil {
			return err
		}
		// Path strings pass through unchanged whether validated or not.
		rw.emit(i, t.Text)
	case cls.IsNodePath(decoded):
		rewritten, err := rw.rewriteNodePath(decoded)
		if err != nil {
			return err
		}
		rw.emit(i, lexer.EncodeString(rewritten, quote))
	default:
		rw.emit(i, lexer.EncodeString(decoded, quote))
	}
	return nil
}

// validateResourcePath applies melt-mode checks to a res:// path.
func (rw *Rewriter) validateResourcePath(path string) error {
	if !rw.ctx.Cfg.Melt {
		return nil
	}
	const scheme = "res://"
	if !strings.HasPrefix(path, scheme) {
		return nil
	}
	rel := strings.TrimPrefix(path, scheme)
	ext := strings.TrimPrefix(filepath.Ext(rel), ".")
	if !structuralExtensions[ext] {
		return nil
	}
	if strings.Contains(path, "%") {
		return fmt.Errorf("%s: %w: %q", rw.file, ErrIllegalDynamicPath, path)
	}
	resolved := filepath.Join(rw.ctx.Cfg.ProjectRoot, filepath.FromSlash(rel))
	exists, err := afero.Exists(rw.ctx.Fs, resolved)
	if err != nil {
		return fmt.Errorf("%s: checking resource %q: %w", rw.file, path, err)
	}
	if !exists {
		return fmt.Errorf("%s: %w: %q", rw.file, ErrMissingResource, path)
	}
	return nil
}

// rewriteNodePath rewrites each path segment through the full pipeline in
// path-fragment mode.
func (rw *Rewriter) rewriteNodePath(path string) (string, error) {
	parts := strings.Split(path, "/")
	for idx, seg := range parts {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		out, err := rw.rewriteFragment(seg)
		if err != nil {
			return "", err
		}
		parts[idx] = out
	}
	return strings.Join(parts, "/"), nil
}

func (rw *Rewriter) rewriteFragment(seg string) (string, error) {
	toks := lexer.Tokenize(seg, lexer.ModePath)
	sub, err := New(rw.ctx, rw.file, lexer.ModePath, toks)
	if err != nil {
		return "", err
	}
	return sub.Rewrite()
}

// isRegexArgument reports whether the string at i is the sole or second
// argument of a pattern-matching or substitution call.
func (rw *Rewriter) isRegexArgument(i int) bool {
	p := rw.prevSig(i)
	if p < 0 {
		return false
	}
	if rw.tape[p].IsSymbol("(") {
		return rw.isRegexCall(p)
	}
	if rw.tape[p].IsSymbol(",") {
		commas := 1
		depth := 0
		for k := p - 1; k >= 0; k-- {
			t := rw.tape[k]
			if t.Kind == lexer.KindNewline {
				return false
			}
			switch {
			case t.IsSymbol(")"):
				depth++
			case t.IsSymbol("("):
				if depth == 0 {
					return commas == 1 && rw.isRegexCall(k)
				}
				depth--
			case t.IsSymbol(","):
				if depth == 0 {
					commas++
				}
			}
		}
	}
	return false
}

// isRegexCall reports whether the call opening at index open is a method
// call to one of the regex operations.
func (rw *Rewriter) isRegexCall(open int) bool {
	callee := rw.prevSig(open)
	if callee < 0 || rw.tape[callee].Kind != lexer.KindIdent {
		return false
	}
	if !regexCallNames[rw.tape[callee].Text] {
		return false
	}
	dot := rw.prevSig(callee)
	return dot >= 0 && rw.tape[dot].IsSymbol(".")
}

// rewriteSceneString handles a quoted-string token in scene-resource
// mode. Scene strings only ever receive substitutions already fixed by
// script processing; nothing new is allocated here.
func (rw *Rewriter) rewriteSceneString(i int, t lexer.Token) error {
	// The project display name is consumed by platform packaging and
	// must survive verbatim.
	if rw.isDisplayNameValue(i) {
		rw.emit(i, t.Text)
		return nil
	}
	decoded, ok := lexer.DecodeString(t.Text)
	if !ok {
		rw.emit(i, t.Text)
		return nil
	}
	quote := lexer.Quote(t.Text)
	if obf, found := rw.ctx.Alloc.LookupObfuscated(decoded); found {
		rw.emit(i, lexer.EncodeString(obf, quote))
		return nil
	}
	if rw.ctx.Cls.IsNodePath(decoded) {
		parts := strings.Split(decoded, "/")
		changed := false
		for idx, seg := range parts {
			if obf, found := rw.ctx.Alloc.LookupObfuscated(seg); found {
				parts[idx] = obf
				changed = true
			}
		}
		if changed {
			rw.emit(i, lexer.EncodeString(strings.Join(parts, "/"), quote))
			return nil
		}
	}
	rw.emit(i, t.Text)
	return nil
}

// isDisplayNameValue matches the value position of the project
// display-name property: config/name="…".
func (rw *Rewriter) isDisplayNameValue(i int) bool {
	eq := rw.prevSig(i)
	if eq < 0 || !rw.tape[eq].IsSymbol("=") {
		return false
	}
	name := rw.prevSig(eq)
	if name < 0 || rw.tape[name].Text != "name" {
		return false
	}
	slash := rw.prevSig(name)
	if slash < 0 || !rw.tape[slash].IsSymbol("/") {
		return false
	}
	cfgTok := rw.prevSig(slash)
	return cfgTok >= 0 && rw.tape[cfgTok].Text == "config"
}
