// Package rewriter implements the token rewrite engine: a single-pass,
// stateful traversal over one file's token sequence that decides, per
// token, whether to delete it, pass it through, substitute a private or
// public rename, or rewrite its string payload.
//
// The engine works over a flat token array, not a syntax tree. Lexical
// scope is tracked through indentation depth and a small set of keyword
// triggers. The original token tape is never mutated; output is collected
// in a parallel emit buffer so that offset-based lookahead and lookback
// against original neighbors stay correct after deletions.
package rewriter

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/afero"

	"github.com/whit3rabbit/gdmixer/internal/classifier"
	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/lexer"
	"github.com/whit3rabbit/gdmixer/internal/scrambler"
)

// Context carries the run-scoped collaborators shared by every file in a
// run: the public allocator, the banned/user-type registry, the string
// classifier, and the filesystem used for resource validation. Passing it
// explicitly (rather than through package state) keeps lifetime and
// ordering visible and testable.
type Context struct {
	Cfg   *config.Config
	Alloc *scrambler.Scrambler
	Reg   *Registry
	Cls   *classifier.Classifier
	Fs    afero.Fs
}

// NewContext assembles a fresh run context over the given filesystem.
func NewContext(cfg *config.Config, fs afero.Fs) (*Context, error) {
	alloc, err := scrambler.NewScrambler(scrambler.TypePublic, cfg)
	if err != nil {
		return nil, err
	}
	return &Context{
		Cfg:   cfg,
		Alloc: alloc,
		Reg:   NewRegistry(),
		Cls:   classifier.New(cfg),
		Fs:    fs,
	}, nil
}

// Declaration-introducing keywords. Encountering one at the start of a
// line lowers the scope floor to that line's depth.
var declKeywords = map[string]bool{
	"extends": true, "class_name": true, "var": true, "const": true,
	"enum": true, "signal": true, "export": true, "func": true,
	"onready": true, "static": true, "tool": true,
	"remote": true, "master": true, "puppet": true,
	"remotesync": true, "mastersync": true, "puppetsync": true,
}

// Keywords whose following identifier must resolve against the externally
// visible symbol, never a same-named file-private label.
var declRefKeywords = map[string]bool{
	"extends": true, "class_name": true, "const": true,
	"enum": true, "signal": true, "func": true,
}

// Rewriter holds the per-file traversal state. It is created at
// file-rewrite start and discarded at end.
type Rewriter struct {
	ctx  *Context
	file string
	mode lexer.Mode

	tape  []lexer.Token // immutable original token sequence
	out   []string      // parallel emit buffer; "" means deleted
	depth []int         // per-token indentation depth of its line

	priv *scrambler.Scrambler // file-private allocator

	scopeFloor      int
	inSpecialBlock  bool
	privateLabels   map[string]string
	explicitPrivate map[string]bool

	// PlatformDirectives is set when a platform-processing comment was
	// retained verbatim; downstream export tooling consumes it.
	PlatformDirectives bool
}

// New prepares a rewriter for one file's token sequence.
func New(ctx *Context, file string, mode lexer.Mode, tape []lexer.Token) (*Rewriter, error) {
	priv, err := scrambler.NewScrambler(scrambler.TypePrivate, ctx.Cfg)
	if err != nil {
		return nil, err
	}
	return &Rewriter{
		ctx:             ctx,
		file:            file,
		mode:            mode,
		tape:            tape,
		out:             make([]string, len(tape)),
		depth:           computeDepths(tape),
		priv:            priv,
		scopeFloor:      math.MaxInt,
		privateLabels:   make(map[string]string),
		explicitPrivate: make(map[string]bool),
	}, nil
}

// Rewrite runs the traversal and assembles the output text. Any fatal
// condition aborts immediately with the file name attached.
func (rw *Rewriter) Rewrite() (string, error) {
	for i, t := range rw.tape {
		if err := rw.rewriteToken(i, t); err != nil {
			return "", err
		}
	}
	if rw.inSpecialBlock {
		return "", fmt.Errorf("%s: %w", rw.file, ErrUnterminatedSpecialBlock)
	}
	var b strings.Builder
	for _, s := range rw.out {
		b.WriteString(s)
	}
	return b.String(), nil
}

func (rw *Rewriter) rewriteToken(i int, t lexer.Token) error {
	if rw.inSpecialBlock {
		// Everything inside an ignore block is deleted until the toggle
		// recurs, the toggle comment included.
		if t.Kind == lexer.KindComment && rw.isIgnoreToggle(t) {
			rw.inSpecialBlock = false
		}
		rw.emit(i, "")
		return nil
	}

	switch t.Kind {
	case lexer.KindComment:
		return rw.rewriteComment(i, t)
	case lexer.KindString:
		switch rw.mode {
		case lexer.ModeScript, lexer.ModeGeneric:
			return rw.rewriteString(i, t)
		case lexer.ModeScene:
			return rw.rewriteSceneString(i, t)
		default:
			rw.emit(i, t.Text)
			return nil
		}
	case lexer.KindIdent:
		return rw.rewriteIdent(i, t)
	default:
		rw.emit(i, t.Text)
		return nil
	}
}

// rewriteIdent dispatches a bare identifier by file mode.
func (rw *Rewriter) rewriteIdent(i int, t lexer.Token) error {
	name := t.Text

	switch rw.mode {
	case lexer.ModePath:
		if rw.ctx.Reg.IsBanned(name) {
			rw.emit(i, name)
		} else {
			rw.emit(i, rw.ctx.Alloc.Scramble(name))
		}
		return nil
	case lexer.ModeScene:
		// Scene/resource files never originate new renames: substitute
		// only mappings seeded by prior script processing.
		if rw.ctx.Reg.IsBanned(name) {
			rw.emit(i, name)
		} else if obf, ok := rw.ctx.Alloc.LookupObfuscated(name); ok {
			rw.emit(i, obf)
		} else {
			rw.emit(i, name)
		}
		return nil
	}

	// An identifier right after the annotation introducer names a fixed
	// language annotation, not a user symbol.
	if p := rw.prevSig(i); p >= 0 && rw.tape[p].IsSymbol("@") {
		rw.emit(i, name)
		return nil
	}

	if rw.mode == lexer.ModeGeneric {
		if rw.ctx.Reg.IsBanned(name) {
			rw.emit(i, name)
		} else {
			rw.emit(i, rw.ctx.Alloc.Scramble(name))
		}
		return nil
	}

	if rw.ctx.Reg.IsBanned(name) {
		return rw.rewriteBanned(i, name)
	}

	if priv, ok := rw.privateLabels[name]; ok {
		if p := rw.prevSig(i); p >= 0 {
			prev := rw.tape[p].Text
			// Declarations referencing a type or name in these positions
			// resolve against the externally visible symbol, not a
			// same-named local shadow.
			if declRefKeywords[prev] && !rw.explicitPrivate[name] {
				rw.emit(i, rw.ctx.Alloc.Scramble(name))
				return nil
			}
			// Field and method access resolves externally.
			if rw.tape[p].IsSymbol(".") {
				rw.emit(i, rw.ctx.Alloc.Scramble(name))
				return nil
			}
		}
		rw.emit(i, priv)
		return nil
	}

	if rw.ctx.Reg.IsUserType(name) {
		// User type annotations are still subject to cast removal.
		return rw.stripCast(i, rw.ctx.Alloc.Scramble(name))
	}

	rw.emit(i, rw.ctx.Alloc.Scramble(name))
	return nil
}

// rewriteBanned handles the script-mode keyword bookkeeping for
// identifiers that are themselves exempt from renaming.
func (rw *Rewriter) rewriteBanned(i int, name string) error {
	if rw.ctx.Reg.IsExplicitBan(name) {
		rw.emit(i, name)
		return nil
	}

	if name == "class" {
		// The inner-class body that follows defines a new declaration
		// block at the depth of its first line.
		rw.lowerFloorToNextLine(i)
		rw.emit(i, name)
		return nil
	}

	if declKeywords[name] && rw.atLineStart(i) {
		rw.lowerFloor(rw.depth[i])
	}

	switch name {
	case "class_name":
		if n := rw.nextSig(i); n >= 0 && rw.tape[n].Kind == lexer.KindIdent {
			rw.ctx.Reg.AddUserType(rw.tape[n].Text)
		}
		rw.emit(i, name)
	case "func":
		rw.harvestParams(i)
		rw.emit(i, name)
	case "var":
		if rw.depth[i] != rw.scopeFloor {
			// Local declaration: the following identifier becomes a
			// file-private label. Member-level declarations (at floor
			// depth) keep their public name path.
			if n := rw.nextSig(i); n >= 0 && rw.tape[n].Kind == lexer.KindIdent {
				rw.registerPrivate(rw.tape[n].Text)
			}
		}
		rw.emit(i, name)
	default:
		if declKeywords[name] {
			rw.emit(i, name)
			return nil
		}
		return rw.stripCast(i, name)
	}
	return nil
}

// harvestParams registers parameter names of a routine signature as
// file-private labels: every identifier immediately preceded by '(' or
// ',' within the balanced parameter list.
func (rw *Rewriter) harvestParams(i int) {
	j := i + 1
	for j < len(rw.tape) && !rw.tape[j].IsSymbol("(") {
		if rw.tape[j].Kind == lexer.KindNewline {
			return
		}
		j++
	}
	depth := 0
	for ; j < len(rw.tape); j++ {
		t := rw.tape[j]
		switch {
		case t.IsSymbol("("):
			depth++
		case t.IsSymbol(")"):
			depth--
			if depth <= 0 {
				return
			}
		case t.Kind == lexer.KindIdent:
			p := rw.prevSig(j)
			if p >= 0 && (rw.tape[p].IsSymbol("(") || rw.tape[p].IsSymbol(",")) {
				rw.registerPrivate(t.Text)
			}
		}
	}
}

func (rw *Rewriter) registerPrivate(name string) {
	if _, ok := rw.privateLabels[name]; ok {
		return
	}
	rw.privateLabels[name] = rw.priv.Scramble(name)
}

// --- scope tracking ---

// lowerFloor moves the declaration floor down, never up.
func (rw *Rewriter) lowerFloor(d int) {
	if d < rw.scopeFloor {
		rw.scopeFloor = d
	}
}

// lowerFloorToNextLine scans past the current line to the first content
// token of the following one and lowers the floor to that line's depth.
func (rw *Rewriter) lowerFloorToNextLine(i int) {
	j := i
	for j < len(rw.tape) && rw.tape[j].Kind != lexer.KindNewline {
		j++
	}
	for j < len(rw.tape) {
		switch rw.tape[j].Kind {
		case lexer.KindNewline, lexer.KindIndent, lexer.KindSpace:
			j++
			continue
		}
		break
	}
	if j < len(rw.tape) {
		rw.lowerFloor(rw.depth[j])
	}
}

// atLineStart reports whether the token sits immediately after
// indentation or a newline.
func (rw *Rewriter) atLineStart(i int) bool {
	if i == 0 {
		return true
	}
	k := rw.tape[i-1].Kind
	return k == lexer.KindNewline || k == lexer.KindIndent
}

// computeDepths precomputes every token's line indentation depth in one
// forward pass, so scope queries during the rewrite are O(1) lookups.
func computeDepths(tape []lexer.Token) []int {
	depths := make([]int, len(tape))
	cur := 0
	for i, t := range tape {
		depths[i] = cur
		switch t.Kind {
		case lexer.KindNewline:
			cur = 0
		case lexer.KindIndent:
			cur++
		}
	}
	return depths
}

// --- neighbor helpers over the original tape ---

// prevSig returns the index of the nearest preceding token that is not
// interior whitespace or indentation, or -1.
func (rw *Rewriter) prevSig(i int) int {
	for j := i - 1; j >= 0; j-- {
		if !rw.tape[j].Blank() {
			return j
		}
	}
	return -1
}

// nextSig returns the index of the nearest following token that is not
// interior whitespace or indentation, or -1.
func (rw *Rewriter) nextSig(i int) int {
	for j := i + 1; j < len(rw.tape); j++ {
		if !rw.tape[j].Blank() {
			return j
		}
	}
	return -1
}

func (rw *Rewriter) emit(i int, text string) {
	rw.out[i] = text
}
