package rewriter

import "github.com/whit3rabbit/gdmixer/internal/lexer"

// Tokens that may directly follow a ": Type" annotation for it to count
// as a removable cast. A newline or end of file terminates it as well.
var castTerminators = map[string]bool{"=": true, ",": true, ")": true}

// stripCast attempts type-cast removal for the identifier at i, emitting
// replacement if no removable cast shape applies. Three shapes are
// recognized: a ": Type" annotation, an "-> Type" return annotation, and
// an "as" cast. In each case the operator and the type token are deleted.
func (rw *Rewriter) stripCast(i int, replacement string) error {
	if !rw.ctx.Cfg.RemoveCasts || rw.mode != lexer.ModeScript {
		rw.emit(i, replacement)
		return nil
	}
	p := rw.prevSig(i)
	if p >= 0 {
		prev := rw.tape[p]
		switch {
		case prev.Kind == lexer.KindIdent && prev.Text == "as":
			rw.clearBack(p, i)
			rw.emit(i, "")
			return nil
		case prev.IsSymbol("->"):
			rw.clearBack(p, i)
			rw.emit(i, "")
			return nil
		case prev.IsSymbol(":"):
			// Exported properties require declared types to render
			// correctly in the editor, so those casts are preserved.
			if rw.castTerminated(i) && !rw.exportGuard(p) {
				rw.clearBack(p, i)
				rw.emit(i, "")
				return nil
			}
		}
	}
	rw.emit(i, replacement)
	return nil
}

// castTerminated reports whether the token after the annotation closes
// the cast shape.
func (rw *Rewriter) castTerminated(i int) bool {
	n := rw.nextSig(i)
	if n < 0 {
		return true
	}
	t := rw.tape[n]
	if t.Kind == lexer.KindNewline {
		return true
	}
	return t.Kind == lexer.KindSymbol && castTerminators[t.Text]
}

// exportGuard scans backward from the annotation colon, balanced-paren
// aware and stopping at the first newline, looking for the export
// keyword.
func (rw *Rewriter) exportGuard(colon int) bool {
	depth := 0
	for k := colon - 1; k >= 0; k-- {
		t := rw.tape[k]
		switch {
		case t.Kind == lexer.KindNewline:
			return false
		case t.IsSymbol(")"):
			depth++
		case t.IsSymbol("("):
			if depth > 0 {
				depth--
			}
		case t.Kind == lexer.KindIdent && t.Text == "export":
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// clearBack retroactively deletes the emitted operator and surrounding
// whitespace between positions from and to on the emit buffer. The tape
// itself stays intact for later neighbor checks.
func (rw *Rewriter) clearBack(from, to int) {
	if from > 0 && rw.tape[from-1].Kind == lexer.KindSpace {
		rw.out[from-1] = ""
	}
	for k := from; k < to; k++ {
		rw.out[k] = ""
	}
}
