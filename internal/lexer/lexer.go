// Package lexer turns raw source text into a flat token sequence.
//
// Scope in GDScript is indentation-defined, so newlines and indentation
// units are emitted as their own tokens. The rewriter addresses tokens by
// integer position and models deletion as emptying a token's text, so the
// lexer must preserve every byte of the input across the token stream:
// joining all token texts reproduces the source exactly.
package lexer

import "strings"

// Mode selects the tokenization rules for a file kind.
type Mode int

const (
	// ModeScript is GDScript source: '#' comments, indentation scope.
	ModeScript Mode = iota
	// ModeGeneric is plain text with script-like tokens but no directives.
	ModeGeneric
	// ModeScene is the engine's scene/resource text format (.tscn, .tres,
	// project.godot): sections, key=value pairs, ';' comments.
	ModeScene
	// ModePath tokenizes a single node-path segment for recursive rewriting.
	ModePath
)

func (m Mode) String() string {
	switch m {
	case ModeScript:
		return "script"
	case ModeGeneric:
		return "generic"
	case ModeScene:
		return "scene"
	case ModePath:
		return "path"
	}
	return "unknown"
}

// Kind classifies a token by its content.
type Kind int

const (
	KindSymbol Kind = iota
	KindSpace       // interior whitespace run
	KindIndent      // leading-whitespace indentation unit
	KindNewline
	KindComment
	KindString
	KindNumber
	KindIdent
)

// Token is an atomic lexical unit. Deleting a token from the output is
// modeled as clearing Text while keeping the position, so offset-based
// lookahead and lookback stay valid.
type Token struct {
	Kind Kind
	Text string
}

// Deleted reports whether the token has been emptied.
func (t Token) Deleted() bool { return t.Text == "" }

// IsSymbol reports whether the token is the given symbol.
func (t Token) IsSymbol(s string) bool { return t.Kind == KindSymbol && t.Text == s }

// Blank reports whether the token carries no content relevant to
// neighbor checks: interior whitespace, indentation, or deleted.
func (t Token) Blank() bool {
	return t.Kind == KindSpace || t.Kind == KindIndent || t.Text == ""
}

// Two-character operators recognized ahead of single symbols.
var twoCharSymbols = map[string]bool{
	"->": true, "==": true, "!=": true, "<=": true, ">=": true,
	"&&": true, "||": true, "+=": true, "-=": true, "*=": true,
	"/=": true, "%=": true, ":=": true, "<<": true, ">>": true,
	"**": true, "..": true,
}

const spacesPerIndent = 4

// Tokenize splits src into a token sequence under the given mode.
func Tokenize(src string, mode Mode) []Token {
	var toks []Token
	i := 0
	lineStart := true
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\n' || c == '\r':
			j := i + 1
			if c == '\r' && j < len(src) && src[j] == '\n' {
				j++
			}
			toks = append(toks, Token{KindNewline, src[i:j]})
			i = j
			lineStart = true
		case c == ' ' || c == '\t':
			if lineStart {
				toks = append(toks, lexIndent(src, &i)...)
			} else {
				j := i
				for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
					j++
				}
				toks = append(toks, Token{KindSpace, src[i:j]})
				i = j
			}
		case isCommentStart(c, mode):
			j := i
			for j < len(src) && src[j] != '\n' && src[j] != '\r' {
				j++
			}
			toks = append(toks, Token{KindComment, src[i:j]})
			i = j
			lineStart = false
		case c == '"' || c == '\'':
			toks = append(toks, Token{KindString, lexString(src, &i)})
			lineStart = false
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			toks = append(toks, Token{KindIdent, src[i:j]})
			i = j
			lineStart = false
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && (isIdentPart(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, Token{KindNumber, src[i:j]})
			i = j
			lineStart = false
		default:
			if i+1 < len(src) && twoCharSymbols[src[i:i+2]] {
				toks = append(toks, Token{KindSymbol, src[i : i+2]})
				i += 2
			} else {
				toks = append(toks, Token{KindSymbol, src[i : i+1]})
				i++
			}
			lineStart = false
		}
	}
	return toks
}

// lexIndent consumes leading whitespace on a line. Each tab is one
// indentation unit; runs of spaces are split into units of four.
func lexIndent(src string, i *int) []Token {
	var toks []Token
	for *i < len(src) {
		c := src[*i]
		if c == '\t' {
			toks = append(toks, Token{KindIndent, "\t"})
			*i++
			continue
		}
		if c == ' ' {
			j := *i
			for j < len(src) && src[j] == ' ' {
				j++
			}
			run := src[*i:j]
			for len(run) > spacesPerIndent {
				toks = append(toks, Token{KindIndent, run[:spacesPerIndent]})
				run = run[spacesPerIndent:]
			}
			toks = append(toks, Token{KindIndent, run})
			*i = j
			continue
		}
		break
	}
	return toks
}

// lexString consumes a quoted string literal, including the quotes.
// Backslash escapes are carried through raw; an unterminated string runs
// to end of line.
func lexString(src string, i *int) string {
	quote := src[*i]
	j := *i + 1
	for j < len(src) {
		if src[j] == '\\' && j+1 < len(src) {
			j += 2
			continue
		}
		if src[j] == quote {
			j++
			break
		}
		if src[j] == '\n' || src[j] == '\r' {
			break
		}
		j++
	}
	lit := src[*i:j]
	*i = j
	return lit
}

func isCommentStart(c byte, mode Mode) bool {
	switch mode {
	case ModeScene:
		return c == ';' || c == '#'
	case ModePath:
		return false
	default:
		return c == '#'
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// Assemble joins a token sequence back into text. Deleted tokens
// contribute nothing.
func Assemble(toks []Token) string {
	var b strings.Builder
	for _, t := range toks {
		b.WriteString(t.Text)
	}
	return b.String()
}

// DecodeString strips the quotes from a string literal and resolves its
// escape sequences. The second return is false if the literal is not a
// well-formed quoted string.
func DecodeString(lit string) (string, bool) {
	if len(lit) < 2 {
		return "", false
	}
	quote := lit[0]
	if (quote != '"' && quote != '\'') || lit[len(lit)-1] != quote {
		return "", false
	}
	body := lit[1 : len(lit)-1]
	var b strings.Builder
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		if i >= len(body) {
			return "", false
		}
		switch body[i] {
		case 'n':
			b.WriteByte('\n')
		case 't':
			b.WriteByte('\t')
		case 'r':
			b.WriteByte('\r')
		case 'a':
			b.WriteByte('\a')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '\\':
			b.WriteByte('\\')
		case '\'':
			b.WriteByte('\'')
		case '"':
			b.WriteByte('"')
		default:
			// Unknown escape: keep it untouched.
			b.WriteByte('\\')
			b.WriteByte(body[i])
		}
	}
	return b.String(), true
}

// EncodeString renders s as a quoted string literal using the given quote
// character.
func EncodeString(s string, quote byte) string {
	var b strings.Builder
	b.WriteByte(quote)
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\a':
			b.WriteString(`\a`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\\':
			b.WriteString(`\\`)
		case quote:
			b.WriteByte('\\')
			b.WriteByte(quote)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte(quote)
	return b.String()
}

// Quote returns the quote character of a string literal, defaulting to '"'.
func Quote(lit string) byte {
	if len(lit) > 0 && (lit[0] == '"' || lit[0] == '\'') {
		return lit[0]
	}
	return '"'
}
