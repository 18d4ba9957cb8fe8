package lexer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Joining every token's text must reproduce the input byte for byte,
// because deletion is modeled as emptying a token in a parallel buffer.
func TestTokenizeRoundTrip(t *testing.T) {
	testCases := []struct {
		name string
		mode Mode
		src  string
	}{
		{
			name: "Simple script",
			mode: ModeScript,
			src:  "extends Node\n\nvar health = 100\n",
		},
		{
			name: "Tabs and spaces mixed",
			mode: ModeScript,
			src:  "func _ready():\n\tvar a = 1\n    var b = 2\n",
		},
		{
			name: "Strings with escapes",
			mode: ModeScript,
			src:  "var s = \"line one\\nline two\"\nvar t = 'it\\'s'\n",
		},
		{
			name: "Comments",
			mode: ModeScript,
			src:  "# a comment\nvar x = 1 # trailing\n",
		},
		{
			name: "Unterminated string stops at end of line",
			mode: ModeScript,
			src:  "var s = \"oops\nvar t = 1\n",
		},
		{
			name: "CRLF line endings",
			mode: ModeScript,
			src:  "var a = 1\r\nvar b = 2\r\n",
		},
		{
			name: "Scene file",
			mode: ModeScene,
			src:  "[node name=\"Player\" type=\"Node2D\"]\nposition = Vector2( 0, 0 )\n; a scene comment\n",
		},
		{
			name: "Empty input",
			mode: ModeScript,
			src:  "",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			toks := Tokenize(tc.src, tc.mode)
			assert.Equal(t, tc.src, Assemble(toks), "assembled tokens must equal the source")
		})
	}
}

func TestTokenizeKinds(t *testing.T) {
	toks := Tokenize("func hit(dmg):\n\treturn dmg * 2\n", ModeScript)

	want := []Token{
		{KindIdent, "func"},
		{KindSpace, " "},
		{KindIdent, "hit"},
		{KindSymbol, "("},
		{KindIdent, "dmg"},
		{KindSymbol, ")"},
		{KindSymbol, ":"},
		{KindNewline, "\n"},
		{KindIndent, "\t"},
		{KindIdent, "return"},
		{KindSpace, " "},
		{KindIdent, "dmg"},
		{KindSpace, " "},
		{KindSymbol, "*"},
		{KindSpace, " "},
		{KindNumber, "2"},
		{KindNewline, "\n"},
	}
	if diff := cmp.Diff(want, toks); diff != "" {
		t.Errorf("token stream mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenizeTwoCharSymbols(t *testing.T) {
	toks := Tokenize("func f() -> int:\n\tx := 1\n", ModeScript)
	var symbols []string
	for _, tok := range toks {
		if tok.Kind == KindSymbol {
			symbols = append(symbols, tok.Text)
		}
	}
	assert.Contains(t, symbols, "->")
	assert.Contains(t, symbols, ":=")
}

func TestTokenizeIndentUnits(t *testing.T) {
	// A run of eight spaces is two indentation units; a tab is one.
	toks := Tokenize("if a:\n        pass\n\tpass\n", ModeScript)
	var indents []string
	for _, tok := range toks {
		if tok.Kind == KindIndent {
			indents = append(indents, tok.Text)
		}
	}
	require.Len(t, indents, 3)
	assert.Equal(t, "    ", indents[0])
	assert.Equal(t, "    ", indents[1])
	assert.Equal(t, "\t", indents[2])
}

func TestTokenizeCommentStarts(t *testing.T) {
	// '#' starts a comment in script mode but ';' does not.
	toks := Tokenize("var a = 1 ; var b = 2\n", ModeScript)
	for _, tok := range toks {
		assert.NotEqual(t, KindComment, tok.Kind)
	}

	// Both ';' and '#' start comments in scene mode.
	toks = Tokenize("; one\n# two\n", ModeScene)
	var comments []string
	for _, tok := range toks {
		if tok.Kind == KindComment {
			comments = append(comments, tok.Text)
		}
	}
	assert.Equal(t, []string{"; one", "# two"}, comments)

	// Path fragments have no comments at all.
	toks = Tokenize("#Frag", ModePath)
	for _, tok := range toks {
		assert.NotEqual(t, KindComment, tok.Kind)
	}
}

func TestDecodeString(t *testing.T) {
	testCases := []struct {
		name    string
		lit     string
		want    string
		wantOK  bool
	}{
		{"Double quoted", `"hello"`, "hello", true},
		{"Single quoted", `'hello'`, "hello", true},
		{"Escaped newline", `"a\nb"`, "a\nb", true},
		{"Escaped quote", `"say \"hi\""`, `say "hi"`, true},
		{"Unknown escape kept raw", `"a\qb"`, `a\qb`, true},
		{"Unterminated", `"oops`, "", false},
		{"Not a string", `hello`, "", false},
		{"Empty literal", `""`, "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := DecodeString(tc.lit)
			assert.Equal(t, tc.wantOK, ok)
			if tc.wantOK {
				assert.Equal(t, tc.want, got)
			}
		})
	}
}

func TestEncodeDecodeAgree(t *testing.T) {
	for _, s := range []string{"plain", "with\nnewline", `back\slash`, `quote " inside`} {
		lit := EncodeString(s, '"')
		got, ok := DecodeString(lit)
		require.True(t, ok, "re-decoding %q", lit)
		assert.Equal(t, s, got)
	}
}

func TestQuote(t *testing.T) {
	assert.Equal(t, byte('"'), Quote(`"x"`))
	assert.Equal(t, byte('\''), Quote(`'x'`))
	assert.Equal(t, byte('"'), Quote(``))
}
