package rewriter

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whit3rabbit/gdmixer/internal/config"
	"github.com/whit3rabbit/gdmixer/internal/lexer"
)

func newTestConfig() *config.Config {
	return &config.Config{
		ScriptExtensions:  []string{"gd"},
		SceneExtensions:   []string{"tscn", "tres", "godot"},
		ScrambleMode:      "identifier",
		ScrambleLength:    5,
		TranslationPrefix: "TR_",
		RemoveCasts:       true,
		StripComments:     true,
		Silent:            true,
	}
}

func newTestContext(t *testing.T, cfg *config.Config) *Context {
	t.Helper()
	if cfg == nil {
		cfg = newTestConfig()
	}
	ctx, err := NewContext(cfg, afero.NewMemMapFs())
	require.NoError(t, err)
	return ctx
}

func rewrite(t *testing.T, ctx *Context, mode lexer.Mode, src string) (string, error) {
	t.Helper()
	rw, err := New(ctx, "test.gd", mode, lexer.Tokenize(src, mode))
	require.NoError(t, err)
	return rw.Rewrite()
}

func rewriteScript(t *testing.T, ctx *Context, src string) string {
	t.Helper()
	out, err := rewrite(t, ctx, lexer.ModeScript, src)
	require.NoError(t, err)
	return out
}

func TestMemberAndLocalRenaming(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "extends Node\n" +
		"\n" +
		"var health = 100\n" +
		"\n" +
		"func take_damage(amount):\n" +
		"\tvar result = health - amount\n" +
		"\thealth = result\n"

	out := rewriteScript(t, ctx, src)

	// Reserved keyword and engine class survive untouched.
	assert.True(t, strings.HasPrefix(out, "extends Node\n"))

	for _, original := range []string{"health", "take_damage", "amount", "result"} {
		assert.NotContains(t, out, original)
	}

	// The member variable and the method are public allocations, applied
	// consistently at every occurrence.
	healthObf, ok := ctx.Alloc.LookupObfuscated("health")
	require.True(t, ok)
	assert.Equal(t, 3, strings.Count(out, healthObf))

	_, ok = ctx.Alloc.LookupObfuscated("take_damage")
	assert.True(t, ok)

	// Parameters and function-local variables are file-private labels:
	// underscore-prefixed and never recorded in the public allocator.
	for _, local := range []string{"amount", "result"} {
		_, ok := ctx.Alloc.LookupObfuscated(local)
		assert.False(t, ok, "local %q leaked into the public allocator", local)
	}
	privCounts := map[string]int{}
	for _, tok := range lexer.Tokenize(out, lexer.ModeScript) {
		if tok.Kind == lexer.KindIdent && strings.HasPrefix(tok.Text, "_") {
			privCounts[tok.Text]++
		}
	}
	assert.Len(t, privCounts, 2)
	for name, n := range privCounts {
		assert.Equal(t, 2, n, "private label %q occurrence count", name)
	}
}

func TestLocalShadowsMember(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "extends Node\n" +
		"\n" +
		"var speed = 10\n" +
		"\n" +
		"func boost():\n" +
		"\tvar speed = 20\n" +
		"\treturn self.speed + speed\n"

	out := rewriteScript(t, ctx, src)

	speedObf, ok := ctx.Alloc.LookupObfuscated("speed")
	require.True(t, ok)

	// The member declaration and the field access resolve publicly; the
	// shadowing local and its bare use resolve privately.
	assert.Equal(t, 2, strings.Count(out, speedObf))
	assert.Contains(t, out, "self."+speedObf)
}

func TestClassNameBecomesUserType(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "class_name Enemy\n\nfunc attack():\n\tpass\n")

	enemyObf, ok := ctx.Alloc.LookupObfuscated("Enemy")
	require.True(t, ok)
	assert.Contains(t, out, "class_name "+enemyObf)
	assert.True(t, ctx.Reg.IsUserType("Enemy"))

	// A later file annotating with the user type gets the cast removed.
	out = rewriteScript(t, ctx, "var e: Enemy = null\n")
	eObf, ok := ctx.Alloc.LookupObfuscated("e")
	require.True(t, ok)
	assert.Equal(t, fmt.Sprintf("var %s = null\n", eObf), out)
}

func TestInnerClassScope(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "class Inventory:\n" +
		"\tvar slots = []\n" +
		"\n" +
		"var bag = null\n"

	out := rewriteScript(t, ctx, src)

	// The class body lowers the floor to its own depth, so slots is a
	// member declaration, not a local.
	slotsObf, ok := ctx.Alloc.LookupObfuscated("slots")
	require.True(t, ok)
	assert.Contains(t, out, "var "+slotsObf)

	bagObf, ok := ctx.Alloc.LookupObfuscated("bag")
	require.True(t, ok)
	assert.Contains(t, out, "var "+bagObf)
}

func TestAnnotationPassThrough(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "@export_range(0, 10) var level = 1\n")
	assert.Contains(t, out, "@export_range(0, 10)")
	assert.NotContains(t, out, "level")
}

func TestCommentStripping(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "# setup\nvar a = 1 # trailing\n")
	assert.NotContains(t, out, "setup")
	assert.NotContains(t, out, "trailing")
	// Line structure outside the comments is intact.
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestCommentKeptWhenConfigured(t *testing.T) {
	cfg := newTestConfig()
	cfg.StripComments = false
	ctx := newTestContext(t, cfg)
	out := rewriteScript(t, ctx, "# setup\nvar a = 1\n")
	assert.Contains(t, out, "# setup")
}

func TestPlatformCommentSurvives(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "#~ios begin\nvar a = 1\n#~ios end\n"
	rw, err := New(ctx, "test.gd", lexer.ModeScript, lexer.Tokenize(src, lexer.ModeScript))
	require.NoError(t, err)
	out, err := rw.Rewrite()
	require.NoError(t, err)

	assert.Contains(t, out, "#~ios begin")
	assert.Contains(t, out, "#~ios end")
	assert.True(t, rw.PlatformDirectives)
}

func TestKeepDirective(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "#!keep save_game, load_game\nfunc save_game():\n\tpass\n")
	assert.Contains(t, out, "func save_game()")
	assert.NotContains(t, out, "!keep")
	assert.True(t, ctx.Reg.IsBanned("load_game"))
}

func TestRenameDirective(t *testing.T) {
	ctx := newTestContext(t, nil)
	rewriteScript(t, ctx, "#!rename boss_theme\nvar a = 1\n")
	_, ok := ctx.Alloc.LookupObfuscated("boss_theme")
	assert.True(t, ok, "rename directive must pre-register the mapping")
}

func TestPrivateDirective(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "#!private counter\nvar counter = 0\n")

	// Explicitly private names stay out of the public allocator even in
	// member position.
	_, ok := ctx.Alloc.LookupObfuscated("counter")
	assert.False(t, ok)
	assert.NotContains(t, out, "counter")
	assert.Contains(t, out, "var _")
}

func TestIgnoreBlock(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "#!ignore\nvar secret = 1\n#!ignore\nvar loot = 2\n"
	out := rewriteScript(t, ctx, src)

	assert.NotContains(t, out, "secret")
	assert.NotContains(t, out, "1")
	lootObf, ok := ctx.Alloc.LookupObfuscated("loot")
	require.True(t, ok)
	assert.Equal(t, "\nvar "+lootObf+" = 2\n", out)
}

func TestUnterminatedIgnoreBlock(t *testing.T) {
	ctx := newTestContext(t, nil)
	_, err := rewrite(t, ctx, lexer.ModeScript, "#!ignore\nvar secret = 1\n")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnterminatedSpecialBlock))
	assert.Contains(t, err.Error(), "test.gd")
}

func TestOddToggleCountFails(t *testing.T) {
	ctx := newTestContext(t, nil)
	src := "#!ignore\nvar a = 1\n#!ignore\nvar b = 2\n#!ignore\nvar c = 3\n"
	_, err := rewrite(t, ctx, lexer.ModeScript, src)
	assert.True(t, errors.Is(err, ErrUnterminatedSpecialBlock))
}

func TestCastRemoval(t *testing.T) {
	testCases := []struct {
		name string
		src  string
		want func(ctx *Context) string
	}{
		{
			name: "As cast",
			src:  "var a = b as int\n",
			want: func(ctx *Context) string {
				a, _ := ctx.Alloc.LookupObfuscated("a")
				b, _ := ctx.Alloc.LookupObfuscated("b")
				return fmt.Sprintf("var %s = %s\n", a, b)
			},
		},
		{
			name: "Return annotation",
			src:  "func fire() -> void:\n\tpass\n",
			want: func(ctx *Context) string {
				fire, _ := ctx.Alloc.LookupObfuscated("fire")
				return fmt.Sprintf("func %s():\n\tpass\n", fire)
			},
		},
		{
			name: "Typed declaration",
			src:  "var c: int = 3\n",
			want: func(ctx *Context) string {
				c, _ := ctx.Alloc.LookupObfuscated("c")
				return fmt.Sprintf("var %s = 3\n", c)
			},
		},
		{
			name: "Typed parameter",
			src:  "func hit(dmg: float, times: int):\n\tpass\n",
			want: func(ctx *Context) string {
				hit, _ := ctx.Alloc.LookupObfuscated("hit")
				return fmt.Sprintf("func %s(_a000, _b000):\n\tpass\n", hit)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx := newTestContext(t, nil)
			out := rewriteScript(t, ctx, tc.src)
			assert.Equal(t, tc.want(ctx), out)
		})
	}
}

func TestExportedTypeKept(t *testing.T) {
	ctx := newTestContext(t, nil)
	out := rewriteScript(t, ctx, "export(int) var speed: float = 5.0\n")

	speedObf, ok := ctx.Alloc.LookupObfuscated("speed")
	require.True(t, ok)
	// Exported properties need their declared types for the editor, so
	// the annotation survives.
	assert.Equal(t, fmt.Sprintf("export(int) var %s: float = 5.0\n", speedObf), out)
}

func TestCastsKeptWhenDisabled(t *testing.T) {
	cfg := newTestConfig()
	cfg.RemoveCasts = false
	ctx := newTestContext(t, cfg)
	out := rewriteScript(t, ctx, "var a = b as int\n")

	a, _ := ctx.Alloc.LookupObfuscated("a")
	b, _ := ctx.Alloc.LookupObfuscated("b")
	assert.Equal(t, fmt.Sprintf("var %s = %s as int\n", a, b), out)
}

func TestGenericModeRenamesEverything(t *testing.T) {
	ctx := newTestContext(t, nil)
	out, err := rewrite(t, ctx, lexer.ModeGeneric, "custom_token if other_token\n")
	require.NoError(t, err)
	assert.NotContains(t, out, "custom_token")
	assert.NotContains(t, out, "other_token")
	assert.Contains(t, out, "if")
}

func TestSceneModeSubstitutesExistingOnly(t *testing.T) {
	ctx := newTestContext(t, nil)
	playerObf := ctx.Alloc.Scramble("Player")
	gunObf := ctx.Alloc.Scramble("Gun")

	src := "[node name=\"Player\" type=\"Node2D\" parent=\"Gun/Muzzle\"]\n" +
		"script = ExtResource( 1 )\n"
	out, err := rewrite(t, ctx, lexer.ModeScene, src)
	require.NoError(t, err)

	assert.Contains(t, out, "name=\""+playerObf+"\"")
	// Unmapped names pass through; nothing new is allocated here.
	assert.Contains(t, out, "type=\"Node2D\"")
	assert.Contains(t, out, "Muzzle")
	_, ok := ctx.Alloc.LookupObfuscated("Muzzle")
	assert.False(t, ok)
	// Node-path values substitute per segment.
	assert.Contains(t, out, "parent=\""+gunObf+"/Muzzle\"")
	// Structural keys are untouched.
	assert.Contains(t, out, "script = ExtResource( 1 )")
}

func TestSceneDisplayNameVerbatim(t *testing.T) {
	ctx := newTestContext(t, nil)
	// Even a name with an existing mapping survives in the display-name
	// value position.
	ctx.Alloc.Scramble("Super Game")

	src := "[application]\n\nconfig/name=\"Super Game\"\n"
	out, err := rewrite(t, ctx, lexer.ModeScene, src)
	require.NoError(t, err)
	assert.Contains(t, out, "config/name=\"Super Game\"")
}
