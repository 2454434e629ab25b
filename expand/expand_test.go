package expand_test

import (
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/expand"
)

type testEnv struct {
	scalars map[string]string
	arrays  map[string][]string
	pos     []string
	ifs     string
	home    string
}

func newTestEnv() *testEnv {
	return &testEnv{scalars: map[string]string{}, arrays: map[string][]string{}, ifs: " \t\n", home: "/home/u"}
}

func (e *testEnv) Get(name string) (string, bool) { v, ok := e.scalars[name]; return v, ok }
func (e *testEnv) GetArray(name string) ([]string, bool) {
	v, ok := e.arrays[name]
	return v, ok
}
func (e *testEnv) Positional() []string { return e.pos }
func (e *testEnv) IFS() string          { return e.ifs }
func (e *testEnv) Home() string         { return e.home }
func (e *testEnv) Set(name, value string) { e.scalars[name] = value }

func litWord(s string) *ast.Word {
	return &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartLit, Lit: s}}}
}

func paramWord(name string) *ast.Word {
	return &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartParam, Param: &ast.ParamExp{Name: name}}}}
}

func cfgWith(env *testEnv) *expand.Config {
	return &expand.Config{
		Env: env,
		CmdSubst: func(src string) (string, error) {
			return fmt.Sprintf("<<%s>>", src), nil
		},
	}
}

func TestLiteralConcatenation(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	env.scalars["X"] = "hi"
	w := &ast.Word{Parts: []*ast.WordPart{
		{Kind: ast.PartLit, Lit: "a="},
		{Kind: ast.PartParam, Param: &ast.ParamExp{Name: "X"}},
	}}
	got, err := expand.Literal(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "a=hi")
}

func TestFieldSplitting(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	env.scalars["X"] = "one two  three"
	got, err := expand.Fields(paramWord("X"), cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"one", "two", "three"})
}

// An unset or empty unquoted scalar still occupies its word's field, unlike
// $@ with no positional parameters or a whitespace-only scalar: "A=1 B=2
// echo $A $B" with A/B unset prints two empty fields, not zero.
func TestUnsetUnquotedYieldsEmptyField(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	got, err := expand.Fields(paramWord("UNSET"), cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{""})
}

func TestEmptyPositionalArrayVanishes(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartParam, Param: &ast.ParamExp{Name: "@", AtStar: '@'}}}}
	got, err := expand.Fields(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.HasLen, 0)
}

func TestArrayFieldsGlueToLiteralNeighbors(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	env.arrays["A"] = []string{"x", "y", "z"}
	w := &ast.Word{Parts: []*ast.WordPart{
		{Kind: ast.PartLit, Lit: "["},
		{Kind: ast.PartParam, Param: &ast.ParamExp{Name: "A"}},
		{Kind: ast.PartLit, Lit: "]"},
	}}
	got, err := expand.Fields(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"[x", "y", "z]"})
}

func TestBraceExpansion(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{
		{Kind: ast.PartLit, Lit: "f"},
		{Kind: ast.PartBrace, Lit: "a,b,c"},
	}}
	got, err := expand.Fields(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"fa", "fb", "fc"})
}

func TestBraceRange(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartBrace, Lit: "1..3"}}}
	got, err := expand.Fields(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"1", "2", "3"})
}

func TestParamOpDefault(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartParam, Param: &ast.ParamExp{
		Name: "X", Op: ":-", Arg: litWord("fallback"),
	}}}}
	got, err := expand.Literal(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "fallback")
}

func TestCommandSubstitution(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartCmdSubst, Body: "echo hi"}}}
	got, err := expand.Literal(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "<<echo hi>>")
}

func TestTildeExpandsHome(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	w := &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartTilde}, {Kind: ast.PartLit, Lit: "/x"}}}
	got, err := expand.Literal(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "/home/u/x")
}

func TestDoubleQuotedAtSplitsIntoPositionals(t *testing.T) {
	c := qt.New(t)
	env := newTestEnv()
	env.pos = []string{"a b", "c"}
	w := &ast.Word{Parts: []*ast.WordPart{{
		Kind: ast.PartDoubleQuoted,
		Parts: []*ast.WordPart{{Kind: ast.PartParam, Param: &ast.ParamExp{Name: "@", AtStar: '@'}}},
	}}}
	got, err := expand.Fields(w, cfgWith(env))
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.DeepEquals, []string{"a b", "c"})
}
