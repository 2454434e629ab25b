package pattern_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/sush-shell/sush/pattern"
)

func compile(t testing.TB, src string) *pattern.Pattern {
	t.Helper()
	p, err := pattern.Compile(src)
	if err != nil {
		t.Fatalf("Compile(%q): %v", src, err)
	}
	return p
}

// TestTestableProperties exercises the exact assertions spec.md §8 lists.
func TestTestableProperties(t *testing.T) {
	c := qt.New(t)
	cases := []struct {
		input, pat string
		want       bool
	}{
		{"abc", "*", true},
		{"", "*", true},
		{"abc", "?", false},
		{"a", "[!x]", true},
		{"x", "[!x]", false},
	}
	for _, tc := range cases {
		got := compile(t, tc.pat).Match(tc.input)
		c.Assert(got, qt.Equals, tc.want, qt.Commentf("Match(%q, %q)", tc.input, tc.pat))
	}
}

func TestNormalAndQuestion(t *testing.T) {
	c := qt.New(t)
	c.Assert(compile(t, "foo").Match("foo"), qt.IsTrue)
	c.Assert(compile(t, "foo").Match("foobar"), qt.IsFalse)
	c.Assert(compile(t, "f?o").Match("foo"), qt.IsTrue)
	c.Assert(compile(t, "f?o").Match("fo"), qt.IsFalse)
}

func TestAsteriskMiddle(t *testing.T) {
	c := qt.New(t)
	c.Assert(compile(t, "f*o").Match("foo"), qt.IsTrue)
	c.Assert(compile(t, "f*o").Match("fabcdefo"), qt.IsTrue)
	c.Assert(compile(t, "f*o").Match("bar"), qt.IsFalse)
}

func TestCharClasses(t *testing.T) {
	c := qt.New(t)
	c.Assert(compile(t, "[abc]").Match("b"), qt.IsTrue)
	c.Assert(compile(t, "[abc]").Match("d"), qt.IsFalse)
	c.Assert(compile(t, "[a-z]").Match("m"), qt.IsTrue)
	c.Assert(compile(t, "[a-z]").Match("M"), qt.IsFalse)
	c.Assert(compile(t, "[^a-z]").Match("M"), qt.IsTrue)
}

func TestExtGlob(t *testing.T) {
	c := qt.New(t)
	c.Assert(compile(t, "@(foo|bar)").Match("foo"), qt.IsTrue)
	c.Assert(compile(t, "@(foo|bar)").Match("baz"), qt.IsFalse)
	c.Assert(compile(t, "?(foo)").Match(""), qt.IsTrue)
	c.Assert(compile(t, "?(foo)").Match("foo"), qt.IsTrue)
	c.Assert(compile(t, "?(foo)").Match("foofoo"), qt.IsFalse)
	c.Assert(compile(t, "*(foo)").Match(""), qt.IsTrue)
	c.Assert(compile(t, "*(foo)").Match("foofoo"), qt.IsTrue)
	c.Assert(compile(t, "+(foo)").Match(""), qt.IsFalse)
	c.Assert(compile(t, "+(foo)").Match("foofoofoo"), qt.IsTrue)
	c.Assert(compile(t, "!(foo)").Match("foo"), qt.IsFalse)
	c.Assert(compile(t, "!(foo)").Match("bar"), qt.IsTrue)
}

func TestUTF8(t *testing.T) {
	c := qt.New(t)
	c.Assert(compile(t, "??").Match("éà"), qt.IsTrue)
	c.Assert(compile(t, "?").Match("é"), qt.IsTrue)
}
