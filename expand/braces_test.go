package expand

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestBraceAlternativesCommaList(t *testing.T) {
	c := qt.New(t)
	alts, ok := braceAlternatives("a,b,c")
	c.Assert(ok, qt.IsTrue)
	c.Assert(alts, qt.DeepEquals, []string{"a", "b", "c"})
}

func TestBraceAlternativesNumericRange(t *testing.T) {
	c := qt.New(t)
	alts, ok := braceAlternatives("1..5")
	c.Assert(ok, qt.IsTrue)
	c.Assert(alts, qt.DeepEquals, []string{"1", "2", "3", "4", "5"})
}

func TestBraceAlternativesSteppedRange(t *testing.T) {
	c := qt.New(t)
	alts, ok := braceAlternatives("1..10..3")
	c.Assert(ok, qt.IsTrue)
	c.Assert(alts, qt.DeepEquals, []string{"1", "4", "7", "10"})
}

func TestBraceAlternativesCharRange(t *testing.T) {
	c := qt.New(t)
	alts, ok := braceAlternatives("a..e")
	c.Assert(ok, qt.IsTrue)
	c.Assert(alts, qt.DeepEquals, []string{"a", "b", "c", "d", "e"})
}

func TestBraceAlternativesNotBraceSyntax(t *testing.T) {
	c := qt.New(t)
	_, ok := braceAlternatives("just text")
	c.Assert(ok, qt.IsFalse)
}
