package parser

import (
	"bytes"
	"fmt"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/diff"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/feeder"
)

// TestFailedParseKeepsLineRange checks that each malformed single-line
// input fails ParseTopLevel and leaves the feeder's line range at [1,1].
// It does not compare the feeder's remaining text with its state before
// the parse: a production that fails partway returns its error without
// rewinding what it consumed.
func TestFailedParseKeepsLineRange(t *testing.T) {
	c := qt.New(t)
	inputs := []string{
		"if true",    // unterminated if, no "then"
		"for x in",   // dangling "in" with no words/newline-do
		"echo foo)",  // stray close-paren, not inside a group
		"{ echo foo", // unterminated brace group
	}
	for _, src := range inputs {
		f := feeder.NewFromString(src)
		p := New(f)
		_, err := p.ParseTopLevel()
		c.Assert(err, qt.Not(qt.IsNil), qt.Commentf("input %q unexpectedly parsed", src))

		from, to := f.Lineno()
		c.Assert(from, qt.Equals, 1, qt.Commentf("src=%q", src))
		c.Assert(to, qt.Equals, 1, qt.Commentf("src=%q", src))
	}
}

// TestPipelineCommandPipeInvariant checks spec.md §3's "len(commands) ==
// len(pipes)+1" and §8's "for all pipelines of n commands" framing across a
// range of pipeline lengths.
func TestPipelineCommandPipeInvariant(t *testing.T) {
	c := qt.New(t)
	for n := 1; n <= 5; n++ {
		src := pipelineOfLength(n)
		p := New(feeder.NewFromString(src))
		sc, err := p.ParseTopLevel()
		c.Assert(err, qt.IsNil, qt.Commentf("src=%q", src))
		c.Assert(sc.Pipelines, qt.HasLen, 1)
		pl := sc.Pipelines[0]
		c.Assert(len(pl.Commands), qt.Equals, n)
		c.Assert(len(pl.Pipes), qt.Equals, n-1)
	}
}

func pipelineOfLength(n int) string {
	src := "cmd0"
	for i := 1; i < n; i++ {
		src += fmt.Sprintf(" | cmd%d", i)
	}
	return src
}

// TestSimpleCommandWordTextRoundTrips checks the one level at which this
// tree reliably carries verbatim source text (spec.md §3's Word/subword
// literal text): a simple command's literal words, re-joined with single
// spaces, reproduce the original source for space-separated, unquoted
// input.
func TestSimpleCommandWordTextRoundTrips(t *testing.T) {
	c := qt.New(t)
	src := "echo foo bar baz"
	p := New(feeder.NewFromString(src))
	sc, err := p.ParseTopLevel()
	c.Assert(err, qt.IsNil)
	c.Assert(sc.Pipelines, qt.HasLen, 1)
	simple, ok := sc.Pipelines[0].Commands[0].(*ast.Simple)
	c.Assert(ok, qt.IsTrue)

	var got string
	for i, w := range simple.Words {
		if i > 0 {
			got += " "
		}
		lit, isLit := soleLiteral(w)
		c.Assert(isLit, qt.IsTrue)
		got += lit
	}
	c.Assert(got, qt.Equals, src)

	// Wire a human-readable unified diff on top of the equality check
	// itself, rather than only on the failure path, so a regression here
	// shows the mismatch the way a reviewer would want it, not just two
	// raw strings.
	var buf bytes.Buffer
	c.Assert(diff.Text("got", "want", got, src, &buf), qt.IsNil)
	c.Assert(buf.Len(), qt.Equals, 0, qt.Commentf("unexpected diff:\n%s", buf.String()))
}
