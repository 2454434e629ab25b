// Package feeder implements the incremental line-buffering front end the
// parser consumes from (spec.md §4.1).
package feeder

import "strings"

// LineSource supplies one logical line of input at a time, issuing the
// appropriate prompt first when interactive. It is the seam between this
// package and the (out-of-scope, per spec.md §1) terminal/line-editor front
// end: production code wires a real terminal reader; tests wire a
// bufio.Scanner over a string or a pty.
type LineSource interface {
	// ReadLine reads one line including its trailing newline (absent only
	// on a final, EOF-terminated line), using prompt as the prompt text
	// when the source is interactive. ok is false on EOF.
	ReadLine(prompt string) (line string, ok bool)
}

// Feeder owns a growable character buffer and exposes rewindable,
// speculative consumption to the parser.
//
// Invariant: remaining never contains characters that have already been
// consumed; consumption advances pos_in_line and never rewinds lines.
type Feeder struct {
	remaining  string
	fromLineno int
	toLineno   int
	posInLine  int

	src         LineSource
	interactive bool
	ps1, ps2    func() string
}

// New returns an empty Feeder reading further lines from src. ps1/ps2 are
// called lazily to fetch PS1/PS2 on demand (spec.md §6: "Both are read from
// the variable store on demand"); either may be nil when non-interactive.
func New(src LineSource, interactive bool, ps1, ps2 func() string) *Feeder {
	return &Feeder{src: src, interactive: interactive, ps1: ps1, ps2: ps2}
}

// NewFromString returns a Feeder pre-loaded with text and no further line
// source — used by parser tests and by -c/non-interactive single-string
// evaluation where no continuation should ever be requested.
func NewFromString(text string) *Feeder {
	return &Feeder{remaining: text, fromLineno: 1, toLineno: 1}
}

// Snapshot is a deep (here: value) copy of a Feeder's state, cheap to take
// and cheap to discard, supporting backtracking.
type Snapshot struct {
	remaining  string
	fromLineno int
	toLineno   int
	posInLine  int
}

// SetBackup takes a snapshot of the current state.
func (f *Feeder) SetBackup() Snapshot {
	return Snapshot{f.remaining, f.fromLineno, f.toLineno, f.posInLine}
}

// Rewind restores state from a snapshot taken by SetBackup.
func (f *Feeder) Rewind(s Snapshot) {
	f.remaining = s.remaining
	f.fromLineno = s.fromLineno
	f.toLineno = s.toLineno
	f.posInLine = s.posInLine
}

// Len returns the number of bytes remaining to be consumed.
func (f *Feeder) Len() int { return len(f.remaining) }

// Lineno returns the [from,to] line range the buffer currently spans.
func (f *Feeder) Lineno() (from, to int) { return f.fromLineno, f.toLineno }

// Pos returns the current column within the buffer's starting line.
func (f *Feeder) Pos() int { return f.posInLine }

// Peek returns up to n bytes from the front of the buffer without consuming
// them.
func (f *Feeder) Peek(n int) string {
	if n > len(f.remaining) {
		n = len(f.remaining)
	}
	return f.remaining[:n]
}

// StartsWith reports whether the buffer begins with s.
func (f *Feeder) StartsWith(s string) bool {
	return strings.HasPrefix(f.remaining, s)
}

// Consume removes and returns the first n bytes of the buffer. Every
// successful call strictly shortens the buffer by exactly n and advances
// Pos by exactly n (spec.md §3, §8).
func (f *Feeder) Consume(n int) string {
	cut := f.remaining[:n]
	f.remaining = f.remaining[n:]
	f.posInLine += n
	return cut
}

// MatchAt reports whether the byte at pos is a member of charset.
func (f *Feeder) MatchAt(pos int, charset string) bool {
	if pos < 0 || pos >= len(f.remaining) {
		return false
	}
	return strings.IndexByte(charset, f.remaining[pos]) >= 0
}

// CharsAfter returns the buffer contents starting at byte offset.
func (f *Feeder) CharsAfter(offset int) string {
	if offset >= len(f.remaining) {
		return ""
	}
	return f.remaining[offset:]
}

// Text returns the full remaining buffer, for diagnostics and the
// round-trip test.
func (f *Feeder) Text() string { return f.remaining }

func (f *Feeder) addLine(line string) {
	f.toLineno++
	if len(f.remaining) == 0 {
		f.fromLineno = f.toLineno
		f.posInLine = 0
		f.remaining = line
	} else {
		f.remaining += line
	}
}

func (f *Feeder) prompt(p func() string) string {
	if !f.interactive || p == nil {
		return ""
	}
	return p()
}

// FeedLine reads one logical line, resolving any trailing backslash-newline
// continuation by pulling additional lines until it resolves or EOF occurs.
// On EOF mid-continuation the buffer is cleared and the call still reports
// success for that final, EOF-terminated line (spec.md §4.1).
func (f *Feeder) FeedLine(core ContinuationReader) bool {
	if f.src == nil {
		return false
	}
	line, ok := f.src.ReadLine(f.prompt(f.ps1))
	if !ok {
		return false
	}
	f.addLine(line)

	for strings.HasSuffix(f.remaining, "\\\n") {
		f.remaining = f.remaining[:len(f.remaining)-2]
		if !f.FeedAdditionalLine(core) {
			f.remaining = ""
			return true
		}
	}
	return true
}

// ContinuationReader is accepted for API symmetry with the original design
// (feed_line(core)); this package needs no core state, so it is the empty
// interface in practice and callers may pass nil.
type ContinuationReader interface{}

// FeedAdditionalLine is used by parser productions that discover an
// unterminated construct mid-parse; it issues the PS2 prompt when
// interactive.
func (f *Feeder) FeedAdditionalLine(core ContinuationReader) bool {
	if f.src == nil {
		return false
	}
	line, ok := f.src.ReadLine(f.prompt(f.ps2))
	if !ok {
		return false
	}
	f.addLine(line)
	return true
}
