package feeder_test

import (
	"bufio"
	"os"
	"testing"
	"time"

	"github.com/creack/pty"

	"github.com/sush-shell/sush/feeder"
)

// TestTerminalSourcePromptAndContinuation drives TerminalSource over a real
// pseudo-terminal (spec.md §4.1's feed_line/feed_additional_line suspending
// on terminal input, §6's PS1/PS2), the same end-to-end fidelity the
// teacher reserves creack/pty for. The slave side echoes every byte
// written to the master back out (cooked-mode tty default), so each
// injected line is drained off the master after the line it produced has
// been consumed by the Feeder.
func TestTerminalSourcePromptAndContinuation(t *testing.T) {
	ptmx, tty, err := pty.Open()
	if err != nil {
		t.Fatalf("pty.Open: %v", err)
	}
	defer ptmx.Close()
	defer tty.Close()

	src := feeder.NewTerminalSource(tty, tty)
	f := feeder.New(src, true, func() string { return "$ " }, func() string { return "> " })

	master := bufio.NewReader(ptmx)
	done := make(chan bool, 1)

	go func() { done <- f.FeedLine(nil) }()
	wantPrompt(t, master, "$ ")
	writeLine(t, ptmx, "echo foo\n")
	if !waitDone(t, done) {
		t.Fatal("FeedLine reported EOF on a live pty")
	}
	if got := f.Text(); got != "echo foo\n" {
		t.Fatalf("buffer = %q, want %q", got, "echo foo\n")
	}
	drain(t, master, len("echo foo\n"))
	f.Consume(f.Len())

	// A line ending in backslash-newline pulls a PS2 continuation.
	go func() { done <- f.FeedLine(nil) }()
	wantPrompt(t, master, "$ ")
	writeLine(t, ptmx, "echo foo\\\n")
	drain(t, master, len("echo foo\\\n"))
	wantPrompt(t, master, "> ")
	writeLine(t, ptmx, "bar\n")
	if !waitDone(t, done) {
		t.Fatal("FeedLine reported EOF on a live pty")
	}
	if got := f.Text(); got != "echo foobar\n" {
		t.Fatalf("buffer after continuation = %q, want %q", got, "echo foobar\n")
	}
	drain(t, master, len("bar\n"))
}

func wantPrompt(t *testing.T, r *bufio.Reader, want string) {
	t.Helper()
	if got := readN(t, r, len(want)); got != want {
		t.Fatalf("prompt = %q, want %q", got, want)
	}
}

func writeLine(t *testing.T, w *os.File, s string) {
	t.Helper()
	if _, err := w.Write([]byte(s)); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func drain(t *testing.T, r *bufio.Reader, n int) { t.Helper(); readN(t, r, n) }

func waitDone(t *testing.T, done chan bool) bool {
	t.Helper()
	select {
	case v := <-done:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for FeedLine")
		return false
	}
}

func readN(t *testing.T, r *bufio.Reader, n int) string {
	t.Helper()
	buf := make([]byte, n)
	readDone := make(chan error, 1)
	go func() {
		total := 0
		var err error
		for total < len(buf) {
			var k int
			k, err = r.Read(buf[total:])
			total += k
			if err != nil {
				break
			}
		}
		readDone <- err
	}()
	select {
	case err := <-readDone:
		if err != nil {
			t.Fatalf("read: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for pty output")
	}
	return string(buf)
}
