package interp

import (
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/google/renameio/v2"
)

var heredocCounter int64

// writeHeredocTemp atomically writes body to a fresh temp file (so a
// concurrently running background pipeline can never observe a
// partially-written heredoc), reopens it for reading, and unlinks it
// immediately — the returned *os.File is the command's only handle, and the
// backing inode disappears once it is closed. Pipeline stages run as
// concurrent goroutines (interp/pipe.go), so the counter is bumped
// atomically to keep two heredocs in the same pipeline from colliding on
// one temp path.
func writeHeredocTemp(body string) (*os.File, error) {
	n := atomic.AddInt64(&heredocCounter, 1)
	path := filepath.Join(os.TempDir(), "sush-heredoc-"+strconv.Itoa(os.Getpid())+"-"+strconv.FormatInt(n, 10))
	if err := renameio.WriteFile(path, []byte(body), 0600); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	os.Remove(path)
	return f, nil
}
