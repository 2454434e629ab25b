package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"sush": main1,
	}))
}

// TestScripts drives cmd/sush end-to-end through testscript: each
// testdata/scripts/*.txtar is a script of `sush -c '...'` invocations and
// `stdout`/`stderr`/`cmp` assertions, exercising §8's end-to-end scenarios.
func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: filepath.Join("testdata", "scripts"),
		Setup: func(env *testscript.Env) error {
			// Pipelines (§8 scenario 1) fork real external commands (tr),
			// so the child needs a real PATH to find them via execvp.
			env.Vars = append(env.Vars, "PATH="+os.Getenv("PATH"))
			return nil
		},
	})
}
