package expand

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sush-shell/sush/pattern"
)

// hasGlobMeta reports whether s contains any character that makes it
// eligible for filesystem glob expansion.
func hasGlobMeta(s string) bool {
	return strings.ContainsAny(s, "*?[") || strings.Contains(s, "@(") ||
		strings.Contains(s, "+(") || strings.Contains(s, "!(")
}

// globExpand expands a glob pattern against the filesystem, segment by
// segment, the way a shell's pathname expansion works. If the pattern
// matches nothing, the literal pattern text is returned unchanged (spec.md
// doesn't mandate nullglob behavior, so unmatched patterns pass through).
func globExpand(pat string) []string {
	abs := strings.HasPrefix(pat, "/")
	segs := strings.Split(pat, "/")
	start := []string{""}
	if abs {
		start = []string{"/"}
		segs = segs[1:]
	}
	results := start
	for _, seg := range segs {
		if seg == "" {
			continue
		}
		var next []string
		if hasGlobMeta(seg) {
			cp, err := pattern.Compile(seg)
			if err != nil {
				return []string{pat}
			}
			for _, base := range results {
				entries, err := os.ReadDir(joinDir(base))
				if err != nil {
					continue
				}
				for _, e := range entries {
					name := e.Name()
					if strings.HasPrefix(name, ".") && !strings.HasPrefix(seg, ".") {
						continue
					}
					if cp.Match(name) {
						next = append(next, filepath.Join(base, name))
					}
				}
			}
		} else {
			for _, base := range results {
				next = append(next, filepath.Join(base, seg))
			}
		}
		results = next
		if len(results) == 0 {
			return []string{pat}
		}
	}
	sort.Strings(results)
	return results
}

func joinDir(base string) string {
	if base == "" {
		return "."
	}
	return base
}
