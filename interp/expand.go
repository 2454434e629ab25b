package interp

import (
	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/expand"
)

// expandSimple expands a Simple command's assignments and words into
// EvaluatedSubs/Args (spec.md §3's "evaluated_subs"/"args" fields).
func expandSimple(s *ast.Simple, cfg *expand.Config) error {
	s.EvaluatedSubs = s.EvaluatedSubs[:0]
	for _, a := range s.Assigns {
		ev := ast.EvaluatedAssign{Name: a.Name}
		if a.Array != nil {
			var items []string
			for _, w := range a.Array {
				fs, err := expand.Fields(w, cfg)
				if err != nil {
					return err
				}
				items = append(items, fs...)
			}
			ev.Kind = ast.ValArray
			ev.Items = items
		} else {
			v, err := expand.Literal(a.Value, cfg)
			if err != nil {
				return err
			}
			if a.Append {
				if prev, ok := cfg.Env.Get(a.Name); ok {
					v = prev + v
				}
			}
			ev.Kind = ast.ValSingle
			ev.Value = v
		}
		s.EvaluatedSubs = append(s.EvaluatedSubs, ev)
	}
	var args []string
	for _, w := range s.Words {
		fs, err := expand.Fields(w, cfg)
		if err != nil {
			return err
		}
		args = append(args, fs...)
	}
	s.Args = args
	return nil
}
