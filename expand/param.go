package expand

import (
	"fmt"
	"strings"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/pattern"
)

// lookup resolves a ParamExp's base value(s), honoring $@/$*/array indexing,
// before any ":-"-style operator is applied.
func lookup(p *ast.ParamExp, cfg *Config) (single string, multi []string, isArray bool, ok bool) {
	switch p.AtStar {
	case '@':
		return "", cfg.Env.Positional(), true, true
	case '*':
		return strings.Join(cfg.Env.Positional(), ifsFirst(cfg.Env.IFS())), nil, false, true
	}
	if items, isArr := cfg.Env.GetArray(p.Name); isArr {
		return "", items, true, true
	}
	v, exists := cfg.Env.Get(p.Name)
	return v, nil, false, exists
}

func ifsFirst(ifs string) string {
	if ifs == "" {
		return " "
	}
	return ifs[:1]
}

// expandParam expands a ${...}/$name parameter expansion to its scalar or
// array result.
func expandParam(p *ast.ParamExp, cfg *Config) (scalar string, array []string, isArray bool, err error) {
	single, multi, isArr, ok := lookup(p, cfg)

	if p.Length {
		if isArr {
			return fmt.Sprintf("%d", len(multi)), nil, false, nil
		}
		return fmt.Sprintf("%d", len(single)), nil, false, nil
	}

	if p.Op != "" {
		scalar, array, isArray, err = applyOp(p, single, multi, isArr, ok, cfg)
		return
	}

	if !ok {
		if cfg.Unset {
			return "", nil, false, fmt.Errorf("%s: unbound variable", p.Name)
		}
		return "", nil, false, nil
	}
	return single, multi, isArr, nil
}

// applyOp implements the ${name:-word} family of operators.
func applyOp(p *ast.ParamExp, single string, multi []string, isArr, ok bool, cfg *Config) (string, []string, bool, error) {
	empty := !ok || (!isArr && single == "") || (isArr && len(multi) == 0)

	argWord := func() (string, error) {
		if p.Arg == nil {
			return "", nil
		}
		parts, err := Literal(p.Arg, cfg)
		return parts, err
	}

	switch p.Op {
	case ":-":
		if empty {
			v, err := argWord()
			return v, nil, false, err
		}
		return single, multi, isArr, nil
	case ":=":
		if empty {
			v, err := argWord()
			if err != nil {
				return "", nil, false, err
			}
			cfg.Env.Set(p.Name, v)
			return v, nil, false, nil
		}
		return single, multi, isArr, nil
	case ":?":
		if empty {
			msg, _ := argWord()
			if msg == "" {
				msg = "parameter null or not set"
			}
			return "", nil, false, fmt.Errorf("%s: %s", p.Name, msg)
		}
		return single, multi, isArr, nil
	case ":+":
		if empty {
			return "", nil, false, nil
		}
		v, err := argWord()
		return v, nil, false, err
	case "#", "##", "%", "%%":
		pat, err := argWord()
		if err != nil {
			return "", nil, false, err
		}
		return trimByPattern(single, pat, p.Op), nil, false, nil
	case "/", "//":
		raw, err := argWord()
		if err != nil {
			return "", nil, false, err
		}
		pat, repl := raw, ""
		if idx := strings.IndexByte(raw, '/'); idx >= 0 {
			pat, repl = raw[:idx], raw[idx+1:]
		}
		return substByPattern(single, pat, repl, p.Op == "//"), nil, false, nil
	}
	return single, multi, isArr, nil
}

// trimByPattern implements ${v#pat} ${v##pat} ${v%pat} ${v%%pat}: strip the
// shortest/longest prefix/suffix of v matching pat.
func trimByPattern(v, pat, op string) string {
	cp, err := pattern.Compile(pat)
	if err != nil {
		return v
	}
	switch op {
	case "#", "##":
		longest := op == "##"
		best := -1
		for i := 0; i <= len(v); i++ {
			if cp.Match(v[:i]) {
				best = i
				if !longest {
					break
				}
			}
		}
		if best >= 0 {
			return v[best:]
		}
	case "%", "%%":
		longest := op == "%%"
		best := -1
		for i := len(v); i >= 0; i-- {
			if cp.Match(v[i:]) {
				best = i
				if !longest {
					break
				}
			}
		}
		if best >= 0 {
			return v[:best]
		}
	}
	return v
}

// substByPattern implements ${v/pat/repl} (first match) and ${v//pat/repl}
// (every non-overlapping match), scanning left to right and at each
// position preferring the longest matching substring, mirroring
// trimByPattern's "test every candidate length against cp.Match" approach.
func substByPattern(v, pat, repl string, all bool) string {
	cp, err := pattern.Compile(pat)
	if err != nil {
		return v
	}
	var b strings.Builder
	i := 0
	done := false
	for i < len(v) {
		if done {
			b.WriteString(v[i:])
			break
		}
		matchEnd := -1
		for j := len(v); j > i; j-- {
			if cp.Match(v[i:j]) {
				matchEnd = j
				break
			}
		}
		if matchEnd == -1 {
			b.WriteByte(v[i])
			i++
			continue
		}
		b.WriteString(repl)
		if !all {
			done = true
		}
		if matchEnd == i {
			b.WriteByte(v[i])
			i++
		} else {
			i = matchEnd
		}
	}
	return b.String()
}
