// Package expand implements word expansion (spec.md §3 Word, and the
// "Word / Expansion" component of §2): tilde, parameter, command
// substitution, arithmetic substitution, field splitting, and globbing.
package expand

import (
	"strings"

	"github.com/sush-shell/sush/arith"
	"github.com/sush-shell/sush/ast"
)

// arithStore adapts an Env to arith.Store.
type arithStore struct{ env Env }

func (a arithStore) Get(name string) (string, bool) { return a.env.Get(name) }
func (a arithStore) Set(name, value string)          { a.env.Set(name, value) }

// Literal expands word to a single string with no field splitting and no
// globbing — used for assignment right-hand sides, case words, heredoc
// delimiters, and parameter-operator arguments (spec.md §4.2, §4.6).
func Literal(word *ast.Word, cfg *Config) (string, error) {
	var b strings.Builder
	for _, p := range word.Parts {
		s, _, err := literalPart(p, cfg)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func literalPart(p *ast.WordPart, cfg *Config) (string, bool, error) {
	switch p.Kind {
	case ast.PartLit:
		return p.Lit, false, nil
	case ast.PartSingleQuoted:
		return p.Lit, false, nil
	case ast.PartTilde:
		return expandTilde(p.Lit, cfg), false, nil
	case ast.PartDoubleQuoted:
		var b strings.Builder
		for _, inner := range p.Parts {
			s, _, err := literalPart(inner, cfg)
			if err != nil {
				return "", false, err
			}
			b.WriteString(s)
		}
		return b.String(), false, nil
	case ast.PartParam:
		scalar, multi, isArr, err := expandParam(p.Param, cfg)
		if err != nil {
			return "", false, err
		}
		if isArr {
			return strings.Join(multi, ifsFirst(cfg.Env.IFS())), false, nil
		}
		return scalar, false, nil
	case ast.PartCmdSubst:
		out, err := cfg.CmdSubst(p.Body)
		return out, false, err
	case ast.PartArith:
		v, err := arith.Eval(p.Body, arithStore{cfg.Env})
		if err != nil {
			return "", false, err
		}
		return v.String(), false, nil
	case ast.PartBrace:
		return "{" + p.Lit + "}", false, nil
	}
	return "", false, nil
}

func expandTilde(user string, cfg *Config) string {
	if user == "" {
		return cfg.Env.Home()
	}
	return "~" + user // other users' home directories are not resolved
}

// Fields fully expands word into zero or more argv-style fields: brace
// expansion, then per-variant parameter/command/arithmetic expansion with
// IFS field splitting of unquoted expansion results, then globbing.
func Fields(word *ast.Word, cfg *Config) ([]string, error) {
	variants := expandBraceVariants(word.Parts)
	var out []string
	for _, v := range variants {
		fields, err := expandVariantFields(v, cfg)
		if err != nil {
			return nil, err
		}
		for _, f := range fields {
			if f.glob && !cfg.NoGlob {
				out = append(out, globExpand(f.text)...)
			} else {
				out = append(out, f.text)
			}
		}
	}
	return out, nil
}

// expandBraceVariants returns the cartesian product of every PartBrace in
// parts, each variant a flat slice with PartBrace replaced by a literal.
func expandBraceVariants(parts []*ast.WordPart) [][]*ast.WordPart {
	variants := [][]*ast.WordPart{nil}
	for _, p := range parts {
		if p.Kind != ast.PartBrace {
			for i := range variants {
				variants[i] = append(variants[i], p)
			}
			continue
		}
		alts, ok := braceAlternatives(p.Lit)
		if !ok {
			for i := range variants {
				variants[i] = append(variants[i], &ast.WordPart{Kind: ast.PartLit, Lit: "{" + p.Lit + "}"})
			}
			continue
		}
		var next [][]*ast.WordPart
		for _, v := range variants {
			for _, alt := range alts {
				cp := append([]*ast.WordPart{}, v...)
				cp = append(cp, &ast.WordPart{Kind: ast.PartLit, Lit: alt})
				next = append(next, cp)
			}
		}
		variants = next
	}
	return variants
}

type fieldBuf struct {
	text string
	glob bool
	keep bool // true once real (possibly empty) content has been written
}

// expandVariantFields implements the glue/split algorithm: literal and
// quoted text accumulate into the current field; an unquoted expansion
// result is IFS-split, with its first piece glued onto the current field,
// its last piece starting the next one, and any middle pieces becoming
// whole fields of their own.
func expandVariantFields(parts []*ast.WordPart, cfg *Config) ([]fieldBuf, error) {
	var completed []fieldBuf
	cur := fieldBuf{}
	ifs := cfg.Env.IFS()

	appendLiteral := func(s string, glob bool) {
		cur.text += s
		cur.keep = true
		if glob && hasGlobMeta(s) {
			cur.glob = true
		}
	}
	appendPieces := func(pieces []string) {
		if len(pieces) == 0 {
			return
		}
		cur.text += pieces[0]
		cur.keep = true
		if len(pieces) == 1 {
			return
		}
		completed = append(completed, cur)
		for _, mid := range pieces[1 : len(pieces)-1] {
			completed = append(completed, fieldBuf{text: mid, keep: true})
		}
		cur = fieldBuf{text: pieces[len(pieces)-1], keep: true}
	}

	for _, p := range parts {
		switch p.Kind {
		case ast.PartLit:
			appendLiteral(p.Lit, true)
		case ast.PartSingleQuoted:
			appendLiteral(p.Lit, false)
		case ast.PartTilde:
			appendLiteral(expandTilde(p.Lit, cfg), false)
		case ast.PartDoubleQuoted:
			if at, ok := soleAtParam(p.Parts); ok {
				items := cfg.Env.Positional()
				_ = at
				appendPieces(items)
				continue
			}
			s, _, err := literalPart(p, cfg)
			if err != nil {
				return nil, err
			}
			appendLiteral(s, false)
		case ast.PartParam:
			scalar, multi, isArr, err := expandParam(p.Param, cfg)
			if err != nil {
				return nil, err
			}
			if isArr {
				appendPieces(multi)
				continue
			}
			if scalar == "" {
				// An empty (unset or "") scalar still occupies its word's
				// argument slot (spec.md §8 scenario 3: "A=1 B=2 echo $A
				// $B" with A/B unset prints " \n", two empty fields, not
				// zero), unlike IFS splitting empty out of whitespace-only
				// content.
				appendPieces([]string{""})
				continue
			}
			appendPieces(splitIFS(scalar, ifs))
		case ast.PartCmdSubst:
			out, err := cfg.CmdSubst(p.Body)
			if err != nil {
				return nil, err
			}
			appendPieces(splitIFS(out, ifs))
		case ast.PartArith:
			v, err := arith.Eval(p.Body, arithStore{cfg.Env})
			if err != nil {
				return nil, err
			}
			appendPieces(splitIFS(v.String(), ifs))
		case ast.PartBrace:
			appendLiteral("{"+p.Lit+"}", true)
		}
	}
	completed = append(completed, cur)

	out := completed[:0:0]
	for _, f := range completed {
		if f.text == "" && !f.keep {
			continue
		}
		out = append(out, f)
	}
	return out, nil
}

// soleAtParam reports whether parts is exactly one unquoted-$@ PartParam,
// the one case where bash splits inside double quotes.
func soleAtParam(parts []*ast.WordPart) (*ast.WordPart, bool) {
	if len(parts) != 1 || parts[0].Kind != ast.PartParam || parts[0].Param == nil {
		return nil, false
	}
	if parts[0].Param.AtStar == '@' {
		return parts[0], true
	}
	return nil, false
}

// splitIFS splits s on any byte in ifs, per spec.md §6 ("split on any byte
// in IFS, default \" \\t\\n\""), collapsing consecutive separators and
// trimming leading/trailing ones the way shells do for the default IFS.
func splitIFS(s, ifs string) []string {
	if ifs == "" {
		return []string{s}
	}
	var fields []string
	var cur strings.Builder
	inField := false
	for _, r := range s {
		if strings.ContainsRune(ifs, r) {
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
			continue
		}
		cur.WriteRune(r)
		inField = true
	}
	if inField {
		fields = append(fields, cur.String())
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}
