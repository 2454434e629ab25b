package parser

import (
	"strings"

	"github.com/sush-shell/sush/ast"
)

// parseWord scans one word: a run of literal text, quoting, and expansion
// syntax, stopping at the first unquoted blank or metacharacter.
func (p *Parser) parseWord() (*ast.Word, bool, error) {
	return p.parseWordUntil("")
}

// parseWordUntil is parseWord with extra single-byte stop characters, used
// by case-pattern scanning (stops additionally at "|" and ")").
func (p *Parser) parseWordUntil(extraStop string) (*ast.Word, bool, error) {
	w := &ast.Word{}
	for {
		if p.f.Len() == 0 {
			break
		}
		c := p.f.Peek(1)[0]
		if strings.IndexByte(extraStop, c) >= 0 {
			break
		}
		if isWordBoundaryByte(c) {
			break
		}
		switch c {
		case '\\':
			p.consumeBackslashEscape(w, false)
		case '\'':
			p.scanSingleQuoted(w)
		case '"':
			if err := p.scanDoubleQuoted(w); err != nil {
				return nil, false, err
			}
		case '`':
			part, err := p.scanBacktick()
			if err != nil {
				return nil, false, err
			}
			w.Parts = append(w.Parts, part)
		case '$':
			part, consumed, err := p.scanDollar()
			if err != nil {
				return nil, false, err
			}
			if !consumed {
				appendLit(w, p.f.Consume(1))
				continue
			}
			w.Parts = append(w.Parts, part)
		case '~':
			if len(w.Parts) == 0 {
				w.Parts = append(w.Parts, p.scanTilde())
				continue
			}
			appendLit(w, p.f.Consume(1))
		case '{':
			if part, ok := p.scanBrace(); ok {
				w.Parts = append(w.Parts, part)
			} else {
				appendLit(w, p.f.Consume(1))
			}
		default:
			appendLit(w, p.scanLiteralRun(extraStop))
		}
	}
	if len(w.Parts) == 0 {
		return nil, false, nil
	}
	return w, true, nil
}

// appendLit merges s into the word's trailing PartLit, or starts a new one.
func appendLit(w *ast.Word, s string) {
	if s == "" {
		return
	}
	if n := len(w.Parts); n > 0 && w.Parts[n-1].Kind == ast.PartLit {
		w.Parts[n-1].Lit += s
		return
	}
	w.Parts = append(w.Parts, &ast.WordPart{Kind: ast.PartLit, Lit: s})
}

// isWordBoundaryByte reports the metacharacters that end a word wherever
// they appear unquoted: blanks, the pipe/list/redirection operators, and
// parens (always special outside quoting, per spec.md §4.1's scanners).
func isWordBoundaryByte(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '|', '&', ';', '<', '>', '(', ')':
		return true
	}
	return false
}

// scanLiteralRun consumes a maximal run of plain text, stopping at anything
// parseWordUntil handles specially.
func (p *Parser) scanLiteralRun(extraStop string) string {
	text := p.f.Text()
	n := 0
	for n < len(text) {
		c := text[n]
		if isWordBoundaryByte(c) || strings.IndexByte(extraStop, c) >= 0 {
			break
		}
		switch c {
		case '\\', '\'', '"', '`', '$', '{':
			return p.f.Consume(n)
		case '~':
			if n == 0 {
				return p.f.Consume(n)
			}
		}
		n++
	}
	return p.f.Consume(n)
}

// consumeBackslashEscape handles a backslash outside single quotes: a
// backslash-newline is a line continuation (removed entirely); anything
// else is taken literally. inDouble restricts which characters a backslash
// actually escapes, per POSIX double-quote rules.
func (p *Parser) consumeBackslashEscape(w *ast.Word, inDouble bool) {
	for p.f.Len() < 2 {
		if !p.more() {
			if p.f.Len() == 1 {
				appendLit(w, p.f.Consume(1))
			}
			return
		}
	}
	next := p.f.Peek(2)[1]
	if next == '\n' {
		p.f.Consume(2)
		return
	}
	if inDouble {
		switch next {
		case '"', '\\', '$', '`':
			p.f.Consume(1)
			appendLit(w, p.f.Consume(1))
		default:
			appendLit(w, p.f.Consume(1))
		}
		return
	}
	p.f.Consume(1)
	appendLit(w, p.f.Consume(1))
}

func (p *Parser) scanSingleQuoted(w *ast.Word) {
	p.f.Consume(1)
	for {
		idx := strings.IndexByte(p.f.Text(), '\'')
		if idx < 0 {
			if !p.more() {
				// unterminated: take everything as literal, matching the
				// feeder's own best-effort EOF handling.
				w.Parts = append(w.Parts, &ast.WordPart{Kind: ast.PartSingleQuoted, Lit: p.f.Consume(p.f.Len())})
				return
			}
			continue
		}
		lit := p.f.Consume(idx)
		p.f.Consume(1)
		w.Parts = append(w.Parts, &ast.WordPart{Kind: ast.PartSingleQuoted, Lit: lit})
		return
	}
}

// scanDoubleQuoted scans a "..." segment into a PartDoubleQuoted whose Parts
// are the same kinds parseWordUntil produces, minus nested single/double
// quoting.
func (p *Parser) scanDoubleQuoted(w *ast.Word) error {
	p.f.Consume(1)
	inner := &ast.WordPart{Kind: ast.PartDoubleQuoted}
	innerWord := &ast.Word{}
	for {
		for p.f.Len() == 0 {
			if !p.more() {
				return parseErrorf("syntax error: unterminated double quote")
			}
		}
		c := p.f.Peek(1)[0]
		if c == '"' {
			p.f.Consume(1)
			break
		}
		switch c {
		case '\\':
			p.consumeBackslashEscape(innerWord, true)
		case '`':
			part, err := p.scanBacktick()
			if err != nil {
				return err
			}
			innerWord.Parts = append(innerWord.Parts, part)
		case '$':
			part, consumed, err := p.scanDollar()
			if err != nil {
				return err
			}
			if !consumed {
				appendLit(innerWord, p.f.Consume(1))
				continue
			}
			innerWord.Parts = append(innerWord.Parts, part)
		default:
			n := 0
			text := p.f.Text()
			for n < len(text) && text[n] != '"' && text[n] != '\\' && text[n] != '$' && text[n] != '`' {
				n++
			}
			if n == 0 {
				if !p.more() {
					return parseErrorf("syntax error: unterminated double quote")
				}
				continue
			}
			appendLit(innerWord, p.f.Consume(n))
		}
	}
	inner.Parts = innerWord.Parts
	w.Parts = append(w.Parts, inner)
	return nil
}

// scanBacktick scans a `...` command substitution, honoring POSIX's limited
// backslash-escaping of backtick, dollar, and backslash itself.
func (p *Parser) scanBacktick() (*ast.WordPart, error) {
	p.f.Consume(1)
	var b strings.Builder
	for {
		for p.f.Len() == 0 {
			if !p.more() {
				return nil, parseErrorf("syntax error: unterminated command substitution")
			}
		}
		c := p.f.Peek(1)[0]
		if c == '`' {
			p.f.Consume(1)
			break
		}
		if c == '\\' {
			for p.f.Len() < 2 {
				if !p.more() {
					break
				}
			}
			if p.f.Len() >= 2 {
				next := p.f.Peek(2)[1]
				if next == '`' || next == '$' || next == '\\' {
					p.f.Consume(1)
					b.WriteByte(p.f.Consume(1)[0])
					continue
				}
			}
		}
		b.WriteByte(p.f.Consume(1)[0])
	}
	return &ast.WordPart{Kind: ast.PartCmdSubst, Body: b.String()}, nil
}

func (p *Parser) scanTilde() *ast.WordPart {
	p.f.Consume(1)
	n := 0
	text := p.f.Text()
	for n < len(text) && (isNamePart(text[n]) || text[n] == '-' || text[n] == '+') {
		n++
	}
	return &ast.WordPart{Kind: ast.PartTilde, Lit: p.f.Consume(n)}
}

// scanBrace attempts to scan a balanced "{...}" run for brace expansion,
// leaving the caller's literal path in charge if the braces don't balance
// (an unmatched "{" is ordinary text, per spec.md §4.4).
func (p *Parser) scanBrace() (*ast.WordPart, bool) {
	back := p.f.SetBackup()
	p.f.Consume(1)
	inner, ok := matchBrackets(p.f, '{', '}')
	if !ok {
		p.f.Rewind(back)
		return nil, false
	}
	return &ast.WordPart{Kind: ast.PartBrace, Lit: inner}, true
}

// scanDollar dispatches on what follows an unconsumed "$": arithmetic
// substitution, command substitution, parameter braces, a named or special
// parameter, or (if none apply) a bare literal "$".
func (p *Parser) scanDollar() (*ast.WordPart, bool, error) {
	if p.f.StartsWith("$((") {
		p.f.Consume(3)
		inner, ok := matchDoubleParen(p.f)
		for !ok {
			if !p.more() {
				return nil, false, parseErrorf("syntax error: unterminated arithmetic expansion")
			}
			inner, ok = matchDoubleParen(p.f)
		}
		return &ast.WordPart{Kind: ast.PartArith, Body: inner}, true, nil
	}
	if p.f.StartsWith("$(") {
		p.f.Consume(2)
		inner, ok := matchBrackets(p.f, '(', ')')
		for !ok {
			if !p.more() {
				return nil, false, parseErrorf("syntax error: unterminated command substitution")
			}
			inner, ok = matchBrackets(p.f, '(', ')')
		}
		return &ast.WordPart{Kind: ast.PartCmdSubst, Body: inner}, true, nil
	}
	if p.f.StartsWith("${") {
		p.f.Consume(2)
		inner, ok := matchBrackets(p.f, '{', '}')
		for !ok {
			if !p.more() {
				return nil, false, parseErrorf("syntax error: unterminated parameter expansion")
			}
			inner, ok = matchBrackets(p.f, '{', '}')
		}
		return &ast.WordPart{Kind: ast.PartParam, Param: parseParamBody(inner)}, true, nil
	}
	for p.f.Len() < 2 {
		if !p.more() {
			break
		}
	}
	if p.f.Len() < 2 {
		return nil, false, nil
	}
	next := p.f.Peek(2)[1]
	switch {
	case next >= '0' && next <= '9':
		p.f.Consume(1)
		digit := p.f.Consume(1)
		return &ast.WordPart{Kind: ast.PartParam, Param: &ast.ParamExp{Name: digit}}, true, nil
	case next == '@' || next == '*':
		p.f.Consume(1)
		c := p.f.Consume(1)
		return &ast.WordPart{Kind: ast.PartParam, Param: &ast.ParamExp{Name: c, AtStar: c[0]}}, true, nil
	case next == '#' || next == '?' || next == '$' || next == '!' || next == '-':
		p.f.Consume(1)
		c := p.f.Consume(1)
		return &ast.WordPart{Kind: ast.PartParam, Param: &ast.ParamExp{Name: c}}, true, nil
	case isNameStart(next):
		p.f.Consume(1)
		name, _ := scanName(p.f)
		return &ast.WordPart{Kind: ast.PartParam, Param: &ast.ParamExp{Name: name}}, true, nil
	default:
		return nil, false, nil
	}
}

// parseParamBody parses the text inside "${...}" into a ParamExp: an
// optional leading "#" (length), a name (with an optional "[index]"), and
// an optional operator with its argument.
func parseParamBody(inner string) *ast.ParamExp {
	pe := &ast.ParamExp{}
	s := inner
	if strings.HasPrefix(s, "#") && s != "#" {
		pe.Length = true
		s = s[1:]
	}
	ops := []string{":-", ":=", ":?", ":+", "##", "#", "%%", "%", "//", "/"}
	opIdx, opLen := -1, 0
	name := s
	for i := 0; i < len(s); i++ {
		matched := ""
		for _, op := range ops {
			if strings.HasPrefix(s[i:], op) && len(op) > len(matched) {
				matched = op
			}
		}
		if matched != "" && i > 0 {
			opIdx, opLen = i, len(matched)
			name = s[:i]
			pe.Op = matched
			break
		}
	}
	if idx := strings.IndexByte(name, '['); idx >= 0 && strings.HasSuffix(name, "]") {
		pe.Name = name[:idx]
		indexText := name[idx+1 : len(name)-1]
		pe.Index = &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartLit, Lit: indexText}}}
	} else {
		pe.Name = name
	}
	if pe.Name == "@" || pe.Name == "*" {
		pe.AtStar = pe.Name[0]
	}
	if opIdx >= 0 {
		argText := s[opIdx+opLen:]
		pe.Arg = &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartLit, Lit: argText}}}
	}
	return pe
}
