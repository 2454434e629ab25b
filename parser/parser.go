// Package parser implements the recursive-descent parser of spec.md §4.2:
// one function per grammar production, built on package feeder's
// snapshot/rewind discipline and a nesting stack that picks each inner
// script's terminator set.
package parser

import (
	"fmt"
	"strings"

	"github.com/sush-shell/sush/ast"
	"github.com/sush-shell/sush/feeder"
	"github.com/sush-shell/sush/token"
)

// Parser holds the feeder being parsed and the nesting stack spec.md §4.2
// describes: "Before descending into an inner script, the parent
// production pushes its opening token onto core.nest".
type Parser struct {
	f    *feeder.Feeder
	nest []string
}

// New returns a Parser over f.
func New(f *feeder.Feeder) *Parser { return &Parser{f: f} }

// ParseError is returned for the "unterminated construct" tier of spec.md
// §7's error taxonomy (tier 1: Parse errors).
type ParseError struct {
	Msg string
}

func (e *ParseError) Error() string { return e.Msg }

func parseErrorf(format string, args ...any) error {
	return &ParseError{Msg: fmt.Sprintf(format, args...)}
}

// more pulls one additional line into the feeder, as parser productions do
// when they discover an unterminated construct (spec.md §4.1).
func (p *Parser) more() bool { return p.f.FeedAdditionalLine(nil) }

func (p *Parser) push(tag string) { p.nest = append(p.nest, tag) }
func (p *Parser) pop() {
	if len(p.nest) > 0 {
		p.nest = p.nest[:len(p.nest)-1]
	}
}

// terminatorsFor returns the reserved words that end a script opened by
// tag, per spec.md §4.2's nesting-stack table.
func terminatorsFor(tag string) map[string]bool {
	switch tag {
	case "(":
		return map[string]bool{")": true}
	case "{":
		return map[string]bool{"}": true}
	case "do":
		return map[string]bool{"done": true}
	case "then":
		return map[string]bool{"elif": true, "else": true, "fi": true}
	case "case":
		return map[string]bool{"esac": true}
	default:
		return nil
	}
}

// ParseTopLevel parses an entire script: a sequence of pipelines, separated
// by ";", "&", or newline, terminated only by EOF.
func (p *Parser) ParseTopLevel() (*ast.Script, error) {
	sc, err := p.parseScript(nil)
	if err != nil {
		return nil, err
	}
	eatBlankWithComment(p.f)
	if p.f.Len() > 0 {
		return nil, parseErrorf("syntax error near unexpected token '%c'", p.f.Peek(1)[0])
	}
	return sc, nil
}

// parseScript parses pipelines until EOF or one of term is seen as the next
// reserved word (the word is left unconsumed for the caller to eat).
func (p *Parser) parseScript(term map[string]bool) (*ast.Script, error) {
	start := p.f.Len()
	sc := &ast.Script{}
	for {
		eatBlankWithComment(p.f)
		for p.f.Len() == 0 && !p.atEOFReally() {
			if !p.more() {
				break
			}
			eatBlankWithComment(p.f)
		}
		if p.f.Len() == 0 {
			break
		}
		if word, ok := p.peekReservedWord(); ok && term[word] {
			break
		}
		pipe, err := p.parsePipeline()
		if err != nil {
			return nil, err
		}
		sc.Pipelines = append(sc.Pipelines, pipe)
		sep := p.parseSeparator()
		sc.Separators = append(sc.Separators, sep)
		if sep == ast.SepNone {
			break
		}
	}
	_ = start
	return sc, nil
}

// atEOFReally always reports false: callers rely on the feeder returning
// false from FeedAdditionalLine at real EOF instead; kept for readability
// at call sites above.
func (p *Parser) atEOFReally() bool { return false }

// parseSeparator consumes a trailing ";", "&", or newline after a pipeline.
func (p *Parser) parseSeparator() ast.Separator {
	skipBlanks(p.f)
	switch {
	case p.f.StartsWith(";;") || p.f.StartsWith(";&"):
		return ast.SepNone // let the case-arm parser see these
	case p.f.StartsWith(";"):
		p.f.Consume(1)
		return ast.SepSemi
	case p.f.StartsWith("&"):
		p.f.Consume(1)
		return ast.SepAmp
	case p.f.StartsWith("\n"):
		p.f.Consume(1)
		return ast.SepNewline
	default:
		return ast.SepNone
	}
}

// peekReservedWord scans (without consuming) the next bare word and reports
// it if it is a shell reserved word.
func (p *Parser) peekReservedWord() (string, bool) {
	back := p.f.SetBackup()
	defer p.f.Rewind(back)
	skipBlanks(p.f)
	if p.f.StartsWith("{") && wordBoundaryAt(p.f, 1) {
		return "{", true
	}
	if p.f.StartsWith("}") && wordBoundaryAt(p.f, 1) {
		return "}", true
	}
	name, ok := scanName(p.f)
	if !ok {
		return "", false
	}
	if _, isKw := token.Reserved[name]; isKw {
		return name, true
	}
	return "", false
}

// wordBoundaryAt reports whether the byte at offset n (or EOF) ends a bare
// word, so a single-character token like "{" or "}" is only treated as
// reserved when it stands alone.
func wordBoundaryAt(f *feeder.Feeder, n int) bool {
	if f.Len() <= n {
		return true
	}
	c := f.Peek(n + 1)[n]
	switch c {
	case ' ', '\t', '\n', ';', '|', '&', '(', ')':
		return true
	}
	return false
}

// ---- pipelines ----

func (p *Parser) parsePipeline() (*ast.Pipeline, error) {
	start := p.f
	_ = start
	negated := false
	skipBlanks(p.f)
	if p.f.StartsWith("!") && !p.f.StartsWith("!=") {
		p.f.Consume(1)
		negated = true
		skipBlanks(p.f)
	}
	cmd, err := p.parseCommand()
	if err != nil {
		return nil, err
	}
	pipe := &ast.Pipeline{Negated: negated, Commands: []ast.Command{cmd}}
	for {
		back := p.f.SetBackup()
		skipBlanks(p.f)
		and, ok := scanPipe(p.f)
		if !ok {
			p.f.Rewind(back)
			break
		}
		eatBlankWithComment(p.f)
		for p.f.Len() == 0 {
			if !p.more() {
				return nil, parseErrorf("syntax error near unexpected token 'newline'")
			}
			eatBlankWithComment(p.f)
		}
		next, err := p.parseCommand()
		if err != nil {
			return nil, err
		}
		op := ast.PipeStdout
		if and {
			op = ast.PipeBoth
		}
		pipe.Pipes = append(pipe.Pipes, op)
		pipe.Commands = append(pipe.Commands, next)
	}
	return pipe, nil
}

// ---- command dispatch (spec.md §4.2 "Command dispatch") ----

func (p *Parser) parseCommand() (ast.Command, error) {
	if cmd, ok, err := p.tryFunctionDef(); ok || err != nil {
		return cmd, err
	}
	word, isReserved := p.peekReservedWord()
	if isReserved {
		switch word {
		case "if":
			return p.parseIf()
		case "while":
			return p.parseWhile()
		case "until":
			return p.parseUntil()
		case "for":
			return p.parseFor()
		case "case":
			return p.parseCase()
		case "{":
			return p.parseBrace()
		}
	}
	if p.f.StartsWith("((") {
		return p.parseArithmeticCommand()
	}
	if p.f.StartsWith("(") {
		return p.parseParen()
	}
	return p.parseSimpleCommand()
}

// ---- grouping constructs ----

func (p *Parser) parseParen() (ast.Command, error) {
	p.f.Consume(1) // "("
	p.push("(")
	defer p.pop()
	body, err := p.parseScript(terminatorsFor("("))
	if err != nil {
		return nil, err
	}
	if err := p.expectByte(')'); err != nil {
		return nil, err
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	return ast.NewParen(body, redirs), nil
}

func (p *Parser) parseBrace() (ast.Command, error) {
	p.consumeReservedWord("{")
	p.push("{")
	defer p.pop()
	body, err := p.parseScript(terminatorsFor("{"))
	if err != nil {
		return nil, err
	}
	if err := p.expectReserved("}"); err != nil {
		return nil, err
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	return ast.NewBrace(body, redirs), nil
}

func (p *Parser) parseArithmeticCommand() (ast.Command, error) {
	p.f.Consume(2) // "(("
	inner, ok := matchDoubleParen(p.f)
	if !ok {
		if !p.more() {
			return nil, parseErrorf("syntax error near unexpected token '('")
		}
		inner, ok = matchDoubleParen(p.f)
		if !ok {
			return nil, parseErrorf("syntax error: unterminated arithmetic command")
		}
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	return ast.NewArithmetic(inner, redirs), nil
}

// ---- if / while / until / for / case ----

func (p *Parser) parseIf() (ast.Command, error) {
	p.consumeReservedWord("if")
	node := &ast.If{}
	for {
		cond, err := p.parseScript(map[string]bool{"then": true})
		if err != nil {
			return nil, err
		}
		if err := p.expectReserved("then"); err != nil {
			return nil, err
		}
		p.push("then")
		body, err := p.parseScript(terminatorsFor("then"))
		p.pop()
		if err != nil {
			return nil, err
		}
		node.Conds = append(node.Conds, cond)
		node.Bodies = append(node.Bodies, body)
		word, _ := p.peekReservedWord()
		if word == "elif" {
			p.consumeReservedWord("elif")
			continue
		}
		if word == "else" {
			p.consumeReservedWord("else")
			elseBody, err := p.parseScript(map[string]bool{"fi": true})
			if err != nil {
				return nil, err
			}
			node.Else = elseBody
		}
		if err := p.expectReserved("fi"); err != nil {
			return nil, err
		}
		break
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	node.Redirs = redirs
	return node, nil
}

func (p *Parser) parseWhile() (ast.Command, error) {
	return p.parseWhileUntil("while")
}

func (p *Parser) parseUntil() (ast.Command, error) {
	return p.parseWhileUntil("until")
}

func (p *Parser) parseWhileUntil(kw string) (ast.Command, error) {
	p.consumeReservedWord(kw)
	cond, err := p.parseScript(map[string]bool{"do": true})
	if err != nil {
		return nil, err
	}
	if err := p.expectReserved("do"); err != nil {
		return nil, err
	}
	p.push("do")
	body, err := p.parseScript(terminatorsFor("do"))
	p.pop()
	if err != nil {
		return nil, err
	}
	if err := p.expectReserved("done"); err != nil {
		return nil, err
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	if kw == "while" {
		return ast.NewWhile(cond, body, redirs), nil
	}
	return ast.NewUntil(cond, body, redirs), nil
}

func (p *Parser) parseFor() (ast.Command, error) {
	p.consumeReservedWord("for")
	skipBlanks(p.f)
	name, ok := scanName(p.f)
	if !ok {
		return nil, parseErrorf("syntax error near unexpected token 'for'")
	}
	eatBlankWithComment(p.f)
	var words []*ast.Word
	if w, _ := p.peekReservedWord(); w == "in" {
		p.consumeReservedWord("in")
		words = []*ast.Word{}
		for {
			eatBlankWithComment(p.f)
			if p.f.StartsWith(";") || p.f.StartsWith("\n") || p.f.Len() == 0 {
				break
			}
			word, ok, err := p.parseWord()
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			words = append(words, word)
		}
	}
	p.parseSeparator()
	if err := p.expectReserved("do"); err != nil {
		return nil, err
	}
	p.push("do")
	body, err := p.parseScript(terminatorsFor("do"))
	p.pop()
	if err != nil {
		return nil, err
	}
	if err := p.expectReserved("done"); err != nil {
		return nil, err
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	return ast.NewFor(name, words, body, redirs), nil
}

func (p *Parser) parseCase() (ast.Command, error) {
	p.consumeReservedWord("case")
	skipBlanks(p.f)
	word, ok, err := p.parseWord()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, parseErrorf("syntax error near unexpected token 'case'")
	}
	if w, _ := p.peekReservedWord(); w != "in" {
		return nil, parseErrorf("syntax error near unexpected token, expected 'in'")
	}
	p.consumeReservedWord("in")
	node := &ast.Case{Word: word}
	p.push("case")
	defer p.pop()
	for {
		eatBlankWithComment(p.f)
		for p.f.Len() == 0 {
			if !p.more() {
				return nil, parseErrorf("syntax error: unterminated case")
			}
			eatBlankWithComment(p.f)
		}
		if w, _ := p.peekReservedWord(); w == "esac" {
			break
		}
		p.consumeOptionalByte('(')
		var pats []*ast.Word
		for {
			pat, ok, err := p.parseCasePattern()
			if err != nil {
				return nil, err
			}
			if !ok {
				return nil, parseErrorf("syntax error: expected a case pattern")
			}
			pats = append(pats, pat)
			skipBlanks(p.f)
			if p.f.StartsWith("|") {
				p.f.Consume(1)
				continue
			}
			break
		}
		if err := p.expectByte(')'); err != nil {
			return nil, err
		}
		body, err := p.parseScript(map[string]bool{"esac": true})
		if err != nil {
			return nil, err
		}
		term := ast.TermBreak
		skipBlanks(p.f)
		switch {
		case p.f.StartsWith(";;&"):
			p.f.Consume(3)
			term = ast.TermResume
		case p.f.StartsWith(";;"):
			p.f.Consume(2)
			term = ast.TermBreak
		case p.f.StartsWith(";&"):
			p.f.Consume(2)
			term = ast.TermFallthrough
		}
		node.Arms = append(node.Arms, &ast.CaseArm{Patterns: pats, Body: body, Term: term})
	}
	if err := p.expectReserved("esac"); err != nil {
		return nil, err
	}
	redirs, err := p.parseRedirects()
	if err != nil {
		return nil, err
	}
	node.Redirs = redirs
	return node, nil
}

// parseCasePattern parses one "|"-separated pattern alternative, which
// cannot contain a bare ")" (that ends the pattern list).
func (p *Parser) parseCasePattern() (*ast.Word, bool, error) {
	eatBlankWithComment(p.f)
	return p.parseWordUntil(")|")
}

// ---- function definitions ----

func (p *Parser) tryFunctionDef() (ast.Command, bool, error) {
	back := p.f.SetBackup()
	skipBlanks(p.f)
	if w, _ := p.peekReservedWord(); w == "function" {
		p.consumeReservedWord("function")
		skipBlanks(p.f)
		name, ok := scanName(p.f)
		if !ok {
			p.f.Rewind(back)
			return nil, false, nil
		}
		skipBlanks(p.f)
		p.consumeOptionalByte('(')
		p.consumeOptionalByte(')')
		return p.finishFunctionDef(name, back)
	}
	name, ok := scanName(p.f)
	if !ok {
		p.f.Rewind(back)
		return nil, false, nil
	}
	if !p.f.StartsWith("()") {
		p.f.Rewind(back)
		return nil, false, nil
	}
	p.f.Consume(2)
	return p.finishFunctionDef(name, back)
}

func (p *Parser) finishFunctionDef(name string, back feeder.Snapshot) (ast.Command, bool, error) {
	eatBlankWithComment(p.f)
	for p.f.Len() == 0 {
		if !p.more() {
			p.f.Rewind(back)
			return nil, false, nil
		}
		eatBlankWithComment(p.f)
	}
	if w, _ := p.peekReservedWord(); w != "{" {
		p.f.Rewind(back)
		return nil, false, nil
	}
	body, err := p.parseBrace()
	if err != nil {
		return nil, true, err
	}
	brace := body.(*ast.Brace)
	return &ast.Function{Name: name, Body: brace.Body}, true, nil
}

// ---- simple commands (spec.md §4.2 "Simple-command acceptance") ----

func (p *Parser) parseSimpleCommand() (ast.Command, error) {
	simple := &ast.Simple{}
	permitSubstArg := false
	any := false
	for {
		skipBlanks(p.f)
		if redir, ok, err := p.parseOneRedirect(); err != nil {
			return nil, err
		} else if ok {
			simple.Redirs = append(simple.Redirs, redir)
			any = true
			continue
		}
		if assign, ok, err := p.tryAssign(len(simple.Words) == 0 || permitSubstArg); err != nil {
			return nil, err
		} else if ok {
			simple.Assigns = append(simple.Assigns, assign)
			any = true
			continue
		}
		if p.atWordBoundary() {
			break
		}
		word, ok, err := p.parseWord()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		if len(simple.Words) == 0 {
			if lit, isLit := soleLiteral(word); isLit && token.IsKeyword(lit) {
				return nil, parseErrorf("syntax error near unexpected token %q", lit)
			}
			if lit, isLit := soleLiteral(word); isLit && lit == "local" {
				permitSubstArg = true
			}
		}
		simple.Words = append(simple.Words, word)
		any = true
	}
	if !any {
		return nil, parseErrorf("syntax error near unexpected token")
	}
	return simple, nil
}

func soleLiteral(w *ast.Word) (string, bool) {
	if len(w.Parts) != 1 || w.Parts[0].Kind != ast.PartLit {
		return "", false
	}
	return w.Parts[0].Lit, true
}

// atWordBoundary reports whether the parser has reached something that
// ends a simple command (pipe, separator, closing paren/brace, EOF).
func (p *Parser) atWordBoundary() bool {
	if p.f.Len() == 0 {
		return true
	}
	switch {
	case p.f.StartsWith("&&"), p.f.StartsWith("||"):
		return true
	case p.f.StartsWith("|"), p.f.StartsWith(";"), p.f.StartsWith("\n"), p.f.StartsWith("&"):
		return true
	case p.f.StartsWith(")"), p.f.StartsWith("}"):
		return true
	}
	if word, ok := p.peekReservedWord(); ok && word != "" {
		switch word {
		case "then", "do", "done", "elif", "else", "fi", "esac", "}":
			return true
		}
	}
	return false
}

// tryAssign attempts to parse a leading "NAME=value" or "NAME=(a b c)"
// assignment. When leading is false (we are past the command word),
// assignment-looking arguments are only consumed under permit_substitution_arg
// (spec.md §4.2's "local" behavior).
func (p *Parser) tryAssign(leading bool) (*ast.Assign, bool, error) {
	back := p.f.SetBackup()
	name, ok := scanName(p.f)
	if !ok {
		p.f.Rewind(back)
		return nil, false, nil
	}
	append_ := false
	if p.f.StartsWith("+=") {
		append_ = true
		p.f.Consume(2)
	} else if p.f.StartsWith("=") {
		p.f.Consume(1)
	} else {
		p.f.Rewind(back)
		return nil, false, nil
	}
	if !leading {
		// past the command word without permit_substitution_arg: leave
		// NAME=value for parseWord to take as an ordinary argument.
		p.f.Rewind(back)
		return nil, false, nil
	}
	if p.f.StartsWith("(") {
		p.f.Consume(1)
		var items []*ast.Word
		for {
			skipBlanks(p.f)
			if p.f.StartsWith(")") {
				p.f.Consume(1)
				break
			}
			w, ok, err := p.parseWord()
			if err != nil {
				return nil, false, err
			}
			if !ok {
				if !p.more() {
					return nil, false, parseErrorf("syntax error: unterminated array assignment")
				}
				continue
			}
			items = append(items, w)
		}
		return &ast.Assign{Name: name, Array: items, Append: append_}, true, nil
	}
	val, ok, err := p.parseWord()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		val = &ast.Word{}
	}
	return &ast.Assign{Name: name, Value: val, Append: append_}, true, nil
}

// ---- redirections ----

func (p *Parser) parseRedirects() ([]*ast.Redirect, error) {
	var out []*ast.Redirect
	for {
		skipBlanks(p.f)
		r, ok, err := p.parseOneRedirect()
		if err != nil {
			return nil, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, r)
	}
}

func (p *Parser) parseOneRedirect() (*ast.Redirect, bool, error) {
	back := p.f.SetBackup()
	fd := -1
	if n, ok := scanDigits(p.f); ok {
		fd = n
	}
	op, opOK := matchRedirOp(p.f)
	if !opOK {
		p.f.Rewind(back)
		return nil, false, nil
	}
	skipBlanks(p.f)
	word, ok, err := p.parseWord()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		if !p.more() {
			return nil, false, parseErrorf("syntax error: redirection missing target")
		}
		word, ok, err = p.parseWord()
		if err != nil || !ok {
			return nil, false, parseErrorf("syntax error: redirection missing target")
		}
	}
	r := &ast.Redirect{Fd: fd, Op: op, Word: word}
	if op == ast.RedirHeredoc || op == ast.RedirHeredocTab {
		hdoc, err := p.readHeredocBody(word, op == ast.RedirHeredocTab)
		if err != nil {
			return nil, false, err
		}
		r.Hdoc = hdoc
	}
	return r, true, nil
}

func scanDigits(f *feeder.Feeder) (int, bool) {
	n := 0
	for n < f.Len() && f.Peek(n+1)[n] >= '0' && f.Peek(n+1)[n] <= '9' {
		n++
	}
	if n == 0 {
		return 0, false
	}
	val := 0
	for _, c := range f.Consume(n) {
		val = val*10 + int(c-'0')
	}
	return val, true
}

func matchRedirOp(f *feeder.Feeder) (ast.RedirOp, bool) {
	type entry struct {
		s  string
		op ast.RedirOp
	}
	// longest match first
	entries := []entry{
		{"<<-", ast.RedirHeredocTab},
		{"<<<", ast.RedirHereString},
		{"&>>", ast.RedirAllAppend},
		{"<<", ast.RedirHeredoc},
		{">>", ast.RedirAppend},
		{"&>", ast.RedirAll},
		{"<>", ast.RedirReadWrite},
		{">&", ast.RedirDupOut},
		{"<&", ast.RedirDupIn},
		{"<", ast.RedirLess},
		{">", ast.RedirGreat},
	}
	for _, e := range entries {
		if f.StartsWith(e.s) {
			f.Consume(len(e.s))
			return e.op, true
		}
	}
	return 0, false
}

// readHeredocBody reads lines until one equal to the (literal) delimiter,
// stripping leading tabs per line (and from the delimiter match) when tab
// is true ("<<-"), per spec.md §9's resolution of the underspecified
// heredoc behavior.
func (p *Parser) readHeredocBody(delimWord *ast.Word, stripTabs bool) (*ast.Word, error) {
	delim, _ := soleLiteral(delimWord)
	var b strings.Builder
	for {
		nl := strings.IndexByte(p.f.Text(), '\n')
		for nl < 0 {
			if !p.more() {
				return nil, parseErrorf("syntax error: unterminated heredoc (expecting %q)", delim)
			}
			nl = strings.IndexByte(p.f.Text(), '\n')
		}
		line := p.f.Consume(nl + 1)
		content := line[:len(line)-1]
		check := content
		if stripTabs {
			check = strings.TrimLeft(content, "\t")
		}
		if check == delim {
			break
		}
		if stripTabs {
			content = strings.TrimLeft(content, "\t")
		}
		b.WriteString(content)
		b.WriteByte('\n')
	}
	return &ast.Word{Parts: []*ast.WordPart{{Kind: ast.PartLit, Lit: b.String()}}}, nil
}

// ---- small terminal helpers ----

func (p *Parser) expectByte(c byte) error {
	skipBlanks(p.f)
	if p.f.Len() == 0 {
		if !p.more() {
			return parseErrorf("syntax error near unexpected token 'newline', expected %q", c)
		}
	}
	if !p.f.StartsWith(string(c)) {
		return parseErrorf("syntax error near unexpected token, expected %q", c)
	}
	p.f.Consume(1)
	return nil
}

func (p *Parser) consumeOptionalByte(c byte) bool {
	if p.f.StartsWith(string(c)) {
		p.f.Consume(1)
		return true
	}
	return false
}

func (p *Parser) expectReserved(word string) error {
	eatBlankWithComment(p.f)
	for p.f.Len() == 0 {
		if !p.more() {
			return parseErrorf("syntax error near unexpected token 'newline', expected %q", word)
		}
		eatBlankWithComment(p.f)
	}
	got, ok := p.peekReservedWord()
	if !ok || got != word {
		return parseErrorf("syntax error near unexpected token, expected %q", word)
	}
	p.consumeReservedWord(word)
	return nil
}

func (p *Parser) consumeReservedWord(word string) {
	skipBlanks(p.f)
	p.f.Consume(len(word))
}

// matchDoubleParen consumes up to and including the matching "))" for an
// arithmetic command/substitution whose leading "((" or "$((" the caller
// already consumed, honoring nested parens.
func matchDoubleParen(f *feeder.Feeder) (string, bool) {
	text := f.Text()
	depth := 2
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 1 && i+1 < len(text) && text[i+1] == ')' {
				inner := text[:i]
				f.Consume(i + 2)
				return inner, true
			}
			if depth == 0 {
				return "", false
			}
		}
	}
	return "", false
}
