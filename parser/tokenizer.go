package parser

import (
	"strings"

	"github.com/sush-shell/sush/feeder"
)

const blankChars = " \t"

// skipBlanks consumes leading spaces/tabs and returns how many bytes were
// consumed.
func skipBlanks(f *feeder.Feeder) int {
	n := 0
	for f.Len() > n && strings.IndexByte(blankChars, f.Peek(n+1)[n]) >= 0 {
		n++
	}
	if n > 0 {
		f.Consume(n)
	}
	return n
}

// eatBlankWithComment skips blanks and, if what follows is a "#" comment,
// the rest of the line too (spec.md §4.2 step 3).
func eatBlankWithComment(f *feeder.Feeder) {
	for {
		skipBlanks(f)
		if f.StartsWith("#") {
			n := strings.IndexByte(f.Text(), '\n')
			if n < 0 {
				n = f.Len()
			}
			f.Consume(n)
			continue
		}
		return
	}
}

// isNameStart/isNamePart classify the bytes legal in a shell identifier.
func isNameStart(c byte) bool { return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' }
func isNamePart(c byte) bool  { return isNameStart(c) || c >= '0' && c <= '9' }

// scanName consumes a leading identifier, if any.
func scanName(f *feeder.Feeder) (string, bool) {
	if f.Len() == 0 || !isNameStart(f.Peek(1)[0]) {
		return "", false
	}
	n := 1
	for n < f.Len() && isNamePart(f.Peek(n+1)[n]) {
		n++
	}
	return f.Consume(n), true
}

// isBlankOrMeta reports whether c ends a bare word (spec.md's "blank"
// scanner plus the pipe/paren/redirect metacharacters).
func isBlankOrMeta(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '|', '&', ';', '<', '>', '(', ')', '{', '}', '$', '\'', '"', '`', '#':
		return true
	}
	return false
}

// scanPipe consumes "|" or "|&" at the front of the buffer.
func scanPipe(f *feeder.Feeder) (pipeAnd bool, ok bool) {
	if f.StartsWith("|&") {
		f.Consume(2)
		return true, true
	}
	if f.StartsWith("|") && !f.StartsWith("||") {
		f.Consume(1)
		return false, true
	}
	return false, false
}

// matchBrackets consumes from the character after open (already consumed by
// the caller) up to and including the matching close, honoring nested
// pairs, backslash escapes and single quotes (double quotes are not
// tracked), and returns the text strictly between them.
func matchBrackets(f *feeder.Feeder, open, close byte) (inner string, ok bool) {
	depth := 1
	n := 0
	text := f.Text()
	for n < len(text) {
		c := text[n]
		switch c {
		case '\\':
			n += 2
			continue
		case '\'':
			end := strings.IndexByte(text[n+1:], '\'')
			if end < 0 {
				return "", false
			}
			n += end + 2
			continue
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				inner = text[:n]
				f.Consume(n + 1)
				return inner, true
			}
		}
		n++
	}
	return "", false
}
