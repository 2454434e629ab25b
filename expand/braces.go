package expand

import (
	"strconv"
	"strings"
)

// braceAlternatives expands the inner text of a {...} brace-expansion word
// part (without the surrounding braces) into its literal alternatives:
// either a comma list ("a,b,c") or a numeric/alpha range ("1..5",
// "1..10..2", "a..e"). ok is false when inner isn't valid brace syntax, in
// which case the caller falls back to treating "{inner}" literally.
func braceAlternatives(inner string) (alts []string, ok bool) {
	if alts, ok := rangeAlternatives(inner); ok {
		return alts, true
	}
	parts := splitTopLevelCommas(inner)
	if len(parts) < 2 {
		return nil, false
	}
	return parts, true
}

// splitTopLevelCommas splits on "," that is not nested inside a further
// {...} group.
func splitTopLevelCommas(s string) []string {
	var out []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				out = append(out, s[start:i])
				start = i + 1
			}
		}
	}
	out = append(out, s[start:])
	return out
}

func rangeAlternatives(inner string) ([]string, bool) {
	segs := strings.Split(inner, "..")
	if len(segs) < 2 || len(segs) > 3 {
		return nil, false
	}
	step := 1
	if len(segs) == 3 {
		n, err := strconv.Atoi(segs[2])
		if err != nil || n == 0 {
			return nil, false
		}
		step = n
	}
	if lo, hi, ok := parseIntRange(segs[0], segs[1]); ok {
		return intRange(lo, hi, step), true
	}
	if lo, hi, ok := parseCharRange(segs[0], segs[1]); ok {
		return charRange(lo, hi, step), true
	}
	return nil, false
}

func parseIntRange(a, b string) (int, int, bool) {
	lo, err1 := strconv.Atoi(a)
	hi, err2 := strconv.Atoi(b)
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return lo, hi, true
}

func intRange(lo, hi, step int) []string {
	if step < 0 {
		step = -step
	}
	var out []string
	if lo <= hi {
		for i := lo; i <= hi; i += step {
			out = append(out, strconv.Itoa(i))
		}
	} else {
		for i := lo; i >= hi; i -= step {
			out = append(out, strconv.Itoa(i))
		}
	}
	return out
}

func parseCharRange(a, b string) (byte, byte, bool) {
	if len(a) != 1 || len(b) != 1 {
		return 0, 0, false
	}
	return a[0], b[0], true
}

func charRange(lo, hi byte, step int) []string {
	if step < 0 {
		step = -step
	}
	if step == 0 {
		step = 1
	}
	var out []string
	if lo <= hi {
		for c := lo; c <= hi; c += byte(step) {
			out = append(out, string(rune(c)))
			if int(c)+step > 255 {
				break
			}
		}
	} else {
		for c := int(lo); c >= int(hi); c -= step {
			out = append(out, string(rune(c)))
		}
	}
	return out
}
