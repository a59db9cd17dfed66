package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// skipLiteral returns the offset just past the string, rune or comment starting at i.
// ok is false when src[i] does not start one of those. Interpreted strings and rune
// literals end at a newline when unterminated; raw strings and block comments run to EOF.
func skipLiteral(src string, i int) (next int, ok bool) {
	if i >= len(src) {
		return i, false
	}
	switch src[i] {
	case '"', '\'':
		quote := src[i]
		j := i + 1
		for j < len(src) {
			switch src[j] {
			case '\\':
				j += 2
				continue
			case quote:
				return j + 1, true
			case '\n':
				return j, true
			}
			j++
		}
		return len(src), true
	case '`':
		if end := strings.IndexByte(src[i+1:], '`'); end >= 0 {
			return i + 1 + end + 1, true
		}
		return len(src), true
	case '/':
		if i+1 >= len(src) {
			return i, false
		}
		switch src[i+1] {
		case '/':
			if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
				return i + end, true
			}
			return len(src), true
		case '*':
			if end := strings.Index(src[i+2:], "*/"); end >= 0 {
				return i + 2 + end + 2, true
			}
			return len(src), true
		}
	}
	return i, false
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// readIdent returns the identifier starting at i, or "" if there is none.
func readIdent(src string, i int) string {
	if i >= len(src) {
		return ""
	}
	r, size := utf8.DecodeRuneInString(src[i:])
	if !isIdentStart(r) {
		return ""
	}
	j := i + size
	for j < len(src) {
		r, size = utf8.DecodeRuneInString(src[j:])
		if !isIdentPart(r) {
			break
		}
		j += size
	}
	return src[i:j]
}

// identBoundary reports whether i is not in the middle of an identifier or number.
func identBoundary(src string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(src[:i])
	return !isIdentPart(r)
}

// hasKeyword reports whether the keyword kw starts at i as a whole word.
func hasKeyword(src string, i int, kw string) bool {
	if !strings.HasPrefix(src[i:], kw) || !identBoundary(src, i) {
		return false
	}
	end := i + len(kw)
	if end == len(src) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(src[end:])
	return !isIdentPart(r)
}

// skipBlanks skips spaces and tabs, not newlines.
func skipBlanks(src string, i int) int {
	for i < len(src) && (src[i] == ' ' || src[i] == '\t') {
		i++
	}
	return i
}

func skipSpace(src string, i int) int {
	for i < len(src) {
		switch src[i] {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			i++
		default:
			return i
		}
	}
	return i
}

// matchClose finds the partner of the opening paren or bracket at open, honoring literals.
func matchClose(src string, open int) (end int, ok bool) {
	depth := 0
	for i := open; i < len(src); {
		if next, skipped := skipLiteral(src, i); skipped {
			i = next
			continue
		}
		switch src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}

// lineStart returns the offset of the first byte of the line containing i.
func lineStart(src string, i int) int {
	return strings.LastIndexByte(src[:i], '\n') + 1
}

// lineEnd returns the offset of the newline ending the line containing i, or len(src).
func lineEnd(src string, i int) int {
	if end := strings.IndexByte(src[i:], '\n'); end >= 0 {
		return i + end
	}
	return len(src)
}
