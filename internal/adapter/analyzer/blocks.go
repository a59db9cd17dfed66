package analyzer

// MatchBlock returns the offset just past the '}' that closes the '{' at open.
//
// Braces are counted with an explicit depth so nested and indented blocks close
// correctly; braces inside strings, rune literals and comments are ignored.
// ok is false if open is not a '{' or the block is never closed.
func MatchBlock(src string, open int) (end int, ok bool) {
	if open < 0 || open >= len(src) || src[open] != '{' {
		return 0, false
	}

	depth := 0
	for i := open; i < len(src); {
		if next, skipped := skipLiteral(src, i); skipped {
			i = next
			continue
		}
		switch src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, true
			}
		}
		i++
	}
	return 0, false
}

// braceBeforeEOL returns the first '{' on the line containing i at or after i that is
// not inside a literal or comment.
func braceBeforeEOL(src string, i int) (int, bool) {
	end := lineEnd(src, i)
	for i < end {
		if next, skipped := skipLiteral(src, i); skipped {
			if next > end {
				return 0, false
			}
			i = next
			continue
		}
		if src[i] == '{' {
			return i, true
		}
		i++
	}
	return 0, false
}
