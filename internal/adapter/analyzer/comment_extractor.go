package analyzer

import (
	"regexp"
	"sort"
	"strings"

	"gendata/internal/domain"
)

var (
	delimiterRe = regexp.MustCompile(`//+|/\*+|\*+/`)

	// Line comments that carry tool instructions rather than prose.
	directivePrefixes = []string{"go:", "line ", "nolint", "export ", "+build", "extern "}
)

// ScanComments returns every /* */ comment and every maximal run of consecutive
// whole-line // comments in src, in source order. Comment markers inside string
// literals are not comments. Directive lines such as //go:generate end a run and
// never belong to one. An unterminated /* comment yields nothing.
func ScanComments(src string) []domain.CommentBlock {
	var comments []domain.CommentBlock

	runStart, runEnd := -1, -1
	flush := func() {
		if runStart >= 0 {
			comments = append(comments, domain.CommentBlock{
				Style: domain.CommentLineStyle,
				Span:  domain.Span{Start: runStart, End: runEnd},
				Text:  src[runStart:runEnd],
			})
		}
		runStart, runEnd = -1, -1
	}

	for i := 0; i < len(src); {
		if strings.HasPrefix(src[i:], "/*") {
			flush()
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				break
			}
			end = i + 2 + end + 2
			comments = append(comments, domain.CommentBlock{
				Style: domain.CommentBlockStyle,
				Span:  domain.Span{Start: i, End: end},
				Text:  src[i:end],
			})
			i = end
			continue
		}

		if strings.HasPrefix(src[i:], "//") {
			end := lineEnd(src, i)
			wholeLine := strings.TrimSpace(src[lineStart(src, i):i]) == ""
			switch {
			case !wholeLine || isDirective(src[i+2:end]):
				flush()
			case runStart >= 0 && adjacentLine(src[runEnd:i]):
				runEnd = end
			default:
				flush()
				runStart, runEnd = i, end
			}
			i = end
			continue
		}

		if next, skipped := skipLiteral(src, i); skipped {
			i = next
			continue
		}
		i++
	}
	flush()

	sort.SliceStable(comments, func(a, b int) bool {
		return comments[a].Span.Start < comments[b].Span.Start
	})
	return comments
}

func isDirective(text string) bool {
	for _, p := range directivePrefixes {
		if strings.HasPrefix(text, p) {
			return true
		}
	}
	return false
}

// adjacentLine reports whether gap is only the line break and indentation between
// two comment lines.
func adjacentLine(gap string) bool {
	return strings.Count(gap, "\n") == 1 && strings.TrimSpace(gap) == ""
}

// CleanComment turns raw comment text into a prompt: comment delimiters are removed
// everywhere, leading '*' decoration is dropped from each line, and the remaining
// words are joined with single spaces.
func CleanComment(raw string) string {
	lines := strings.Split(raw, "\n")
	parts := make([]string, 0, len(lines))

	for _, line := range lines {
		for {
			cleaned := delimiterRe.ReplaceAllString(line, "")
			if cleaned == line {
				break
			}
			line = cleaned
		}
		line = strings.TrimLeft(strings.TrimSpace(line), "*")
		if fields := strings.Fields(line); len(fields) > 0 {
			parts = append(parts, strings.Join(fields, " "))
		}
	}

	return strings.Join(parts, " ")
}

// FollowingDeclaration returns the declaration documented by c. Directive lines such
// as //go:noinline directly below the comment are stepped over. A // run must sit on
// the line right above the func or type keyword; a /* */ comment may be separated
// from it by any whitespace.
func FollowingDeclaration(src string, c domain.CommentBlock) (domain.Declaration, bool) {
	end := skipDirectiveLines(src, c.Span.End)
	i := skipSpace(src, end)
	if c.Style == domain.CommentLineStyle && !adjacentLine(src[end:i]) {
		return domain.Declaration{}, false
	}
	return DeclarationAt(src, i)
}

// skipDirectiveLines returns the end of the last directive line in the block of
// directive lines directly below end, or end if there is none.
func skipDirectiveLines(src string, end int) int {
	for {
		i := skipSpace(src, end)
		if i >= len(src) || !adjacentLine(src[end:i]) ||
			!strings.HasPrefix(src[i:], "//") || !isDirective(src[i+2:]) {
			return end
		}
		end = lineEnd(src, i)
	}
}

// FollowingStatement returns the code documented by a line comment run. The code
// must start on the very next line. If a '{' on that line is closed on a later line
// the span runs to that '}', otherwise it is the rest of the line. A run followed
// by another comment, a closing delimiter or EOF documents nothing.
func FollowingStatement(src string, c domain.CommentBlock) (domain.Span, bool) {
	i := skipSpace(src, c.Span.End)
	if i >= len(src) || !adjacentLine(src[c.Span.End:i]) {
		return domain.Span{}, false
	}
	if strings.HasPrefix(src[i:], "//") || strings.HasPrefix(src[i:], "/*") {
		return domain.Span{}, false
	}
	switch src[i] {
	case '}', ')', ']':
		return domain.Span{}, false
	}

	eol := lineEnd(src, i)
	for pos := i; pos < eol; {
		open, ok := braceBeforeEOL(src, pos)
		if !ok {
			break
		}
		end, ok := MatchBlock(src, open)
		if !ok {
			return domain.Span{}, false
		}
		if end > eol {
			return domain.Span{Start: i, End: end}, true
		}
		pos = end
	}

	line := strings.TrimRight(src[i:eol], " \t\r")
	return domain.Span{Start: i, End: i + len(line)}, true
}
