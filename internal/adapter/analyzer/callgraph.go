package analyzer

import (
	"unicode/utf8"

	"gendata/internal/domain"
)

// ScanCallReferences returns every identifier in body that is directly followed,
// after optional whitespace, by '('. Selector calls such as s.Add(1) yield "Add"
// with Selector set.
// Identifiers inside strings and comments are ignored.
//
// This is a lexical stand-in for a call graph: conversions, calls through function
// values and shadowed names are all reported the same way.
func ScanCallReferences(body string) []domain.CallReference {
	var refs []domain.CallReference

	for i := 0; i < len(body); {
		if next, skipped := skipLiteral(body, i); skipped {
			i = next
			continue
		}

		r, size := utf8.DecodeRuneInString(body[i:])
		switch {
		case isIdentStart(r) && identBoundary(body, i):
			name := readIdent(body, i)
			j := skipSpace(body, i+len(name))
			if j < len(body) && body[j] == '(' {
				refs = append(refs, domain.CallReference{
					Name:     name,
					Offset:   i,
					Selector: afterDot(body, i),
				})
			}
			i += len(name)
		case isIdentPart(r):
			// number literal such as 1e5 or 0xFF
			for i < len(body) {
				r, size = utf8.DecodeRuneInString(body[i:])
				if !isIdentPart(r) {
					break
				}
				i += size
			}
		default:
			i += size
		}
	}

	return refs
}

// afterDot reports whether the identifier at i is the selector of a qualified name.
func afterDot(body string, i int) bool {
	for i--; i >= 0; i-- {
		switch body[i] {
		case ' ', '\t', '\n', '\r':
			continue
		case '.':
			return true
		}
		return false
	}
	return false
}

// FilterCalls drops denylisted names and duplicates, keeping first-seen order.
func FilterCalls(refs []domain.CallReference, deny *Denylist) []string {
	seen := make(map[string]bool)
	var names []string
	for _, ref := range refs {
		if deny.Denies(ref) || seen[ref.Name] {
			continue
		}
		seen[ref.Name] = true
		names = append(names, ref.Name)
	}
	return names
}
