package analyzer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"gendata/internal/domain"
)

// DeclarationAt parses a func or type declaration starting exactly at pos.
//
// Function headers may span lines inside their parameter and result lists, but the
// opening brace of the body must sit on the header line, as gofmt writes it. Type
// declarations are only recognized with a struct or interface body. Bodyless
// declarations, grouped type blocks and unterminated bodies are rejected.
func DeclarationAt(src string, pos int) (domain.Declaration, bool) {
	if pos < 0 || pos >= len(src) {
		return domain.Declaration{}, false
	}
	switch {
	case hasKeyword(src, pos, "func"):
		return funcDeclAt(src, pos)
	case hasKeyword(src, pos, "type"):
		return typeDeclAt(src, pos)
	}
	return domain.Declaration{}, false
}

func funcDeclAt(src string, pos int) (domain.Declaration, bool) {
	decl := domain.Declaration{Kind: domain.DeclFunction}

	i := skipBlanks(src, pos+len("func"))
	if i < len(src) && src[i] == '(' {
		end, ok := matchClose(src, i)
		if !ok {
			return decl, false
		}
		decl.Receiver = receiverType(src[i+1 : end-1])
		i = skipBlanks(src, end)
	}

	decl.Name = readIdent(src, i)
	if decl.Name == "" {
		// func literal
		return decl, false
	}

	// "func(x int) int {" reads like a method named int; a real name is followed by
	// its parameter list or, for plain functions, type parameters.
	j := skipBlanks(src, i+len(decl.Name))
	if j >= len(src) || (src[j] != '(' && (src[j] != '[' || decl.Receiver != "")) {
		return decl, false
	}

	open, ok := funcBodyOpen(src, j)
	if !ok {
		return decl, false
	}
	return finishDecl(src, pos, open, decl)
}

// funcBodyOpen finds the '{' opening a function body, stepping over parameter lists,
// type parameters and struct or interface literals in the signature.
func funcBodyOpen(src string, i int) (int, bool) {
	for i < len(src) {
		switch c := src[i]; {
		case c == '\n':
			return 0, false
		case c == '(' || c == '[':
			end, ok := matchClose(src, i)
			if !ok {
				return 0, false
			}
			i = end
			continue
		case c == '{':
			return i, true
		case hasKeyword(src, i, "struct") || hasKeyword(src, i, "interface"):
			j := skipBlanks(src, i+len(readIdent(src, i)))
			if j < len(src) && src[j] == '{' {
				end, ok := MatchBlock(src, j)
				if !ok {
					return 0, false
				}
				i = end
				continue
			}
		}
		if next, skipped := skipLiteral(src, i); skipped {
			i = next
			continue
		}
		i++
	}
	return 0, false
}

func typeDeclAt(src string, pos int) (domain.Declaration, bool) {
	decl := domain.Declaration{Kind: domain.DeclType}

	i := skipBlanks(src, pos+len("type"))
	decl.Name = readIdent(src, i)
	if decl.Name == "" {
		return decl, false
	}
	i = skipBlanks(src, i+len(decl.Name))

	if i < len(src) && src[i] == '[' {
		end, ok := matchClose(src, i)
		if !ok {
			return decl, false
		}
		i = skipBlanks(src, end)
	}
	if i < len(src) && src[i] == '=' {
		i = skipBlanks(src, i+1)
	}

	kw := readIdent(src, i)
	if kw != "struct" && kw != "interface" {
		return decl, false
	}
	i = skipBlanks(src, i+len(kw))
	if i >= len(src) || src[i] != '{' {
		return decl, false
	}
	return finishDecl(src, pos, i, decl)
}

func finishDecl(src string, pos, open int, decl domain.Declaration) (domain.Declaration, bool) {
	end, ok := MatchBlock(src, open)
	if !ok {
		return decl, false
	}
	decl.Span = domain.Span{Start: pos, End: end}
	decl.Body = domain.Span{Start: open + 1, End: end - 1}
	decl.Text = src[pos:end]
	return decl, true
}

// receiverType reduces "s *Server[K, V]" to "Server".
func receiverType(recv string) string {
	if k := strings.IndexByte(recv, '['); k >= 0 {
		recv = recv[:k]
	}
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	return strings.TrimLeft(fields[len(fields)-1], "*")
}

// FindDeclarations returns every func and type declaration in src, including
// declarations nested in other bodies, in source order.
func FindDeclarations(src string) []domain.Declaration {
	var decls []domain.Declaration
	for i := 0; i < len(src); {
		if next, skipped := skipLiteral(src, i); skipped {
			i = next
			continue
		}
		if decl, ok := DeclarationAt(src, i); ok {
			decls = append(decls, decl)
			i += len("func")
			continue
		}
		i++
	}
	return decls
}

// FuncIndex maps each function or method name to its first declaration in src.
func FuncIndex(src string) map[string]domain.Declaration {
	index := make(map[string]domain.Declaration)
	for _, d := range FindDeclarations(src) {
		if d.Kind != domain.DeclFunction {
			continue
		}
		if _, exists := index[d.Name]; !exists {
			index[d.Name] = d
		}
	}
	return index
}

// FindFunc returns the first function or method named name.
func FindFunc(src, name string) (domain.Declaration, bool) {
	for _, d := range FindDeclarations(src) {
		if d.Kind == domain.DeclFunction && d.Name == name {
			return d, true
		}
	}
	return domain.Declaration{}, false
}

// FindTestCases returns the top-level test functions whose names follow the go test
// convention for prefix: prefix followed by nothing or by a non-lowercase rune.
// <prefix>Main is the package's test entry point, not a test.
func FindTestCases(src, prefix string) []domain.TestCase {
	var cases []domain.TestCase
	for _, d := range FindDeclarations(src) {
		if d.Kind != domain.DeclFunction || d.Receiver != "" || !isTestName(d.Name, prefix) {
			continue
		}
		cases = append(cases, domain.TestCase{
			Name:     d.Name,
			Body:     d.Body,
			BodyText: src[d.Body.Start:d.Body.End],
		})
	}
	return cases
}

func isTestName(name, prefix string) bool {
	if !strings.HasPrefix(name, prefix) || name == prefix+"Main" {
		return false
	}
	rest := name[len(prefix):]
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLower(r)
}
