package analyzer

import (
	"sort"

	"gendata/internal/domain"
)

var (
	goKeywords = []string{
		"break", "case", "chan", "const", "continue", "default", "defer", "else",
		"fallthrough", "for", "func", "go", "goto", "if", "import", "interface",
		"map", "package", "range", "return", "select", "struct", "switch", "type", "var",
	}

	goPredeclared = []string{
		"append", "cap", "clear", "close", "complex", "copy", "delete", "imag", "len",
		"make", "max", "min", "new", "panic", "print", "println", "real", "recover",
		"any", "bool", "byte", "comparable", "complex64", "complex128", "error",
		"float32", "float64", "int", "int8", "int16", "int32", "int64", "rune",
		"string", "uint", "uint8", "uint16", "uint32", "uint64", "uintptr",
	}

	// goconvey is dot-imported, so its helpers are called unqualified.
	testFunctions = []string{
		"t", "b", "fmt", "errors",
		"Convey", "So", "SkipConvey", "FocusConvey",
	}

	// Only denied when called through a selector (t.Run, assert.Contains), so a
	// package function of the same name under test still counts.
	testHelperMethods = []string{
		// testing.T, testing.B
		"Cleanup", "Error", "Errorf", "Fail", "FailNow", "Failed", "Fatal",
		"Fatalf", "Helper", "Log", "Logf", "Name", "Parallel", "Run", "Setenv", "Skip",
		"SkipNow", "Skipf", "Skipped", "TempDir", "ResetTimer", "StartTimer", "StopTimer",
		"ReportAllocs",
		// testify
		"Equal", "NotEqual", "EqualValues", "Nil", "NotNil", "NoError", "True", "False",
		"Len", "Empty", "NotEmpty", "Contains", "NotContains", "ErrorIs", "ErrorContains",
		"ErrorAs", "Panics", "NotPanics", "ElementsMatch", "Greater", "Less", "InDelta",
		"JSONEq", "Eventually", "Zero", "Same",
		// fmt, errors, reflect, cmp
		"Sprintf", "Sprint", "Sprintln", "Printf", "Println", "Print",
		"Fprintf", "Fprintln", "Is", "As", "Unwrap", "Join", "DeepEqual", "Diff",
	}
)

// Denylist is the set of identifiers that never count as calls into user code.
// Words are denied however they are called; methods only when called as x.Name(.
type Denylist struct {
	words   map[string]struct{}
	methods map[string]struct{}
}

func NewDenylist(words ...string) *Denylist {
	d := &Denylist{
		words:   make(map[string]struct{}, len(words)),
		methods: make(map[string]struct{}),
	}
	for _, w := range words {
		d.words[w] = struct{}{}
	}
	return d
}

// DefaultDenylist covers Go keywords, predeclared identifiers and common test helpers.
func DefaultDenylist() *Denylist {
	words := make([]string, 0, len(goKeywords)+len(goPredeclared)+len(testFunctions))
	words = append(words, goKeywords...)
	words = append(words, goPredeclared...)
	words = append(words, testFunctions...)
	return NewDenylist(words...).WithMethods(testHelperMethods...)
}

// With returns a copy of d extended by words.
func (d *Denylist) With(words ...string) *Denylist {
	out := d.clone()
	for _, w := range words {
		out.words[w] = struct{}{}
	}
	return out
}

// WithMethods returns a copy of d that also denies names called through a selector.
func (d *Denylist) WithMethods(names ...string) *Denylist {
	out := d.clone()
	for _, n := range names {
		out.methods[n] = struct{}{}
	}
	return out
}

func (d *Denylist) clone() *Denylist {
	out := NewDenylist()
	if d == nil {
		return out
	}
	for w := range d.words {
		out.words[w] = struct{}{}
	}
	for m := range d.methods {
		out.methods[m] = struct{}{}
	}
	return out
}

// Contains reports whether word is denied in every call form.
func (d *Denylist) Contains(word string) bool {
	if d == nil {
		return false
	}
	_, ok := d.words[word]
	return ok
}

// Denies reports whether ref is excluded from the calls of a test.
func (d *Denylist) Denies(ref domain.CallReference) bool {
	if d == nil {
		return false
	}
	if d.Contains(ref.Name) {
		return true
	}
	_, ok := d.methods[ref.Name]
	return ok && ref.Selector
}

func (d *Denylist) Len() int {
	return len(d.words) + len(d.methods)
}

// Words returns the entries denied in every call form, in sorted order.
func (d *Denylist) Words() []string {
	words := make([]string, 0, len(d.words))
	for w := range d.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return words
}
