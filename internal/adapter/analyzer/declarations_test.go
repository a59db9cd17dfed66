package analyzer

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gendata/internal/domain"
)

const calcSource = `package calc

import "errors"

type Calculator struct {
	memory float64
}

type Op interface {
	Apply(a, b float64) (float64, error)
}

type Celsius float64

type (
	Grouped struct{ x int }
)

func Add(a, b int) int {
	return a + b
}

func (c *Calculator) Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}

func Map[T, U any](xs []T, fn func(T) U) []U {
	out := make([]U, 0, len(xs))
	for _, x := range xs {
		out = append(out, fn(x))
	}
	return out
}

func Options() struct{ Verbose bool } {
	return struct{ Verbose bool }{}
}

func Multi(
	a int,
	b int,
) (int, error) {
	type pair struct {
		a, b int
	}
	p := pair{a, b}
	return p.a * p.b, nil
}

func asm(x int) int

var handler = func(x int) int {
	return x
}
`

func TestFindDeclarations(t *testing.T) {
	decls := FindDeclarations(calcSource)

	var got []string
	for _, d := range decls {
		got = append(got, string(d.Kind)+" "+d.Receiver+"."+d.Name)
		assert.Equal(t, d.Text, calcSource[d.Span.Start:d.Span.End])
		assert.Equal(t, byte('{'), calcSource[d.Body.Start-1])
		assert.Equal(t, byte('}'), calcSource[d.Body.End])
	}

	want := []string{
		"type .Calculator",
		"type .Op",
		"function .Add",
		"function Calculator.Div",
		"function .Map",
		"function .Options",
		"function .Multi",
		"type .pair",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("FindDeclarations mismatch (-want +got):\n%s", diff)
	}
}

func TestDeclarationAtText(t *testing.T) {
	decl, ok := FindFunc(calcSource, "Div")
	require.True(t, ok)
	assert.Equal(t, `func (c *Calculator) Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, errors.New("division by zero")
	}
	return a / b, nil
}`, decl.Text)

	decl, ok = FindFunc(calcSource, "Options")
	require.True(t, ok)
	assert.Equal(t, "func Options() struct{ Verbose bool } {\n\treturn struct{ Verbose bool }{}\n}", decl.Text)

	_, ok = FindFunc(calcSource, "asm")
	assert.False(t, ok, "bodyless declarations are not matched")

	_, ok = FindFunc(calcSource, "handler")
	assert.False(t, ok, "func literals are not declarations")
}

func TestDeclarationAtRejects(t *testing.T) {
	for _, src := range []string{
		"",
		"var x = 1",
		"funcs()",
		"func (",
		"func Broken() {\n\treturn\n",
		"type Alias = int",
		"type T struct\n{\n}",
	} {
		_, ok := DeclarationAt(src, 0)
		assert.False(t, ok, "src=%q", src)
	}
}

func TestDeclarationAtIndentedClose(t *testing.T) {
	// closing brace not at column zero
	src := "\tfunc Indented() {\n\t\tif true {\n\t\t}\n\t}\nrest"
	decl, ok := DeclarationAt(src, 1)
	require.True(t, ok)
	assert.Equal(t, "func Indented() {\n\t\tif true {\n\t\t}\n\t}", decl.Text)
}

func TestDeclarationsIgnoreCommentsAndStrings(t *testing.T) {
	src := "// func Fake() {}\nvar s = \"func Quoted() {}\"\n/* type Hidden struct {} */\nfunc Real() {}\n"
	decls := FindDeclarations(src)
	require.Len(t, decls, 1)
	assert.Equal(t, "Real", decls[0].Name)
}

func TestFuncIndexKeepsFirst(t *testing.T) {
	src := "func (a A) Close() error {\n\treturn nil\n}\n\nfunc (b B) Close() error {\n\treturn b.err\n}\n"
	index := FuncIndex(src)
	require.Contains(t, index, "Close")
	assert.Equal(t, "A", index["Close"].Receiver)
}

func TestFindTestCases(t *testing.T) {
	src := `package calc

func TestMain(m *testing.M) {
	m.Run()
}

func TestAdd(t *testing.T) {
	if Add(1, 2) != 3 {
		t.Fatal("bad")
	}
}

func Test(t *testing.T) {}

func Testify(t *testing.T) {}

func (s *Suite) TestMethod() {}

func helper() {}

func TestÄrger(t *testing.T) {
	Ärger()
}
`
	cases := FindTestCases(src, "Test")

	var names []string
	for _, c := range cases {
		names = append(names, c.Name)
		assert.Equal(t, c.BodyText, src[c.Body.Start:c.Body.End])
	}
	assert.Equal(t, []string{"TestAdd", "Test", "TestÄrger"}, names)
	assert.Contains(t, cases[0].BodyText, "Add(1, 2)")
}

func TestReceiverType(t *testing.T) {
	assert.Equal(t, "Server", receiverType("s *Server"))
	assert.Equal(t, "Server", receiverType("*Server"))
	assert.Equal(t, "Cache", receiverType("c *Cache[K, V]"))
	assert.Equal(t, "", receiverType(""))
}

func TestDeclarationKinds(t *testing.T) {
	decl, ok := DeclarationAt("type Pair[K comparable, V any] struct {\n\tK K\n\tV V\n}", 0)
	require.True(t, ok)
	assert.Equal(t, domain.DeclType, decl.Kind)
	assert.Equal(t, "Pair", decl.Name)
}
