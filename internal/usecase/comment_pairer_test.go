package usecase

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"gendata/internal/domain"
)

const commentSystem = "You are a Go developer who writes clear, readable, and idiomatic code."

func implFile(rel, content string) domain.SourceFile {
	return domain.SourceFile{Path: "/src/" + rel, RelPath: rel, Content: content, Role: domain.RoleImplementation}
}

func prompts(records []domain.TrainingRecord) []string {
	var out []string
	for _, r := range records {
		out = append(out, r.Content(domain.MessageUser))
	}
	return out
}

func TestCommentPairerBlockCommentScenario(t *testing.T) {
	src := `package calc

/* Add returns the sum of a and b. */
func Add(a, b int) int {
	return a + b
}
`
	p := NewCommentPairer(commentSystem, zaptest.NewLogger(t))
	records := p.Extract(implFile("calc.go", src))

	require.Len(t, records, 1)
	r := records[0]
	require.NoError(t, r.Validate())
	assert.Equal(t, commentSystem, r.Content(domain.MessageSystem))
	assert.Equal(t, "Add returns the sum of a and b.", r.Content(domain.MessageUser))
	assert.Equal(t, "func Add(a, b int) int {\n\treturn a + b\n}", r.Content(domain.MessageAssistant))
}

func TestCommentPairerDocCommentsAndStatements(t *testing.T) {
	src := `// Package calc does arithmetic.
package calc

// Calculator keeps a running total.
type Calculator struct {
	total int
}

// Apply adds v to the total.
// It returns the new total.
func (c *Calculator) Apply(v int) int {
	// guard against overflow
	if v > 1000 {
		v = 1000
	}
	// accumulate
	c.total += v

	// nothing documented below

	return c.total
}

/* orphan block comment */
var x = 1

//
func Empty() {}
`
	p := NewCommentPairer(commentSystem, zaptest.NewLogger(t))
	records := p.Extract(implFile("calc.go", src))

	assert.Equal(t, []string{
		"Package calc does arithmetic.",
		"Calculator keeps a running total.",
		"Apply adds v to the total. It returns the new total.",
		"guard against overflow",
		"accumulate",
	}, prompts(records))

	byPrompt := make(map[string]string)
	for _, r := range records {
		byPrompt[r.Content(domain.MessageUser)] = r.Content(domain.MessageAssistant)
	}
	assert.Equal(t, "package calc", byPrompt["Package calc does arithmetic."])
	assert.Equal(t, "type Calculator struct {\n\ttotal int\n}", byPrompt["Calculator keeps a running total."])
	assert.True(t, strings.HasPrefix(byPrompt["Apply adds v to the total. It returns the new total."], "func (c *Calculator) Apply(v int) int {"))
	assert.Equal(t, "if v > 1000 {\n\t\tv = 1000\n\t}", byPrompt["guard against overflow"])
	assert.Equal(t, "c.total += v", byPrompt["accumulate"])
}

func TestCommentPairerNestedDeclarations(t *testing.T) {
	src := `package calc

// Outer wraps an inner type.
func Outer() int {
	// inner is local to Outer.
	type inner struct {
		v int
	}
	return inner{v: 1}.v
}
`
	p := NewCommentPairer(commentSystem, nil)
	records := p.Extract(implFile("nested.go", src))

	require.Len(t, records, 2)
	outer := records[0].Content(domain.MessageAssistant)
	inner := records[1].Content(domain.MessageAssistant)
	assert.Equal(t, "type inner struct {\n\t\tv int\n\t}", inner)
	assert.Contains(t, outer, inner, "overlapping responses are kept")
}

func TestCommentPairerMalformedFile(t *testing.T) {
	src := `package broken

// Never closes.
func Broken() {
	if true {
		return

/* Add adds. */
func Add(a, b int) int {
	return a + b
}
`
	p := NewCommentPairer(commentSystem, nil)
	var records []domain.TrainingRecord
	assert.NotPanics(t, func() {
		records = p.Extract(implFile("broken.go", src))
	})
	for _, r := range records {
		assert.NotEqual(t, "Never closes.", r.Content(domain.MessageUser))
	}
}

func TestCommentPairerInvariants(t *testing.T) {
	src := `package x

/**
 * Parse reads a config from s.
 * See http://example.com for the format.
 */
func Parse(s string) (Config, error) {
	// split on "//" and "/*"
	parts := strings.Split(s, "//")
	return build(parts)
}
`
	p := NewCommentPairer(commentSystem, nil)
	records := p.Extract(implFile("parse.go", src))
	require.NotEmpty(t, records)

	for _, r := range records {
		require.NoError(t, r.Validate())
		user := r.Content(domain.MessageUser)
		assert.NotContains(t, user, "//")
		assert.NotContains(t, user, "/*")
		assert.NotContains(t, user, "*/")
		assert.NotEmpty(t, user)
		assert.Contains(t, src, r.Content(domain.MessageAssistant))
	}
}

func TestCommentPairerAccepts(t *testing.T) {
	p := NewCommentPairer(commentSystem, nil)
	assert.True(t, p.Accepts(domain.SourceFile{Role: domain.RoleImplementation}))
	assert.False(t, p.Accepts(domain.SourceFile{Role: domain.RoleTest}))
	assert.Equal(t, PipelineComments, p.Name())
}

func TestCommentPairerDetachedAndDirectiveComments(t *testing.T) {
	src := `package calc

// Section: helpers

func helper() int {
	return 1
}

// hot stays out of line.
//go:noinline
func hot() int {
	return 2
}
`
	p := NewCommentPairer(commentSystem, nil)
	records := p.Extract(implFile("calc.go", src))

	require.Len(t, records, 1)
	assert.Equal(t, "hot stays out of line.", records[0].Content(domain.MessageUser))
	assert.Equal(t, "func hot() int {\n\treturn 2\n}", records[0].Content(domain.MessageAssistant))
}

func TestCommentPairerSkipsInvalidUTF8(t *testing.T) {
	src := "package odd\n\n/* Odd \xff bytes. */\nfunc Odd() {}\n\n" +
		"/* Even has a bad byte in its body. */\nfunc Even() {\n\t_ = \"\xfe\"\n}\n\n" +
		"/* Clean is kept. */\nfunc Clean() {}\n"

	p := NewCommentPairer(commentSystem, nil)
	records := p.Extract(implFile("odd.go", src))

	require.Len(t, records, 1)
	assert.Equal(t, "Clean is kept.", records[0].Content(domain.MessageUser))
}
