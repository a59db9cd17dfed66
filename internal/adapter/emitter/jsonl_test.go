package emitter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gendata/internal/domain"
)

func sampleRecords() []domain.TrainingRecord {
	return []domain.TrainingRecord{
		domain.NewTrainingRecord("a", "You are a Go developer.", "Add returns the sum of a and b.",
			"func Add(a, b int) int {\n\treturn a + b\n}"),
		domain.NewTrainingRecord("b", "You are a Go developer.", "Compare <html> & \"quotes\"",
			"if a < b && c > d {\n\tfmt.Println(\"\\t\x01\")\n}"),
	}
}

func TestWriteOneRecordPerLine(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 2)

	for _, line := range lines {
		var raw struct {
			Messages []map[string]string `json:"messages"`
		}
		require.NoError(t, json.Unmarshal([]byte(line), &raw))
		require.Len(t, raw.Messages, 3)
		assert.Equal(t, "system", raw.Messages[0]["role"])
		assert.Equal(t, "user", raw.Messages[1]["role"])
		assert.Equal(t, "assistant", raw.Messages[2]["role"])
	}

	assert.Contains(t, lines[1], "<html> &", "HTML characters are not escaped")
	assert.NotContains(t, lines[0], `"Key"`)
}

func TestWriteRejectsMalformedRecord(t *testing.T) {
	bad := domain.TrainingRecord{Key: "x", Messages: []domain.Message{{Role: "user", Content: "hi"}}}
	_, err := Write(&bytes.Buffer{}, []domain.TrainingRecord{bad})
	assert.Error(t, err)
}

func TestWriteFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "data.jsonl")

	n, err := WriteFile(path, sampleRecords())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for i, r := range records {
		assert.Equal(t, sampleRecords()[i].Messages, r.Messages)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file must not be left behind")
}

func TestWriteFileOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.jsonl")
	require.NoError(t, os.WriteFile(path, []byte("stale\nstale\nstale\n"), 0644))

	_, err := WriteFile(path, sampleRecords()[:1])
	require.NoError(t, err)

	records, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestWriteFileDeterministic(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.jsonl")
	b := filepath.Join(dir, "b.jsonl")
	_, err := WriteFile(a, sampleRecords())
	require.NoError(t, err)
	_, err = WriteFile(b, sampleRecords())
	require.NoError(t, err)

	dataA, err := os.ReadFile(a)
	require.NoError(t, err)
	dataB, err := os.ReadFile(b)
	require.NoError(t, err)
	assert.Equal(t, dataA, dataB)
}

func TestWriteFileUnwritableDir(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	_, err := WriteFile(filepath.Join(blocker, "data.jsonl"), sampleRecords())
	assert.Error(t, err)
}

func TestReadReportsLine(t *testing.T) {
	_, err := Read(strings.NewReader("{\"messages\":[]}\n\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 3")
}
