package emitter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gendata/internal/domain"
)

// maxLineSize bounds a single record when reading an artifact back.
const maxLineSize = 64 << 20

// Write encodes records as JSON lines in the given order. HTML characters are left
// unescaped; newlines and control characters are escaped so each record stays on
// one line.
func Write(w io.Writer, records []domain.TrainingRecord) (int, error) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	for i, r := range records {
		if err := r.Validate(); err != nil {
			return i, fmt.Errorf("record %d: %w", i, err)
		}
		if err := enc.Encode(r); err != nil {
			return i, fmt.Errorf("failed to encode record %d: %w", i, err)
		}
	}
	return len(records), nil
}

// WriteFile replaces the artifact at path with records. The data is written to a
// temporary file in the same directory and renamed into place, so a failed run
// leaves any previous artifact untouched.
func WriteFile(path string, records []domain.TrainingRecord) (int, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	bw := bufio.NewWriter(tmp)
	n, err := Write(bw, records)
	if err == nil {
		err = bw.Flush()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return 0, fmt.Errorf("failed to write %s: %w", path, err)
	}

	if err := os.Chmod(tmpPath, 0644); err != nil {
		return 0, err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return n, nil
}

// Read parses JSON lines produced by Write. Blank lines are ignored.
func Read(r io.Reader) ([]domain.TrainingRecord, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var records []domain.TrainingRecord
	line := 0
	for scanner.Scan() {
		line++
		data := bytes.TrimSpace(scanner.Bytes())
		if len(data) == 0 {
			continue
		}
		var rec domain.TrainingRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			return records, fmt.Errorf("line %d: %w", line, err)
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return records, err
	}
	return records, nil
}

func ReadFile(path string) ([]domain.TrainingRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
