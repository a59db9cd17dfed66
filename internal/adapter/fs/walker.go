package fs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"gendata/internal/domain"
)

type Walker struct {
	includes   []string
	excludes   []string
	ext        string
	testSuffix string
	logger     *zap.Logger
}

func NewWalker(includes, excludes []string, ext, testSuffix string, logger *zap.Logger) *Walker {
	if len(includes) == 0 {
		includes = []string{"**/*"}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Walker{
		includes:   includes,
		excludes:   excludes,
		ext:        ext,
		testSuffix: testSuffix,
		logger:     logger,
	}
}

// Classify returns the role of a file name, or false if the file is not a source file.
func (w *Walker) Classify(name string) (domain.FileRole, bool) {
	switch {
	case strings.HasSuffix(name, w.testSuffix):
		return domain.RoleTest, true
	case strings.HasSuffix(name, w.ext):
		return domain.RoleImplementation, true
	default:
		return "", false
	}
}

// SiblingPath maps a test file to the implementation file it is named after.
func (w *Walker) SiblingPath(testPath string) string {
	return strings.TrimSuffix(testPath, w.testSuffix) + w.ext
}

// Walk visits every classified file under root in lexical order. Entries that cannot be
// read are logged and skipped; an error returned by fn stops the walk.
func (w *Walker) Walk(root string, fn func(domain.SourceFile) error) error {
	root, err := filepath.Abs(root)
	if err != nil {
		return err
	}

	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot walk %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("not a directory: %s", root)
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			w.logger.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if path != root && w.shouldExclude(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		role, ok := w.Classify(d.Name())
		if !ok {
			return nil
		}

		if !w.shouldInclude(relPath) || w.shouldExclude(relPath) {
			return nil
		}

		content, err := ReadFile(path)
		if err != nil {
			w.logger.Warn("skipping unreadable file", zap.String("path", path), zap.Error(err))
			return nil
		}

		return fn(domain.SourceFile{
			Path:    path,
			RelPath: relPath,
			Content: content,
			Role:    role,
		})
	})
}

func (w *Walker) shouldInclude(path string) bool {
	for _, pattern := range w.includes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

func (w *Walker) shouldExclude(path string) bool {
	for _, pattern := range w.excludes {
		matched, err := doublestar.Match(pattern, path)
		if err == nil && matched {
			return true
		}
	}
	return false
}

// Reader reads whole files as text.
type Reader struct{}

func (Reader) ReadFile(path string) (string, error) {
	return ReadFile(path)
}

func ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
