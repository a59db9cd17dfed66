package port

import "gendata/internal/domain"

// FileWalker enumerates classified source files beneath a root, handing each to fn as it is read.
type FileWalker interface {
	Walk(root string, fn func(domain.SourceFile) error) error
}

type FileReader interface {
	ReadFile(path string) (string, error)
}
