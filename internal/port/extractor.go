package port

import "gendata/internal/domain"

// Extractor turns one source file into zero or more training records.
type Extractor interface {
	// Name identifies the pipeline the records belong to.
	Name() string

	// Accepts reports whether the extractor wants to see the file at all.
	Accepts(file domain.SourceFile) bool

	// Extract never fails: unmatched or malformed spans simply yield no records.
	Extract(file domain.SourceFile) []domain.TrainingRecord
}
