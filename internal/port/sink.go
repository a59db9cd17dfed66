package port

import "gendata/internal/domain"

// RecordSink accumulates records for one pipeline during a run.
// Implementations must be safe for concurrent Put calls.
type RecordSink interface {
	Put(records ...domain.TrainingRecord) error

	// Records returns everything accumulated so far, sorted by Key.
	Records() ([]domain.TrainingRecord, error)

	Len() int
}
