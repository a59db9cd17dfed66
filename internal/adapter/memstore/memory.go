package memstore

import (
	"sort"
	"sync"

	"gendata/internal/domain"
)

// RecordStore keeps one pipeline's records in memory.
type RecordStore struct {
	mu      sync.RWMutex
	records map[string]domain.TrainingRecord
}

func NewRecordStore() *RecordStore {
	return &RecordStore{
		records: make(map[string]domain.TrainingRecord),
	}
}

func (s *RecordStore) Put(records ...domain.TrainingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range records {
		s.records[r.Key] = r
	}
	return nil
}

func (s *RecordStore) Records() ([]domain.TrainingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := make([]domain.TrainingRecord, 0, len(s.records))
	for _, r := range s.records {
		records = append(records, r)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Key < records[j].Key
	})
	return records, nil
}

func (s *RecordStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}
