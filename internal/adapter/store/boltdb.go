package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"gendata/internal/domain"
)

// BoltSpool is an on-disk record accumulator for trees too large to keep in memory.
// Each pipeline writes to its own bucket. The file only lives for one run: any
// leftover spool is discarded on open and the file is removed on Close.
type BoltSpool struct {
	db   *bbolt.DB
	path string
}

func OpenBoltSpool(path string) (*BoltSpool, error) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to discard old spool: %w", err)
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	return &BoltSpool{db: db, path: path}, nil
}

// Sink returns the record sink backed by the named bucket, creating it if needed.
func (s *BoltSpool) Sink(name string) (*BoltSink, error) {
	bucket := []byte(name)
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", name, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltSink{db: s.db, bucket: bucket}, nil
}

func (s *BoltSpool) Close() error {
	err := s.db.Close()
	if rmErr := os.Remove(s.path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
		err = rmErr
	}
	return err
}

// BoltSink stores records keyed by their Key, so cursor order is artifact order.
type BoltSink struct {
	db     *bbolt.DB
	bucket []byte
}

func (s *BoltSink) Put(records ...domain.TrainingRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(s.bucket)
		for _, r := range records {
			data, err := json.Marshal(r.Messages)
			if err != nil {
				return err
			}
			if err := b.Put([]byte(r.Key), data); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BoltSink) Records() ([]domain.TrainingRecord, error) {
	var records []domain.TrainingRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(s.bucket).ForEach(func(k, v []byte) error {
			var messages []domain.Message
			if err := json.Unmarshal(v, &messages); err != nil {
				return fmt.Errorf("corrupt spool entry %q: %w", k, err)
			}
			records = append(records, domain.TrainingRecord{
				Key:      string(k),
				Messages: messages,
			})
			return nil
		})
	})
	return records, err
}

func (s *BoltSink) Len() int {
	n := 0
	_ = s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return n
}
