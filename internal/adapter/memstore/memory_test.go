package memstore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gendata/internal/domain"
)

func TestRecordStoreSortsByKey(t *testing.T) {
	s := NewRecordStore()
	require.NoError(t, s.Put(
		domain.NewTrainingRecord("b", "sys", "u2", "a2"),
		domain.NewTrainingRecord("a", "sys", "u1", "a1"),
	))
	require.NoError(t, s.Put(domain.NewTrainingRecord("c", "sys", "u3", "a3")))

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{records[0].Key, records[1].Key, records[2].Key})
	assert.Equal(t, 3, s.Len())
}

func TestRecordStoreConcurrentPut(t *testing.T) {
	s := NewRecordStore()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = s.Put(domain.NewTrainingRecord(fmt.Sprintf("k%03d", i), "sys", "u", "a"))
		}(i)
	}
	wg.Wait()

	records, err := s.Records()
	require.NoError(t, err)
	require.Len(t, records, 50)
	assert.Equal(t, "k000", records[0].Key)
	assert.Equal(t, "k049", records[49].Key)
}
