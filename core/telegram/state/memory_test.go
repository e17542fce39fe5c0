package state

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type draft struct {
	Step  string
	Phone string
}

func TestMemoryGetSetDelete(t *testing.T) {
	s := NewMemory[int64, draft]()

	_, ok := s.Get(1)
	assert.False(t, ok)

	s.Set(1, draft{Step: "phone"})
	got, ok := s.Get(1)
	require.True(t, ok)
	assert.Equal(t, "phone", got.Step)

	got.Phone = "+998942052525"
	stored, _ := s.Get(1)
	assert.Empty(t, stored.Phone, "values are copied out of the store")

	s.Set(1, got)
	stored, _ = s.Get(1)
	assert.Equal(t, "+998942052525", stored.Phone)

	s.Delete(1)
	s.Delete(1)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryKeysAreIsolated(t *testing.T) {
	s := NewMemory[int64, draft]()
	var wg sync.WaitGroup
	for i := int64(1); i <= 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.Set(id, draft{Step: "firstName"})
			s.Set(id, draft{Step: "lastName"})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
	for i := int64(1); i <= 50; i++ {
		got, ok := s.Get(i)
		require.True(t, ok)
		assert.Equal(t, "lastName", got.Step)
	}
}
