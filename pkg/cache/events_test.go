package cache

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEventSetAddContains(t *testing.T) {
	s := NewEventSet(10)

	assert.False(t, s.Contains("evt_1"))

	s.Add("evt_1")
	assert.True(t, s.Contains("evt_1"))

	// Re-adding is a no-op
	s.Add("evt_1")
	assert.Equal(t, 1, s.Len())
}

func TestEventSetEvictsOldestFirst(t *testing.T) {
	s := NewEventSet(3)

	s.Add("evt_1")
	s.Add("evt_2")
	s.Add("evt_3")
	s.Add("evt_4")

	assert.Equal(t, 3, s.Len())
	assert.False(t, s.Contains("evt_1"))
	assert.True(t, s.Contains("evt_2"))
	assert.True(t, s.Contains("evt_4"))
}

func TestEventSetDefaultCapacity(t *testing.T) {
	s := NewEventSet(0)

	for i := 0; i < 1500; i++ {
		s.Add(fmt.Sprintf("evt_%d", i))
	}

	assert.Equal(t, 1000, s.Len())
	assert.False(t, s.Contains("evt_0"))
	assert.True(t, s.Contains("evt_1499"))
}
