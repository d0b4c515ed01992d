package cache

import (
	"container/list"
	"sync"
)

// EventSet is a bounded set of recently processed webhook event ids.
// Oldest entries are evicted first once capacity is reached. It is a
// best-effort dedup hint only: it lives in one process and is lost on
// restart. The reconciler's lookup-before-write transaction is the
// authoritative idempotency guard.
type EventSet struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	members  map[string]*list.Element
}

func NewEventSet(capacity int) *EventSet {
	if capacity <= 0 {
		capacity = 1000
	}
	return &EventSet{
		capacity: capacity,
		order:    list.New(),
		members:  make(map[string]*list.Element, capacity),
	}
}

// Contains reports whether the event id was already recorded.
func (s *EventSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.members[id]
	return ok
}

// Add records an event id, evicting the oldest entry when full. Adding
// an existing id is a no-op.
func (s *EventSet) Add(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.members[id]; ok {
		return
	}

	if s.order.Len() >= s.capacity {
		oldest := s.order.Front()
		if oldest != nil {
			s.order.Remove(oldest)
			delete(s.members, oldest.Value.(string))
		}
	}

	s.members[id] = s.order.PushBack(id)
}

func (s *EventSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.order.Len()
}
