package usecase

import "sync"

// PrintedSet records which orders already triggered an automatic print this
// session. Process-lifetime only: a restart starts a fresh session and the
// at-most-once guarantee with it.
type PrintedSet struct {
	mu  sync.Mutex
	ids map[string]struct{}
}

func NewPrintedSet() *PrintedSet {
	return &PrintedSet{ids: make(map[string]struct{})}
}

// MarkIfNew checks membership and inserts in one critical section. Returns
// true when the id was absent, i.e. the caller won the right to print.
func (s *PrintedSet) MarkIfNew(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.ids[id]; ok {
		return false
	}
	s.ids[id] = struct{}{}
	return true
}

func (s *PrintedSet) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.ids[id]
	return ok
}

func (s *PrintedSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ids)
}
