package workflow

import "sync"

// Store keeps one workflow per front-end session, in memory only. Sessions
// start in the upload state on first sight.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*Workflow
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]*Workflow)}
}

func (s *Store) Get(id string) *Workflow {
	s.mu.Lock()
	defer s.mu.Unlock()
	wf, ok := s.sessions[id]
	if !ok {
		wf = New()
		s.sessions[id] = wf
	}
	return wf
}
