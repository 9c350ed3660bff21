package postgres

import (
	"database/sql"
	"sync"
)

// connSet tracks the connection holding each advisory lock
type connSet struct {
	mu    sync.Mutex
	conns map[string]*sql.Conn
}

func newConnSet() *connSet {
	return &connSet{conns: make(map[string]*sql.Conn)}
}

func (s *connSet) put(name string, conn *sql.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.conns[name] = conn
}

// take removes and returns the connection for name, or nil
func (s *connSet) take(name string) *sql.Conn {
	s.mu.Lock()
	defer s.mu.Unlock()
	conn := s.conns[name]
	delete(s.conns, name)
	return conn
}

func (s *connSet) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
