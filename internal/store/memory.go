package store

import "sync"

// Memory keeps a best score for the life of the process. Used when no
// database is configured.
type Memory struct {
	mu   sync.Mutex
	best int
}

func (m *Memory) LoadBest() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.best, nil
}

func (m *Memory) SaveBest(best int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.best = max(m.best, best)
	return nil
}
