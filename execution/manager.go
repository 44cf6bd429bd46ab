// Package execution serializes work per key so that at most one operation
// for a given phone number is in flight at a time.
package execution

import (
	"sync"

	"github.com/rs/zerolog/log"
)

type Manager struct {
	inFlight map[string]struct{}
	mutex    sync.Mutex
}

func NewManager() *Manager {
	return &Manager{
		inFlight: make(map[string]struct{}),
	}
}

// TryStart claims key. It returns false when another holder has not yet
// called the returned release function.
func (m *Manager) TryStart(key string) (release func(), ok bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, busy := m.inFlight[key]; busy {
		log.Debug().Str("key", key).Msg("Execution already in flight")
		return nil, false
	}
	m.inFlight[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mutex.Lock()
			delete(m.inFlight, key)
			m.mutex.Unlock()
		})
	}, true
}

func (m *Manager) active() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return len(m.inFlight)
}
