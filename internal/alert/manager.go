package alert

import (
	"fmt"
	"maps"
	"sync"

	log "github.com/sirupsen/logrus"

	"StockSentinel/internal/model"
)

// Manager remembers which alerts were already sent so each fires at most
// once per trading day. It is safe for concurrent use.
type Manager struct {
	mu       sync.Mutex
	state    *model.AlertState
	filePath string
}

// NewManager loads state from filePath. An empty path keeps state in memory.
func NewManager(filePath string) (*Manager, error) {
	state := &model.AlertState{LastFired: map[string]string{}}
	if filePath != "" {
		loaded, err := LoadState(filePath)
		if err != nil {
			return nil, fmt.Errorf("load alert state: %w", err)
		}
		state = loaded
	}
	return &Manager{state: state, filePath: filePath}, nil
}

func stateKey(a model.Alert) string {
	return a.Code + "|" + string(a.Kind) + "|" + a.Key
}

// ShouldNotify reports whether a has not been sent for its bar date yet.
func (m *Manager) ShouldNotify(a model.Alert) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.LastFired[stateKey(a)] != a.BarDate
}

// MarkSent records a as delivered and persists the state.
func (m *Manager) MarkSent(a model.Alert) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.state.LastFired[stateKey(a)] = a.BarDate
	m.state.Sent++
	if err := m.save(); err != nil {
		log.Errorf("failed to save alert state: %v", err)
	}
}

// GetState returns a copy of the current state.
func (m *Manager) GetState() model.AlertState {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := *m.state
	s.LastFired = maps.Clone(m.state.LastFired)
	return s
}

func (m *Manager) save() error {
	if m.filePath == "" {
		return nil
	}
	return SaveState(m.filePath, m.state)
}
