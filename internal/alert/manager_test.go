package alert

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockSentinel/internal/model"
)

func TestManager_OncePerBar(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)

	a := model.Alert{Code: "600519", Kind: model.AlertBuy, BarDate: "2024-05-06"}
	assert.True(t, m.ShouldNotify(a))
	m.MarkSent(a)
	assert.False(t, m.ShouldNotify(a))

	next := a
	next.BarDate = "2024-05-07"
	assert.True(t, m.ShouldNotify(next))

	other := a
	other.Kind = model.AlertSell
	assert.True(t, m.ShouldNotify(other))
	assert.Equal(t, 1, m.GetState().Sent)
}

func TestManager_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	a := model.Alert{Code: "000001", Kind: model.AlertMonitor, Key: "PRICE:above:10", BarDate: "2024-05-06"}

	m, err := NewManager(path)
	require.NoError(t, err)
	m.MarkSent(a)

	reloaded, err := NewManager(path)
	require.NoError(t, err)
	assert.False(t, reloaded.ShouldNotify(a))
	assert.Equal(t, "2024-05-06", reloaded.GetState().LastFired["000001|MONITOR|PRICE:above:10"])
}

func TestManager_GetStateIsCopy(t *testing.T) {
	m, err := NewManager("")
	require.NoError(t, err)
	m.MarkSent(model.Alert{Code: "1", Kind: model.AlertSell, BarDate: "d"})

	s := m.GetState()
	s.LastFired["1|SELL|"] = "changed"
	assert.Equal(t, "d", m.GetState().LastFired["1|SELL|"])
}

func TestSaveState_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "nested", "alerts.json")
	state := &model.AlertState{LastFired: map[string]string{"600519|BUY|": "2024-05-06"}, Sent: 1}
	require.NoError(t, SaveState(path, state))

	loaded, err := LoadState(path)
	require.NoError(t, err)
	assert.Equal(t, state.LastFired, loaded.LastFired)
	assert.False(t, loaded.UpdatedAt.IsZero())
}

func TestLoadState_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alerts.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewManager(path)
	assert.Error(t, err)
}
