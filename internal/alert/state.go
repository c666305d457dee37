package alert

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"StockSentinel/internal/model"
)

// LoadState reads the alert state from a JSON file. A missing file yields an
// empty state.
func LoadState(filePath string) (*model.AlertState, error) {
	state := &model.AlertState{}
	data, err := os.ReadFile(filePath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, err
	default:
		if err := json.Unmarshal(data, state); err != nil {
			return nil, fmt.Errorf("decode %s: %w", filePath, err)
		}
	}
	if state.LastFired == nil {
		state.LastFired = map[string]string{}
	}
	return state, nil
}

// SaveState writes the alert state next to filePath and renames it into
// place, creating the directory when needed.
func SaveState(filePath string, state *model.AlertState) error {
	state.UpdatedAt = time.Now()
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return err
	}
	tmp := filePath + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, filePath)
}
