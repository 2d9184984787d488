package sync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/klauern/skillhub/internal/model"
)

// loadState reads a TOML state file. A missing file yields an empty state.
func loadState(path string) (*model.State, error) {
	state := model.NewState()
	if _, err := toml.DecodeFile(path, state); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return model.NewState(), nil
		}
		return nil, fmt.Errorf("failed to parse sync state %s: %w", path, err)
	}

	if state.Tools == nil {
		state.Tools = make(map[string]*model.ToolState)
	}
	for key, ts := range state.Tools {
		if ts == nil {
			delete(state.Tools, key)
			continue
		}
		if ts.Tool == "" {
			ts.Tool = model.Tool(key)
		}
		if ts.Skills == nil {
			ts.Skills = make(map[string]*model.SkillStatus)
		}
		for id, status := range ts.Skills {
			if status == nil {
				delete(ts.Skills, id)
				continue
			}
			if status.SkillID == "" {
				status.SkillID = id
			}
		}
	}
	return state, nil
}

// saveState writes state atomically by encoding to a temporary file in the
// same directory and renaming it over path.
func saveState(path string, state *model.State) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create state file: %w", err)
	}
	tmpPath := tmp.Name()

	if err := toml.NewEncoder(tmp).Encode(state); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to encode sync state: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to write sync state: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to replace sync state: %w", err)
	}
	return nil
}
