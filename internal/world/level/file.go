package level

import (
	"encoding/json"
	"os"

	"github.com/pkg/errors"
)

// LoadLevel reads a level previously written by SaveLevel.
func LoadLevel(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read level")
	}

	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, errors.Wrapf(err, "failed to parse level %s", path)
	}

	if !(lvl.Bounds.Width() > 0) || !(lvl.Bounds.Height() > 0) {
		return nil, errors.Wrapf(ErrInvalidConfig, "level %s has empty bounds", path)
	}

	Logger().Info("level loaded", "path", path, "segments", len(lvl.Segments), "rooms", len(lvl.Rooms))
	return &lvl, nil
}

// SaveLevel writes lvl to path as indented JSON.
func SaveLevel(path string, lvl *Level) error {
	data, err := json.MarshalIndent(lvl, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode level")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write level")
	}

	return nil
}
