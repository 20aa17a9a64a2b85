package configutil

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/titanous/json5"
)

// LocalPath returns the override file that sits next to name, for example
// "wallabag.json5" becomes "wallabag.local.json5".
func LocalPath(name string) string {
	ext := filepath.Ext(name)
	return fmt.Sprintf("%s.local%s", strings.TrimSuffix(name, ext), ext)
}

// readLayer decodes one file into a generic document. A missing file is
// reported through found, not as an error.
func readLayer(path string) (layer map[string]any, found bool, err error) {
	contents, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(contents) == 0 {
		return nil, false, nil
	}
	err = json5.Unmarshal(contents, &layer)
	if err != nil {
		return nil, false, fmt.Errorf("parse %s: %w", path, err)
	}
	return layer, true, nil
}

// reads a configuration file, `name` should come with a file extension.
// this function will merge the following files, where higher number is more prioritized.
// 1. <name>.<ext>
// 2. <name>.local.<ext>
// layers are merged key by key before decoding, so a key present in the
// local file always wins, even when it holds false, 0 or "".
func ReadConfig[T any](name string) (T, error) {
	var out T

	merged, foundDefault, err := readLayer(name)
	if err != nil {
		return out, err
	}

	localPath := LocalPath(name)
	override, foundLocal, err := readLayer(localPath)
	if err != nil {
		return out, err
	}

	if !foundDefault && !foundLocal {
		return out, os.ErrNotExist
	}
	if merged == nil {
		merged = map[string]any{}
	}
	if foundLocal {
		err = mergo.Merge(&merged, override, mergo.WithOverride)
		if err != nil {
			return out, err
		}
		slog.Debug("merging config with local overrides", "local", localPath)
	}

	// json5 only decodes, the merged document goes back through plain json
	encoded, err := json.Marshal(merged)
	if err != nil {
		return out, err
	}
	err = json5.Unmarshal(encoded, &out)
	if err != nil {
		return out, fmt.Errorf("decode %s: %w", name, err)
	}
	return out, nil
}

// ReadConfig but it goes up the filesystem from `dir` until the root to
// find a configuration file matching the name.
func ReadRecursivelyFrom[T any](dir, name string) (T, error) {
	var defaultOut T

	current, err := filepath.Abs(dir)
	if err != nil {
		return defaultOut, err
	}

	for {
		config, err := ReadConfig[T](filepath.Join(current, name))
		if err == nil {
			return config, nil
		}
		if !os.IsNotExist(err) {
			return defaultOut, err
		}

		parent := filepath.Dir(current)
		if parent == current {
			return defaultOut, os.ErrNotExist
		}
		current = parent
	}
}

// ReadRecursivelyFrom starting at the working directory.
func ReadRecursively[T any](name string) (T, error) {
	current, err := os.Getwd()
	if err != nil {
		var out T
		return out, err
	}
	return ReadRecursivelyFrom[T](current, name)
}
