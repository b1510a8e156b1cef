package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Save writes the configuration to path as indented JSON. The write is
// all-or-nothing: content goes to a temporary file in the target
// directory first and replaces the destination with a rename, so a crash
// mid-write never corrupts a previously valid file.
func (s *Store) Save(path string) error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &SaveError{Path: path, Err: err}
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return &SaveError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &SaveError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &SaveError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &SaveError{Path: path, Err: err}
	}

	s.filePath = path
	return nil
}

// Load reads a JSON configuration file and merges it over the schema
// defaults. On any failure the store keeps its current in-memory state
// and returns a typed LoadError.
func (s *Store) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &LoadError{Kind: LoadErrorNotFound, Path: path, Err: err}
		}
		return &LoadError{Kind: LoadErrorUnreadable, Path: path, Err: err}
	}

	var loaded map[string]any
	if err := json.Unmarshal(data, &loaded); err != nil {
		return &LoadError{Kind: LoadErrorMalformed, Path: path, Err: err}
	}
	if loaded == nil {
		return &LoadError{Kind: LoadErrorMalformed, Path: path, Err: fmt.Errorf("document is null")}
	}

	s.FromMap(loaded)
	s.filePath = path
	return nil
}
