// Package state persists small per-user front-end state: the
// most-recently-used configuration files and entry scripts offered for
// quick reopening. It lives under the XDG state directory and is
// entirely advisory; losing it never loses user data.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
)

// Well-known list names.
const (
	ListConfigs = "configs"
	ListScripts = "scripts"
)

// DefaultMaxEntries is the per-list cap on remembered values.
const DefaultMaxEntries = 10

const stateFileName = "recent.json"

// Entry is one remembered value with usage metadata.
type Entry struct {
	Value    string    `json:"value"`
	LastUsed time.Time `json:"last_used"`
	UseCount int       `json:"use_count"`
}

// Recent tracks most-recently-used values per category.
type Recent struct {
	mu    sync.Mutex
	lists map[string][]Entry
	max   int
	path  string
}

// Open loads the recent state for an application, creating an empty one
// when no state file exists yet. A corrupt state file is discarded
// rather than blocking startup.
func Open(appName string) *Recent {
	r := &Recent{
		lists: make(map[string][]Entry),
		max:   DefaultMaxEntries,
		path:  filepath.Join(xdg.StateHome, appName, stateFileName),
	}

	data, err := os.ReadFile(r.path)
	if err != nil {
		return r
	}
	var lists map[string][]Entry
	if err := json.Unmarshal(data, &lists); err == nil && lists != nil {
		r.lists = lists
	}
	return r
}

// Add records a use of value in the named list, moving it to the front.
func (r *Recent) Add(list, value string) {
	if value == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.lists[list]
	for i, entry := range entries {
		if entry.Value == value {
			entry.LastUsed = time.Now()
			entry.UseCount++
			entries = append(entries[:i], entries[i+1:]...)
			r.lists[list] = append([]Entry{entry}, entries...)
			return
		}
	}

	entries = append([]Entry{{Value: value, LastUsed: time.Now(), UseCount: 1}}, entries...)
	if len(entries) > r.max {
		entries = entries[:r.max]
	}
	r.lists[list] = entries
}

// Get returns the values of a list, most recent first.
func (r *Recent) Get(list string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.lists[list]
	values := make([]string, len(entries))
	for i, entry := range entries {
		values[i] = entry.Value
	}
	return values
}

// Remove forgets one value from a list.
func (r *Recent) Remove(list, value string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entries := r.lists[list]
	for i, entry := range entries {
		if entry.Value == value {
			r.lists[list] = append(entries[:i], entries[i+1:]...)
			return
		}
	}
}

// Clear forgets all values of a list.
func (r *Recent) Clear(list string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lists, list)
}

// Save writes the state file atomically. Failures are returned but are
// safe to ignore: the state is advisory.
func (r *Recent) Save() error {
	r.mu.Lock()
	data, err := json.MarshalIndent(r.lists, "", "  ")
	r.mu.Unlock()
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, stateFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, r.path)
}
