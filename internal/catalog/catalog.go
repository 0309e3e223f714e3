// Package catalog loads the static task list the quests are drawn from.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kazu/uniquest/internal/jst"
)

// ErrCatalogUnavailable wraps any failure to read or decode the catalog.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

// Task is one assignable catalog entry. Identity is the normalized
// (subject, title) pair; Deadline stays a string here because individual
// entries with bad dates are skipped at selection time, not at load time.
type Task struct {
	Subject  string `json:"subject"`
	Title    string `json:"title"`
	Deadline string `json:"deadline"`
	Type     string `json:"type,omitempty"`
}

// Loader supplies the catalog. The file loader is the production source;
// tests substitute a literal slice.
type Loader interface {
	Load() ([]Task, error)
}

// FileLoader reads the catalog from a tasks.json file on every call, so
// edits to the file show up without a restart.
type FileLoader struct {
	Path string
}

func (l *FileLoader) Load() ([]Task, error) {
	data, err := os.ReadFile(l.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrCatalogUnavailable, l.Path, err)
	}
	var tasks []Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrCatalogUnavailable, l.Path, err)
	}
	return tasks, nil
}

// Static is a fixed in-memory catalog.
type Static []Task

func (s Static) Load() ([]Task, error) { return s, nil }

// ParseDeadline accepts both the hyphen and slash date conventions that
// show up in hand-edited catalogs.
func ParseDeadline(s string) (time.Time, error) {
	if d, err := jst.ParseDate(s); err == nil {
		return d, nil
	}
	d, err := time.ParseInLocation("2006/01/02", s, jst.Location)
	if err != nil {
		return time.Time{}, fmt.Errorf("unparsable deadline %q", s)
	}
	return d, nil
}
