// Package names tracks column names while a table or header is assembled.
package names

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/interlace/errs"
)

// Tracker records column names in order and rejects duplicates.
type Tracker struct {
	index map[string]int // name → position in list
	list  []string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{
		index: make(map[string]int),
	}
}

// Track adds name. It fails with errs.ErrDuplicateColumn if name was already tracked.
func (t *Tracker) Track(name string) error {
	if _, dup := t.index[name]; dup {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateColumn, name)
	}

	t.index[name] = len(t.list)
	t.list = append(t.list, name)

	return nil
}

// TrackHeader adds a header field. Blank fields are replaced by a generated
// name "X<position>" where position is 1-based. It returns the tracked name.
func (t *Tracker) TrackHeader(field string) (string, error) {
	name := strings.TrimSpace(field)
	if name == "" {
		name = "X" + strconv.Itoa(len(t.list)+1)
	}

	if err := t.Track(name); err != nil {
		return "", err
	}

	return name, nil
}

// Contains reports whether name was tracked.
func (t *Tracker) Contains(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Names returns the tracked names in insertion order.
func (t *Tracker) Names() []string {
	return t.list
}

// Count returns the number of tracked names.
func (t *Tracker) Count() int {
	return len(t.list)
}
