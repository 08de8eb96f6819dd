package kb

import (
	_ "embed"
	"strings"
	"sync"
)

// snapshotCSV is the knowledge-base snapshot shipped with this release,
// produced by extract + kbmerge over the current SDK definitions.
//
//go:embed snapshot.csv
var snapshotCSV string

var defaultBase = sync.OnceValues(func() (*Base, error) {
	records, err := ReadRecords(strings.NewReader(snapshotCSV))
	if err != nil {
		return nil, err
	}
	return Build(records)
})

// DefaultBase returns the Base compiled from the embedded snapshot. The
// result is shared; callers must treat it as read-only, which the Base
// API already enforces.
func DefaultBase() (*Base, error) {
	return defaultBase()
}

// LoadBase reads a combined export artifact and compiles it.
func LoadBase(path string) (*Base, error) {
	records, err := ReadRecordsFile(path)
	if err != nil {
		return nil, err
	}
	return Build(records)
}
