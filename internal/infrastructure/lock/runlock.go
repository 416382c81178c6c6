// Package lock keeps two ingestion runs (scheduler, CLI or API) from
// overlapping, even across processes sharing the same lock file.
package lock

import (
	"fmt"

	"github.com/gofrs/flock"

	"RecordsScanner/internal/ports"
)

// RunLock is a non-blocking exclusive file lock.
type RunLock struct {
	path string
}

var _ ports.RunLock = (*RunLock)(nil)

// NewRunLock targets path; the file is created on first use.
func NewRunLock(path string) *RunLock {
	return &RunLock{path: path}
}

// TryAcquire takes the lock without waiting. ok is false when another run holds it.
func (l *RunLock) TryAcquire() (release func() error, ok bool, err error) {
	fl := flock.New(l.path)
	ok, err = fl.TryLock()
	if err != nil {
		return nil, false, fmt.Errorf("lock %s: %w", l.path, err)
	}
	if !ok {
		return nil, false, nil
	}
	return fl.Unlock, true, nil
}
