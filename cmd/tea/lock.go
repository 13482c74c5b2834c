package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/repo"
)

// indexLock is an advisory O_EXCL lock file guarding index-mutating
// commands. Contention is reported as a fatal error; no other process
// coordination is attempted.
type indexLock struct {
	path string
}

func acquireIndexLock(r *repo.Repository) (*indexLock, error) {
	path := r.Path("index.lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another tea process appears to be running (%s exists)", path)
		}
		return nil, fmt.Errorf("creating index lock: %w", err)
	}
	_ = f.Close()
	return &indexLock{path: path}, nil
}

func (l *indexLock) release() {
	_ = os.Remove(l.path)
}
