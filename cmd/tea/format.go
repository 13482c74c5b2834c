package main

import (
	"fmt"
	"time"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/resolve"
)

// teaDateFormat formats a time as "Mon Jan 2 15:04:05 2006 -0700".
func teaDateFormat(t time.Time) string {
	return t.Format("Mon Jan 2 15:04:05 2006 -0700")
}

// resolveRev resolves a revision string to exactly one hash, surfacing
// not-found and ambiguous-reference errors with their full candidate list.
func resolveRev(r *repo.Repository, rev string) (objects.Hash, error) {
	hash, err := resolve.Find(r, rev)
	if err != nil {
		switch e := err.(type) {
		case *resolve.NotFoundError:
			return "", fmt.Errorf("unknown revision or path not in the working tree: %s", e.Name)
		case *resolve.AmbiguousError:
			return "", e
		}
		return "", err
	}
	return hash, nil
}
