// Package resolve implements name resolution: turning a user-supplied
// revision string (HEAD, a short or long hash, a tag, or a branch name)
// into one or more candidate object hashes.
package resolve

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/refs"
	"github.com/tea-vcs/tea/internal/repo"
)

var hashPattern = regexp.MustCompile(`^[0-9A-Fa-f]{4,40}$`)

// NotFoundError reports that name matched no object or reference.
type NotFoundError struct{ Name string }

func (e *NotFoundError) Error() string { return fmt.Sprintf("resolve: no such reference %q", e.Name) }

// AmbiguousError reports that name matched more than one candidate.
type AmbiguousError struct {
	Name       string
	Candidates []objects.Hash
}

func (e *AmbiguousError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		parts[i] = string(c)
	}
	return fmt.Sprintf("resolve: ambiguous reference %q, candidates:\n - %s", e.Name, strings.Join(parts, "\n - "))
}

// Candidates collects every object this name could refer to: "HEAD", a
// short or full hex hash (resolved by shard-directory prefix scan), a tag
// name under refs/tags, or a branch name under refs/heads. An empty or
// all-whitespace name yields zero candidates.
func Candidates(r *repo.Repository, name string) ([]objects.Hash, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, nil
	}

	if name == "HEAD" {
		hash, err := refs.Resolve(r, "HEAD")
		if err != nil {
			return nil, err
		}
		if hash == "" {
			return nil, nil
		}
		return []objects.Hash{hash}, nil
	}

	var out []objects.Hash

	if hashPattern.MatchString(name) {
		lower := strings.ToLower(name)
		prefix, rem := lower[:2], lower[2:]
		shardDir := r.Path("objects", prefix)
		entries, err := os.ReadDir(shardDir)
		if err == nil {
			for _, e := range entries {
				if strings.HasPrefix(e.Name(), rem) {
					if h, err := objects.NewHash(prefix + e.Name()); err == nil {
						out = append(out, h)
					}
				}
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("resolve: scanning object shard %s: %w", prefix, err)
		}
	}

	if h, err := refs.Resolve(r, "refs/tags/"+name); err != nil {
		return nil, err
	} else if h != "" {
		out = append(out, h)
	}

	if h, err := refs.Resolve(r, "refs/heads/"+name); err != nil {
		return nil, err
	} else if h != "" {
		out = append(out, h)
	}

	return out, nil
}

// Find resolves name to exactly one hash, failing with NotFoundError or
// AmbiguousError otherwise. Find does not peel the result to a particular
// kind; use Peel for that.
func Find(r *repo.Repository, name string) (objects.Hash, error) {
	cands, err := Candidates(r, name)
	if err != nil {
		return "", err
	}
	switch len(cands) {
	case 0:
		return "", &NotFoundError{Name: name}
	case 1:
		return cands[0], nil
	default:
		return "", &AmbiguousError{Name: name, Candidates: cands}
	}
}

// Peel resolves name to a single hash, then follows it until an object of
// kind is reached: a tag is dereferenced through its "object" field (only
// when follow is true), and a commit is dereferenced to its tree only when
// kind is KindTree. Any other kind mismatch is an error.
func Peel(store *objects.Store, r *repo.Repository, name string, kind objects.Kind, follow bool) (objects.Hash, error) {
	hash, err := Find(r, name)
	if err != nil {
		return "", err
	}

	for {
		obj, err := store.Read(hash)
		if err != nil {
			return "", fmt.Errorf("resolve: reading %s: %w", hash, err)
		}
		if obj.Kind() == kind {
			return hash, nil
		}

		switch t := obj.(type) {
		case *objects.Tag:
			if !follow {
				return "", fmt.Errorf("resolve: %s is a %s, not a %s", hash, obj.Kind(), kind)
			}
			hash, err = t.Object()
			if err != nil {
				return "", err
			}
		case *objects.Commit:
			if kind != objects.KindTree {
				return "", fmt.Errorf("resolve: %s is a commit, not a %s", hash, kind)
			}
			hash, err = t.Tree()
			if err != nil {
				return "", err
			}
		default:
			return "", fmt.Errorf("resolve: cannot peel %s (%s) to %s", hash, obj.Kind(), kind)
		}
	}
}
