// Package refs implements the reference namespace: HEAD and the
// refs/heads, refs/tags directories, each entry either a 40-hex object id
// or a symbolic "ref: <path>" pointer.
package refs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

const symbolicPrefix = "ref: "

// Resolve follows ref (a path relative to the .tea directory, e.g. "HEAD"
// or "refs/heads/main") through any chain of symbolic indirection and
// returns the hash it ultimately names. It returns ("", nil) — not an
// error — when an intermediate file is absent, which is the normal state
// of HEAD on a brand-new repository with no commits yet.
func Resolve(r *repo.Repository, ref string) (objects.Hash, error) {
	path := r.Path(filepath.FromSlash(ref))

	//nolint:gosec // G304: path is built from the repo's own .tea dir
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("refs: reading %s: %w", ref, err)
	}

	line := strings.TrimSuffix(string(data), "\n")
	if rest, ok := strings.CutPrefix(line, symbolicPrefix); ok {
		return Resolve(r, rest)
	}
	return objects.NewHash(line)
}

// HeadRef returns the symbolic target of HEAD (e.g. "refs/heads/main"),
// and false if HEAD is detached (holds a raw hash) or unreadable.
func HeadRef(r *repo.Repository) (string, bool, error) {
	path := r.Path("HEAD")
	//nolint:gosec // G304: fixed path under the repo's own .tea dir
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false, fmt.Errorf("refs: reading HEAD: %w", err)
	}
	line := strings.TrimSuffix(string(data), "\n")
	if rest, ok := strings.CutPrefix(line, symbolicPrefix); ok {
		return rest, true, nil
	}
	return "", false, nil
}

// SetSymbolic points ref at target via an indirect "ref: <target>" line.
func SetSymbolic(r *repo.Repository, ref, target string) error {
	return writeRefFile(r, ref, symbolicPrefix+target+"\n")
}

// SetDirect points ref directly at hash.
func SetDirect(r *repo.Repository, ref string, hash objects.Hash) error {
	return writeRefFile(r, ref, string(hash)+"\n")
}

// UpdateHead moves the current branch (or HEAD itself, if detached) to
// hash. If HEAD is symbolic, its target branch ref is updated; detached
// HEAD is overwritten directly with the new hash.
func UpdateHead(r *repo.Repository, hash objects.Hash) error {
	branch, symbolic, err := HeadRef(r)
	if err != nil {
		return err
	}
	if symbolic {
		return SetDirect(r, branch, hash)
	}
	return SetDirect(r, "HEAD", hash)
}

func writeRefFile(r *repo.Repository, ref, content string) error {
	path := r.Path(filepath.FromSlash(ref))
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("refs: creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-ref-*")
	if err != nil {
		return fmt.Errorf("refs: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("refs: writing %s: %w", ref, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("refs: renaming into place: %w", err)
	}
	return nil
}

// List walks refsDir (e.g. "refs" or "refs/tags") and resolves every leaf
// ref found beneath it, returning a flat map keyed by ref path relative to
// the .tea directory (e.g. "refs/heads/main"), sorted for stable iteration
// via Names.
func List(r *repo.Repository, refsDir string) (map[string]objects.Hash, error) {
	root := r.Path(filepath.FromSlash(refsDir))
	out := make(map[string]objects.Hash)

	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("refs: listing %s: %w", refsDir, err)
	}

	for _, e := range entries {
		childRel := refsDir + "/" + e.Name()
		if e.IsDir() {
			sub, err := List(r, childRel)
			if err != nil {
				return nil, err
			}
			for k, v := range sub {
				out[k] = v
			}
			continue
		}
		hash, err := Resolve(r, childRel)
		if err != nil {
			return nil, err
		}
		if hash != "" {
			out[childRel] = hash
		}
	}
	return out, nil
}

// Names returns the keys of a List result in sorted order.
func Names(refs map[string]objects.Hash) []string {
	names := make([]string, 0, len(refs))
	for k := range refs {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// TagCreate records a tag named name pointing at target. When annotated is
// false, a lightweight tag is written: refs/tags/<name> points directly at
// target. When true, a tag object is built by calling build, written to
// the object store, and refs/tags/<name> points at the new tag object.
func TagCreate(r *repo.Repository, store *objects.Store, name string, target objects.Hash, annotated bool, build func() *objects.Tag) error {
	ref := "refs/tags/" + name

	if !annotated {
		return SetDirect(r, ref, target)
	}

	tagHash, err := store.Write(build())
	if err != nil {
		return fmt.Errorf("refs: writing tag object: %w", err)
	}
	return SetDirect(r, ref, tagHash)
}
