package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

// cleanRelPath resolves path to an absolute location and validates it is a
// regular file inside r's worktree, returning the path relative to the
// worktree root in slash form.
func cleanRelPath(r *repo.Repository, path string) (abs, rel string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", path, err)
	}
	worktree := r.WorkTree + string(filepath.Separator)
	if !strings.HasPrefix(abs+string(filepath.Separator), worktree) && abs != r.WorkTree {
		return "", "", fmt.Errorf("%s is outside the worktree", path)
	}
	info, err := os.Stat(abs)
	if err != nil || !info.Mode().IsRegular() {
		return "", "", fmt.Errorf("not a file, or outside the worktree: %s", path)
	}
	rel, err = filepath.Rel(r.WorkTree, abs)
	if err != nil {
		return "", "", err
	}
	return abs, filepath.ToSlash(rel), nil
}

// removeFromIndex drops any entries matching relPaths, returning the
// filtered index and the subset of relPaths that were actually present.
func removeFromIndex(idx *index.Index, relPaths map[string]bool) (*index.Index, map[string]bool) {
	found := make(map[string]bool, len(relPaths))
	kept := idx.Entries[:0]
	for _, e := range idx.Entries {
		if relPaths[e.Name] {
			found[e.Name] = true
			continue
		}
		kept = append(kept, e)
	}
	return &index.Index{Version: idx.Version, Entries: kept}, found
}

func runAdd(r *repo.Repository, store *objects.Store, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tea add <file>...")
		return 1
	}

	lock, err := acquireIndexLock(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	defer lock.release()

	type staged struct{ abs, rel string }
	var toStage []staged
	relSet := make(map[string]bool, len(args))
	for _, a := range args {
		abs, rel, err := cleanRelPath(r, a)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		toStage = append(toStage, staged{abs: abs, rel: rel})
		relSet[rel] = true
	}

	idxPath := r.Path("index")
	idx, err := index.Read(idxPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: reading index: %v\n", err)
		return 128
	}
	idx, _ = removeFromIndex(idx, relSet)

	for _, s := range toStage {
		//nolint:gosec // G304: path validated by cleanRelPath to be inside the worktree
		data, err := os.ReadFile(s.abs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: reading %s: %v\n", s.rel, err)
			return 128
		}
		hash, err := store.HashStream(bytes.NewReader(data), objects.KindBlob)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: hashing %s: %v\n", s.rel, err)
			return 128
		}
		entry, err := index.EntryFromFile(s.abs, s.rel, hash)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		idx.Entries = append(idx.Entries, entry)
	}

	if err := index.Write(idxPath, idx); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: writing index: %v\n", err)
		return 128
	}
	return 0
}
