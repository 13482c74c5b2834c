package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/repo"
)

func runRm(r *repo.Repository, args []string) int {
	skipMissing := false
	var paths []string
	for _, a := range args {
		if a == "--cached" {
			skipMissing = true // --cached: drop from the index only, keep worktree files, and tolerate paths not in the index
			continue
		}
		paths = append(paths, a)
	}
	if len(paths) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tea rm [--cached] <file>...")
		return 1
	}

	lock, err := acquireIndexLock(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	defer lock.release()

	relSet := make(map[string]bool, len(paths))
	for _, p := range paths {
		_, rel, err := cleanRelPathAllowMissing(r, p)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		relSet[rel] = true
	}

	idxPath := r.Path("index")
	idx, err := index.Read(idxPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: reading index: %v\n", err)
		return 128
	}

	filtered, found := removeFromIndex(idx, relSet)
	for rel := range relSet {
		if !found[rel] && !skipMissing {
			fmt.Fprintf(os.Stderr, "fatal: cannot remove path not in the index: %s\n", rel)
			return 128
		}
	}

	if !skipMissing {
		for rel := range found {
			_ = os.Remove(r.WorkTree + string(os.PathSeparator) + rel)
		}
	}

	if err := index.Write(idxPath, filtered); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: writing index: %v\n", err)
		return 128
	}
	return 0
}

// cleanRelPathAllowMissing is like cleanRelPath but tolerates a worktree
// file that no longer exists, since rm must still be able to drop a
// deleted file's stale index entry.
func cleanRelPathAllowMissing(r *repo.Repository, path string) (abs, rel string, err error) {
	abs, err = filepath.Abs(path)
	if err != nil {
		return "", "", fmt.Errorf("resolving %s: %w", path, err)
	}
	worktree := r.WorkTree + string(filepath.Separator)
	if !strings.HasPrefix(abs+string(filepath.Separator), worktree) && abs != r.WorkTree {
		return "", "", fmt.Errorf("cannot remove paths outside the worktree: %s", path)
	}
	rel, err = filepath.Rel(r.WorkTree, abs)
	if err != nil {
		return "", "", err
	}
	return abs, filepath.ToSlash(rel), nil
}
