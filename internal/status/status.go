// Package status compares HEAD, the staging index, and the working tree
// to report staged changes, unstaged changes, and untracked files.
package status

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tea-vcs/tea/internal/ignore"
	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/refs"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/resolve"
)

// Change classifies one path's relationship between two snapshots.
type Change string

const (
	Added    Change = "added"
	Modified Change = "modified"
	Deleted  Change = "deleted"
)

// Report is the full three-way status: HEAD-vs-index (staged), index-vs-
// worktree (unstaged), and untracked files not present in the index at all.
type Report struct {
	Staged     map[string]Change
	Unstaged   map[string]Change
	Untracked  []string
	HeadCommit objects.Hash // empty on a commit-less repository
}

// HeadTree flattens the tree reachable from HEAD into a path->hash map.
// A repository with no commits yet returns an empty map and no error.
func HeadTree(store *objects.Store, r *repo.Repository) (map[string]objects.Hash, objects.Hash, error) {
	headHash, err := refs.Resolve(r, "HEAD")
	if err != nil {
		return nil, "", err
	}
	if headHash == "" {
		return map[string]objects.Hash{}, "", nil
	}

	treeHash, err := resolve.Peel(store, r, "HEAD", objects.KindTree, true)
	if err != nil {
		return nil, "", err
	}

	flat := make(map[string]objects.Hash)
	if err := flattenTree(store, treeHash, "", flat); err != nil {
		return nil, "", err
	}
	return flat, headHash, nil
}

func flattenTree(store *objects.Store, treeHash objects.Hash, prefix string, out map[string]objects.Hash) error {
	obj, err := store.Read(treeHash)
	if err != nil {
		return fmt.Errorf("status: reading tree %s: %w", treeHash, err)
	}
	tree, ok := obj.(*objects.Tree)
	if !ok {
		return fmt.Errorf("status: %s is not a tree", treeHash)
	}

	for _, leaf := range tree.Leaves {
		full := leaf.Path
		if prefix != "" {
			full = prefix + "/" + leaf.Path
		}
		kind, err := objects.EntryKind(leaf.Mode)
		if err != nil {
			return err
		}
		if kind == objects.KindTree {
			if err := flattenTree(store, leaf.Hash, full, out); err != nil {
				return err
			}
			continue
		}
		out[full] = leaf.Hash
	}
	return nil
}

// Compute builds the full three-way status report for r.
func Compute(store *objects.Store, r *repo.Repository, idx *index.Index) (*Report, error) {
	headTree, headHash, err := HeadTree(store, r)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Staged:     make(map[string]Change),
		Unstaged:   make(map[string]Change),
		HeadCommit: headHash,
	}

	indexByName := make(map[string]*index.Entry, len(idx.Entries))
	for i := range idx.Entries {
		indexByName[idx.Entries[i].Name] = &idx.Entries[i]
	}

	for name, entry := range indexByName {
		if headBlobHash, inHead := headTree[name]; !inHead {
			report.Staged[name] = Added
		} else if headBlobHash != entry.Hash {
			report.Staged[name] = Modified
		}
	}
	for name := range headTree {
		if _, inIndex := indexByName[name]; !inIndex {
			report.Staged[name] = Deleted
		}
	}

	for name, entry := range indexByName {
		full := filepath.Join(r.WorkTree, filepath.FromSlash(name))
		if _, err := os.Stat(full); err != nil {
			if os.IsNotExist(err) {
				report.Unstaged[name] = Deleted
			}
			continue
		}

		actualCtimeNs, actualMtimeNs, err := index.StatTimes(full)
		if err != nil {
			continue
		}
		cachedCtimeNs := int64(entry.CTimeSec)*1e9 + int64(entry.CTimeNano)
		cachedMtimeNs := int64(entry.MTimeSec)*1e9 + int64(entry.MTimeNano)
		if actualCtimeNs == cachedCtimeNs && actualMtimeNs == cachedMtimeNs {
			continue
		}

		//nolint:gosec // G304: path is derived from the repo's own worktree and index
		data, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		newHash, err := (&objects.Store{}).HashStream(bytes.NewReader(data), objects.KindBlob)
		if err != nil {
			continue
		}
		if newHash != entry.Hash {
			report.Unstaged[name] = Modified
		}
	}

	untrackedSet, err := walkUntracked(r, indexByName)
	if err != nil {
		return nil, err
	}

	ignoreRules, err := ignore.Read(r, store, idx)
	if err == nil {
		for _, p := range untrackedSet {
			if !ignore.Check(ignoreRules, p) {
				report.Untracked = append(report.Untracked, p)
			}
		}
	} else {
		report.Untracked = untrackedSet
	}

	return report, nil
}

func walkUntracked(r *repo.Repository, indexByName map[string]*index.Entry) ([]string, error) {
	var out []string
	teaDir := r.TeaDir + string(filepath.Separator)

	err := filepath.Walk(r.WorkTree, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if p == r.TeaDir || (len(p) >= len(teaDir) && p[:len(teaDir)] == teaDir) {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(r.WorkTree, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if _, tracked := indexByName[rel]; !tracked {
			out = append(out, rel)
		}
		return nil
	})
	return out, err
}
