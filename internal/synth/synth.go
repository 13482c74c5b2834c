// Package synth builds a tree object hierarchy from a flat staging index,
// writing one tree per directory and returning the root tree's hash.
package synth

import (
	"fmt"
	"path"
	"sort"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
)

// childRef is either a staged file (index.Entry) or a previously synthesized
// subdirectory (basename, hash), mirroring the dict-of-lists the algorithm
// this is grounded on builds before folding it bottom-up.
type childRef struct {
	entry    *index.Entry
	dirName  string
	dirHash  objects.Hash
	isSubdir bool
}

// TreeFromIndex folds idx into a directory tree: every directory
// (including the implicit root "") is collected, processed in descending
// path-length order so a directory is always synthesized before its
// parent, and each synthesized tree's (basename, hash) is appended to its
// parent's children. It returns the root tree's hash.
func TreeFromIndex(store *objects.Store, idx *index.Index) (objects.Hash, error) {
	contents := map[string][]childRef{"": nil}

	for i := range idx.Entries {
		e := &idx.Entries[i]
		dir := path.Dir(e.Name)
		if dir == "." {
			dir = ""
		}

		for key := dir; key != ""; key = parentOf(key) {
			if _, ok := contents[key]; !ok {
				contents[key] = nil
			}
		}
		contents[dir] = append(contents[dir], childRef{entry: e})
	}

	paths := make([]string, 0, len(contents))
	for p := range contents {
		paths = append(paths, p)
	}
	sort.Slice(paths, func(i, j int) bool { return len(paths[i]) > len(paths[j]) })

	var rootHash objects.Hash
	for _, dirPath := range paths {
		tree := &objects.Tree{}
		for _, c := range contents[dirPath] {
			if c.isSubdir {
				tree.Leaves = append(tree.Leaves, objects.TreeLeaf{
					Mode: "040000",
					Path: c.dirName,
					Hash: c.dirHash,
				})
				continue
			}
			mode := fmt.Sprintf("%02o%04o", c.entry.ModeType, c.entry.ModePerm)
			tree.Leaves = append(tree.Leaves, objects.TreeLeaf{
				Mode: mode,
				Path: path.Base(c.entry.Name),
				Hash: c.entry.Hash,
			})
		}

		hash, err := store.Write(tree)
		if err != nil {
			return "", fmt.Errorf("synth: writing tree for %q: %w", dirPath, err)
		}
		rootHash = hash

		parent := parentOf(dirPath)
		base := path.Base(dirPath)
		if dirPath == "" {
			continue
		}
		contents[parent] = append(contents[parent], childRef{isSubdir: true, dirName: base, dirHash: hash})
	}

	return rootHash, nil
}

func parentOf(p string) string {
	d := path.Dir(p)
	if d == "." || d == p {
		return ""
	}
	return d
}
