package main

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/resolve"
)

func runLsTree(r *repo.Repository, store *objects.Store, args []string) int {
	recursive := false
	var rev string
	for _, a := range args {
		if a == "-r" || a == "--recursive" {
			recursive = true
			continue
		}
		rev = a
	}
	if rev == "" {
		rev = "HEAD"
	}

	hash, err := resolve.Peel(store, r, rev, objects.KindTree, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	if err := lsTree(store, hash, recursive, ""); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}

func lsTree(store *objects.Store, hash objects.Hash, recursive bool, prefix string) error {
	obj, err := store.Read(hash)
	if err != nil {
		return fmt.Errorf("reading %s: %w", hash, err)
	}
	tree, ok := obj.(*objects.Tree)
	if !ok {
		return fmt.Errorf("%s is not a tree", hash)
	}

	for _, leaf := range tree.Leaves {
		kind, err := objects.EntryKind(leaf.Mode)
		if err != nil {
			return err
		}
		full := path.Join(prefix, leaf.Path)

		if recursive && kind == objects.KindTree {
			if err := lsTree(store, leaf.Hash, recursive, full); err != nil {
				return err
			}
			continue
		}

		mode := strings.TrimLeft(leaf.Mode, " ")
		for len(mode) < 6 {
			mode = "0" + mode
		}
		fmt.Printf("%s %s %s\t%s\n", mode, kind, leaf.Hash, full)
	}
	return nil
}
