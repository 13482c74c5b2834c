package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/checkout"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/progress"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/resolve"
)

func runCheckout(r *repo.Repository, store *objects.Store, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tea checkout <commit> <dir>")
		return 1
	}
	rev, dir := args[0], args[1]

	treeHash, err := resolve.Peel(store, r, rev, objects.KindTree, true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	obj, err := store.Read(treeHash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	tree, ok := obj.(*objects.Tree)
	if !ok {
		fmt.Fprintf(os.Stderr, "fatal: %s is not a tree\n", treeHash)
		return 128
	}

	spinner := progress.New(fmt.Sprintf("checking out %s into %s", treeHash.Short(), dir))
	spinner.Start()
	err = checkout.CheckoutEmpty(store, tree, dir)
	spinner.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
