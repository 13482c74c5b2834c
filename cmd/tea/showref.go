package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/refs"
)

func runShowRef(r *repo.Repository, args []string) int {
	all, err := refs.List(r, "refs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	for _, name := range refs.Names(all) {
		fmt.Printf("%s %s\n", all[name], name)
	}
	return 0
}
