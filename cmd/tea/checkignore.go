package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/ignore"
	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

func runCheckIgnore(r *repo.Repository, store *objects.Store, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tea check-ignore <path>...")
		return 1
	}

	idx, err := index.Read(r.Path("index"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	rules, err := ignore.Read(r, store, idx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	status := 1
	for _, p := range args {
		if ignore.Check(rules, p) {
			fmt.Println(p)
			status = 0
		}
	}
	return status
}
