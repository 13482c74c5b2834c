package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/resolve"
)

func runRevParse(r *repo.Repository, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: tea rev-parse <name>")
		return 1
	}
	name := args[0]

	hash, err := resolve.Find(r, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	fmt.Println(hash)
	return 0
}
