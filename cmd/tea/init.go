package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/repo"
)

func runInit(args []string) int {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}

	r, err := repo.Create(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Printf("Initialized empty tea repository in %s\n", r.TeaDir)
	return 0
}
