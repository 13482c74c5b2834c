package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

func runHashObject(r *repo.Repository, args []string) int {
	kind := objects.KindBlob
	write := false
	var path string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-w":
			write = true
		case "-t":
			if i+1 < len(args) {
				kind = objects.Kind(args[i+1])
				i++
			}
		default:
			path = args[i]
		}
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "usage: tea hash-object [-w] [-t <type>] <file>")
		return 1
	}

	//nolint:gosec // G304: path is a user-supplied CLI argument, the documented interface
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	defer f.Close() //nolint:errcheck // read-only handle

	store := &objects.Store{}
	if write {
		store.Dir = r.ObjectsDir()
	}

	hash, err := store.HashStream(f, kind)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Println(hash)
	return 0
}
