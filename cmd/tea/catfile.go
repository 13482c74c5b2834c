package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

func runCatFile(r *repo.Repository, store *objects.Store, args []string) int {
	if len(args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tea cat-file (-t|-s|-p) <object>")
		return 1
	}
	mode, name := args[0], args[1]

	hash, err := resolveRev(r, name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	obj, err := store.Read(hash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	switch mode {
	case "-t":
		fmt.Println(obj.Kind())
	case "-s":
		fmt.Println(len(obj.Serialize()))
	case "-p":
		os.Stdout.Write(obj.Serialize()) //nolint:errcheck // best-effort write to stdout
	default:
		fmt.Fprintf(os.Stderr, "fatal: unknown cat-file mode %q\n", mode)
		return 1
	}
	return 0
}
