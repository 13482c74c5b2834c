package main

import (
	"fmt"
	"os"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/repo"
)

var modeTypeNames = map[uint16]string{
	index.ModeRegular: "regular file",
	index.ModeSymlink: "symlink",
	index.ModeGitlink: "git link",
}

func runLsFiles(r *repo.Repository, args []string) int {
	verbose := false
	for _, a := range args {
		if a == "-v" || a == "--verbose" {
			verbose = true
		}
	}

	idx, err := index.Read(r.Path("index"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	for _, e := range idx.Entries {
		if !verbose {
			fmt.Println(e.Name)
			continue
		}
		kind := modeTypeNames[e.ModeType]
		stageNote := ""
		if e.Stage != 0 {
			stageNote = fmt.Sprintf("  stage: %d", e.Stage>>12)
		}
		fmt.Printf("%s (mode: %o%04o, %s)%s\n", e.Name, e.ModeType, e.ModePerm, kind, stageNote)
	}
	return 0
}
