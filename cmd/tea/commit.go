package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/kvlm"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/refs"
	"github.com/tea-vcs/tea/internal/repo"
	"github.com/tea-vcs/tea/internal/synth"
)

func runCommit(r *repo.Repository, store *objects.Store, args []string) int {
	var message string
	for i := 0; i < len(args); i++ {
		if args[i] == "-m" && i+1 < len(args) {
			message = args[i+1]
			i++
		}
	}
	if message == "" {
		fmt.Fprintln(os.Stderr, "usage: tea commit -m <message>")
		return 1
	}

	lock, err := acquireIndexLock(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	defer lock.release()

	idx, err := index.Read(r.Path("index"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: reading index: %v\n", err)
		return 128
	}

	treeHash, err := synth.TreeFromIndex(store, idx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	parentHash, err := refs.Resolve(r, "HEAD")
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	identity, err := repo.UserIdentity()
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	now := time.Now()
	authorLine := fmt.Sprintf("%s %d %s", identity.String(), now.Unix(), now.Format("-0700"))

	m := kvlm.New()
	m.Set("tree", string(treeHash))
	if parentHash != "" {
		m.Set("parent", string(parentHash))
	}
	m.Set("author", authorLine)
	m.Set("committer", authorLine)
	m.Message = message
	if !strings.HasSuffix(m.Message, "\n") {
		m.Message += "\n"
	}

	commitHash, err := store.Write(&objects.Commit{KVLM: m})
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: writing commit: %v\n", err)
		return 128
	}

	branch, symbolic, err := refs.HeadRef(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	if symbolic {
		if err := refs.SetDirect(r, branch, commitHash); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: updating %s: %v\n", branch, err)
			return 128
		}
	} else {
		if err := refs.SetDirect(r, "HEAD", commitHash); err != nil {
			fmt.Fprintf(os.Stderr, "fatal: updating HEAD: %v\n", err)
			return 128
		}
	}

	fmt.Println(commitHash)
	return 0
}
