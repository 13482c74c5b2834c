package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/tea-vcs/tea/internal/kvlm"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/refs"
	"github.com/tea-vcs/tea/internal/repo"
)

func runTag(r *repo.Repository, store *objects.Store, args []string) int {
	annotated := false
	message := ""
	var positional []string

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-a":
			annotated = true
		case "-m":
			if i+1 < len(args) {
				message = args[i+1]
				i++
			}
		default:
			positional = append(positional, args[i])
		}
	}

	if len(positional) == 0 {
		all, err := refs.List(r, "refs/tags")
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		for _, name := range refs.Names(all) {
			fmt.Println(name[len("refs/tags/"):])
		}
		return 0
	}

	name := positional[0]
	rev := "HEAD"
	if len(positional) > 1 {
		rev = positional[1]
	}

	target, err := resolveRev(r, rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	var targetKind objects.Kind
	var identity repo.Identity
	if annotated {
		targetObj, err := store.Read(target)
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
		targetKind = targetObj.Kind()

		identity, err = repo.UserIdentity()
		if err != nil {
			fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
			return 128
		}
	}

	build := func() *objects.Tag {
		now := time.Now()
		m := kvlm.New()
		m.Set("object", string(target))
		m.Set("type", string(targetKind))
		m.Set("tag", name)
		m.Set("tagger", fmt.Sprintf("%s %d %s", identity.String(), now.Unix(), now.Format("-0700")))
		m.Message = message
		if !strings.HasSuffix(m.Message, "\n") {
			m.Message += "\n"
		}
		return &objects.Tag{KVLM: m}
	}

	if err := refs.TagCreate(r, store, name, target, annotated, build); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	return 0
}
