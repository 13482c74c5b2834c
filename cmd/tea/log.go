package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

// runLog renders the commit graph reachable from the given revision (HEAD
// by default) as a Graphviz "digraph" body, one commit node and
// parent-edge per line, in the style this system descends from. History
// is walked depth-first from the starting revision. -n limits the walk to
// N commits along each ancestry path: each parent's descent gets its own
// copy of the remaining count, so linear history emits at most N commit
// nodes, while the parents of a merge are each allowed the remaining count.
func runLog(r *repo.Repository, store *objects.Store, args []string) int {
	rev := "HEAD"
	limit := -1
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-n" && i+1 < len(args):
			fmt.Sscanf(args[i+1], "%d", &limit) //nolint:errcheck // malformed -n falls back to unlimited
			i++
		case strings.HasPrefix(args[i], "-n"):
			fmt.Sscanf(args[i][2:], "%d", &limit) //nolint:errcheck // malformed -n falls back to unlimited
		default:
			rev = args[i]
		}
	}

	hash, err := resolveRev(r, rev)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}

	fmt.Println("digraph tealog{")
	fmt.Println("  node[shape=rect]")
	seen := make(map[objects.Hash]bool)
	if err := logGraphviz(store, hash, seen, limit); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		return 128
	}
	fmt.Println("}")
	return 0
}

func logGraphviz(store *objects.Store, hash objects.Hash, seen map[objects.Hash]bool, remaining int) error {
	if seen[hash] || remaining == 0 {
		return nil
	}
	seen[hash] = true

	obj, err := store.Read(hash)
	if err != nil {
		return fmt.Errorf("reading %s: %w", hash, err)
	}
	commit, ok := obj.(*objects.Commit)
	if !ok {
		return fmt.Errorf("%s is not a commit", hash)
	}

	message := strings.TrimSpace(commit.KVLM.Message)
	if idx := strings.IndexByte(message, '\n'); idx >= 0 {
		message = message[:idx]
	}
	message = strings.ReplaceAll(message, "\\", "\\\\")
	message = strings.ReplaceAll(message, "\"", "\\\"")

	fmt.Printf("  c_%s [label=\"%s: %s\"]\n", hash, hash.Short(), message)

	if remaining > 0 {
		remaining--
	}
	if remaining == 0 {
		return nil
	}

	parents, err := commit.Parents()
	if err != nil {
		return err
	}
	for _, p := range parents {
		fmt.Printf("  c_%s -> c_%s\n", hash, p)
		if err := logGraphviz(store, p, seen, remaining); err != nil {
			return err
		}
	}
	return nil
}
