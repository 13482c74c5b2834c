package resolve

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tea-vcs/tea/internal/kvlm"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/refs"
	"github.com/tea-vcs/tea/internal/repo"
)

func kvlmCommit(tree objects.Hash) *kvlm.Message {
	m := kvlm.New()
	m.Set("tree", string(tree))
	m.Set("author", "Test User <test@example.com> 1700000000 +0000")
	m.Set("committer", "Test User <test@example.com> 1700000000 +0000")
	m.Message = "test commit\n"
	return m
}

func kvlmTag(target objects.Hash) *kvlm.Message {
	m := kvlm.New()
	m.Set("object", string(target))
	m.Set("type", "commit")
	m.Set("tag", "v1")
	m.Set("tagger", "Test User <test@example.com> 1700000000 +0000")
	m.Message = "release\n"
	return m
}

func newTestRepo(t *testing.T) (*repo.Repository, *objects.Store) {
	t.Helper()
	r, err := repo.Create(t.TempDir())
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	return r, &objects.Store{Dir: r.ObjectsDir()}
}

func TestFindOnEmptyRepoHeadIsNotFound(t *testing.T) {
	r, _ := newTestRepo(t)
	if _, err := Find(r, "HEAD"); err == nil {
		t.Error("expected NotFoundError resolving HEAD on a commit-less repository")
	} else if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("got %T, want *NotFoundError", err)
	}
}

func TestFindAmbiguousHashPrefix(t *testing.T) {
	r, store := newTestRepo(t)

	h1, err := store.Write(&objects.Blob{Data: []byte("one")})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	// Plant a second loose object whose id shares h1's first four hex
	// digits, so a four-character prefix is guaranteed to be ambiguous.
	flip := "0"
	if string(h1)[4] == '0' {
		flip = "1"
	}
	h2 := objects.Hash(string(h1)[:4] + flip + string(h1)[5:])
	if err := os.WriteFile(filepath.Join(r.ObjectsDir(), string(h2)[:2], string(h2)[2:]), nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	var shortPrefix string
	for i := 4; i <= len(h1); i++ {
		if string(h1)[:i] != string(h2)[:i] {
			shortPrefix = string(h1)[:i]
			break
		}
	}
	if shortPrefix == "" {
		t.Skip("test hashes happened to share no distinguishing short prefix")
	}
	ambiguousPrefix := shortPrefix[:len(shortPrefix)-1]
	if len(ambiguousPrefix) < 4 {
		t.Skip("no ambiguous prefix of at least 4 hex characters available")
	}

	_, err = Find(r, ambiguousPrefix)
	if err == nil {
		t.Fatal("expected an AmbiguousError")
	}
	ambigErr, ok := err.(*AmbiguousError)
	if !ok {
		t.Fatalf("got %T, want *AmbiguousError", err)
	}
	if len(ambigErr.Candidates) < 2 {
		t.Errorf("expected >= 2 candidates, got %d", len(ambigErr.Candidates))
	}
}

func TestFindResolvesBranchName(t *testing.T) {
	r, store := newTestRepo(t)
	hash, err := store.Write(&objects.Blob{Data: []byte("content")})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := refs.SetDirect(r, "refs/heads/main", hash); err != nil {
		t.Fatalf("SetDirect: %v", err)
	}

	got, err := Find(r, "main")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if got != hash {
		t.Errorf("Find(main) = %s, want %s", got, hash)
	}
}

func TestPeelTagToCommit(t *testing.T) {
	r, store := newTestRepo(t)

	treeHash, err := store.Write(&objects.Tree{})
	if err != nil {
		t.Fatalf("Write tree: %v", err)
	}

	m := kvlmCommit(treeHash)
	commitHash, err := store.Write(&objects.Commit{KVLM: m})
	if err != nil {
		t.Fatalf("Write commit: %v", err)
	}

	tagM := kvlmTag(commitHash)
	tagHash, err := store.Write(&objects.Tag{KVLM: tagM})
	if err != nil {
		t.Fatalf("Write tag: %v", err)
	}
	if err := refs.SetDirect(r, "refs/tags/v1", tagHash); err != nil {
		t.Fatalf("SetDirect: %v", err)
	}

	peeled, err := Peel(store, r, "v1", objects.KindCommit, true)
	if err != nil {
		t.Fatalf("Peel: %v", err)
	}
	if peeled != commitHash {
		t.Errorf("Peel(v1, commit) = %s, want %s", peeled, commitHash)
	}
}
