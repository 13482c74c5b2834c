package status

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

func stageFile(t *testing.T, r *repo.Repository, store *objects.Store, idx *index.Index, name, content string) {
	t.Helper()
	abs := filepath.Join(r.WorkTree, name)
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	hash, err := store.HashStream(strings.NewReader(content), objects.KindBlob)
	if err != nil {
		t.Fatalf("HashStream: %v", err)
	}
	entry, err := index.EntryFromFile(abs, name, hash)
	if err != nil {
		t.Fatalf("EntryFromFile: %v", err)
	}
	idx.Entries = append(idx.Entries, entry)
}

func TestComputeUntrackedFile(t *testing.T) {
	r, err := repo.Create(t.TempDir())
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	store := &objects.Store{Dir: r.ObjectsDir()}
	idx := index.New()

	if err := os.WriteFile(filepath.Join(r.WorkTree, "loose.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := Compute(store, r, idx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if len(report.Untracked) != 1 || report.Untracked[0] != "loose.txt" {
		t.Errorf("Untracked = %v, want [loose.txt]", report.Untracked)
	}
	if len(report.Staged) != 0 || len(report.Unstaged) != 0 {
		t.Errorf("expected no staged/unstaged changes, got %+v / %+v", report.Staged, report.Unstaged)
	}
}

func TestComputeStagedAdded(t *testing.T) {
	r, err := repo.Create(t.TempDir())
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	store := &objects.Store{Dir: r.ObjectsDir()}
	idx := index.New()
	stageFile(t, r, store, idx, "a.txt", "hello")

	report, err := Compute(store, r, idx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if report.Staged["a.txt"] != Added {
		t.Errorf("Staged[a.txt] = %q, want %q", report.Staged["a.txt"], Added)
	}
}

func TestComputeUnstagedModified(t *testing.T) {
	r, err := repo.Create(t.TempDir())
	if err != nil {
		t.Fatalf("repo.Create: %v", err)
	}
	store := &objects.Store{Dir: r.ObjectsDir()}
	idx := index.New()
	stageFile(t, r, store, idx, "a.txt", "hello")

	// Modify the file after staging without re-adding it.
	abs := filepath.Join(r.WorkTree, "a.txt")
	if err := os.WriteFile(abs, []byte("changed content, definitely different"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	// Force a distinguishable mtime/ctime from what EntryFromFile captured.
	future := time.Now().Add(time.Hour)
	_ = os.Chtimes(abs, future, future)

	report, err := Compute(store, r, idx)
	if err != nil {
		t.Fatalf("Compute: %v", err)
	}
	if report.Unstaged["a.txt"] != Modified {
		t.Errorf("Unstaged[a.txt] = %q, want %q", report.Unstaged["a.txt"], Modified)
	}
}
