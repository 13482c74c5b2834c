package checkout

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tea-vcs/tea/internal/objects"
)

func TestCheckoutWritesNestedTree(t *testing.T) {
	store := &objects.Store{Dir: t.TempDir()}

	fileHash, err := store.Write(&objects.Blob{Data: []byte("hello")})
	if err != nil {
		t.Fatalf("Write blob: %v", err)
	}
	subTree := &objects.Tree{Leaves: []objects.TreeLeaf{
		{Mode: "100644", Path: "nested.txt", Hash: fileHash},
	}}
	subHash, err := store.Write(subTree)
	if err != nil {
		t.Fatalf("Write subtree: %v", err)
	}
	rootTree := &objects.Tree{Leaves: []objects.TreeLeaf{
		{Mode: "100644", Path: "top.txt", Hash: fileHash},
		{Mode: "40000", Path: "sub", Hash: subHash},
	}}

	dir := t.TempDir()
	if err := Checkout(store, rootTree, dir); err != nil {
		t.Fatalf("Checkout: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "top.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("top.txt = %q, %v", got, err)
	}
	got, err = os.ReadFile(filepath.Join(dir, "sub", "nested.txt"))
	if err != nil || string(got) != "hello" {
		t.Errorf("sub/nested.txt = %q, %v", got, err)
	}
}

func TestCheckoutEmptyCreatesMissingDir(t *testing.T) {
	store := &objects.Store{Dir: t.TempDir()}
	tree := &objects.Tree{}

	dir := filepath.Join(t.TempDir(), "fresh")
	if err := CheckoutEmpty(store, tree, dir); err != nil {
		t.Fatalf("CheckoutEmpty: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected %s to exist as a directory", dir)
	}
}

func TestCheckoutEmptyRejectsNonEmptyDir(t *testing.T) {
	store := &objects.Store{Dir: t.TempDir()}
	tree := &objects.Tree{}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "existing.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := CheckoutEmpty(store, tree, dir); err == nil {
		t.Error("expected an error checking out into a non-empty directory")
	}
}
