// Package checkout materializes a tree object onto the filesystem,
// recreating directories and writing blob contents beneath a target path.
package checkout

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/tea-vcs/tea/internal/objects"
)

// Checkout recursively writes tree's contents under dir, which must
// already exist and be empty: a tree leaf becomes a subdirectory
// (recursed into), a blob leaf becomes a regular file with its payload.
func Checkout(store *objects.Store, tree *objects.Tree, dir string) error {
	for _, leaf := range tree.Leaves {
		dest := filepath.Join(dir, leaf.Path)

		obj, err := store.Read(leaf.Hash)
		if err != nil {
			return fmt.Errorf("checkout: reading %s (%s): %w", leaf.Path, leaf.Hash, err)
		}

		switch o := obj.(type) {
		case *objects.Tree:
			if err := os.Mkdir(dest, 0o755); err != nil {
				return fmt.Errorf("checkout: creating %s: %w", dest, err)
			}
			if err := Checkout(store, o, dest); err != nil {
				return err
			}
		case *objects.Blob:
			if err := os.WriteFile(dest, o.Data, 0o644); err != nil {
				return fmt.Errorf("checkout: writing %s: %w", dest, err)
			}
		default:
			return fmt.Errorf("checkout: %s (%s) is a %s, not a tree or blob", leaf.Path, leaf.Hash, obj.Kind())
		}
	}
	return nil
}

// CheckoutEmpty creates dir if it does not exist; otherwise it requires dir
// to be an empty directory. It then delegates to Checkout — mirroring the
// original's refusal to overwrite a non-empty destination.
func CheckoutEmpty(store *objects.Store, tree *objects.Tree, dir string) error {
	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("checkout: creating %s: %w", dir, err)
		}
	case err != nil:
		return fmt.Errorf("checkout: statting %s: %w", dir, err)
	case !info.IsDir():
		return fmt.Errorf("checkout: %s is not a directory", dir)
	default:
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("checkout: reading %s: %w", dir, err)
		}
		if len(entries) > 0 {
			return fmt.Errorf("checkout: %s is not empty", dir)
		}
	}
	return Checkout(store, tree, dir)
}
