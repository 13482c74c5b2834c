// Package repo implements the repository layout: the ".tea" administrative
// directory, its config file, and path helpers used by every other package
// to locate objects, refs, and the index.
package repo

import (
	"fmt"
	"os"
	"path/filepath"
)

// AdminDir is the name of the administrative directory inside a worktree.
const AdminDir = ".tea"

// Repository is an opened tea repository: a worktree paired with its
// administrative directory and parsed config.
type Repository struct {
	WorkTree string
	TeaDir   string
	Config   *Config
}

// ConfigError reports an unsupported or missing repository config.
type ConfigError struct {
	Path string
	Msg  string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("repo: %s: %s", e.Path, e.Msg)
}

// Open loads an existing repository rooted at worktree. Unless force is
// set, it requires the ".tea" directory and a readable config declaring
// repositoryformatversion 0.
func Open(worktree string, force bool) (*Repository, error) {
	teaDir := filepath.Join(worktree, AdminDir)

	info, err := os.Stat(teaDir)
	if (err != nil || !info.IsDir()) && !force {
		return nil, fmt.Errorf("repo: not a tea repository: %s", worktree)
	}

	r := &Repository{WorkTree: worktree, TeaDir: teaDir}

	cfgPath := filepath.Join(teaDir, "config")
	cfg, err := ReadConfig(cfgPath)
	if err != nil {
		if os.IsNotExist(err) {
			if force {
				r.Config = DefaultConfig()
				return r, nil
			}
			return nil, &ConfigError{Path: cfgPath, Msg: "configuration file missing"}
		}
		return nil, err
	}
	r.Config = cfg

	if !force {
		vers, err := cfg.RepositoryFormatVersion()
		if err != nil {
			return nil, &ConfigError{Path: cfgPath, Msg: err.Error()}
		}
		if vers != 0 {
			return nil, &ConfigError{Path: cfgPath, Msg: fmt.Sprintf("unsupported repositoryformatversion %d", vers)}
		}
	}

	return r, nil
}

// Path joins elem onto the repository's .tea directory.
func (r *Repository) Path(elem ...string) string {
	return filepath.Join(append([]string{r.TeaDir}, elem...)...)
}

// Dir returns the directory at elem under .tea, creating it (and its
// parents) when mkdir is true and it doesn't yet exist. It returns an
// error if the path exists but is not a directory.
func (r *Repository) Dir(mkdir bool, elem ...string) (string, error) {
	path := r.Path(elem...)

	info, err := os.Stat(path)
	if err == nil {
		if !info.IsDir() {
			return "", fmt.Errorf("repo: not a directory: %s", path)
		}
		return path, nil
	}
	if !os.IsNotExist(err) {
		return "", fmt.Errorf("repo: statting %s: %w", path, err)
	}
	if !mkdir {
		return "", nil
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("repo: creating %s: %w", path, err)
	}
	return path, nil
}

// File returns the path to a file at elem under .tea, creating the
// containing directory when mkdir is true.
func (r *Repository) File(mkdir bool, elem ...string) (string, error) {
	if len(elem) == 0 {
		return "", fmt.Errorf("repo: File requires at least one path element")
	}
	if _, err := r.Dir(mkdir, elem[:len(elem)-1]...); err != nil {
		return "", err
	}
	return r.Path(elem...), nil
}

// ObjectsDir returns the repository's loose object store directory.
func (r *Repository) ObjectsDir() string { return r.Path("objects") }

// Create initializes a brand-new repository at worktree: the directory is
// created if absent; if it exists it must be a directory whose ".tea"
// subdirectory is empty or absent. The branches/objects/refs skeleton plus
// description, HEAD, and config are then written.
func Create(worktree string) (*Repository, error) {
	r := &Repository{WorkTree: worktree, TeaDir: filepath.Join(worktree, AdminDir)}

	if info, err := os.Stat(worktree); err == nil {
		if !info.IsDir() {
			return nil, fmt.Errorf("repo: %s is not a directory", worktree)
		}
		if entries, err := os.ReadDir(r.TeaDir); err == nil && len(entries) > 0 {
			return nil, fmt.Errorf("repo: %s is not empty", r.TeaDir)
		}
	} else if os.IsNotExist(err) {
		if err := os.MkdirAll(worktree, 0o755); err != nil {
			return nil, fmt.Errorf("repo: creating worktree: %w", err)
		}
	} else {
		return nil, fmt.Errorf("repo: statting %s: %w", worktree, err)
	}

	for _, dirs := range [][]string{
		{"branches"},
		{"objects"},
		{"refs", "tags"},
		{"refs", "heads"},
	} {
		if _, err := r.Dir(true, dirs...); err != nil {
			return nil, err
		}
	}

	descPath, err := r.File(true, "description")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(descPath, []byte("Unnamed repository: edit this file 'description' to name this repository.\n"), 0o644); err != nil {
		return nil, fmt.Errorf("repo: writing description: %w", err)
	}

	headPath, err := r.File(true, "HEAD")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(headPath, []byte("ref: refs/heads/main\n"), 0o644); err != nil {
		return nil, fmt.Errorf("repo: writing HEAD: %w", err)
	}

	cfgPath, err := r.File(true, "config")
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := WriteConfig(cfgPath, cfg); err != nil {
		return nil, err
	}
	r.Config = cfg

	return r, nil
}

// Find walks upward from start looking for a ".tea" directory, returning an
// opened Repository at the first one found. If required is false, a
// missing repository returns (nil, nil) instead of an error.
func Find(start string, required bool) (*Repository, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("repo: resolving %s: %w", start, err)
	}
	abs, err = filepath.EvalSymlinks(abs)
	if err != nil {
		if !required && os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("repo: resolving %s: %w", start, err)
	}

	if filepath.Base(abs) == AdminDir {
		if info, err := os.Stat(abs); err == nil && info.IsDir() {
			return Open(filepath.Dir(abs), false)
		}
	}

	for {
		if info, err := os.Stat(filepath.Join(abs, AdminDir)); err == nil && info.IsDir() {
			return Open(abs, false)
		}

		parent := filepath.Dir(abs)
		if parent == abs {
			if required {
				return nil, fmt.Errorf("repo: no tea directory")
			}
			return nil, nil
		}
		abs = parent
	}
}
