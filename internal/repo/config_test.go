package repo

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigSetGetAndBool(t *testing.T) {
	c := newConfig()
	c.Set("core", "bare", "true")
	c.Set("user", "name", "Ada Lovelace")

	if v, ok := c.Get("user", "name"); !ok || v != "Ada Lovelace" {
		t.Errorf("Get(user,name) = %q, %v", v, ok)
	}
	if !c.Bool("core", "bare", false) {
		t.Error("expected core.bare to read true")
	}
	if c.Bool("core", "missing", true) != true {
		t.Error("expected missing key to fall back to the default")
	}
}

func TestWriteConfigThenReadConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	c := DefaultConfig()
	c.Set("user", "name", "Ada Lovelace")
	c.Set("user", "email", "ada@example.com")

	if err := WriteConfig(path, c); err != nil {
		t.Fatalf("WriteConfig: %v", err)
	}

	got, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if v, ok := got.Get("user", "email"); !ok || v != "ada@example.com" {
		t.Errorf("user.email = %q, %v", v, ok)
	}
	n, err := got.RepositoryFormatVersion()
	if err != nil || n != 0 {
		t.Errorf("RepositoryFormatVersion = %d, %v", n, err)
	}
}

func TestReadConfigSkipsCommentsAndBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	contents := "; a comment\n\n# another\n[core]\n\tbare = false\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c, err := ReadConfig(path)
	if err != nil {
		t.Fatalf("ReadConfig: %v", err)
	}
	if c.Bool("core", "bare", true) {
		t.Error("expected core.bare to read false")
	}
}

func TestUserIdentityFallsBackToEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("GIT_AUTHOR_NAME", "Grace Hopper")
	t.Setenv("GIT_AUTHOR_EMAIL", "grace@example.com")

	id, err := UserIdentity()
	if err != nil {
		t.Fatalf("UserIdentity: %v", err)
	}
	if id.Name != "Grace Hopper" || id.Email != "grace@example.com" {
		t.Errorf("id = %+v", id)
	}
	if id.String() != "Grace Hopper <grace@example.com>" {
		t.Errorf("String() = %q", id.String())
	}
}
