package repo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is a minimal INI document: an ordered list of sections, each an
// ordered list of key/value pairs. It covers the subset of git-config
// syntax this system actually reads or writes (section headers, "key =
// value" pairs, ";" and "#" comments) — not subsections or includes.
type Config struct {
	order    []string
	sections map[string]*iniSection
}

type iniSection struct {
	order  []string
	values map[string]string
}

// DefaultConfig returns the config written by Create: repositoryformatversion
// 0, filemode off, bare off.
func DefaultConfig() *Config {
	c := newConfig()
	c.Set("core", "repositoryformatversion", "0")
	c.Set("core", "filemode", "false")
	c.Set("core", "bare", "false")
	return c
}

func newConfig() *Config {
	return &Config{sections: make(map[string]*iniSection)}
}

// Get returns the value of key within section.
func (c *Config) Get(section, key string) (string, bool) {
	s, ok := c.sections[section]
	if !ok {
		return "", false
	}
	v, ok := s.values[key]
	return v, ok
}

// Set assigns key within section, creating the section if needed.
func (c *Config) Set(section, key, value string) {
	s, ok := c.sections[section]
	if !ok {
		s = &iniSection{values: make(map[string]string)}
		c.sections[section] = s
		c.order = append(c.order, section)
	}
	if _, seen := s.values[key]; !seen {
		s.order = append(s.order, key)
	}
	s.values[key] = value
}

// RepositoryFormatVersion returns core.repositoryformatversion as an int.
func (c *Config) RepositoryFormatVersion() (int, error) {
	v, ok := c.Get("core", "repositoryformatversion")
	if !ok {
		return 0, fmt.Errorf("missing core.repositoryformatversion")
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, fmt.Errorf("invalid core.repositoryformatversion %q: %w", v, err)
	}
	return n, nil
}

// Bool reads a boolean value the way git-config does: "true"/"yes"/"on"/"1"
// (case-insensitively) are true, "false"/"no"/"off"/"0" are false; a
// missing key or any other value yields def.
func (c *Config) Bool(section, key string, def bool) bool {
	v, ok := c.Get(section, key)
	if !ok {
		return def
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "yes", "on", "1":
		return true
	case "false", "no", "off", "0":
		return false
	default:
		return def
	}
}

// ReadConfig parses an INI file at path.
func ReadConfig(path string) (*Config, error) {
	//nolint:gosec // G304: path is a repo-controlled config location
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	c := newConfig()
	section := ""
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, ";") || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			continue
		}
		eq := strings.Index(line, "=")
		if eq < 0 || section == "" {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		value := strings.TrimSpace(line[eq+1:])
		c.Set(section, key, value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("repo: reading config %s: %w", path, err)
	}
	return c, nil
}

// WriteConfig serializes c as INI text to path.
func WriteConfig(path string, c *Config) error {
	var b strings.Builder
	for _, section := range c.order {
		fmt.Fprintf(&b, "[%s]\n", section)
		s := c.sections[section]
		for _, key := range s.order {
			fmt.Fprintf(&b, "\t%s = %s\n", key, s.values[key])
		}
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("repo: writing config %s: %w", path, err)
	}
	return nil
}

// Identity is a commit/tag author or committer: "Name <email>".
type Identity struct {
	Name  string
	Email string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s <%s>", id.Name, id.Email)
}

// UserIdentity resolves user.name/user.email by reading, in order,
// $XDG_CONFIG_HOME/git/config (default ~/.config/git/config) and
// ~/.gitconfig, with the latter taking precedence — matching git's own
// global-config search order.
func UserIdentity() (Identity, error) {
	var id Identity

	if home, err := os.UserHomeDir(); err == nil {
		xdg := os.Getenv("XDG_CONFIG_HOME")
		if xdg == "" {
			xdg = filepath.Join(home, ".config")
		}
		if c, err := ReadConfig(filepath.Join(xdg, "git", "config")); err == nil {
			applyIdentity(c, &id)
		}
		if c, err := ReadConfig(filepath.Join(home, ".gitconfig")); err == nil {
			applyIdentity(c, &id)
		}
	}

	if v := os.Getenv("GIT_AUTHOR_NAME"); v != "" {
		id.Name = v
	}
	if v := os.Getenv("GIT_AUTHOR_EMAIL"); v != "" {
		id.Email = v
	}

	if id.Name == "" || id.Email == "" {
		return id, fmt.Errorf("repo: user.name/user.email not configured")
	}
	return id, nil
}

func applyIdentity(c *Config, id *Identity) {
	if v, ok := c.Get("user", "name"); ok {
		id.Name = v
	}
	if v, ok := c.Get("user", "email"); ok {
		id.Email = v
	}
}
