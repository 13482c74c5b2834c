// Package ignore implements ignore-pattern matching against
// ".teaignore" files recorded in the index, ".tea/info/exclude", and the
// global ignore file, scoped the way git scopes per-directory exclude
// files.
package ignore

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/tea-vcs/tea/internal/index"
	"github.com/tea-vcs/tea/internal/objects"
	"github.com/tea-vcs/tea/internal/repo"
)

// Rule is a single pattern and whether a match means "ignore" (true) or
// "un-ignore" (false, from a leading "!").
type Rule struct {
	Pattern string
	Ignore  bool
}

// Rules is the full set of ignore rules for a repository: absolute
// rulesets (exclude file, global ignore file, each checked in order) and
// scoped rulesets keyed by the directory a ".teaignore" file covers.
type Rules struct {
	Absolute [][]Rule
	Scoped   map[string][]Rule
}

// parseLines turns raw ignore-file lines into Rules, skipping blanks and
// "#" comments; a leading "!" negates, a leading "\" escapes a literal
// leading "!" or "#".
func parseLines(lines []string) []Rule {
	var out []Rule
	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		switch {
		case strings.HasPrefix(line, "!"):
			out = append(out, Rule{Pattern: line[1:], Ignore: false})
		case strings.HasPrefix(line, "\\"):
			out = append(out, Rule{Pattern: line[1:], Ignore: true})
		default:
			out = append(out, Rule{Pattern: line, Ignore: true})
		}
	}
	return out
}

func readLines(path string) ([]string, error) {
	//nolint:gosec // G304: path is caller-controlled (repo-relative config locations)
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

// Read assembles the full rule set for r: .tea/info/exclude, the global
// ignore file ($XDG_CONFIG_HOME/git/ignore, default ~/.config/git/ignore),
// and every ".teaignore" file recorded in idx, scoped to its containing
// directory.
func Read(r *repo.Repository, store *objects.Store, idx *index.Index) (*Rules, error) {
	rules := &Rules{Scoped: make(map[string][]Rule)}

	if lines, err := readLines(r.Path("info", "exclude")); err == nil {
		rules.Absolute = append(rules.Absolute, parseLines(lines))
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configHome = filepath.Join(home, ".config")
		}
	}
	if configHome != "" {
		if lines, err := readLines(filepath.Join(configHome, "git", "ignore")); err == nil {
			rules.Absolute = append(rules.Absolute, parseLines(lines))
		}
	}

	for _, e := range idx.Entries {
		if e.Name != ".teaignore" && !strings.HasSuffix(e.Name, "/.teaignore") {
			continue
		}
		dirName := path.Dir(e.Name)
		if dirName == "." {
			dirName = ""
		}
		obj, err := store.Read(e.Hash)
		if err != nil {
			continue
		}
		blob, ok := obj.(*objects.Blob)
		if !ok {
			continue
		}
		lines := strings.Split(strings.ReplaceAll(string(blob.Data), "\r\n", "\n"), "\n")
		rules.Scoped[dirName] = parseLines(lines)
	}

	return rules, nil
}

// matchOne tests relPath against rules. A pattern containing a slash is
// anchored to relPath in full; a slash-less pattern (e.g. "*.log") matches
// at any depth, so it is tested against relPath's basename instead —
// gitignore semantics, not a single filepath.Match over the whole path.
func matchOne(rules []Rule, relPath string) (bool, bool) {
	matched, result := false, false
	base := path.Base(relPath)
	for _, rule := range rules {
		var ok bool
		if strings.Contains(rule.Pattern, "/") {
			ok, _ = path.Match(rule.Pattern, relPath)
		} else {
			ok, _ = path.Match(rule.Pattern, base)
		}
		if ok {
			matched = true
			result = rule.Ignore
		}
	}
	return result, matched
}

func matchScoped(scoped map[string][]Rule, p string) (bool, bool) {
	parent := path.Dir(p)
	if parent == "." {
		parent = ""
	}
	for {
		if rules, ok := scoped[parent]; ok {
			rel := p
			if parent != "" {
				rel = strings.TrimPrefix(p, parent+"/")
			}
			if result, matched := matchOne(rules, rel); matched {
				return result, true
			}
		}
		if parent == "" {
			return false, false
		}
		parent = path.Dir(parent)
		if parent == "." {
			parent = ""
		}
	}
}

func matchAbsolute(rulesets [][]Rule, p string) bool {
	for _, ruleset := range rulesets {
		if result, matched := matchOne(ruleset, p); matched {
			return result
		}
	}
	return false
}

// Check reports whether relPath (slash-separated, relative to the
// repository root) is ignored: scoped rules take precedence over the
// absolute ruleset, matching the original's lookup order.
func Check(rules *Rules, relPath string) bool {
	if result, matched := matchScoped(rules.Scoped, relPath); matched {
		return result
	}
	return matchAbsolute(rules.Absolute, relPath)
}
