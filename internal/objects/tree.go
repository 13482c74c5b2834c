package objects

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// TreeLeaf is one entry within a Tree: a mode, a single path component
// (never containing "/"), and the hash of the object it names.
type TreeLeaf struct {
	Mode string
	Path string
	Hash Hash
}

// Tree is an ordered list of leaves representing one directory.
type Tree struct {
	Leaves []TreeLeaf
}

func (t *Tree) Kind() Kind { return KindTree }

// leafSortKey implements Git's canonical tree ordering: a subtree entry
// sorts as though its name ended with "/", so "dir-b" sorts before "dir/"
// even though "dir" < "dir-b" as a bare string.
func leafSortKey(l TreeLeaf) string {
	if strings.HasPrefix(l.Mode, "10") {
		return l.Path
	}
	return l.Path + "/"
}

// Serialize sorts leaves by the canonical key and emits the wire form
// "<mode> SP <path> NUL <20-byte sha>" per leaf, mode emitted verbatim.
func (t *Tree) Serialize() []byte {
	sorted := make([]TreeLeaf, len(t.Leaves))
	copy(sorted, t.Leaves)
	sort.Slice(sorted, func(i, j int) bool {
		return leafSortKey(sorted[i]) < leafSortKey(sorted[j])
	})

	var buf bytes.Buffer
	for _, l := range sorted {
		buf.WriteString(l.Mode)
		buf.WriteByte(' ')
		buf.WriteString(l.Path)
		buf.WriteByte(0)
		buf.Write(l.Hash.Bytes())
	}
	return buf.Bytes()
}

// ParseTree decodes a tree object body into leaves. A 5-digit mode is
// widened to 6 bytes with a leading space so downstream code always sees a
// fixed-width field; synthesis always writes 6-digit modes, so this only
// matters for trees produced by other tools.
func ParseTree(body []byte) (*Tree, error) {
	t := &Tree{}
	pos := 0
	for pos < len(body) {
		sp := bytes.IndexByte(body[pos:], ' ')
		if sp < 0 {
			return nil, fmt.Errorf("objects: malformed tree entry at offset %d: no mode terminator", pos)
		}
		sp += pos

		mode := string(body[pos:sp])
		if len(mode) != 5 && len(mode) != 6 {
			return nil, fmt.Errorf("objects: malformed tree entry: mode %q has length %d, want 5 or 6", mode, len(mode))
		}
		if len(mode) == 5 {
			mode = " " + mode
		}

		nul := bytes.IndexByte(body[sp+1:], 0)
		if nul < 0 {
			return nil, fmt.Errorf("objects: malformed tree entry: no path terminator")
		}
		nul += sp + 1

		path := string(body[sp+1 : nul])

		if nul+1+20 > len(body) {
			return nil, fmt.Errorf("objects: malformed tree entry: truncated sha for %q", path)
		}
		hash, err := HashFromBytes(body[nul+1 : nul+21])
		if err != nil {
			return nil, err
		}

		t.Leaves = append(t.Leaves, TreeLeaf{Mode: mode, Path: path, Hash: hash})
		pos = nul + 21
	}
	return t, nil
}

// EntryKind classifies a leaf's mode into one of tree, blob, or submodule-commit.
func EntryKind(mode string) (Kind, error) {
	trimmed := strings.TrimLeft(mode, " ")
	for len(trimmed) < 6 {
		trimmed = "0" + trimmed
	}
	switch {
	case strings.HasPrefix(trimmed, "04"):
		return KindTree, nil
	case strings.HasPrefix(trimmed, "10"), strings.HasPrefix(trimmed, "12"):
		return KindBlob, nil
	case strings.HasPrefix(trimmed, "16"):
		return KindCommit, nil
	default:
		return "", fmt.Errorf("objects: unsupported tree leaf mode %q", mode)
	}
}
