package objects

import "testing"

func TestTreeCanonicalOrdering(t *testing.T) {
	blobHash, _ := HashFromBytes(make([]byte, 20))
	tree := &Tree{Leaves: []TreeLeaf{
		{Mode: "100644", Path: "dir-b", Hash: blobHash},
		{Mode: "040000", Path: "dir", Hash: blobHash},
		{Mode: "100644", Path: "README", Hash: blobHash},
	}}

	serialized := tree.Serialize()
	parsed, err := ParseTree(serialized)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}

	// "dir" sorts before "dir-b" as a bare string comparison, but git's
	// canonical order treats the subtree as suffixed with "/", putting it
	// after "dir-b".
	if parsed.Leaves[0].Path != "README" {
		t.Errorf("first leaf = %q, want README", parsed.Leaves[0].Path)
	}
	if parsed.Leaves[1].Path != "dir-b" {
		t.Errorf("second leaf = %q, want dir-b", parsed.Leaves[1].Path)
	}
	if parsed.Leaves[2].Path != "dir" {
		t.Errorf("third leaf = %q, want dir", parsed.Leaves[2].Path)
	}
}

func TestParseTreeWidensShortMode(t *testing.T) {
	blobHash, _ := HashFromBytes(make([]byte, 20))
	tree := &Tree{Leaves: []TreeLeaf{{Mode: "40000", Path: "sub", Hash: blobHash}}}

	// Hand-build the body with a 5-char mode, as a foreign tool might.
	body := []byte("40000 sub\x00")
	body = append(body, blobHash.Bytes()...)

	parsed, err := ParseTree(body)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if parsed.Leaves[0].Mode != " 40000" {
		t.Errorf("Mode = %q, want a leading-space-padded 6 chars", parsed.Leaves[0].Mode)
	}
	kind, err := EntryKind(parsed.Leaves[0].Mode)
	if err != nil || kind != KindTree {
		t.Errorf("EntryKind(%q) = %v, %v, want tree", parsed.Leaves[0].Mode, kind, err)
	}
	_ = tree
}

func TestEntryKindClassification(t *testing.T) {
	cases := []struct {
		mode string
		want Kind
	}{
		{"040000", KindTree},
		{"100644", KindBlob},
		{"100755", KindBlob},
		{"120000", KindBlob},
		{"160000", KindCommit},
	}
	for _, c := range cases {
		got, err := EntryKind(c.mode)
		if err != nil {
			t.Errorf("EntryKind(%q): %v", c.mode, err)
			continue
		}
		if got != c.want {
			t.Errorf("EntryKind(%q) = %q, want %q", c.mode, got, c.want)
		}
	}
}
