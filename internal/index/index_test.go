package index

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/tea-vcs/tea/internal/objects"
)

func sampleEntry(name string) Entry {
	hash, _ := objects.HashFromBytes(make([]byte, 20))
	return Entry{
		CTimeSec: 1, MTimeSec: 2,
		ModeType: ModeRegular, ModePerm: 0o644,
		Size: 12,
		Hash: hash,
		Name: name,
	}
}

func TestReadMissingFileReturnsEmptyIndex(t *testing.T) {
	idx, err := Read(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(idx.Entries) != 0 {
		t.Errorf("expected an empty index, got %d entries", len(idx.Entries))
	}
	if idx.Version != supportedVers {
		t.Errorf("Version = %d, want %d", idx.Version, supportedVers)
	}
}

func TestSerializeParseRoundTrip(t *testing.T) {
	idx := New()
	idx.Entries = append(idx.Entries,
		sampleEntry("a"),
		sampleEntry("bb"),
		sampleEntry("subdir/ccc"),
	)

	raw := Serialize(idx)
	back, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(back.Entries) != 3 {
		t.Fatalf("got %d entries, want 3", len(back.Entries))
	}
	for i, want := range idx.Entries {
		got := back.Entries[i]
		if got.Name != want.Name {
			t.Errorf("entry %d Name = %q, want %q", i, got.Name, want.Name)
		}
		if got.Hash != want.Hash {
			t.Errorf("entry %d Hash = %q, want %q", i, got.Hash, want.Hash)
		}
		if got.ModeType != want.ModeType {
			t.Errorf("entry %d ModeType = %#o, want %#o", i, got.ModeType, want.ModeType)
		}
	}
}

// TestCumulativePadding exercises the subtlety that 8-byte alignment is
// measured against a running offset across the whole entries region, not
// restarted at zero per entry: three short names in a row must still
// round-trip.
func TestCumulativePadding(t *testing.T) {
	idx := New()
	idx.Entries = append(idx.Entries,
		sampleEntry("a"),
		sampleEntry("ab"),
		sampleEntry("abc"),
		sampleEntry("abcd"),
	)

	raw := Serialize(idx)
	back, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	names := []string{"a", "ab", "abc", "abcd"}
	for i, want := range names {
		if back.Entries[i].Name != want {
			t.Errorf("entry %d Name = %q, want %q", i, back.Entries[i].Name, want)
		}
	}
}

func TestLongNameEntry(t *testing.T) {
	longName := "dir/" + strings.Repeat("x", maxNameInline+50) + ".txt"
	idx := New()
	idx.Entries = append(idx.Entries, sampleEntry("short"), sampleEntry(longName))

	raw := Serialize(idx)
	back, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(back.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(back.Entries))
	}
	if back.Entries[1].Name != longName {
		t.Errorf("long name did not round-trip (got length %d, want %d)", len(back.Entries[1].Name), len(longName))
	}
}

func TestParseRejectsBadSignature(t *testing.T) {
	if _, err := Parse([]byte("BADX\x00\x00\x00\x02\x00\x00\x00\x00")); err == nil {
		t.Error("expected an error for a bad signature")
	}
}

func TestWriteReadRoundTripOnDisk(t *testing.T) {
	idx := New()
	idx.Entries = append(idx.Entries, sampleEntry("a.txt"), sampleEntry("b.txt"))

	path := filepath.Join(t.TempDir(), "index")
	if err := Write(path, idx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	back, err := Read(path)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(back.Entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(back.Entries))
	}
}
