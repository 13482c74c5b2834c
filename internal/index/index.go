// Package index implements the staging area: a binary cache of file
// metadata and blob hashes mirroring the working tree, persisted as
// ".tea/index" in the DirCache v2 layout.
package index

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tea-vcs/tea/internal/objects"
)

const (
	signature     = "DIRC"
	supportedVers = 2
	entryHeaderSz = 62
	maxNameInline = 0xFFF
)

// Mode type bits (top 4 bits of the 16-bit on-disk mode field).
const (
	ModeRegular   = 0b1000
	ModeSymlink   = 0b1010
	ModeGitlink   = 0b1110
)

// Entry is one staged file: filesystem metadata plus the hash of its
// staged blob content.
type Entry struct {
	CTimeSec  uint32
	CTimeNano uint32
	MTimeSec  uint32
	MTimeNano uint32
	Dev       uint32
	Ino       uint32
	ModeType  uint16 // one of ModeRegular, ModeSymlink, ModeGitlink
	ModePerm  uint16
	UID       uint32
	GID       uint32
	Size      uint32
	Hash      objects.Hash
	AssumeValid bool
	Stage       uint16 // 2 bits, shifted into place; 0 for a fully-merged entry
	Name        string
}

// Index is the staging area: an ordered entry list plus the format
// version read from (or to be written to) disk.
type Index struct {
	Version int
	Entries []Entry
}

// New returns an empty version-2 index.
func New() *Index { return &Index{Version: supportedVers} }

// Read loads the index at path. A missing file is not an error: a
// brand-new repository has no index yet, so Read returns an empty one.
func Read(path string) (*Index, error) {
	//nolint:gosec // G304: path is the repo's own .tea/index file
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("index: reading %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes a DirCache v2 byte stream.
func Parse(raw []byte) (*Index, error) {
	if len(raw) < 12 {
		return nil, fmt.Errorf("index: truncated header")
	}
	if string(raw[:4]) != signature {
		return nil, fmt.Errorf("index: bad signature %q", raw[:4])
	}
	version := int(binary.BigEndian.Uint32(raw[4:8]))
	if version != supportedVers {
		return nil, fmt.Errorf("index: unsupported version %d", version)
	}
	count := int(binary.BigEndian.Uint32(raw[8:12]))

	idx := &Index{Version: version}
	pos := 12

	for i := 0; i < count; i++ {
		if pos+entryHeaderSz > len(raw) {
			return nil, fmt.Errorf("index: truncated entry %d", i)
		}
		h := raw[pos : pos+entryHeaderSz]

		mode := binary.BigEndian.Uint16(h[26:28])
		modeType := mode >> 12
		if modeType != ModeRegular && modeType != ModeSymlink && modeType != ModeGitlink {
			return nil, fmt.Errorf("index: entry %d: invalid mode type %#o", i, modeType)
		}

		hash, err := objects.HashFromBytes(h[40:60])
		if err != nil {
			return nil, fmt.Errorf("index: entry %d: %w", i, err)
		}

		flags := binary.BigEndian.Uint16(h[60:62])
		assumeValid := flags&0b1000000000000000 != 0
		if flags&0b0100000000000000 != 0 {
			return nil, fmt.Errorf("index: entry %d: extended flag set, unsupported", i)
		}
		stage := flags & 0b0011000000000000
		nameLen := int(flags & 0b0000111111111111)

		pos += entryHeaderSz

		var rawName []byte
		if nameLen < maxNameInline {
			if pos+nameLen >= len(raw) || raw[pos+nameLen] != 0 {
				return nil, fmt.Errorf("index: entry %d: name not NUL-terminated", i)
			}
			rawName = raw[pos : pos+nameLen]
			pos += nameLen + 1
		} else {
			nul := bytes.IndexByte(raw[pos+maxNameInline:], 0)
			if nul < 0 {
				return nil, fmt.Errorf("index: entry %d: unterminated long name", i)
			}
			nul += pos + maxNameInline
			rawName = raw[pos:nul]
			pos = nul + 1
		}

		// Padding is computed against the cumulative offset into the
		// entries region, not a per-entry restart.
		if off := pos - 12; off%8 != 0 {
			pos += 8 - off%8
		}

		idx.Entries = append(idx.Entries, Entry{
			CTimeSec:    binary.BigEndian.Uint32(h[0:4]),
			CTimeNano:   binary.BigEndian.Uint32(h[4:8]),
			MTimeSec:    binary.BigEndian.Uint32(h[8:12]),
			MTimeNano:   binary.BigEndian.Uint32(h[12:16]),
			Dev:         binary.BigEndian.Uint32(h[16:20]),
			Ino:         binary.BigEndian.Uint32(h[20:24]),
			ModeType:    modeType,
			ModePerm:    mode & 0b0000000111111111,
			UID:         binary.BigEndian.Uint32(h[28:32]),
			GID:         binary.BigEndian.Uint32(h[32:36]),
			Size:        binary.BigEndian.Uint32(h[36:40]),
			Hash:        hash,
			AssumeValid: assumeValid,
			Stage:       stage,
			Name:        string(rawName),
		})
	}

	return idx, nil
}

// Serialize encodes idx back to DirCache v2 bytes.
func Serialize(idx *Index) []byte {
	var buf bytes.Buffer
	buf.WriteString(signature)

	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(idx.Version))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(idx.Entries)))
	buf.Write(hdr[:])

	written := 0
	for _, e := range idx.Entries {
		var fixed [entryHeaderSz]byte
		binary.BigEndian.PutUint32(fixed[0:4], e.CTimeSec)
		binary.BigEndian.PutUint32(fixed[4:8], e.CTimeNano)
		binary.BigEndian.PutUint32(fixed[8:12], e.MTimeSec)
		binary.BigEndian.PutUint32(fixed[12:16], e.MTimeNano)
		binary.BigEndian.PutUint32(fixed[16:20], e.Dev)
		binary.BigEndian.PutUint32(fixed[20:24], e.Ino)

		mode := (e.ModeType << 12) | (e.ModePerm & 0b0000000111111111)
		binary.BigEndian.PutUint16(fixed[26:28], mode)

		binary.BigEndian.PutUint32(fixed[28:32], e.UID)
		binary.BigEndian.PutUint32(fixed[32:36], e.GID)
		binary.BigEndian.PutUint32(fixed[36:40], e.Size)
		copy(fixed[40:60], e.Hash.Bytes())

		nameBytes := []byte(e.Name)
		nameLen := len(nameBytes)
		flagLen := nameLen
		if flagLen >= maxNameInline {
			flagLen = maxNameInline
		}
		var assumeValid uint16
		if e.AssumeValid {
			assumeValid = 0x1 << 15
		}
		flags := assumeValid | (e.Stage & 0b0011000000000000) | uint16(flagLen)
		binary.BigEndian.PutUint16(fixed[60:62], flags)

		buf.Write(fixed[:])
		buf.Write(nameBytes)
		buf.WriteByte(0)

		written += entryHeaderSz + nameLen + 1
		if written%8 != 0 {
			pad := 8 - written%8
			buf.Write(make([]byte, pad))
			written += pad
		}
	}

	return buf.Bytes()
}

// Write serializes idx and persists it to path via a temp-file-plus-rename
// swap, matching the crash-safety convention used for refs and HEAD.
func Write(path string, idx *Index) error {
	data := Serialize(idx)

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-index-*")
	if err != nil {
		return fmt.Errorf("index: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("index: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("index: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("index: renaming into place: %w", err)
	}
	return nil
}
