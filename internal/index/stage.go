package index

import (
	"fmt"
	"os"
	"syscall"

	"github.com/tea-vcs/tea/internal/objects"
)

// StatTimes returns the ctime and mtime of the file at path, in
// nanoseconds since the epoch, for comparison against a staged Entry's
// cached metadata.
func StatTimes(path string) (ctimeNs, mtimeNs int64, err error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, 0, err
	}
	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return 0, info.ModTime().UnixNano(), nil
	}
	sec, nsec := statCtime(sys)
	return sec*1e9 + nsec, info.ModTime().UnixNano(), nil
}

// EntryFromFile builds a stage-0 Entry for the file at absPath (named
// relName in the index) using its current stat metadata and hash.
func EntryFromFile(absPath, relName string, hash objects.Hash) (Entry, error) {
	info, err := os.Stat(absPath)
	if err != nil {
		return Entry{}, fmt.Errorf("index: stat %s: %w", absPath, err)
	}

	sys, ok := info.Sys().(*syscall.Stat_t)
	if !ok {
		return Entry{}, fmt.Errorf("index: unsupported platform stat for %s", absPath)
	}

	ctimeSec, ctimeNsec := statCtime(sys)

	return Entry{
		CTimeSec:  uint32(ctimeSec),  //nolint:gosec // truncation accepted, matches on-disk field width
		CTimeNano: uint32(ctimeNsec), //nolint:gosec // truncation accepted, matches on-disk field width
		MTimeSec:  uint32(info.ModTime().Unix()),
		MTimeNano: uint32(info.ModTime().Nanosecond()), //nolint:gosec // truncation accepted, matches on-disk field width
		Dev:       uint32(sys.Dev),                     //nolint:gosec // truncation accepted, matches on-disk field width
		Ino:       uint32(sys.Ino),                     //nolint:gosec // truncation accepted, matches on-disk field width
		ModeType:  ModeRegular,
		ModePerm:  0o644,
		UID:       sys.Uid,
		GID:       sys.Gid,
		Size:      uint32(info.Size()), //nolint:gosec // truncation accepted, matches on-disk field width
		Hash:      hash,
		Name:      relName,
	}, nil
}
