package objects

import (
	"bytes"
	"compress/zlib"
	"crypto/sha1" //nolint:gosec // the object format is defined around SHA-1
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tea-vcs/tea/internal/kvlm"
)

// maxDecompressedSize caps any single decompressed object to guard against
// zip-bomb style corruption.
const maxDecompressedSize = 256 * 1024 * 1024

// Store is the content-addressed object database rooted at a single
// "objects" directory (".tea/objects"). A zero-value Store with an empty
// Dir operates purely in memory: Write still computes a hash but performs
// no I/O, matching `hash-object` without `-w`.
type Store struct {
	Dir string
}

// frame returns the bytes that are actually hashed: "<kind> SP <len> NUL <payload>".
func frame(kind Kind, payload []byte) []byte {
	header := fmt.Sprintf("%s %d\x00", kind, len(payload))
	buf := make([]byte, 0, len(header)+len(payload))
	buf = append(buf, header...)
	buf = append(buf, payload...)
	return buf
}

func hashFrame(framed []byte) Hash {
	sum := sha1.Sum(framed) //nolint:gosec // object identity is SHA-1 by spec
	h, _ := HashFromBytes(sum[:])
	return h
}

func (s *Store) path(hash Hash) string {
	str := string(hash)
	return filepath.Join(s.Dir, str[:2], str[2:])
}

// Write serializes obj, frames and hashes it, and — if the Store has a
// backing directory — writes the zlib-compressed frame at the sharded
// path. An existing object at that path is left untouched (writes are
// idempotent).
func (s *Store) Write(obj Object) (Hash, error) {
	framed := frame(obj.Kind(), obj.Serialize())
	hash := hashFrame(framed)

	if s.Dir == "" {
		return hash, nil
	}
	if err := s.writeFramed(hash, framed); err != nil {
		return "", err
	}
	return hash, nil
}

// HashStream computes the hash of a raw payload read from r, framed as
// kind, and writes it exactly like Write if the Store has a backing
// directory.
func (s *Store) HashStream(r io.Reader, kind Kind) (Hash, error) {
	payload, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("objects: reading stream: %w", err)
	}
	framed := frame(kind, payload)
	hash := hashFrame(framed)

	if s.Dir == "" {
		return hash, nil
	}
	if err := s.writeFramed(hash, framed); err != nil {
		return "", err
	}
	return hash, nil
}

func (s *Store) writeFramed(hash Hash, framed []byte) error {
	path := s.path(hash)
	if _, err := os.Stat(path); err == nil {
		return nil // idempotent: object already present
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("objects: creating shard dir: %w", err)
	}

	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(framed); err != nil {
		_ = zw.Close()
		return fmt.Errorf("objects: compressing: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("objects: compressing: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-obj-*")
	if err != nil {
		return fmt.Errorf("objects: creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(compressed.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("objects: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("objects: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("objects: renaming into place: %w", err)
	}
	return nil
}

// Read loads and decodes the object named by hash. If no loose object
// exists at that path it returns a nil Object and an error for which
// errors.Is(err, os.ErrNotExist) holds.
func (s *Store) Read(hash Hash) (Object, error) {
	kind, payload, err := s.ReadRaw(hash)
	if err != nil {
		return nil, err
	}
	return decode(kind, payload)
}

// ReadRaw returns the declared kind and payload of the object named by
// hash, without dispatching to a kind-specific decoder.
func (s *Store) ReadRaw(hash Hash) (Kind, []byte, error) {
	path := s.path(hash)

	//nolint:gosec // G304: path is derived from a validated Hash under the repo's own objects dir
	f, err := os.Open(path)
	if err != nil {
		return "", nil, err
	}
	defer f.Close() //nolint:errcheck // read-only handle

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("objects: invalid compressed data for %s: %w", hash, err)
	}
	defer zr.Close() //nolint:errcheck // read-only handle

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, io.LimitReader(zr, maxDecompressedSize+1)); err != nil {
		return "", nil, fmt.Errorf("objects: decompressing %s: %w", hash, err)
	}
	if raw.Len() > maxDecompressedSize {
		return "", nil, fmt.Errorf("objects: %s exceeds maximum object size", hash)
	}

	data := raw.Bytes()
	sp := bytes.IndexByte(data, ' ')
	nul := bytes.IndexByte(data, 0)
	if sp < 0 || nul < 0 || nul < sp {
		return "", nil, fmt.Errorf("%w: %s: missing header terminators", ErrMalformed, hash)
	}

	kind := Kind(data[:sp])
	declaredLen, err := parseDecimal(data[sp+1 : nul])
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: bad length field: %v", ErrMalformed, hash, err)
	}
	payload := data[nul+1:]
	if declaredLen != len(payload) {
		return "", nil, fmt.Errorf("%w: %s: declared length %d, got %d", ErrMalformed, hash, declaredLen, len(payload))
	}

	return kind, payload, nil
}

func decode(kind Kind, payload []byte) (Object, error) {
	switch kind {
	case KindBlob:
		return &Blob{Data: payload}, nil
	case KindTree:
		return ParseTree(payload)
	case KindCommit:
		m, err := kvlm.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: commit: %v", ErrMalformed, err)
		}
		return &Commit{KVLM: m}, nil
	case KindTag:
		m, err := kvlm.Parse(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: tag: %v", ErrMalformed, err)
		}
		return &Tag{KVLM: m}, nil
	default:
		return nil, fmt.Errorf("%w: unknown object kind %q", ErrMalformed, kind)
	}
}

func parseDecimal(b []byte) (int, error) {
	n := 0
	if len(b) == 0 {
		return 0, fmt.Errorf("empty length field")
	}
	for _, c := range b {
		if c < '0' || c > '9' {
			return 0, fmt.Errorf("non-digit in length field: %q", b)
		}
		n = n*10 + int(c-'0')
	}
	return n, nil
}

// ErrMalformed wraps every object-decoding failure (bad length, unknown
// kind, corrupted frame).
var ErrMalformed = fmt.Errorf("malformed object")
