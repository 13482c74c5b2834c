package objects

import (
	"bytes"
	"testing"
)

func TestStoreWriteReadRoundTrip(t *testing.T) {
	store := &Store{Dir: t.TempDir()}

	blob := &Blob{Data: []byte("hello world\n")}
	hash, err := store.Write(blob)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	obj, err := store.Read(hash)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	got, ok := obj.(*Blob)
	if !ok {
		t.Fatalf("Read returned %T, want *Blob", obj)
	}
	if !bytes.Equal(got.Data, blob.Data) {
		t.Errorf("Data = %q, want %q", got.Data, blob.Data)
	}
}

func TestStoreWriteIsIdempotent(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	blob := &Blob{Data: []byte("same content")}

	h1, err := store.Write(blob)
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	h2, err := store.Write(blob)
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	if h1 != h2 {
		t.Errorf("hashes differ across identical writes: %s != %s", h1, h2)
	}

	obj, err := store.Read(h1)
	if err != nil {
		t.Fatalf("Read after duplicate write: %v", err)
	}
	if got := obj.(*Blob).Data; !bytes.Equal(got, blob.Data) {
		t.Errorf("Data after duplicate write = %q", got)
	}
}

func TestHashStreamMatchesWrite(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	data := []byte("streamed content\n")

	written, err := store.Write(&Blob{Data: data})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	store.Dir = ""
	streamed, err := store.HashStream(bytes.NewReader(data), KindBlob)
	if err != nil {
		t.Fatalf("HashStream: %v", err)
	}
	if streamed != written {
		t.Errorf("HashStream hash %s != Write hash %s for identical content", streamed, written)
	}
}

func TestReadMissingObjectFails(t *testing.T) {
	store := &Store{Dir: t.TempDir()}
	missing, _ := HashFromBytes(make([]byte, 20))
	if _, err := store.Read(missing); err == nil {
		t.Error("expected an error reading a nonexistent object")
	}
}
