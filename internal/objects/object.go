package objects

import "github.com/tea-vcs/tea/internal/kvlm"

// Kind identifies one of the four object variants.
type Kind string

const (
	KindBlob   Kind = "blob"
	KindTree   Kind = "tree"
	KindCommit Kind = "commit"
	KindTag    Kind = "tag"
)

// Object is the sum type {Blob, Tree, Commit, Tag}, dispatched on Kind.
type Object interface {
	Kind() Kind
	Serialize() []byte
}

// Blob is a raw byte payload with no internal structure.
type Blob struct {
	Data []byte
}

func (b *Blob) Kind() Kind        { return KindBlob }
func (b *Blob) Serialize() []byte { return b.Data }

// Commit is a KVLM object recording a tree snapshot, ancestry, and metadata.
type Commit struct {
	KVLM *kvlm.Message
}

func (c *Commit) Kind() Kind        { return KindCommit }
func (c *Commit) Serialize() []byte { return kvlm.Serialize(c.KVLM) }

// Tree returns the commit's "tree" field.
func (c *Commit) Tree() (Hash, error) {
	v, ok := c.KVLM.Get("tree")
	if !ok {
		return "", errMissingField("tree")
	}
	return NewHash(v)
}

// Parents returns the commit's "parent" field values, in order. A root
// commit has none.
func (c *Commit) Parents() ([]Hash, error) {
	vals := c.KVLM.All("parent")
	out := make([]Hash, 0, len(vals))
	for _, v := range vals {
		h, err := NewHash(v)
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Tag is a KVLM object naming a target object, its kind, and a tagger.
type Tag struct {
	KVLM *kvlm.Message
}

func (t *Tag) Kind() Kind        { return KindTag }
func (t *Tag) Serialize() []byte { return kvlm.Serialize(t.KVLM) }

// Object returns the tag's "object" field.
func (t *Tag) Object() (Hash, error) {
	v, ok := t.KVLM.Get("object")
	if !ok {
		return "", errMissingField("object")
	}
	return NewHash(v)
}

// TargetKind returns the tag's "type" field.
func (t *Tag) TargetKind() (Kind, error) {
	v, ok := t.KVLM.Get("type")
	if !ok {
		return "", errMissingField("type")
	}
	return Kind(v), nil
}

type missingFieldError string

func (e missingFieldError) Error() string { return "kvlm: missing field " + string(e) }

func errMissingField(field string) error { return missingFieldError(field) }
