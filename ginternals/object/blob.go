package object

import "github.com/Nivl/git-lite/ginternals"

// Blob represents a blob object: the content of a file
type Blob struct {
	rawObject *Object
}

// NewBlob returns a new Blob object from an Object
func NewBlob(o *Object) *Blob {
	return &Blob{
		rawObject: o,
	}
}

// NewBlobFromBytes returns a new Blob holding the given content
func NewBlobFromBytes(content []byte) *Blob {
	return NewBlob(New(TypeBlob, content))
}

// ID returns the blob's ID
func (b *Blob) ID() ginternals.Oid {
	return b.rawObject.id
}

// Bytes returns the blob's contents
func (b *Blob) Bytes() []byte {
	return b.rawObject.content
}

// Size returns the size of the blob
func (b *Blob) Size() int {
	return len(b.rawObject.content)
}

// ToObject returns the Blob's underlying Object
func (b *Blob) ToObject() *Object {
	return b.rawObject
}
