package backend

import (
	"errors"
	"os"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/Nivl/git-lite/ginternals/object"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// Object returns the object that has given oid
// ginternals.ErrObjectNotFound is returned if the object doesn't exist
// This method can be called concurrently
func (b *Backend) Object(oid ginternals.Oid) (*object.Object, error) {
	b.objectMu.Lock(oid)
	defer b.objectMu.Unlock(oid)

	return b.objectUnsafe(oid)
}

// ObjectOfType returns the object that has given oid, and makes sure
// it has the expected type.
// object.ErrTypeMismatch is returned if the type doesn't match
// This method can be called concurrently
func (b *Backend) ObjectOfType(oid ginternals.Oid, typ object.Type) (*object.Object, error) {
	o, err := b.Object(oid)
	if err != nil {
		return nil, err
	}
	if o.Type() != typ {
		return nil, xerrors.Errorf("object %s is a %s, expected a %s: %w", oid, o.Type(), typ, object.ErrTypeMismatch)
	}
	return o, nil
}

func (b *Backend) objectUnsafe(oid ginternals.Oid) (*object.Object, error) {
	if o, found := b.cache.Get(oid); found {
		return o, nil
	}

	data, err := b.rawObjectUnsafe(oid)
	if err != nil {
		return nil, err
	}
	o, err := object.Decode(data)
	if err != nil {
		return nil, xerrors.Errorf("could not decode object %s: %w", oid, err)
	}
	b.cache.Add(o)
	return o, nil
}

// rawObjectUnsafe returns the stored representation of an object
func (b *Backend) rawObjectUnsafe(oid ginternals.Oid) ([]byte, error) {
	p := ginternals.LooseObjectPath(b.config, oid.String())
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, xerrors.Errorf("object %s: %w", oid, ginternals.ErrObjectNotFound)
		}
		return nil, xerrors.Errorf("could not read object %s at path %s: %w", oid, p, err)
	}
	return data, nil
}

// HasObject returns whether an object exists in the odb
// This method can be called concurrently
func (b *Backend) HasObject(oid ginternals.Oid) (bool, error) {
	b.objectMu.Lock(oid)
	defer b.objectMu.Unlock(oid)

	return b.hasObjectUnsafe(oid)
}

func (b *Backend) hasObjectUnsafe(oid ginternals.Oid) (bool, error) {
	if _, found := b.cache.Get(oid); found {
		return true, nil
	}
	p := ginternals.LooseObjectPath(b.config, oid.String())
	_, err := b.fs.Stat(p)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, xerrors.Errorf("could not check if object %s exists: %w", oid, err)
}

// WriteObject adds an object to the odb. Writing an object that
// already exists is a no-op.
// This method can be called concurrently
func (b *Backend) WriteObject(o *object.Object) (ginternals.Oid, error) {
	oid := o.ID()
	b.objectMu.Lock(oid)
	defer b.objectMu.Unlock(oid)

	if err := b.writeRawUnsafe(oid, o.Encode()); err != nil {
		return ginternals.NullOid, err
	}
	b.cache.Add(o)
	return oid, nil
}

// CopyObject copies an object of src into the odb without decoding
// it. Copying an object that already exists is a no-op.
// This method can be called concurrently
func (b *Backend) CopyObject(oid ginternals.Oid, src *Backend) error {
	if src == b {
		return nil
	}
	b.objectMu.Lock(oid)
	defer b.objectMu.Unlock(oid)

	found, err := b.hasObjectUnsafe(oid)
	if err != nil {
		return err
	}
	if found {
		return nil
	}

	src.objectMu.Lock(oid)
	data, err := src.rawObjectUnsafe(oid)
	src.objectMu.Unlock(oid)
	if err != nil {
		return err
	}
	return b.writeRawUnsafe(oid, data)
}

// writeRawUnsafe persists the stored representation of an object
func (b *Backend) writeRawUnsafe(oid ginternals.Oid, data []byte) error {
	// Objects are immutable so there's no need to write them twice
	p := ginternals.LooseObjectPath(b.config, oid.String())
	if _, err := b.fs.Stat(p); err == nil {
		return nil
	}

	dest := ginternals.ObjectsPath(b.config)
	if err := b.fs.MkdirAll(dest, 0o755); err != nil {
		return xerrors.Errorf("could not create the objects directory: %w", err)
	}
	if err := afero.WriteFile(b.fs, p, data, 0o444); err != nil {
		return xerrors.Errorf("could not persist object %s at path %s: %w", oid, p, err)
	}
	return nil
}
