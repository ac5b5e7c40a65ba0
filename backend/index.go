package backend

import (
	"errors"
	"os"

	"github.com/Nivl/git-lite/ginternals"
	"github.com/spf13/afero"
	"golang.org/x/xerrors"
)

// IndexTx represents an index loaded in memory. The changes made to
// the index are persisted when the transaction is closed, unless
// Discard() was called
//
//	tx, err := b.LoadIndex()
//	if err != nil {
//		return err
//	}
//	defer errutil.Close(tx, &err)
type IndexTx struct {
	*ginternals.Index

	b         *Backend
	discarded bool
}

// ReadIndex returns the index persisted on disk.
// An empty index is returned if the file doesn't exist
func (b *Backend) ReadIndex() (*ginternals.Index, error) {
	p := ginternals.IndexPath(b.config)
	data, err := afero.ReadFile(b.fs, p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ginternals.NewIndex(), nil
		}
		return nil, xerrors.Errorf("could not read the index: %w", err)
	}
	idx, err := ginternals.DecodeIndex(data)
	if err != nil {
		return nil, xerrors.Errorf("could not parse %s: %w", p, err)
	}
	return idx, nil
}

// LoadIndex loads the index and returns a transaction that will
// persist it once closed
func (b *Backend) LoadIndex() (*IndexTx, error) {
	idx, err := b.ReadIndex()
	if err != nil {
		return nil, err
	}
	return &IndexTx{
		Index: idx,
		b:     b,
	}, nil
}

// Discard drops the changes made during the transaction
func (tx *IndexTx) Discard() {
	tx.discarded = true
}

// Close persists the index, unless the transaction got discarded.
// The index is written to a lock file that is then renamed to
// prevent partial writes
func (tx *IndexTx) Close() error {
	if tx.discarded {
		return nil
	}
	tx.discarded = true
	return tx.b.WriteIndex(tx.Index)
}

// WriteIndex persists the given index on disk
func (b *Backend) WriteIndex(idx *ginternals.Index) error {
	p := ginternals.IndexPath(b.config)
	lock := p + ".lock"
	if err := afero.WriteFile(b.fs, lock, idx.Encode(), 0o644); err != nil {
		return xerrors.Errorf("could not write the index: %w", err)
	}
	if err := b.fs.Rename(lock, p); err != nil {
		return xerrors.Errorf("could not replace the index: %w", err)
	}
	return nil
}
