package book

import (
	"testing"

	"github.com/matryer/is"

	"github.com/desdemona-ai/iago/ttable"
)

func TestSaveAndLoad(t *testing.T) {
	is := is.New(t)
	dir := t.TempDir()

	tt := ttable.New(10)
	tt.Store(101, 5)
	tt.Store(102, -3)
	tt.Store(103, 0)

	b, err := Open(dir)
	is.NoErr(err)
	is.NoErr(b.Save(tt))
	is.NoErr(b.Close())

	// Reopen to make sure the snapshot actually hit disk.
	b, err = Open(dir)
	is.NoErr(err)
	defer b.Close()

	restored := ttable.New(10)
	n, err := b.Load(restored)
	is.NoErr(err)
	is.Equal(n, 3)
	is.Equal(restored.Len(), 3)
	for key, want := range map[uint64]int16{101: 5, 102: -3, 103: 0} {
		score, ok := restored.Lookup(key)
		is.True(ok)
		is.Equal(score, want)
	}
}

func TestLoadEmptyBook(t *testing.T) {
	is := is.New(t)
	b, err := Open(t.TempDir())
	is.NoErr(err)
	defer b.Close()

	tt := ttable.New(10)
	n, err := b.Load(tt)
	is.NoErr(err)
	is.Equal(n, 0)
	is.Equal(tt.Len(), 0)
}

func TestSaveReplacesSnapshot(t *testing.T) {
	is := is.New(t)
	b, err := Open(t.TempDir())
	is.NoErr(err)
	defer b.Close()

	tt := ttable.New(10)
	tt.Store(1, 1)
	is.NoErr(b.Save(tt))
	tt.Store(2, 2)
	is.NoErr(b.Save(tt))

	restored := ttable.New(10)
	n, err := b.Load(restored)
	is.NoErr(err)
	is.Equal(n, 2)
}
