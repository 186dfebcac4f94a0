package fat12_test

import (
	"errors"
	"os"
	"testing"

	ferrors "github.com/csc360-labs/fat12lab/errors"
	"github.com/csc360-labs/fat12lab/fat12"
	fixtures "github.com/csc360-labs/fat12lab/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInserterInsertIntoRoot(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")

	src, err := os.CreateTemp(t.TempDir(), "payload-*.txt")
	require.NoError(t, err)
	content := []byte("payload contents for the inserted file")
	_, err = src.Write(content)
	require.NoError(t, err)
	require.NoError(t, src.Close())

	inserter := fat12.NewInserter(img.Image, img.Boot, img.Table)
	require.NoError(t, inserter.Insert(src.Name(), "", "PAYLOAD.TXT"))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	sections, err := walker.Walk()
	require.NoError(t, err)
	require.Len(t, sections[0].Entries, 1)
	assert.Equal(t, "PAYLOAD.TXT", sections[0].Entries[0].Name)
	assert.EqualValues(t, len(content), sections[0].Entries[0].Entry.FileSize)
}

func TestInserterFailsWhenRootIsFull(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")

	full := fat12.DirectoryEntry{
		Filename:     [8]byte{'F', ' ', ' ', ' ', ' ', ' ', ' ', ' '},
		FirstCluster: 2,
	}
	for i := uint16(0); i < img.Boot.MaxRootEntries; i++ {
		img.WriteRootEntry(t, int(i), full)
	}

	src, err := os.CreateTemp(t.TempDir(), "payload-*.txt")
	require.NoError(t, err)
	require.NoError(t, src.Close())

	inserter := fat12.NewInserter(img.Image, img.Boot, img.Table)
	err = inserter.Insert(src.Name(), "", "NEW.TXT")
	assert.Error(t, err)
}

func TestInserterFailsWhenNameAlreadyExists(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")

	src, err := os.CreateTemp(t.TempDir(), "payload-*.txt")
	require.NoError(t, err)
	require.NoError(t, src.Close())

	inserter := fat12.NewInserter(img.Image, img.Boot, img.Table)
	require.NoError(t, inserter.Insert(src.Name(), "", "DUP.TXT"))

	err = inserter.Insert(src.Name(), "", "DUP.TXT")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ferrors.ErrExists))
}
