package fat12_test

import (
	"testing"
	"time"

	"github.com/csc360-labs/fat12lab/fat12"
	fixtures "github.com/csc360-labs/fat12lab/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWalkerFlatRootOnly(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")
	mtime := time.Date(2024, time.May, 1, 12, 0, 0, 0, time.Local)

	chain, err := img.Table.AllocateChain(1)
	require.NoError(t, err)
	img.WriteClusterData(t, chain[0], []byte("hello world"))
	img.WriteRootEntry(t, 0, fat12.NewFileEntry("A.TXT", chain[0], 11, mtime))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	sections, err := walker.Walk()
	require.NoError(t, err)

	require.Len(t, sections, 1)
	require.Len(t, sections[0].Entries, 1)
	assert.Equal(t, "A.TXT", sections[0].Entries[0].Name)
	assert.False(t, sections[0].Entries[0].IsDir)
}

func TestWalkerSkipsDeletedEntries(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")
	mtime := time.Now()

	deleted := fat12.NewFileEntry("GONE.TXT", 5, 0, mtime)
	deletedBytes := deleted.Encode()
	deletedBytes[0] = 0xE5
	img.WriteRootEntry(t, 0, fat12.DecodeDirectoryEntry(deletedBytes[:]))

	chain, err := img.Table.AllocateChain(1)
	require.NoError(t, err)
	img.WriteRootEntry(t, 1, fat12.NewFileEntry("KEEP.TXT", chain[0], 0, mtime))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	sections, err := walker.Walk()
	require.NoError(t, err)

	require.Len(t, sections[0].Entries, 1)
	assert.Equal(t, "KEEP.TXT", sections[0].Entries[0].Name)
}

func TestWalkerDescendsIntoSubdirectories(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")
	mtime := time.Now()

	chain, err := img.Table.AllocateChain(2) // one for the subdir, one for its file
	require.NoError(t, err)
	subdirCluster, fileCluster := chain[0], chain[1]

	dirEntry := fat12.DirectoryEntry{
		Filename:     [8]byte{'D', 'O', 'C', 'S', ' ', ' ', ' ', ' '},
		Attributes:   fat12.AttrDirectory,
		FirstCluster: subdirCluster,
	}
	img.WriteRootEntry(t, 0, dirEntry)
	img.WriteClusterEntry(t, subdirCluster, 0, fat12.NewFileEntry("NOTES.TXT", fileCluster, 0, mtime))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	sections, err := walker.Walk()
	require.NoError(t, err)

	require.Len(t, sections, 2)
	assert.Equal(t, "", sections[0].Header)
	assert.Equal(t, "/DOCS", sections[1].Header)
	require.Len(t, sections[1].Entries, 1)
	assert.Equal(t, "NOTES.TXT", sections[1].Entries[0].Name)
}

func TestWalkerCountFiles(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")
	mtime := time.Now()

	chain, err := img.Table.AllocateChain(3)
	require.NoError(t, err)
	img.WriteRootEntry(t, 0, fat12.NewFileEntry("A.TXT", chain[0], 0, mtime))
	img.WriteRootEntry(t, 1, fat12.NewFileEntry("B.TXT", chain[1], 0, mtime))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	count, err := walker.CountFiles()
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
