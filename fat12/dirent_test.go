package fat12_test

import (
	"testing"
	"time"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/stretchr/testify/assert"
)

func TestDirectoryEntryEncodeDecodeRoundTrip(t *testing.T) {
	mtime := time.Date(2022, time.June, 1, 10, 30, 0, 0, time.UTC)
	entry := fat12.NewFileEntry("README.TXT", 5, 1234, mtime)

	encoded := entry.Encode()
	decoded := fat12.DecodeDirectoryEntry(encoded[:])

	assert.Equal(t, "README.TXT", decoded.CanonicalName())
	assert.EqualValues(t, 5, decoded.FirstCluster)
	assert.EqualValues(t, 1234, decoded.FileSize)
	assert.True(t, decoded.IsRegularFile())
	assert.False(t, decoded.IsDirectory())
}

func TestDirectoryEntryClassification(t *testing.T) {
	var neverUsed fat12.DirectoryEntry
	assert.True(t, neverUsed.IsNeverUsed())
	assert.True(t, neverUsed.IsFreeSlot())

	deleted := fat12.DirectoryEntry{Filename: [8]byte{0xE5, 'A', 'B', ' ', ' ', ' ', ' ', ' '}}
	assert.True(t, deleted.IsDeleted())
	assert.True(t, deleted.IsFreeSlot())

	dot := fat12.DirectoryEntry{Filename: [8]byte{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' '}}
	assert.True(t, dot.IsSelfOrParent())

	dotdot := fat12.DirectoryEntry{Filename: [8]byte{'.', '.', ' ', ' ', ' ', ' ', ' ', ' '}}
	assert.True(t, dotdot.IsSelfOrParent())
}

func TestDirectoryEntryVolumeLabelLikeIsNeverAFile(t *testing.T) {
	entry := fat12.DirectoryEntry{
		Filename:     [8]byte{'V', 'O', 'L', ' ', ' ', ' ', ' ', ' '},
		Attributes:   fat12.AttrHiddenLike,
		FirstCluster: 5,
	}
	assert.True(t, entry.IsVolumeLabelLike())
	assert.False(t, entry.IsRegularFile())
}

func TestDirectoryEntryReservedFirstClusterIsNeverAFile(t *testing.T) {
	entry := fat12.DirectoryEntry{
		Filename:     [8]byte{'A', ' ', ' ', ' ', ' ', ' ', ' ', ' '},
		FirstCluster: 0,
	}
	assert.False(t, entry.IsRegularFile())
}

func TestSplitFilename83PadsAndTruncates(t *testing.T) {
	name, ext := fat12.SplitFilename83("VERYLONGNAME.TXT")
	assert.Equal(t, "VERYLONG", string(name[:]))
	assert.Equal(t, "TXT", string(ext[:]))

	name, ext = fat12.SplitFilename83("A")
	assert.Equal(t, "A       ", string(name[:]))
	assert.Equal(t, "   ", string(ext[:]))
}

func TestDirectoryEntryTimestamps(t *testing.T) {
	mtime := time.Date(2020, time.January, 2, 3, 4, 4, 0, time.Local)
	entry := fat12.NewFileEntry("A.TXT", 2, 10, mtime)

	assert.Equal(t, mtime, entry.LastModifiedAt())
	assert.Equal(t, mtime, entry.CreatedAt())
}
