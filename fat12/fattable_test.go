package fat12_test

import (
	"bytes"
	"testing"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBlankFAT(t *testing.T, entries uint16) *fat12.FAT {
	geometry, err := fat12.PredefinedGeometry("1440kb")
	require.NoError(t, err)
	bs := geometry.NewBootSector("MSDOS5.0", "")

	raw := make([]byte, int64(bs.SectorsPerFAT)*int64(bs.BytesPerSector))
	table, err := fat12.ReadFAT(bytes.NewReader(raw), bs)
	require.NoError(t, err)
	return table
}

func TestFATGetSetEntryEvenOdd(t *testing.T) {
	table := newBlankFAT(t, 0)

	table.SetEntry(2, 0x123)
	table.SetEntry(3, 0x456)
	assert.EqualValues(t, 0x123, table.GetEntry(2))
	assert.EqualValues(t, 0x456, table.GetEntry(3))

	// Setting the next even entry must not disturb the odd entry before it.
	table.SetEntry(4, 0x789)
	assert.EqualValues(t, 0x456, table.GetEntry(3))
	assert.EqualValues(t, 0x789, table.GetEntry(4))
}

func TestFATFindFreeAndAllocateChain(t *testing.T) {
	table := newBlankFAT(t, 0)

	chain, err := table.AllocateChain(3)
	require.NoError(t, err)
	require.Len(t, chain, 3)

	for i := 0; i < len(chain)-1; i++ {
		assert.Equal(t, chain[i+1], table.GetEntry(chain[i]))
	}
	assert.True(t, fat12.IsEOC(table.GetEntry(chain[len(chain)-1])))
}

func TestFATCountFreeDecreasesAfterAllocation(t *testing.T) {
	table := newBlankFAT(t, 0)
	before := table.CountFree()

	_, err := table.AllocateChain(5)
	require.NoError(t, err)

	assert.Equal(t, before-5, table.CountFree())
}

func TestFATIsFreeIsEOC(t *testing.T) {
	assert.True(t, fat12.IsFree(0x000))
	assert.False(t, fat12.IsFree(0x001))
	assert.True(t, fat12.IsEOC(0xFF8))
	assert.True(t, fat12.IsEOC(0xFFF))
	assert.False(t, fat12.IsEOC(0xFF7))
}

func TestFATWriteBothWritesIdenticalCopies(t *testing.T) {
	geometry, err := fat12.PredefinedGeometry("1440kb")
	require.NoError(t, err)
	bs := geometry.NewBootSector("MSDOS5.0", "")

	disk := make([]byte, bs.TotalBytes())
	image := fat12.NewMemoryImage(disk)

	table, err := fat12.ReadFAT(image, bs)
	require.NoError(t, err)

	_, err = table.AllocateChain(2)
	require.NoError(t, err)
	require.NoError(t, table.WriteBoth(image, bs))

	copy1, err := fat12.ReadFAT(image, bs)
	require.NoError(t, err)

	image.Seek(bs.FAT2Offset(), 0)
	copy2 := make([]byte, int64(bs.SectorsPerFAT)*int64(bs.BytesPerSector))
	image.Read(copy2)

	assert.True(t, copy1.Equal(table))
	assert.True(t, bytes.Equal(table.Bytes(), copy2))
}
