package fat12_test

import (
	"testing"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedGeometryKnownSlugs(t *testing.T) {
	for _, slug := range []string{"1440kb", "720kb", "1200kb", "360kb"} {
		g, err := fat12.PredefinedGeometry(slug)
		require.NoError(t, err)
		assert.NotZero(t, g.TotalSectors)
		assert.NotZero(t, g.BytesPerSector)
	}
}

func TestPredefinedGeometryUnknownSlug(t *testing.T) {
	_, err := fat12.PredefinedGeometry("does-not-exist")
	assert.Error(t, err)
}

func TestGeometryTotalBytes(t *testing.T) {
	g, err := fat12.PredefinedGeometry("1440kb")
	require.NoError(t, err)
	assert.EqualValues(t, 1474560, g.TotalBytes())
}

func TestBootSectorGeometryMatchesKnownFormFactor(t *testing.T) {
	g, err := fat12.PredefinedGeometry("1440kb")
	require.NoError(t, err)

	bs := g.NewBootSector("FAT12LAB", "TESTVOL")
	matched, ok := bs.Geometry()
	require.True(t, ok)
	assert.Equal(t, g.Slug, matched.Slug)
}

func TestBootSectorGeometryNoMatch(t *testing.T) {
	bs := &fat12.BootSector{BytesPerSector: 999, SectorsPerCluster: 7, TotalSectors16: 1}
	_, ok := bs.Geometry()
	assert.False(t, ok)
}
