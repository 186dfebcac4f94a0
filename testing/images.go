// Package testing provides synthetic FAT12 image builders for the fat12 test
// suite: build a valid in-memory volume once, then
// let each test mutate only the piece it's exercising.
package testing

import (
	"testing"

	"github.com/csc360-labs/fat12lab/fat12"
	"github.com/stretchr/testify/require"
)

// SyntheticImage bundles a freshly formatted in-memory volume with its
// already-decoded boot sector and FAT, ready for a test to populate with
// directory entries and file data.
type SyntheticImage struct {
	Image *fat12.Image
	Boot  *fat12.BootSector
	Table *fat12.FAT
	Raw   []byte
}

// BuildSyntheticImage formats a blank in-memory volume using one of the
// package's predefined floppy geometries (e.g. "1440kb"), writes a decodable
// boot sector and an all-free FAT, and returns the pieces wired together the
// way OpenImage/ReadBootSector/ReadFAT would have handed them to real code.
func BuildSyntheticImage(t *testing.T, geometrySlug, osName, volumeLabel string) SyntheticImage {
	geometry, err := fat12.PredefinedGeometry(geometrySlug)
	require.NoError(t, err, "unknown predefined geometry %q", geometrySlug)

	bs := geometry.NewBootSector(osName, volumeLabel)
	raw := make([]byte, bs.TotalBytes())
	copy(raw, bs.Encode())

	img := fat12.NewMemoryImage(raw)

	decoded, err := fat12.ReadBootSector(img)
	require.NoError(t, err, "synthetic boot sector failed to decode")

	table, err := fat12.ReadFAT(img, decoded)
	require.NoError(t, err, "synthetic FAT failed to decode")

	return SyntheticImage{Image: img, Boot: decoded, Table: table, Raw: raw}
}

// Flush writes the (possibly mutated) FAT table back to both copies on the
// synthetic volume, mirroring the flush step real callers perform after
// inserting or deleting files.
func (s SyntheticImage) Flush(t *testing.T) {
	require.NoError(t, s.Table.WriteBoth(s.Image, s.Boot))
}

// WriteRootEntry writes a directory entry directly into root slot index,
// bypassing Inserter's free-slot search -- useful for seeding fixtures that
// a walker or extractor test then reads back.
func (s SyntheticImage) WriteRootEntry(t *testing.T, index int, entry fat12.DirectoryEntry) {
	encoded := entry.Encode()
	offset := s.Boot.RootDirOffset() + int64(index)*fat12.DirentSize
	require.NoError(t, s.Image.WriteAt(offset, encoded[:]))
}

// WriteClusterEntry writes a directory entry into slot index of the given
// cluster, used to seed subdirectory fixtures.
func (s SyntheticImage) WriteClusterEntry(t *testing.T, cluster uint16, index int, entry fat12.DirectoryEntry) {
	encoded := entry.Encode()
	offset := s.Boot.ClusterOffset(cluster) + int64(index)*fat12.DirentSize
	require.NoError(t, s.Image.WriteAt(offset, encoded[:]))
}

// WriteClusterData writes raw bytes at the start of the given cluster,
// zero-padding is the caller's responsibility if it matters to the test.
func (s SyntheticImage) WriteClusterData(t *testing.T, cluster uint16, data []byte) {
	require.NoError(t, s.Image.WriteAt(s.Boot.ClusterOffset(cluster), data))
}
