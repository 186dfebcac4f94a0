package fat12_test

import (
	"testing"
	"time"

	"github.com/csc360-labs/fat12lab/fat12"
	fixtures "github.com/csc360-labs/fat12lab/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildReport(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "TESTDISK")
	mtime := time.Now()

	freeBefore := img.Table.CountFree()

	chain, err := img.Table.AllocateChain(1)
	require.NoError(t, err)
	img.WriteRootEntry(t, 0, fat12.NewFileEntry("A.TXT", chain[0], 0, mtime))
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	report, err := fat12.BuildReport(img.Boot, img.Table, walker)
	require.NoError(t, err)

	assert.Equal(t, "TESTDISK", report.VolumeLabel)
	assert.Equal(t, 1, report.FileCount)
	assert.Equal(t, freeBefore-1, report.FreeClusters)
	assert.Equal(t, int64(report.FreeClusters)*img.Boot.BytesPerCluster(), report.FreeBytes)
}

func TestBuildReportFallsBackToRootVolumeLabelEntry(t *testing.T) {
	img := fixtures.BuildSyntheticImage(t, "1440kb", "MSDOS5.0", "")
	require.Empty(t, img.Boot.VolumeLabel)

	label := fat12.DirectoryEntry{
		Filename:   [8]byte{'N', 'O', ' ', 'N', 'A', 'M', 'E', ' '},
		Extension:  [3]byte{' ', ' ', ' '},
		Attributes: fat12.AttrVolumeLabel,
	}
	img.WriteRootEntry(t, 0, label)
	img.Flush(t)

	walker := fat12.NewWalker(img.Image, img.Boot, img.Table)
	report, err := fat12.BuildReport(img.Boot, img.Table, walker)
	require.NoError(t, err)

	assert.Equal(t, "NO NAME", report.VolumeLabel)
}
