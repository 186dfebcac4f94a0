package fat12

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	ferrors "github.com/csc360-labs/fat12lab/errors"
)

// BootSectorSize is the number of structurally significant bytes read from
// sector 0: enough to cover the BPB, the volume label, and the filesystem
// type string, but not the boot code or the 0x55AA signature.
const BootSectorSize = 62

// BytesPerSectorDefault and friends are the standard 1.44MB floppy layout
// values. Fresh boot sectors are built from the predefined geometry table, not
// from these; DataAreaFirstSector is used by TotalFATEntries.
const (
	BytesPerSectorDefault    = 512
	SectorsPerClusterDefault = 1
	ReservedSectorsDefault   = 1
	FATCopiesDefault         = 2
	DataAreaFirstSector      = 33
)

// BootSector is the decoded form of the fields in the fixed boot-sector
// layout. Every multibyte field is little-endian on disk;
// decoding never reinterprets raw memory, each field is read explicitly so
// correctness doesn't depend on compiler/platform packing.
type BootSector struct {
	OSName              string
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	FATCopies           uint8
	MaxRootEntries      uint16
	TotalSectors16      uint16
	SectorsPerFAT       uint16
	VolumeLabel         string
}

// ReadBootSector decodes the boot sector from the start of disk. It fails
// with ErrIOFailed if fewer than BootSectorSize bytes can be read; only those
// bytes are read, so a disk shorter than a full sector is not rejected.
func ReadBootSector(disk io.ReadSeeker) (*BootSector, error) {
	if _, err := disk.Seek(0, io.SeekStart); err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}

	raw := make([]byte, BootSectorSize)
	if _, err := io.ReadFull(disk, raw); err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}

	bs := &BootSector{
		OSName:              strings.TrimRight(string(raw[3:11]), " "),
		BytesPerSector:      le16(raw, 11),
		SectorsPerCluster:   raw[13],
		ReservedSectorCount: le16(raw, 14),
		FATCopies:           raw[16],
		MaxRootEntries:      le16(raw, 17),
		TotalSectors16:      le16(raw, 19),
		SectorsPerFAT:       le16(raw, 22),
		VolumeLabel:         strings.TrimRight(string(raw[43:54]), " "),
	}

	if bs.BytesPerSector == 0 || bs.SectorsPerFAT == 0 || bs.FATCopies == 0 {
		return nil, ferrors.ErrFormatInvalid.WithMessage(
			fmt.Sprintf("boot sector fields are not FAT12-shaped: %+v", bs))
	}
	return bs, nil
}

// le16 reads a little-endian uint16 at the given byte offset.
func le16(buf []byte, offset int) uint16 {
	return uint16(buf[offset]) | uint16(buf[offset+1])<<8
}

// Encode serializes the boot sector back into its 62-byte on-disk form, the
// inverse of ReadBootSector except that the OS name and volume label are
// written upper-cased. Bytes outside the fields this driver tracks
// (boot code, the 0x55AA signature) are left zeroed; callers writing a full
// sector pad the remainder themselves.
func (bs *BootSector) Encode() []byte {
	raw := make([]byte, BootSectorSize)

	copy(raw[3:11], padRight(bs.OSName, 8))
	putLE16Raw(raw, 11, bs.BytesPerSector)
	raw[13] = bs.SectorsPerCluster
	putLE16Raw(raw, 14, bs.ReservedSectorCount)
	raw[16] = bs.FATCopies
	putLE16Raw(raw, 17, bs.MaxRootEntries)
	putLE16Raw(raw, 19, bs.TotalSectors16)
	putLE16Raw(raw, 22, bs.SectorsPerFAT)
	copy(raw[43:54], padRight(bs.VolumeLabel, 11))

	return raw
}

func putLE16Raw(buf []byte, offset int, v uint16) {
	buf[offset] = byte(v)
	buf[offset+1] = byte(v >> 8)
}

func padRight(s string, n int) []byte {
	out := make([]byte, n)
	for i := range out {
		out[i] = ' '
	}
	copy(out, strings.ToUpper(s))
	return out
}

// FAT1Offset is the byte offset of the first FAT copy: one reserved sector in.
func (bs *BootSector) FAT1Offset() int64 {
	return int64(bs.ReservedSectorCount) * int64(bs.BytesPerSector)
}

// FAT2Offset is the byte offset of the second FAT copy.
func (bs *BootSector) FAT2Offset() int64 {
	return bs.FAT1Offset() + int64(bs.SectorsPerFAT)*int64(bs.BytesPerSector)
}

// RootDirOffset is the byte offset of the root directory region.
func (bs *BootSector) RootDirOffset() int64 {
	return bs.FAT1Offset() + int64(bs.FATCopies)*int64(bs.SectorsPerFAT)*int64(bs.BytesPerSector)
}

// RootDirSectors is the number of sectors the root directory occupies.
func (bs *BootSector) RootDirSectors() int64 {
	entriesPerSector := int64(bs.BytesPerSector) / DirentSize
	return (int64(bs.MaxRootEntries) + entriesPerSector - 1) / entriesPerSector
}

// FirstDataSector is the first sector of cluster 2.
func (bs *BootSector) FirstDataSector() int64 {
	return bs.RootDirOffset()/int64(bs.BytesPerSector) + bs.RootDirSectors()
}

// ClusterToSector converts a cluster number to its first disk sector.
func (bs *BootSector) ClusterToSector(cluster uint16) int64 {
	return bs.FirstDataSector() + (int64(cluster)-2)*int64(bs.SectorsPerCluster)
}

// ClusterOffset converts a cluster number directly to a byte offset.
func (bs *BootSector) ClusterOffset(cluster uint16) int64 {
	return bs.ClusterToSector(cluster) * int64(bs.BytesPerSector)
}

// BytesPerCluster is sectors-per-cluster times bytes-per-sector.
func (bs *BootSector) BytesPerCluster() int64 {
	return int64(bs.SectorsPerCluster) * int64(bs.BytesPerSector)
}

// TotalBytes is the total size of the volume.
func (bs *BootSector) TotalBytes() uint32 {
	return uint32(bs.TotalSectors16) * uint32(bs.BytesPerSector)
}

// TotalFATEntries is the number of addressable FAT entries, total_sectors-33+2:
// data clusters are entries 2 up to, but not including, this value.
func (bs *BootSector) TotalFATEntries() uint16 {
	return bs.TotalSectors16 - DataAreaFirstSector + 2
}

// EntriesPerSector is the number of 32-byte directory entries in one sector.
func (bs *BootSector) EntriesPerSector() int {
	return int(bs.BytesPerSector) / DirentSize
}

// String renders the boot sector in a form useful for debugging/tests.
func (bs *BootSector) String() string {
	var b bytes.Buffer
	fmt.Fprintf(&b, "OS=%q label=%q bytes/sector=%d sectors/cluster=%d reserved=%d "+
		"fat_copies=%d max_root=%d total_sectors=%d sectors/fat=%d",
		bs.OSName, bs.VolumeLabel, bs.BytesPerSector, bs.SectorsPerCluster,
		bs.ReservedSectorCount, bs.FATCopies, bs.MaxRootEntries, bs.TotalSectors16,
		bs.SectorsPerFAT)
	return b.String()
}
