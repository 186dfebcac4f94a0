package fat12

import (
	"io"

	bitmap "github.com/boljen/go-bitmap"
	ferrors "github.com/csc360-labs/fat12lab/errors"
	"github.com/hashicorp/go-multierror"
)

// Reserved FAT12 entry values.
const (
	EntryFree     = 0x000
	EntryBad      = 0xFF7
	EntryEOCStart = 0xFF8
	EntryEOCMark  = 0xFFF
)

// FAT is one decoded copy of the 12-bit cluster allocation table, plus a
// bitmap cache of which entries are occupied so repeated free-entry scans
// don't have to re-decode every nibble pair.
type FAT struct {
	raw          []byte
	totalEntries uint16
	occupied     bitmap.Bitmap
}

// ReadFAT reads exactly sectors_per_fat * bytes_per_sector bytes starting at
// the first FAT copy's offset and decodes the occupancy bitmap alongside it.
func ReadFAT(disk io.ReadSeeker, bs *BootSector) (*FAT, error) {
	size := int64(bs.SectorsPerFAT) * int64(bs.BytesPerSector)
	if _, err := disk.Seek(bs.FAT1Offset(), io.SeekStart); err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(disk, raw); err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}

	totalEntries := bs.TotalFATEntries()
	f := &FAT{
		raw:          raw,
		totalEntries: totalEntries,
		occupied:     bitmap.New(int(totalEntries)),
	}
	for n := uint16(2); n < totalEntries; n++ {
		if f.GetEntry(n) != EntryFree {
			f.occupied.Set(int(n), true)
		}
	}
	return f, nil
}

// entryOffset returns the byte offset of the first of the two bytes n's
// 12-bit value is packed across.
func entryOffset(n uint16) int {
	return int(n) * 3 / 2
}

// GetEntry decodes the 12-bit value of cluster entry n.
func (f *FAT) GetEntry(n uint16) uint16 {
	offset := entryOffset(n)
	if n%2 == 0 {
		return uint16(f.raw[offset]) | (uint16(f.raw[offset+1]&0x0F) << 8)
	}
	return uint16(f.raw[offset]&0xF0)>>4 | uint16(f.raw[offset+1])<<4
}

// SetEntry stores a 12-bit value into entry n, preserving the untouched
// nibble shared with its neighboring entry, and keeps the occupancy bitmap
// in sync.
func (f *FAT) SetEntry(n uint16, value uint16) {
	value &= 0x0FFF
	offset := entryOffset(n)

	if n%2 == 0 {
		f.raw[offset] = byte(value & 0xFF)
		f.raw[offset+1] = (f.raw[offset+1] & 0xF0) | byte((value>>8)&0x0F)
	} else {
		f.raw[offset] = (f.raw[offset] & 0x0F) | byte((value<<4)&0xF0)
		f.raw[offset+1] = byte(value >> 4)
	}

	if int(n) < f.occupied.Len() {
		f.occupied.Set(int(n), value != EntryFree)
	}
}

// IsEOC reports whether value marks the end of a cluster chain.
func IsEOC(value uint16) bool {
	return value >= EntryEOCStart
}

// IsFree reports whether value marks a free, unallocated cluster.
func IsFree(value uint16) bool {
	return value == EntryFree
}

// FindFree returns the lowest-numbered free entry at index >= 2, or
// ErrNoSpaceOnDevice if none remain. Entries 0 and 1 are reserved and are
// never considered.
func (f *FAT) FindFree() (uint16, error) {
	for n := uint16(2); n < f.totalEntries; n++ {
		if !f.occupied.Get(int(n)) {
			return n, nil
		}
	}
	return 0, ferrors.ErrNoSpaceOnDevice.WithMessage("no free FAT entry")
}

// CountFree returns the number of free entries in [2, total_entries).
func (f *FAT) CountFree() int {
	count := 0
	for n := uint16(2); n < f.totalEntries; n++ {
		if !f.occupied.Get(int(n)) {
			count++
		}
	}
	return count
}

// AllocateChain finds `count` free entries, links each to its successor, and
// marks the last one EOC. It returns the cluster numbers in chain order.
// On NoSpace mid-chain it returns the error without rolling back any entries
// already claimed in memory -- the caller must not have flushed the FAT to
// disk yet if it wants to recover cleanly.
func (f *FAT) AllocateChain(count int) ([]uint16, error) {
	if count <= 0 {
		return nil, ferrors.ErrInvalidArgument.WithMessage("cluster count must be positive")
	}

	chain := make([]uint16, 0, count)
	for i := 0; i < count; i++ {
		cluster, err := f.FindFree()
		if err != nil {
			return nil, err
		}
		// Claim it immediately (even before wiring) so the next FindFree
		// doesn't return the same cluster.
		f.SetEntry(cluster, EntryEOCMark)
		chain = append(chain, cluster)
	}

	for i := 0; i < len(chain)-1; i++ {
		f.SetEntry(chain[i], chain[i+1])
	}
	f.SetEntry(chain[len(chain)-1], EntryEOCMark)
	return chain, nil
}

// WriteBoth flushes this table to both FAT copies on disk. Rather than
// aborting at the first I/O failure, both copies are attempted regardless of
// whether the first write fails, and every failure is reported together via
// a multierror.Error so a caller investigating a corrupted image knows the
// state of *both* copies, not just whichever was written first.
func (f *FAT) WriteBoth(disk io.WriteSeeker, bs *BootSector) error {
	var result *multierror.Error

	if err := writeFATCopy(disk, bs.FAT1Offset(), f.raw); err != nil {
		result = multierror.Append(result, ferrors.ErrIOFailed.WrapError(err))
	}
	if err := writeFATCopy(disk, bs.FAT2Offset(), f.raw); err != nil {
		result = multierror.Append(result, ferrors.ErrIOFailed.WrapError(err))
	}

	return result.ErrorOrNil()
}

func writeFATCopy(disk io.WriteSeeker, offset int64, raw []byte) error {
	if _, err := disk.Seek(offset, io.SeekStart); err != nil {
		return err
	}
	_, err := disk.Write(raw)
	return err
}

// Equal reports whether two FAT tables are byte-identical, used by tests to
// assert the FAT1 == FAT2 invariant after a flush.
func (f *FAT) Equal(other *FAT) bool {
	if len(f.raw) != len(other.raw) {
		return false
	}
	for i := range f.raw {
		if f.raw[i] != other.raw[i] {
			return false
		}
	}
	return true
}

// Bytes returns the raw packed byte representation, primarily for tests.
func (f *FAT) Bytes() []byte {
	return f.raw
}
