package fat12

import (
	"strings"
	"time"

	"github.com/noxer/bytewriter"
)

// DirentSize is the size in bytes of one packed directory entry.
const DirentSize = 32

// Attribute bit flags for DirectoryEntry.Attributes.
const (
	AttrReadOnly    = 0x01
	AttrHiddenLike  = 0x02
	AttrSystem      = 0x04
	AttrVolumeLabel = 0x08
	AttrDirectory   = 0x10
	AttrArchive     = 0x20
)

// DirectoryEntry is the decoded, 32-byte packed on-disk directory entry.
type DirectoryEntry struct {
	Filename       [8]byte
	Extension      [3]byte
	Attributes     uint8
	CreationTime   uint16
	CreationDate   uint16
	LastAccessDate uint16
	LastWriteTime  uint16
	LastWriteDate  uint16
	FirstCluster   uint16
	FileSize       uint32
}

// DecodeDirectoryEntry unpacks a 32-byte slice into a DirectoryEntry. It does
// not validate the entry; callers use IsNeverUsed/IsDeleted/IsSelfOrParent to
// classify it before trusting the other fields.
func DecodeDirectoryEntry(raw []byte) DirectoryEntry {
	var e DirectoryEntry
	copy(e.Filename[:], raw[0:8])
	copy(e.Extension[:], raw[8:11])
	e.Attributes = raw[11]
	e.CreationTime = le16(raw, 14)
	e.CreationDate = le16(raw, 16)
	e.LastAccessDate = le16(raw, 18)
	e.LastWriteTime = le16(raw, 22)
	e.LastWriteDate = le16(raw, 24)
	e.FirstCluster = le16(raw, 26)
	e.FileSize = uint32(raw[28]) | uint32(raw[29])<<8 | uint32(raw[30])<<16 | uint32(raw[31])<<24
	return e
}

// Encode serializes the entry back into its 32-byte packed form. The scratch
// buffer is staged with bytewriter so every field is written to a fixed
// offset before the single flush to disk.
func (e *DirectoryEntry) Encode() [DirentSize]byte {
	var buf [DirentSize]byte
	w := bytewriter.New(buf[:])

	w.Write(e.Filename[:])
	w.Write(e.Extension[:])
	w.Write([]byte{e.Attributes})
	w.Write([]byte{0}) // reserved byte, always zero
	w.Write([]byte{0}) // creation time, tenths of a second: not tracked
	putLE16(w, e.CreationTime)
	putLE16(w, e.CreationDate)
	putLE16(w, e.LastAccessDate)
	putLE16(w, 0) // ignore field between last-access-date and last-write-time
	putLE16(w, e.LastWriteTime)
	putLE16(w, e.LastWriteDate)
	putLE16(w, e.FirstCluster)
	putLE32(w, e.FileSize)

	return buf
}

func putLE16(w *bytewriter.Writer, v uint16) {
	w.Write([]byte{byte(v), byte(v >> 8)})
}

func putLE32(w *bytewriter.Writer, v uint32) {
	w.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

// IsNeverUsed reports whether this slot has never held an entry.
func (e *DirectoryEntry) IsNeverUsed() bool {
	return e.Filename[0] == 0x00
}

// IsDeleted reports whether this slot held an entry that was deleted.
func (e *DirectoryEntry) IsDeleted() bool {
	return e.Filename[0] == 0xE5
}

// IsFreeSlot reports whether this slot is available for a new entry: either
// never used or holding a deleted entry.
func (e *DirectoryEntry) IsFreeSlot() bool {
	return e.IsNeverUsed() || e.IsDeleted()
}

// IsSelfOrParent reports whether this is a "." or ".." entry.
func (e *DirectoryEntry) IsSelfOrParent() bool {
	return e.Filename[0] == '.' && (e.Filename[1] == ' ' || e.Filename[1] == '.')
}

// IsVolumeLabelLike reports whether the hidden-like attribute bit (0x02) used by
// this on-disk format to flag volume-label-adjacent entries is set. Entries
// with this bit are skipped by walkers regardless of what else they look like.
func (e *DirectoryEntry) IsVolumeLabelLike() bool {
	return e.Attributes&AttrHiddenLike != 0
}

// IsDirectory reports whether this entry is a subdirectory.
func (e *DirectoryEntry) IsDirectory() bool {
	return e.Attributes&AttrDirectory != 0
}

// IsRegularFile reports whether this entry names a file a walker should
// surface: not a directory, not volume-label-like, and with a first cluster
// outside the reserved {0,1} range.
func (e *DirectoryEntry) IsRegularFile() bool {
	return !e.IsDirectory() &&
		e.FirstCluster != 0 && e.FirstCluster != 1 &&
		!e.IsVolumeLabelLike()
}

// CanonicalName joins the 8-byte name and 3-byte extension into the
// "NAME.EXT" (or bare "NAME" for directories/extensionless files) form used
// by disklist/diskget, trimming trailing spaces and upper-casing.
func (e *DirectoryEntry) CanonicalName() string {
	name := strings.ToUpper(strings.TrimRight(string(e.Filename[:]), " "))
	if e.IsDirectory() {
		return name
	}
	ext := strings.ToUpper(strings.TrimRight(string(e.Extension[:]), " "))
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// VolumeLabelName joins the 8-byte name and 3-byte extension fields without
// the "NAME.EXT" dot, the 11-character form a volume-label entry's Attributes
// (0x08) spans.
func (e *DirectoryEntry) VolumeLabelName() string {
	raw := string(e.Filename[:]) + string(e.Extension[:])
	return strings.ToUpper(strings.TrimRight(raw, " "))
}

// CreatedAt and LastModifiedAt decode the packed FAT12 timestamps using the
// local timezone.
func (e *DirectoryEntry) CreatedAt() time.Time {
	return DecodeTimestamp(e.CreationDate, e.CreationTime, time.Local)
}

func (e *DirectoryEntry) LastModifiedAt() time.Time {
	return DecodeTimestamp(e.LastWriteDate, e.LastWriteTime, time.Local)
}

// SplitFilename83 converts a canonical "NAME.EXT" (or "NAME") string into the
// padded 8.3 byte arrays used on disk. Names/extensions longer than 8/3 bytes
// are truncated.
func SplitFilename83(canonical string) (name [8]byte, ext [3]byte) {
	for i := range name {
		name[i] = ' '
	}
	for i := range ext {
		ext[i] = ' '
	}

	upper := strings.ToUpper(canonical)
	base := upper
	extension := ""
	if dot := strings.IndexByte(upper, '.'); dot >= 0 {
		base = upper[:dot]
		extension = upper[dot+1:]
	}
	if len(base) > 8 {
		base = base[:8]
	}
	if len(extension) > 3 {
		extension = extension[:3]
	}
	copy(name[:], base)
	copy(ext[:], extension)
	return
}

// NewFileEntry builds a fresh directory entry for a newly-inserted file:
// archive attribute, creation and last-write timestamps both set from the
// host file's mtime.
func NewFileEntry(canonicalName string, firstCluster uint16, size uint32, mtime time.Time) DirectoryEntry {
	name, ext := SplitFilename83(canonicalName)
	date, clock := EncodeTimestamp(mtime)

	return DirectoryEntry{
		Filename:       name,
		Extension:      ext,
		Attributes:     AttrArchive,
		CreationTime:   clock,
		CreationDate:   date,
		LastWriteTime:  clock,
		LastWriteDate:  date,
		FirstCluster:   firstCluster,
		FileSize:       size,
	}
}
