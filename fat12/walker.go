package fat12

import (
	"strings"
)

// Walker performs the recursive root + subdirectory traversal over a shared
// Image and FAT. All of its reads save and restore the image's offset (via
// Image.ReadAt), satisfying the shared-handle discipline without an explicit
// stack of saved positions at each call site.
type Walker struct {
	Image *Image
	Boot  *BootSector
	Table *FAT
}

// NewWalker builds a Walker over an already-opened image, boot sector, and
// FAT table.
func NewWalker(img *Image, bs *BootSector, fat *FAT) *Walker {
	return &Walker{Image: img, Boot: bs, Table: fat}
}

// readRootEntries reads all MaxRootEntries slots of the root directory,
// unfiltered, in on-disk order. A 0x00 filename byte does NOT terminate the
// scan early here: every slot up to MaxRootEntries is visited.
func (w *Walker) readRootEntries() ([]DirectoryEntry, error) {
	entries := make([]DirectoryEntry, 0, w.Boot.MaxRootEntries)
	buf := make([]byte, DirentSize)

	for i := uint16(0); i < w.Boot.MaxRootEntries; i++ {
		offset := w.Boot.RootDirOffset() + int64(i)*DirentSize
		if err := w.Image.ReadAt(offset, buf); err != nil {
			return nil, err
		}
		entries = append(entries, DecodeDirectoryEntry(buf))
	}
	return entries, nil
}

// readClusterChainEntries follows startCluster's FAT chain and returns every
// directory entry found across all of its clusters, unfiltered, in on-disk
// order. The chain stops at the first entry >= 0xFF8 (end of chain).
func (w *Walker) readClusterChainEntries(startCluster uint16) ([]DirectoryEntry, error) {
	var entries []DirectoryEntry
	cluster := startCluster
	perCluster := w.Boot.EntriesPerSector() * int(w.Boot.SectorsPerCluster)
	buf := make([]byte, w.Boot.BytesPerCluster())

	for cluster >= 2 && !IsEOC(cluster) {
		if err := w.Image.ReadAt(w.Boot.ClusterOffset(cluster), buf); err != nil {
			return nil, err
		}
		for i := 0; i < perCluster; i++ {
			offset := i * DirentSize
			entries = append(entries, DecodeDirectoryEntry(buf[offset:offset+DirentSize]))
		}
		cluster = w.Table.GetEntry(cluster)
	}
	return entries, nil
}

// RootVolumeLabel scans the root directory for an entry with the volume-label
// attribute (0x08) set and returns its decoded name, for callers falling back
// from a blank boot-sector volume label.
func (w *Walker) RootVolumeLabel() (string, bool, error) {
	raw, err := w.readRootEntries()
	if err != nil {
		return "", false, err
	}
	for _, e := range raw {
		if e.IsNeverUsed() || e.IsDeleted() {
			continue
		}
		if e.Attributes&AttrVolumeLabel != 0 {
			return e.VolumeLabelName(), true, nil
		}
	}
	return "", false, nil
}

// WalkEntry is one classified, named directory entry surfaced by a traversal.
type WalkEntry struct {
	Entry DirectoryEntry
	Name  string
	IsDir bool
}

// classify filters raw entries down to the ones a walker surfaces: not
// never-used, not deleted, not "." / "..", not volume-label-like.
// Remaining entries are tagged directory or (qualifying) file.
func classify(raw []DirectoryEntry) []WalkEntry {
	out := make([]WalkEntry, 0, len(raw))
	for _, e := range raw {
		entry := e
		if entry.IsNeverUsed() || entry.IsDeleted() || entry.IsSelfOrParent() {
			continue
		}
		if entry.IsVolumeLabelLike() {
			continue
		}
		if entry.IsDirectory() {
			out = append(out, WalkEntry{Entry: entry, Name: entry.CanonicalName(), IsDir: true})
		} else if entry.IsRegularFile() {
			out = append(out, WalkEntry{Entry: entry, Name: entry.CanonicalName(), IsDir: false})
		}
	}
	return out
}

// Section is one directory level's worth of entries in a traversal: the root
// has an empty Header, every subdirectory's Header is "/" + its name.
type Section struct {
	Header  string
	Entries []WalkEntry
}

// Walk performs the full depth-first traversal (the shape `disklist` prints):
// the root section first, then -- in root-entry order --
// each subdirectory's own section followed immediately by its children's
// sections, recursively.
func (w *Walker) Walk() ([]Section, error) {
	rawRoot, err := w.readRootEntries()
	if err != nil {
		return nil, err
	}
	root := classify(rawRoot)

	sections := []Section{{Header: "", Entries: root}}
	for _, e := range root {
		if !e.IsDir {
			continue
		}
		sub, err := w.walkSubdirectory("/"+e.Name, e.Entry.FirstCluster)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sub...)
	}
	return sections, nil
}

func (w *Walker) walkSubdirectory(header string, startCluster uint16) ([]Section, error) {
	raw, err := w.readClusterChainEntries(startCluster)
	if err != nil {
		return nil, err
	}
	entries := classify(raw)

	sections := []Section{{Header: header, Entries: entries}}
	for _, e := range entries {
		if !e.IsDir {
			continue
		}
		childHeader := header + "/" + e.Name
		child, err := w.walkSubdirectory(childHeader, e.Entry.FirstCluster)
		if err != nil {
			return nil, err
		}
		sections = append(sections, child...)
	}
	return sections, nil
}

// CountFiles returns the total number of regular files across the root and
// every subdirectory (directories themselves are never counted).
func (w *Walker) CountFiles() (int, error) {
	sections, err := w.Walk()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, s := range sections {
		for _, e := range s.Entries {
			if !e.IsDir {
				count++
			}
		}
	}
	return count, nil
}

// ResolveDirectoryPath walks from the root to find the cluster of the
// subdirectory named by a "/"-joined path of 8-char-trimmed segments, e.g.
// "DOCS/2024". It returns ErrNotFound-shaped behavior via a boolean instead,
// since callers need to distinguish "not found" from I/O errors cleanly.
func (w *Walker) ResolveDirectoryPath(path string) (uint16, bool, error) {
	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) == 1 && segments[0] == "" {
		return 0, false, nil
	}

	rawRoot, err := w.readRootEntries()
	if err != nil {
		return 0, false, err
	}
	current := classify(rawRoot)

	var cluster uint16
	for _, want := range segments {
		found := false
		for _, e := range current {
			if e.IsDir && e.Name == want {
				cluster = e.Entry.FirstCluster
				found = true
				break
			}
		}
		if !found {
			return 0, false, nil
		}

		raw, err := w.readClusterChainEntries(cluster)
		if err != nil {
			return 0, false, err
		}
		current = classify(raw)
	}
	return cluster, true, nil
}
