package fat12

import (
	"io"
	"os"

	ferrors "github.com/csc360-labs/fat12lab/errors"
)

// Inserter copies a file from the host filesystem into an image.
type Inserter struct {
	Image *Image
	Boot  *BootSector
	Table *FAT
	Walk  *Walker
}

// NewInserter builds an Inserter sharing the given image, boot sector, and
// FAT table. Callers must call Table.WriteBoth themselves after one or more
// insertions to flush the FAT; Insert only updates the in-memory copy.
func NewInserter(img *Image, bs *BootSector, fat *FAT) *Inserter {
	return &Inserter{Image: img, Boot: bs, Table: fat, Walk: NewWalker(img, bs, fat)}
}

// Insert copies sourcePath from the host filesystem into the image at
// destDir (a "/"-joined subdirectory path, or "" for the root) under
// destName. It allocates a cluster chain, writes the file's data, and then
// scans destDir: it fails with ErrExists if destDir already has an entry
// named destName, and otherwise writes a fresh directory entry into the
// first free slot it finds. The name check and the ErrNotFound check for a
// missing destDir run after allocation, so on those failures the chain stays
// claimed in the in-memory FAT and the data stays in its clusters.
//
// Known limitation: when destDir names a subdirectory, only its *first*
// cluster's 16 entries are searched for a free slot and for an existing
// entry named destName -- a name in a later cluster is not detected, and an
// insertion into a
// subdirectory whose first
// cluster is full fails with ErrNoSpaceOnDevice even if a later cluster in
// its chain has room. The root directory has no such limit since it isn't
// cluster-chained.
func (x *Inserter) Insert(sourcePath, destDir, destName string) error {
	f, err := os.Open(sourcePath)
	if err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	if info.Size() > 0xFFFFFFFF {
		return ferrors.ErrInvalidArgument.WithMessage("file too large for a 32-bit FAT12 size field")
	}

	clusterSize := x.Boot.BytesPerCluster()
	clustersNeeded := (info.Size() + clusterSize - 1) / clusterSize
	if clustersNeeded == 0 {
		clustersNeeded = 1
	}

	chain, err := x.Table.AllocateChain(int(clustersNeeded))
	if err != nil {
		return err
	}

	if err := x.writeClusters(f, chain, clusterSize); err != nil {
		return err
	}

	entry := NewFileEntry(destName, chain[0], uint32(info.Size()), info.ModTime())
	return x.writeEntry(destDir, entry)
}

func (x *Inserter) writeClusters(src io.Reader, chain []uint16, clusterSize int64) error {
	buf := make([]byte, clusterSize)
	for _, cluster := range chain {
		n, err := io.ReadFull(src, buf)
		if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
			return ferrors.ErrIOFailed.WrapError(err)
		}
		for i := n; i < len(buf); i++ {
			buf[i] = 0
		}
		if err := x.Image.WriteAt(x.Boot.ClusterOffset(cluster), buf); err != nil {
			return err
		}
	}
	return nil
}

// writeEntry scans destDir's entry region for a name collision, then finds
// the first free slot and writes entry into it.
func (x *Inserter) writeEntry(destDir string, entry DirectoryEntry) error {
	if destDir == "" {
		return x.writeEntryInRoot(entry)
	}

	cluster, ok, err := x.Walk.ResolveDirectoryPath(destDir)
	if err != nil {
		return err
	}
	if !ok {
		return ferrors.ErrNotFound.WithMessage(destDir)
	}
	return x.writeEntryInFirstCluster(cluster, entry)
}

func (x *Inserter) writeEntryInRoot(entry DirectoryEntry) error {
	name := entry.CanonicalName()
	buf := make([]byte, DirentSize)
	freeOffset := int64(-1)

	for i := uint16(0); i < x.Boot.MaxRootEntries; i++ {
		offset := x.Boot.RootDirOffset() + int64(i)*DirentSize
		if err := x.Image.ReadAt(offset, buf); err != nil {
			return err
		}
		probe := DecodeDirectoryEntry(buf)
		if probe.IsFreeSlot() {
			if freeOffset < 0 {
				freeOffset = offset
			}
			continue
		}
		if !probe.IsVolumeLabelLike() && probe.CanonicalName() == name {
			return ferrors.ErrExists.WithMessage(name)
		}
	}
	if freeOffset < 0 {
		return ferrors.ErrNoSpaceOnDevice.WithMessage("root directory has no free entry slots")
	}
	return x.writeEntryAt(freeOffset, entry)
}

// writeEntryInFirstCluster scans only the subdirectory's first cluster for a
// free slot, the limitation documented on Insert.
func (x *Inserter) writeEntryInFirstCluster(cluster uint16, entry DirectoryEntry) error {
	name := entry.CanonicalName()
	base := x.Boot.ClusterOffset(cluster)
	perCluster := x.Boot.EntriesPerSector() * int(x.Boot.SectorsPerCluster)
	buf := make([]byte, DirentSize)
	freeOffset := int64(-1)

	for i := 0; i < perCluster; i++ {
		offset := base + int64(i)*DirentSize
		if err := x.Image.ReadAt(offset, buf); err != nil {
			return err
		}
		probe := DecodeDirectoryEntry(buf)
		if probe.IsFreeSlot() {
			if freeOffset < 0 {
				freeOffset = offset
			}
			continue
		}
		if !probe.IsVolumeLabelLike() && probe.CanonicalName() == name {
			return ferrors.ErrExists.WithMessage(name)
		}
	}
	if freeOffset < 0 {
		return ferrors.ErrNoSpaceOnDevice.WithMessage("subdirectory's first cluster has no free entry slots")
	}
	return x.writeEntryAt(freeOffset, entry)
}

func (x *Inserter) writeEntryAt(offset int64, entry DirectoryEntry) error {
	encoded := entry.Encode()
	return x.Image.WriteAt(offset, encoded[:])
}
