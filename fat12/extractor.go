package fat12

import (
	"io"
	"os"

	ferrors "github.com/csc360-labs/fat12lab/errors"
)

// Extractor copies a file's data out of an image onto the host filesystem.
type Extractor struct {
	Image *Image
	Boot  *BootSector
	Table *FAT
	Walk  *Walker
}

// NewExtractor builds an Extractor sharing the given image, boot sector, and
// FAT table.
func NewExtractor(img *Image, bs *BootSector, fat *FAT) *Extractor {
	return &Extractor{Image: img, Boot: bs, Table: fat, Walk: NewWalker(img, bs, fat)}
}

// find locates a regular file by a "/"-joined path such as "DOCS/README.TXT"
// and returns its directory entry.
func (x *Extractor) find(path string) (DirectoryEntry, bool, error) {
	dir, name := splitPath(path)

	var entries []WalkEntry
	if dir == "" {
		raw, err := x.Walk.readRootEntries()
		if err != nil {
			return DirectoryEntry{}, false, err
		}
		entries = classify(raw)
	} else {
		cluster, ok, err := x.Walk.ResolveDirectoryPath(dir)
		if err != nil {
			return DirectoryEntry{}, false, err
		}
		if !ok {
			return DirectoryEntry{}, false, nil
		}
		raw, err := x.Walk.readClusterChainEntries(cluster)
		if err != nil {
			return DirectoryEntry{}, false, err
		}
		entries = classify(raw)
	}

	for _, e := range entries {
		if !e.IsDir && e.Name == name {
			return e.Entry, true, nil
		}
	}
	return DirectoryEntry{}, false, nil
}

// splitPath splits a "/"-joined path into its directory portion and final
// component. "README.TXT" -> ("", "README.TXT"); "DOCS/README.TXT" ->
// ("DOCS", "README.TXT").
func splitPath(path string) (dir, name string) {
	last := -1
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			last = i
		}
	}
	if last < 0 {
		return "", path
	}
	return path[:last], path[last+1:]
}

// Extract writes sourcePath's file content from the image to destPath on the
// host filesystem, following the file's cluster chain and truncating to its
// documented FileSize.
func (x *Extractor) Extract(sourcePath, destPath string) error {
	entry, found, err := x.find(sourcePath)
	if err != nil {
		return err
	}
	if !found {
		return ferrors.ErrNotFound.WithMessage(sourcePath)
	}

	out, err := os.Create(destPath)
	if err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	defer out.Close()

	return x.ExtractTo(entry, out)
}

// ExtractTo streams a resolved entry's data into an arbitrary io.Writer,
// stopping after exactly FileSize bytes even if its last cluster is larger.
func (x *Extractor) ExtractTo(entry DirectoryEntry, dest io.Writer) error {
	remaining := int64(entry.FileSize)
	cluster := entry.FirstCluster
	clusterSize := x.Boot.BytesPerCluster()
	buf := make([]byte, clusterSize)

	for remaining > 0 && cluster >= 2 && !IsEOC(cluster) {
		if err := x.Image.ReadAt(x.Boot.ClusterOffset(cluster), buf); err != nil {
			return err
		}

		n := clusterSize
		if remaining < n {
			n = remaining
		}
		if _, err := dest.Write(buf[:n]); err != nil {
			return ferrors.ErrIOFailed.WrapError(err)
		}

		remaining -= n
		cluster = x.Table.GetEntry(cluster)
	}

	if remaining > 0 {
		return ferrors.ErrFormatInvalid.WithMessage("cluster chain ended before declared file size was reached")
	}
	return nil
}
