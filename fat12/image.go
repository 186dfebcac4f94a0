package fat12

import (
	"io"
	"os"

	ferrors "github.com/csc360-labs/fat12lab/errors"
	"github.com/xaionaro-go/bytesextra"
)

// Image is the shared mutable disk handle every fat12 component reads and
// writes through. It is single-threaded: any operation that recurses (the
// directory walker) must save and restore this handle's offset around the
// recursive call, since multiple walkers share it.
type Image struct {
	io.ReadWriteSeeker
	closer io.Closer
}

// OpenImage opens a disk image file on the host filesystem. readOnly governs
// whether the file is opened for writing too.
func OpenImage(path string, readOnly bool) (*Image, error) {
	flag := os.O_RDONLY
	if !readOnly {
		flag = os.O_RDWR
	}

	f, err := os.OpenFile(path, flag, 0)
	if err != nil {
		return nil, ferrors.ErrIOFailed.WrapError(err)
	}
	return &Image{ReadWriteSeeker: f, closer: f}, nil
}

// NewMemoryImage wraps a byte slice as a disk image, used by tests to build
// synthetic volumes without touching the filesystem. Writes do not grow the
// slice; they fail past its end exactly like a fixed-size disk image would.
func NewMemoryImage(data []byte) *Image {
	return &Image{ReadWriteSeeker: bytesextra.NewReadWriteSeeker(data)}
}

// Close releases the underlying OS handle, if any.
func (img *Image) Close() error {
	if img.closer == nil {
		return nil
	}
	return img.closer.Close()
}

// SavedOffset captures the stream's current position so it can be restored
// after a recursive read.
type SavedOffset struct {
	image  *Image
	offset int64
}

// Save records the image's current offset.
func (img *Image) Save() (SavedOffset, error) {
	offset, err := img.Seek(0, io.SeekCurrent)
	if err != nil {
		return SavedOffset{}, ferrors.ErrIOFailed.WrapError(err)
	}
	return SavedOffset{image: img, offset: offset}, nil
}

// Restore seeks the image back to the offset captured by Save.
func (s SavedOffset) Restore() error {
	if s.image == nil {
		return nil
	}
	if _, err := s.image.Seek(s.offset, io.SeekStart); err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// ReadAt reads exactly len(buf) bytes starting at the given offset, restoring
// the stream's prior position afterward.
func (img *Image) ReadAt(offset int64, buf []byte) error {
	saved, err := img.Save()
	if err != nil {
		return err
	}
	defer saved.Restore()

	if _, err := img.Seek(offset, io.SeekStart); err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	if _, err := io.ReadFull(img, buf); err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	return nil
}

// WriteAt writes buf at the given offset, restoring the stream's prior
// position afterward.
func (img *Image) WriteAt(offset int64, buf []byte) error {
	saved, err := img.Save()
	if err != nil {
		return err
	}
	defer saved.Restore()

	if _, err := img.Seek(offset, io.SeekStart); err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	if _, err := img.Write(buf); err != nil {
		return ferrors.ErrIOFailed.WrapError(err)
	}
	return nil
}
