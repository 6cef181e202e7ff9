package xlsw

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Storage is the package substrate: a forward-only container of named parts.
// Implementations write to ZIP archives or plain directory trees.
type Storage interface {
	// WriteBlob stores a complete part at once.
	WriteBlob(path string, blob []byte) error
	// CreatePart opens a streaming writer for a part. The returned writer
	// stays valid until the next WriteBlob/CreatePart call, which seals the
	// part; there is no rewind.
	CreatePart(path string) (io.Writer, error)
	// Close seals the container. Parts cannot be added afterwards.
	Close() error
}

// ZipStorage writes parts into a ZIP archive, producing a standard .xlsx
// package. Entries are deflated with the klauspost compressor.
type ZipStorage struct {
	z *zip.Writer
}

// NewZipStorage creates a ZIP-backed storage over out, typically a file
// opened for writing or an in-memory buffer.
func NewZipStorage(out io.Writer) *ZipStorage {
	z := zip.NewWriter(out)
	z.RegisterCompressor(zip.Deflate, func(w io.Writer) (io.WriteCloser, error) {
		return flate.NewWriter(w, flate.DefaultCompression)
	})
	return &ZipStorage{z: z}
}

func (zs *ZipStorage) WriteBlob(path string, blob []byte) error {
	f, err := zs.CreatePart(path)
	if err != nil {
		return err
	}
	_, err = f.Write(blob)
	return err
}

func (zs *ZipStorage) CreatePart(path string) (io.Writer, error) {
	return zs.z.Create(strings.TrimPrefix(path, "/"))
}

func (zs *ZipStorage) Close() error {
	return zs.z.Close()
}

// DirStorage writes parts as files under a directory. Useful for debugging:
// the generated XML can be inspected directly.
type DirStorage struct {
	Dir  string
	open *os.File // current streaming part, sealed by the next operation
}

// NewDirStorage creates a directory-backed storage rooted at dir. Parent
// directories are created as needed.
func NewDirStorage(dir string) *DirStorage {
	return &DirStorage{Dir: dir}
}

func (ds *DirStorage) WriteBlob(path string, blob []byte) error {
	fn, err := ds.prepare(path)
	if err != nil {
		return err
	}
	return os.WriteFile(fn, blob, 0666)
}

func (ds *DirStorage) CreatePart(path string) (io.Writer, error) {
	fn, err := ds.prepare(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Create(fn)
	if err != nil {
		return nil, err
	}
	ds.open = f
	return f, nil
}

func (ds *DirStorage) prepare(path string) (string, error) {
	if err := ds.seal(); err != nil {
		return "", err
	}
	path = strings.TrimPrefix(path, "/")
	fn := filepath.Join(ds.Dir, path)
	if err := os.MkdirAll(filepath.Dir(fn), 0777); err != nil {
		return "", fmt.Errorf("create part dir: %w", err)
	}
	return fn, nil
}

func (ds *DirStorage) seal() error {
	if ds.open == nil {
		return nil
	}
	f := ds.open
	ds.open = nil
	return f.Close()
}

func (ds *DirStorage) Close() error { return ds.seal() }
