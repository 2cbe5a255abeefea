// Package document reads roadmap files and writes them back atomically.
package document

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/zeebo/blake3"

	"github.com/twiced-technology-gmbh/roadmap/internal/roadmap"
)

const fileMode = 0o600

// File is a roadmap document loaded from disk.
type File struct {
	Path string
	Text string
	Mode os.FileMode
}

// Read loads the roadmap at path.
func Read(path string) (*File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading roadmap: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("reading roadmap: %s is a directory", path)
	}
	data, err := os.ReadFile(path) //nolint:gosec // roadmap path from the command line
	if err != nil {
		return nil, fmt.Errorf("reading roadmap: %w", err)
	}
	return &File{Path: path, Text: string(data), Mode: info.Mode().Perm()}, nil
}

// Parse tokenizes the file contents.
func (f *File) Parse() *roadmap.Document {
	return roadmap.Parse(f.Text)
}

// Digest returns the hex blake3 digest of the file contents.
func (f *File) Digest() string {
	return Digest([]byte(f.Text))
}

// Digest returns the hex blake3 digest of data.
func Digest(data []byte) string {
	hasher := blake3.New()
	_, _ = hasher.Write(data) // hash writes never fail
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// WriteAtomic replaces path with data. The bytes go to a temporary file in
// the same directory, which is synced and renamed over path, so readers see
// either the old or the new contents and an interrupted write leaves the
// original intact. A zero perm means 0600.
func WriteAtomic(path string, data []byte, perm os.FileMode) error {
	if perm == 0 {
		perm = fileMode
	}
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, "."+base+".tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	committed := false
	defer func() {
		_ = tmp.Close()
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("setting permissions: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("syncing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	committed = true
	return fsyncDir(dir)
}

// fsyncDir makes the rename durable. Directories cannot be synced on Windows.
func fsyncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	f, err := os.Open(dir) //nolint:gosec // directory of the written file
	if err != nil {
		return err
	}
	defer f.Close()
	return f.Sync()
}
