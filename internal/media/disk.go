package media

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("media: blob not found")

// BlobStore stores and retrieves uploaded audio blobs.
// Paths returned by Save are opaque keys, relative to the store root.
type BlobStore interface {
	Save(name string, r io.Reader) (path string, err error)
	Open(path string) (io.ReadCloser, error)
}

const recordingsDir = "call_recordings"

// DiskStore keeps blobs on the local filesystem under a media root,
// one file per recording named by a fresh uuid plus the upload's
// extension.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, errors.New("media: root dir is required")
	}
	if err := os.MkdirAll(filepath.Join(root, recordingsDir), 0o755); err != nil {
		return nil, fmt.Errorf("media: init dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(name string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	rel := filepath.Join(recordingsDir, uuid.NewString()+ext)

	f, err := os.Create(filepath.Join(s.root, rel))
	if err != nil {
		return "", fmt.Errorf("media: create: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", fmt.Errorf("media: write: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("media: close: %w", err)
	}
	return rel, nil
}

func (s *DiskStore) Open(path string) (io.ReadCloser, error) {
	// Keys come from our own database, but refuse escapes anyway.
	clean := filepath.Clean(path)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return nil, fmt.Errorf("media: invalid path %q", path)
	}
	f, err := os.Open(filepath.Join(s.root, clean))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
