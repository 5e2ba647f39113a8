// Package storage persists book file artifacts on the local filesystem.
// The database keeps only the relative path, size and checksum; this store
// owns the bytes.
package storage

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// SavedArtifact describes a stored file.
type SavedArtifact struct {
	Path     string
	Size     int64
	Checksum string
}

// Local stores artifacts under a base directory.
type Local struct {
	baseDir string
}

// NewLocal creates a local artifact store rooted at baseDir.
func NewLocal(baseDir string) (*Local, error) {
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", baseDir, err)
	}
	return &Local{baseDir: baseDir}, nil
}

// Save writes content under a uuid-prefixed name derived from the original
// filename and returns the relative path, byte size and SHA-256 checksum.
func (l *Local) Save(subdir, filename string, content io.Reader) (*SavedArtifact, error) {
	name := fmt.Sprintf("%s_%s", uuid.NewString(), sanitizeFilename(filename))
	relPath := filepath.ToSlash(filepath.Join(subdir, name))

	fullPath := filepath.Join(l.baseDir, subdir, name)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for %s: %w", relPath, err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", relPath, err)
	}
	defer out.Close()

	hasher := sha256.New()
	size, err := io.Copy(io.MultiWriter(out, hasher), content)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write %s: %w", relPath, err)
	}

	return &SavedArtifact{
		Path:     relPath,
		Size:     size,
		Checksum: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open returns a reader over a stored artifact.
func (l *Local) Open(relPath string) (io.ReadCloser, error) {
	return os.Open(l.fullPath(relPath))
}

// FullPath resolves a stored relative path to its filesystem location.
func (l *Local) FullPath(relPath string) string {
	return l.fullPath(relPath)
}

// Remove deletes a stored artifact. A missing artifact surfaces as an error
// satisfying IsNotFound; callers that purge database rows tolerate it.
func (l *Local) Remove(relPath string) error {
	return os.Remove(l.fullPath(relPath))
}

// IsNotFound reports whether an error from Remove means the artifact was
// already gone.
func (l *Local) IsNotFound(err error) bool {
	return os.IsNotExist(err)
}

func (l *Local) fullPath(relPath string) string {
	return filepath.Join(l.baseDir, filepath.FromSlash(relPath))
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	replacer := strings.NewReplacer("/", "-", "\\", "-", " ", "_")
	return replacer.Replace(name)
}
