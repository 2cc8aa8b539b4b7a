// Package uploads stores screenshots and comment attachments on local disk.
package uploads

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/YNikhil188/BugCrew/logging"
	"github.com/YNikhil188/BugCrew/models"

	"github.com/google/uuid"
)

const MaxFileSize = 5 << 20

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
	".pdf": true, ".txt": true, ".log": true, ".zip": true,
}

type Store struct {
	dir string
}

// New returns a store rooted at dir, creating it when missing.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes every file and returns the stored names in request order. A
// rejected file removes the ones already written by this call.
func (s *Store) Save(files []*multipart.FileHeader, limit int) ([]string, error) {
	if len(files) > limit {
		return nil, models.Validation("at most %d files may be uploaded", limit)
	}
	names := make([]string, 0, len(files))
	for _, fh := range files {
		name, err := s.saveOne(fh)
		if err != nil {
			s.Remove(names...)
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

func (s *Store) saveOne(fh *multipart.FileHeader) (string, error) {
	base := filepath.Base(fh.Filename)
	ext := strings.ToLower(filepath.Ext(base))
	if !allowedExtensions[ext] {
		return "", models.Validation("file type %q is not allowed", ext)
	}
	if fh.Size > MaxFileSize {
		return "", models.Validation("file %q exceeds %d bytes", base, MaxFileSize)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload %q: %w", base, err)
	}
	defer src.Close()

	name := uuid.NewString() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}
	if _, err := io.Copy(dst, io.LimitReader(src, MaxFileSize)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	logging.Logger.Debugf("Event ID: UPLOAD_SAVED, Description: Stored '%s' as '%s'", base, name)
	return name, nil
}

// Remove deletes stored files, ignoring names that are already gone.
func (s *Store) Remove(names ...string) {
	for _, name := range names {
		path, ok := s.Path(name)
		if !ok {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logging.Logger.Warnf("Event ID: UPLOAD_REMOVE_FAILED, Description: Could not remove '%s': %v", name, err)
		}
	}
}

// Path resolves a stored name to its location. Names that are not a single
// path element are refused.
func (s *Store) Path(name string) (string, bool) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(s.dir, name), true
}
