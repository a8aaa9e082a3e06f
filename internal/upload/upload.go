// Package upload persists applicant CV files under the configured upload
// directory and hands back the public path they are served from.
package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrInvalidType is returned for any file that is not a PDF. The check is by
// extension, not content sniffing.
var ErrInvalidType = errors.New("only PDF files are accepted")

const cvSubdir = "cvs"

// Store writes CV files to <dir>/cvs and returns /uploads/cvs/<name> paths.
type Store struct {
	dir string
}

// NewStore creates the upload directory tree if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(filepath.Join(dir, cvSubdir), 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// SaveCV stores the uploaded file under a collision-resistant name and returns
// the URL path the file will be served from.
func (s *Store) SaveCV(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if ext != ".pdf" {
		return "", ErrInvalidType
	}

	name := fmt.Sprintf("%d-%s%s", time.Now().UTC().UnixMilli(), uuid.NewString(), ext)
	dst := filepath.Join(s.dir, cvSubdir, name)

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create cv file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return "", fmt.Errorf("write cv file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close cv file: %w", err)
	}

	return "/uploads/" + cvSubdir + "/" + name, nil
}

// Dir returns the root directory the store writes under, for static serving.
func (s *Store) Dir() string {
	return s.dir
}
