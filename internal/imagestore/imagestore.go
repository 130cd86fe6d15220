// Package imagestore accepts uploaded product images, validates them, and
// stores them under generated names so original filenames never touch the
// filesystem.
package imagestore

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Ayoublby/full-store/internal/domain"
)

const (
	// MaxFiles bounds a single upload batch.
	MaxFiles = 10
	// MaxFileSize is the per-file size cap.
	MaxFileSize = 5 << 20
	// PublicPrefix is the path prefix under which stored images are served.
	PublicPrefix = "/images/uploaded/"
)

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// Store writes uploaded images into a fixed directory.
type Store struct {
	dir    string
	logger zerolog.Logger
}

// New creates the upload directory if needed and returns the store.
func New(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Store{
		dir:    dir,
		logger: logger.With().Str("component", "imagestore").Logger(),
	}, nil
}

// Dir returns the directory images are stored under.
func (s *Store) Dir() string {
	return s.dir
}

// SaveAll validates the whole batch and, only when every file passes, writes
// each one under a generated collision-resistant name. It returns the public
// paths in input order. A single invalid file rejects the entire batch with
// domain.ErrUploadRejected; nothing is written in that case.
func (s *Store) SaveAll(files []*multipart.FileHeader) ([]string, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no images uploaded", domain.ErrValidation)
	}
	if len(files) > MaxFiles {
		return nil, fmt.Errorf("%w: at most %d images per upload", domain.ErrUploadRejected, MaxFiles)
	}
	for _, fh := range files {
		if err := validate(fh); err != nil {
			return nil, err
		}
	}

	paths := make([]string, 0, len(files))
	for _, fh := range files {
		name := s.generateName(fh.Filename)
		if err := s.writeFile(fh, name); err != nil {
			s.cleanup(paths)
			return nil, err
		}
		paths = append(paths, PublicPrefix+name)
	}

	s.logger.Info().Int("count", len(paths)).Msg("images stored")
	return paths, nil
}

// Remove deletes a stored image by public path. Paths outside PublicPrefix
// are not owned by the store and are ignored; a missing file counts as
// already removed.
func (s *Store) Remove(publicPath string) error {
	if !strings.HasPrefix(publicPath, PublicPrefix) {
		return nil
	}
	name := filepath.Base(publicPath)
	err := os.Remove(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func validate(fh *multipart.FileHeader) error {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	contentType := fh.Header.Get("Content-Type")
	if !allowedExtensions[ext] || !allowedContentTypes[contentType] {
		return fmt.Errorf("%w: only JPG, PNG, GIF and WebP images are allowed", domain.ErrUploadRejected)
	}
	if fh.Size > MaxFileSize {
		return fmt.Errorf("%w: %s exceeds the 5MB limit", domain.ErrUploadRejected, fh.Filename)
	}
	return nil
}

// generateName keeps only the original extension: timestamp plus a random
// token avoids collisions and path injection alike.
func (s *Store) generateName(original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	token := strings.SplitN(uuid.NewString(), "-", 2)[0]
	return fmt.Sprintf("%d-%s%s", time.Now().UnixMilli(), token, ext)
}

func (s *Store) writeFile(fh *multipart.FileHeader, name string) error {
	src, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("store image %s: %w", fh.Filename, err)
	}
	return nil
}

// cleanup removes files written before a mid-batch failure.
func (s *Store) cleanup(paths []string) {
	for _, p := range paths {
		if err := s.Remove(p); err != nil {
			s.logger.Warn().Err(err).Str("image", p).Msg("cleanup partial upload")
		}
	}
}
