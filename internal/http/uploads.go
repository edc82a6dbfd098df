package httpx

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const defaultUploadMaxBytes = 5 << 20

// allowed profile picture extensions, lowercased
var uploadImageExts = map[string]bool{ //nolint:gochecknoglobals // read-only lookup
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
}

// ErrUploadTooLarge is returned when an uploaded file exceeds the size limit.
var ErrUploadTooLarge = errors.New("uploaded file is too large")

// ErrUploadBadType is returned for uploads with an unsupported extension.
var ErrUploadBadType = errors.New("unsupported file type")

// UploadStore saves profile pictures to a directory and serves them back.
// Stored names are generated, so user-supplied filenames never reach the
// filesystem.
type UploadStore struct {
	dir      string
	maxBytes int64
}

// NewUploadStore creates the upload directory if needed and returns a store.
func NewUploadStore(dir string, maxBytes int64) (*UploadStore, error) {
	if dir == "" {
		return nil, errors.New("upload directory is required")
	}
	if maxBytes <= 0 {
		maxBytes = defaultUploadMaxBytes
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &UploadStore{dir: dir, maxBytes: maxBytes}, nil
}

// MaxBytes returns the per-file size limit.
func (s *UploadStore) MaxBytes() int64 {
	return s.maxBytes
}

// Save writes the uploaded file under a generated name and returns the
// public path (`/uploads/<name>`) to store on the user record.
func (s *UploadStore) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", errors.New("missing file header")
	}
	if header.Size > s.maxBytes {
		return "", ErrUploadTooLarge
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !uploadImageExts[ext] {
		return "", ErrUploadBadType
	}

	name := uuid.New().String() + ext
	dst, err := os.OpenFile(filepath.Join(s.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o640)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer dst.Close()

	// LimitReader guards against a header lying about its size.
	written, err := io.Copy(dst, io.LimitReader(file, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	if written > s.maxBytes {
		_ = os.Remove(dst.Name())
		return "", ErrUploadTooLarge
	}

	return "/uploads/" + name, nil
}

// Handler serves stored files at /uploads/.
func (s *UploadStore) Handler() http.Handler {
	return http.StripPrefix("/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Generated names are flat; reject anything nested or dotted.
		name := path.Clean(r.URL.Path)
		if name == "." || strings.Contains(name, "/") || strings.HasPrefix(name, ".") {
			http.NotFound(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(s.dir, name))
	}))
}
