package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/accord-hospitals/interview-portal/backend/internal/domain"
)

var allowedTypes = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// LocalStorage keeps resume artifacts in one flat directory.
type LocalStorage struct {
	basePath string
	maxBytes int64
}

func NewLocalStorage(basePath string, maxBytes int64) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %s: %w", basePath, err)
	}
	return &LocalStorage{basePath: basePath, maxBytes: maxBytes}, nil
}

// Store saves r under a fresh name derived from suggestedName's extension and
// returns the reference together with the detected content type.
func (ls *LocalStorage) Store(r io.Reader, suggestedName string) (ref string, contentType string, err error) {
	ext := strings.ToLower(filepath.Ext(suggestedName))
	fallbackType, ok := allowedTypes[ext]
	if !ok {
		return "", "", domain.ErrUnsupportedArtifactType
	}

	ref = fmt.Sprintf("%s_%s%s", time.Now().UTC().Format("20060102T150405Z"), uuid.New().String(), ext)
	dstPath := filepath.Join(ls.basePath, ref)

	dst, err := os.OpenFile(dstPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", ref, err)
	}

	written, err := io.Copy(dst, io.LimitReader(r, ls.maxBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err == nil && written > ls.maxBytes {
		err = domain.ErrPayloadTooLarge
	}
	if err != nil {
		_ = os.Remove(dstPath)
		return "", "", err
	}

	contentType = fallbackType
	if mtype, err := mimetype.DetectFile(dstPath); err == nil {
		for _, allowed := range allowedTypes {
			if mtype.Is(allowed) {
				contentType = allowed
				break
			}
		}
	}

	slog.Info("artifact stored", "ref", ref, "name", suggestedName, "bytes", written)
	return ref, contentType, nil
}

func (ls *LocalStorage) Open(ref string) (io.ReadCloser, error) {
	path, err := ls.path(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, domain.ErrNotFound
	}
	return f, err
}

// Delete removes an artifact. Deleting a missing artifact is not an error.
func (ls *LocalStorage) Delete(ref string) error {
	if ref == "" {
		return nil
	}
	path, err := ls.path(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// path resolves ref inside the base directory; refs never contain separators.
func (ls *LocalStorage) path(ref string) (string, error) {
	name := filepath.Base(ref)
	if name != ref || name == "." || name == ".." || name == string(filepath.Separator) {
		return "", fmt.Errorf("invalid artifact ref %q: %w", ref, domain.ErrNotFound)
	}
	return filepath.Join(ls.basePath, name), nil
}
