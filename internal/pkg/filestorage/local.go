package filestorage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yigit/tutorhub/internal/pkg/logger"
)

// LocalStorage handles saving files to the local filesystem.
type LocalStorage struct {
	basePath string // root directory where files are stored
	baseURL  string // URL prefix the root directory is served under
}

// NewLocalStorage creates a new LocalStorage instance rooted at basePath.
// Returned URLs are baseURL followed by the object's relative path.
func NewLocalStorage(basePath, baseURL string) (*LocalStorage, error) {
	if err := os.MkdirAll(basePath, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", basePath).Msg("Failed to create storage directory")
		return nil, fmt.Errorf("failed to create storage directory %s: %w", basePath, err)
	}
	logger.Info().Str("path", basePath).Msg("Local storage directory ensured")

	return &LocalStorage{
		basePath: basePath,
		baseURL:  strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save writes r into folder under a unique name
func (ls *LocalStorage) Save(ctx context.Context, folder, filename string, r io.Reader) (*StoredObject, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	folder = cleanFolder(folder)
	dir := filepath.Join(ls.basePath, filepath.FromSlash(folder))
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		logger.Error().Err(err).Str("path", dir).Msg("Failed to create subdirectory")
		return nil, fmt.Errorf("failed to create subdirectory: %w", err)
	}

	name := uniqueName(filename)
	dstPath := filepath.Join(dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to create destination file")
		return nil, fmt.Errorf("failed to create destination file: %w", err)
	}
	defer dst.Close()

	cr := &countingReader{r: r}
	if _, err = io.Copy(dst, cr); err != nil {
		_ = os.Remove(dstPath)
		logger.Error().Err(err).Str("path", dstPath).Msg("Failed to copy uploaded file content")
		return nil, fmt.Errorf("failed to save file content: %w", err)
	}
	if cr.n == 0 {
		_ = os.Remove(dstPath)
		return nil, ErrEmptyFile
	}

	key := name
	if folder != "" {
		key = folder + "/" + name
	}

	logger.Info().Str("filename", filename).Str("key", key).Int64("size", cr.n).Msg("File saved successfully")
	return &StoredObject{
		URL:  ls.baseURL + "/" + key,
		Key:  key,
		Size: cr.n,
	}, nil
}

// Delete removes a stored file. A missing file is not an error.
func (ls *LocalStorage) Delete(_ context.Context, key string) error {
	key = cleanFolder(key)
	if key == "" {
		return fmt.Errorf("invalid file key")
	}

	physicalPath := filepath.Join(ls.basePath, filepath.FromSlash(key))
	if err := os.Remove(physicalPath); err != nil {
		if os.IsNotExist(err) {
			logger.Warn().Str("path", physicalPath).Msg("File to delete does not exist")
			return nil
		}
		logger.Error().Err(err).Str("path", physicalPath).Msg("Failed to delete file")
		return fmt.Errorf("failed to delete file: %w", err)
	}

	logger.Info().Str("path", physicalPath).Msg("File deleted successfully")
	return nil
}
