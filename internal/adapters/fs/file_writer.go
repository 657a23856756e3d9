package fs

import (
	"context"
	"os"

	"github.com/evm-coprocessor/copro/internal/usecase"
)

// FileWriterAdapter writes project files on the local file system
type FileWriterAdapter struct{}

// NewFileWriterAdapter creates a new file writer adapter
func NewFileWriterAdapter() *FileWriterAdapter {
	return &FileWriterAdapter{}
}

// WriteFile writes content to path, replacing any existing file
func (f *FileWriterAdapter) WriteFile(ctx context.Context, path string, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

// FileExists checks if a file exists
func (f *FileWriterAdapter) FileExists(ctx context.Context, path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureDirectory ensures a directory exists
func (f *FileWriterAdapter) EnsureDirectory(ctx context.Context, path string) error {
	return os.MkdirAll(path, 0755)
}

var _ usecase.FileWriter = (*FileWriterAdapter)(nil)
