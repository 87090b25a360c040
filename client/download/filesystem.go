package download

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// Filesystem is the gateway Handle saves through.
type Filesystem interface {
	IsDir(path string) bool
	Exists(path string) bool
	MkdirAll(path string) error
	WriteFile(path string, data []byte) error
}

// OSFilesystem is the local disk. A nil Logger uses slog.Default().
type OSFilesystem struct {
	Logger *slog.Logger
}

func (OSFilesystem) IsDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func (OSFilesystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (OSFilesystem) MkdirAll(path string) error {
	return os.MkdirAll(path, 0o755)
}

// WriteFile writes data to a temp file in the same directory as path and
// renames it into place on success. On any error the temp file is removed.
func (fs OSFilesystem) WriteFile(path string, data []byte) error {
	logger := fs.Logger
	if logger == nil {
		logger = slog.Default()
	}

	file, err := os.CreateTemp(filepath.Dir(path), ".sockhttp-dl-*")
	if err != nil {
		return err
	}

	var successful bool
	defer func() {
		if err := file.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			logger.Error("defer closing temp file", "error", err)
		}
		if !successful {
			if err := os.Remove(file.Name()); err != nil {
				logger.Error("failed to remove temp file", "error", err)
			}
		}
	}()

	if _, err := file.Write(data); err != nil {
		return err
	}
	if err := file.Chmod(0o644); err != nil {
		return err
	}
	if err := file.Sync(); err != nil {
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	if err := os.Rename(file.Name(), path); err != nil {
		return err
	}

	successful = true

	return nil
}
