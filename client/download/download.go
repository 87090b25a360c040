package download

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultFolder is used when no target folder is given.
const DefaultFolder = "/tmp"

// FetchFunc returns the body served at url.
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// Handle fetches source and saves the body to folder/name through fs,
// creating folder when it is not a directory yet. An empty folder means
// DefaultFolder and an empty name is replaced by GenerateName(source).
// The saved path is returned.
//
// Filesystem failures are returned as *IOError. Errors from fetch are
// returned unchanged.
func Handle(ctx context.Context, fs Filesystem, fetch FetchFunc, source, folder, name string, logger *slog.Logger, optFns ...Option) (string, error) {
	var opts options
	for _, opt := range optFns {
		if err := opt(&opts); err != nil {
			return "", fmt.Errorf("applying option: %w", err)
		}
	}

	if folder == "" {
		folder = DefaultFolder
	}
	if name == "" {
		name = GenerateName(source)
	}

	if !fs.IsDir(folder) {
		if err := fs.MkdirAll(folder); err != nil {
			return "", &IOError{Kind: ErrMkdir, Path: folder, Err: err}
		}
	}

	savePath := filepath.Join(folder, name)

	if opts.skipExisting && fs.Exists(savePath) {
		logger.Info("skipping existing file", "path", savePath)
		return savePath, nil
	}

	body, err := fetch(ctx, source)
	if err != nil {
		return "", err
	}

	if err := opts.checksum.Verify(body); err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("download cancelled: %w", err)
	}

	if err := fs.WriteFile(savePath, body); err != nil {
		return "", &IOError{Kind: ErrWriteFile, Path: savePath, Err: err}
	}

	logger.Debug("download saved", "source", source, "path", savePath, "bytes", len(body))

	return savePath, nil
}

// GenerateName derives a file name for source that is unique across
// calls: the md5 hex digest of the source, the current time in
// nanoseconds and a random UUID.
func GenerateName(source string) string {
	sum := md5.Sum([]byte(source + strconv.FormatInt(time.Now().UnixNano(), 10) + uuid.NewString()))
	return hex.EncodeToString(sum[:])
}
