package models

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"langprobe/internal/logging"
)

// Downloader fetches model files into a directory.
type Downloader struct {
	// Dir is the model directory.
	Dir string
	// Client overrides the HTTP client, mainly for tests.
	Client *http.Client
	Logger *slog.Logger
}

// Ensure makes sure the named model exists in the model directory, fetching
// it when absent. Returns the model's on-disk path.
func (d *Downloader) Ensure(ctx context.Context, name string) (string, error) {
	info, err := Lookup(name)
	if err != nil {
		return "", err
	}

	path := info.Path(d.Dir)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	lock := flock.New(filepath.Join(d.Dir, ".download.lock"))
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("acquire download lock: %w", err)
	}
	defer lock.Unlock()

	// Another process may have finished the download while we waited.
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := d.fetch(ctx, info, path); err != nil {
		return "", err
	}
	return path, nil
}

func (d *Downloader) fetch(ctx context.Context, info Info, path string) error {
	logger := d.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Info("downloading model",
		logging.String("model", info.Name),
		logging.String("url", info.URL),
		logging.Int("size_mb", info.SizeMB))

	client := d.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, info.URL, nil)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("download model: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download model: unexpected status %d", resp.StatusCode)
	}

	tempPath := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString()[:8])
	file, err := os.Create(tempPath)
	if err != nil {
		return fmt.Errorf("create model temp file: %w", err)
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(tempPath)
		return fmt.Errorf("write model: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("close model temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("replace model file: %w", err)
	}

	logger.Info("model downloaded", logging.String("path", path))
	return nil
}
