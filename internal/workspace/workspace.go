package workspace

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"langprobe/internal/logging"
)

// Workspace is a per-run scratch directory.
type Workspace struct {
	root   string
	name   string
	keep   bool
	logger *slog.Logger
}

// New creates a unique scratch directory under baseDir. When keep is true,
// Close leaves the directory in place and logs its location.
func New(baseDir string, keep bool, logger *slog.Logger) (*Workspace, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	name := fmt.Sprintf("langprobe-%s-%s", time.Now().UTC().Format("20060102-150405"), uuid.NewString()[:8])
	root := filepath.Join(baseDir, name)
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	wsLogger := logging.NewComponentLogger(logger, "workspace").
		With(logging.String(logging.FieldRunID, name))
	return &Workspace{
		root:   root,
		name:   name,
		keep:   keep,
		logger: wsLogger,
	}, nil
}

// Dir returns the workspace root.
func (w *Workspace) Dir() string {
	return w.root
}

// Name returns the unique run identifier the directory is named after.
func (w *Workspace) Name() string {
	return w.name
}

// Keep reports whether scratch files are retained after the run.
func (w *Workspace) Keep() bool {
	return w.keep
}

// Close removes the workspace unless retention is active.
func (w *Workspace) Close() error {
	if w.keep {
		w.logger.Info("retaining workspace for inspection", logging.String("path", w.root))
		return nil
	}
	if err := os.RemoveAll(w.root); err != nil {
		return fmt.Errorf("remove workspace: %w", err)
	}
	return nil
}
