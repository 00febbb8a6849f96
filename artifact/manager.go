// Package artifact manages the temporary files and directories produced by
// document operations. Every artifact has one owner and is removed exactly
// once when the owner releases it.
package artifact

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultFilePermissions for temp directory creation
const DefaultFilePermissions = 0755

// Manager allocates uniquely named artifacts below a single temp directory.
type Manager struct {
	dir    string
	logger *zap.Logger
}

// NewManager creates the temp directory if needed and returns a manager for it.
func NewManager(dir string, logger *zap.Logger) (*Manager, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("failed to create temp directory %s: %w", dir, err)
	}
	return &Manager{dir: dir, logger: logger}, nil
}

// Dir returns the directory artifacts are created in.
func (m *Manager) Dir() string {
	return m.dir
}

// Token returns a short random token for user-facing file names.
func Token() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// uniqueName replaces the last "*" in pattern with a random identifier, or
// appends one when pattern has no "*".
func uniqueName(pattern string) string {
	id := uuid.NewString()
	if i := strings.LastIndex(pattern, "*"); i >= 0 {
		return pattern[:i] + id + pattern[i+1:]
	}
	return pattern + id
}

// CreateFile runs produce against a new, uniquely named file. If produce or
// closing the file fails, the partial file is removed before the error is
// returned.
func (m *Manager) CreateFile(pattern string, produce func(w io.Writer) error) (*Artifact, error) {
	return createFile(filepath.Join(m.dir, uniqueName(filepath.Base(pattern))), produce, m.logger)
}

// CreateDir allocates a uniquely named directory, used to stage the parts
// of a multi-document result.
func (m *Manager) CreateDir(pattern string) (*Artifact, error) {
	path := filepath.Join(m.dir, uniqueName(filepath.Base(pattern)))
	if err := os.Mkdir(path, DefaultFilePermissions); err != nil {
		return nil, fmt.Errorf("failed to create temp directory: %w", err)
	}
	return newArtifact(path, true, m.logger), nil
}

// Sweep removes entries in the temp directory older than maxAge. It is a
// backstop for artifacts leaked when a process exits before releasing them.
func (m *Manager) Sweep(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read temp directory: %w", err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			m.logger.Error("failed to sweep stale artifact", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}

	if removed > 0 {
		m.logger.Info("swept stale artifacts", zap.Int("removed", removed), zap.Duration("max_age", maxAge))
	}
	return removed, nil
}

// RunSweeper calls Sweep every interval until ctx is done.
func (m *Manager) RunSweeper(ctx context.Context, interval, maxAge time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(maxAge); err != nil {
				m.logger.Error("temp sweep failed", zap.Error(err))
			}
		}
	}
}
