package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Artifact is a temporary file or directory owned by one operation.
type Artifact struct {
	path   string
	isDir  bool
	logger *zap.Logger

	once sync.Once
	err  error
}

func newArtifact(path string, isDir bool, logger *zap.Logger) *Artifact {
	return &Artifact{path: path, isDir: isDir, logger: logger}
}

// Path returns the location of the artifact on disk.
func (a *Artifact) Path() string {
	return a.path
}

// IsDir reports whether the artifact is a directory.
func (a *Artifact) IsDir() bool {
	return a.isDir
}

// CreateFile runs produce against a new file named name inside a directory
// artifact. The file is removed together with the directory on Release.
func (a *Artifact) CreateFile(name string, produce func(w io.Writer) error) (string, error) {
	if !a.isDir {
		return "", fmt.Errorf("artifact %s is not a directory", a.path)
	}
	f, err := createFile(filepath.Join(a.path, filepath.Base(name)), produce, a.logger)
	if err != nil {
		return "", err
	}
	return f.path, nil
}

// Release removes the artifact. Only the first call does any work; later
// calls return the first call's result. Failures are logged and returned but
// never replace an error the caller is already handling.
func (a *Artifact) Release() error {
	a.once.Do(func() {
		a.err = remove(a.path, a.isDir)
		if a.err != nil {
			a.logger.Error("failed to clean up temporary artifact", zap.String("path", a.path), zap.Error(a.err))
			return
		}
		a.logger.Debug("cleaned up temporary artifact", zap.String("path", a.path))
	})
	return a.err
}

// ReleaseAll releases every artifact and combines their errors.
func ReleaseAll(artifacts ...*Artifact) error {
	var err error
	for _, a := range artifacts {
		if a != nil {
			err = multierr.Append(err, a.Release())
		}
	}
	return err
}

func remove(path string, isDir bool) error {
	var err error
	if isDir {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}

func createFile(path string, produce func(w io.Writer) error, logger *zap.Logger) (*Artifact, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}

	bw := bufio.NewWriter(f)
	err = produce(bw)
	if err == nil {
		err = bw.Flush()
	}
	err = multierr.Append(err, f.Close())
	if err != nil {
		if rmErr := remove(path, false); rmErr != nil {
			logger.Error("failed to remove partial artifact", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	return newArtifact(path, false, logger), nil
}
