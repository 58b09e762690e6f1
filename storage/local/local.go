// Package local implements a Store on the local filesystem.  Writes go to a
// temporary file in the destination directory that is renamed over the target
// only after it has been fully written and synced.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/blang/semver"
	"github.com/twinj/uuid"

	"github.com/janelia-flyem/graft/graft"
	"github.com/janelia-flyem/graft/storage"
)

func init() {
	ver, err := semver.Make("0.1.0")
	if err != nil {
		graft.Errorf("Unable to make semver in local store: %v\n", err)
	}
	storage.RegisterEngine(Engine{"local", "Local filesystem, atomic rename on write", ver})
}

// --- Engine Implementation ------

type Engine struct {
	name   string
	desc   string
	semver semver.Version
}

func (e Engine) GetName() string {
	return e.name
}

func (e Engine) GetDescription() string {
	return e.desc
}

func (e Engine) GetSemVer() semver.Version {
	return e.semver
}

func (e Engine) Schemes() []string {
	return []string{""}
}

func (e Engine) String() string {
	return fmt.Sprintf("%s [%s]", e.name, e.semver)
}

// NewStore returns a store rooted at the given directory path.
func (e Engine) NewStore(ref string) (storage.Store, error) {
	return New(ref)
}

// Store keeps each scenario file as a file under its root directory.
type Store struct {
	root string
}

// New returns a store rooted at root.  Relative paths passed to ReadAll and
// WriteAll are resolved against root; an empty root leaves them relative to
// the working directory.
func New(root string) (*Store, error) {
	root, err := graft.ExpandHome(root)
	if err != nil {
		return nil, err
	}
	return &Store{root: root}, nil
}

func (s *Store) String() string {
	if s.root == "" {
		return "local filesystem"
	}
	return fmt.Sprintf("local filesystem @ %s", s.root)
}

func (s *Store) fullPath(path string) string {
	if s.root == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.root, path)
}

// ReadAll returns the contents of the file at path.
func (s *Store) ReadAll(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.fullPath(path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %w", storage.ErrNotFound, err)
		}
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// WriteAll replaces the file at path with data.  On failure the previous file,
// if any, is untouched and the temporary file is removed.
func (s *Store) WriteAll(ctx context.Context, path string, data []byte) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	dst := s.fullPath(path)
	dir := filepath.Dir(dst)
	if err = os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmpPath := filepath.Join(dir, fmt.Sprintf(".%s.%x.tmp", filepath.Base(dst), uuid.NewV4().Bytes()))
	f, err := os.OpenFile(tmpPath, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return err
	}
	closed := false
	defer func() {
		if !closed {
			f.Close()
		}
		if err != nil {
			os.Remove(tmpPath)
		}
	}()

	if _, err = f.Write(data); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}
	closed = true
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, dst)
}

func (s *Store) Close() error {
	return nil
}
