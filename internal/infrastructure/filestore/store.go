package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"syscall"

	domcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/domain/contest"
)

const tempDirName = ".incoming"

// Store keeps contest photos at {root}/{year}/{month}/{name}. Incoming uploads are
// staged under {root}/.incoming so the final move is a same-filesystem rename.
type Store struct {
	root string
}

var _ domcontest.Store = (*Store)(nil)

func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) Root() string { return s.root }

// CreateTemp opens a new staging file for an incoming upload.
func (s *Store) CreateTemp() (*os.File, error) {
	dir := filepath.Join(s.root, tempDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return os.CreateTemp(dir, "upload-*")
}

// Save moves the staged file into its partition. Each step short-circuits on failure:
// create the directory (existing is fine), move the file, remove any residue.
func (s *Store) Save(ctx context.Context, u domcontest.Upload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	dir := filepath.Join(s.root, u.Partition.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dest := filepath.Join(dir, u.OriginalName)
	if err := move(u.TempPath, dest); err != nil {
		return "", err
	}

	if err := os.Remove(u.TempPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	return dest, nil
}

func move(src, dest string) error {
	err := os.Rename(src, dest)
	if err == nil {
		return nil
	}
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) || !errors.Is(linkErr.Err, syscall.EXDEV) {
		return err
	}
	return copyFile(src, dest)
}

func copyFile(src, dest string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return nil
}
