package directory

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/profilekeeper/internal/filex"
)

// FileStore keeps the snapshot as a JSON document on the local disk.
type FileStore struct {
	path       string
	passphrase string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// WithPassphrase makes the store seal what it writes.
func (s *FileStore) WithPassphrase(passphrase string) *FileStore {
	s.passphrase = passphrase
	return s
}

// Save writes to a temporary file in the same directory and renames it over
// the target, so readers see either the old or the new snapshot.
func (s *FileStore) Save(ctx context.Context, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeRecords(records, s.passphrase)
	if err != nil {
		return err
	}

	if err := filex.EnsureParentDir(s.path); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return decodeRecords(data, s.passphrase)
}
