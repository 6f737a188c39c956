package directory

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSnapshot is returned by a SnapshotStore that holds nothing yet.
var ErrNoSnapshot = errors.New("no snapshot")

// SnapshotStore persists a full copy of the directory.
type SnapshotStore interface {
	Save(ctx context.Context, records []Record) error
	Load(ctx context.Context) ([]Record, error)
}

// Export writes every user and credential entry to store.
func (d *Directory) Export(ctx context.Context, store SnapshotStore) error {
	if err := store.Save(ctx, d.Records()); err != nil {
		return fmt.Errorf("export directory: %w", err)
	}
	return nil
}

// Import replaces the directory content with the snapshot held by store.
// ErrNoSnapshot is passed through so callers can fall back to seeding.
func (d *Directory) Import(ctx context.Context, store SnapshotStore) error {
	records, err := store.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrNoSnapshot) {
			return err
		}
		return fmt.Errorf("import directory: %w", err)
	}
	return d.Load(records)
}
