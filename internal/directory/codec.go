package directory

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/profilekeeper/internal/common"
	"github.com/dmitrijs2005/profilekeeper/internal/cryptox"
)

// ErrSnapshotSealed is returned when a sealed snapshot is read without a
// passphrase.
var ErrSnapshotSealed = errors.New("snapshot is encrypted, passphrase required")

// encodeRecords renders records as JSON and seals them when passphrase is
// set.
func encodeRecords(records []Record, passphrase string) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	if passphrase == "" {
		return data, nil
	}
	sealed, err := cryptox.Seal(passphrase, data)
	if err != nil {
		return nil, fmt.Errorf("seal snapshot: %w", err)
	}
	return sealed, nil
}

// decodeRecords accepts both sealed and plain snapshots, so a passphrase
// can be introduced on an existing deployment.
func decodeRecords(data []byte, passphrase string) ([]Record, error) {
	if cryptox.IsSealed(data) {
		if passphrase == "" {
			return nil, ErrSnapshotSealed
		}
		plain, err := cryptox.Open(passphrase, data)
		if err != nil {
			return nil, fmt.Errorf("open snapshot: %w", err)
		}
		data = plain
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrCorruptedState, err)
	}
	return records, nil
}
