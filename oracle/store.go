package oracle

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/spf13/afero"

	"github.com/rubrikinc/tsoracle/checksumfile"
	"github.com/rubrikinc/tsoracle/pb"
	"github.com/rubrikinc/tsoracle/tsutil"
)

// Store persists snapshots of the oracle state
type Store interface {
	// Load returns the last saved snapshot, or nil if nothing was saved yet.
	Load(ctx context.Context) (*tsoraclepb.OracleState, error)
	// Save durably replaces the saved snapshot. It either fully succeeds or
	// leaves the previously saved snapshot in place.
	Save(ctx context.Context, snap *tsoraclepb.OracleState) error
}

// FileStore is a Store which keeps the snapshot in a checksummed file
type FileStore struct {
	fs   afero.Fs
	path string
}

var _ Store = &FileStore{}

// NewFileStore returns a FileStore keeping its snapshot in dataDir, which
// should already exist.
func NewFileStore(fs afero.Fs, dataDir string) *FileStore {
	return &FileStore{fs: fs, path: filepath.Join(dataDir, tsutil.StateFileName)}
}

// Path returns the path of the state file
func (f *FileStore) Path() string {
	return f.path
}

// Load implements the Store interface.
func (f *FileStore) Load(ctx context.Context) (*tsoraclepb.OracleState, error) {
	if _, err := f.fs.Stat(f.path); err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	raw, err := checksumfile.Read(f.fs, f.path)
	if err != nil {
		return nil, err
	}
	snap := &tsoraclepb.OracleState{}
	if err := proto.Unmarshal(raw, snap); err != nil {
		return nil, errors.Wrapf(err, "could not decode oracle state from %s", f.path)
	}
	return snap, nil
}

// Save implements the Store interface.
func (f *FileStore) Save(ctx context.Context, snap *tsoraclepb.OracleState) error {
	raw, err := proto.Marshal(snap)
	if err != nil {
		return err
	}
	return checksumfile.Write(f.fs, f.path, raw)
}
