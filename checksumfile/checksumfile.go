package checksumfile

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"

	"github.com/cockroachdb/cockroach/pkg/util/randutil"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// ErrChecksumMismatch is returned when checksum and data don't match for a file
var ErrChecksumMismatch = errors.New("checksum and data don't match")

func tempFileSuffix() string {
	rng, _ := randutil.NewPseudoRand()
	return ".tmp." + hex.EncodeToString(randutil.RandBytes(rng, 6))
}

func checksum(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}

func valid(cksm []byte, data []byte) bool {
	return bytes.Equal(cksm, checksum(data))
}

func read(fs afero.Fs, filename string) ([]byte, error) {
	content, err := afero.ReadFile(fs, filename)
	if err != nil {
		return nil, err
	}
	fe := &FileExtent{}
	if err := proto.Unmarshal(content, fe); err != nil {
		return nil, err
	}
	if !valid(fe.Checksum, fe.Data) {
		return nil, ErrChecksumMismatch
	}
	return fe.Data, nil
}

func write(fs afero.Fs, filename string, p []byte) error {
	fe, err := proto.Marshal(&FileExtent{Checksum: checksum(p), Data: p})
	if err != nil {
		return err
	}
	if err := afero.WriteFile(fs, filename, fe, 0644); err != nil {
		return err
	}
	return sync(fs, filename)
}

func sync(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// Read reads data written to filename using the Write function. It returns an
// error if the checksums don't match or file doesn't exist.
func Read(fs afero.Fs, filename string) ([]byte, error) {
	contents, err := read(fs, filename)
	if err != nil {
		return nil, errors.Wrapf(err, "could not read from file %s", filename)
	}
	return contents, nil
}

// Write writes p to filename along with its checksum in a binary format.
// This data can be read using the Read function. Write returns an error if
// data could not be completely written for some reason. It never corrupts the
// existing file.
func Write(fs afero.Fs, filename string, p []byte) error {
	tempFileName := filename + tempFileSuffix()
	if err := write(fs, tempFileName, p); err != nil {
		_ = fs.Remove(tempFileName)
		return errors.Wrapf(err, "could not write to temp file %s", tempFileName)
	}
	if wb, err := read(fs, tempFileName); err != nil || !bytes.Equal(wb, p) {
		_ = fs.Remove(tempFileName)
		if err == nil {
			err = ErrChecksumMismatch
		}
		return errors.Wrapf(err, "could not validate data written to temp file %s", tempFileName)
	}
	if err := fs.Rename(tempFileName, filename); err != nil {
		_ = fs.Remove(tempFileName)
		return errors.Wrapf(err, "could not rename temp file %s to %s", tempFileName, filename)
	}
	// Sync the directory to make the rename durable.
	return sync(fs, filepath.Dir(filename))
}
