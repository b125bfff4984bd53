package checksumfile

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	numBytes = 50
	testDir  = "/var/lib/tsoracle"
)

func randomBytes(n int) []byte {
	p := make([]byte, n)
	rand.Read(p)
	return p
}

func newTestFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(testDir, 0755))
	return fs
}

func TestChecksum(t *testing.T) {
	cases := map[string]struct {
		data     []byte
		expected string
	}{
		"bytes": {
			data:     []byte{1, 2, 3},
			expected: "039058c6f2c0cb492c533b0a4d14ef77cc0f78abccced5287d84a1a2011cfb81",
		},
		"abc": {
			data:     []byte("abc"),
			expected: "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		},
		"empty": {
			data:     nil,
			expected: "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cksm := checksum(tc.data)
			assert.Equal(t, tc.expected, hex.EncodeToString(cksm))
			assert.True(t, valid(cksm, tc.data))
			assert.False(t, valid(cksm, append(tc.data, 0)))
		})
	}
}

func TestHandleWriteRead(t *testing.T) {
	fs := newTestFs(t)
	filename := filepath.Join(testDir, "TestBasic")
	countFaulty := 0
	for i := 0; i < 50; i++ {
		data := randomBytes(numBytes)
		if Write(fs, filename, data) != nil {
			countFaulty++
		}
		read, err := Read(fs, filename)
		if err != nil || !bytes.Equal(data, read) {
			countFaulty++
		}
	}
	assert.Zero(t, countFaulty)

	// no temp files are left behind
	entries, err := afero.ReadDir(fs, testDir)
	assert.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestReadChecksumMismatch(t *testing.T) {
	fs := newTestFs(t)
	filename := filepath.Join(testDir, "TestBasic")
	fe, err := proto.Marshal(&FileExtent{Checksum: randomBytes(32), Data: randomBytes(numBytes)})
	assert.NoError(t, err)
	assert.NoError(t, afero.WriteFile(fs, filename, fe, 0644))
	_, err = Read(fs, filename)
	assert.Regexp(t, "could not read from file.*checksum and data don't match", err.Error())
	assert.Equal(t, ErrChecksumMismatch, errors.Cause(err))
}

func TestReadWithoutWrite(t *testing.T) {
	fs := newTestFs(t)
	_, err := Read(fs, filepath.Join(testDir, "TestBasic"))
	assert.Regexp(t, "could not read from file", err.Error())
	assert.True(t, os.IsNotExist(errors.Cause(err)))
}

func TestWriteDoesNotCorruptOnFailure(t *testing.T) {
	fs := newTestFs(t)
	filename := filepath.Join(testDir, "TestBasic")
	data := randomBytes(numBytes)
	assert.NoError(t, Write(fs, filename, data))

	err := Write(afero.NewReadOnlyFs(fs), filename, randomBytes(numBytes))
	assert.Regexp(t, "could not write to temp file", err.Error())

	read, err := Read(fs, filename)
	assert.NoError(t, err)
	assert.Equal(t, data, read)
}
