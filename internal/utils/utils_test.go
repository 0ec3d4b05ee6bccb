package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name    string
	Count   int
	Started int64
	Tags    []string
}

func TestMsgPack_RoundTrip(t *testing.T) {
	in := sample{Name: "bundle", Count: 3, Started: 1700000000, Tags: []string{"a", "b"}}

	buf, err := EncodeMsgPack(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, DecodeMsgPack(buf.Bytes(), &out))
	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Count, out.Count)
	assert.Equal(t, in.Started, out.Started)
	assert.Equal(t, in.Tags, out.Tags)
}

func TestDecodeMsgPack_Garbage(t *testing.T) {
	var out sample
	assert.Error(t, DecodeMsgPack([]byte{0xc1}, &out))
}

func TestPathHelpers(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o644))

	assert.True(t, PathExists(dir))
	assert.True(t, PathExists(file))
	assert.False(t, PathExists(filepath.Join(dir, "missing")))

	assert.True(t, IsDir(dir))
	assert.False(t, IsDir(file))
	assert.False(t, IsDir(filepath.Join(dir, "missing")))
}
