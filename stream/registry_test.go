package stream

import (
	"bytes"
	"encoding/json"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry()
	op := Function(echo, WithName("upper"))

	require.NoError(t, r.Register(op))
	got, ok := r.Lookup("upper")
	assert.True(t, ok)
	assert.Same(t, op, got)

	_, ok = r.Lookup("lower")
	assert.False(t, ok)
}

func TestRegistry_RejectsDuplicatesAndNil(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Function(echo, WithName("dup"))))
	assert.Error(t, r.Register(Sink(echo, WithName("dup"))))
	assert.Error(t, r.Register(nil))
	assert.Error(t, r.Register(Function(echo, WithName(""))))
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_ManifestIsSorted(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Sink(echo, WithName("zeta"))))
	require.NoError(t, r.Register(Ignore(echo, WithName("alpha"))))
	require.NoError(t, r.Register(Function(echo, WithName("mid"))))

	m := r.Manifest()
	require.Len(t, m, 3)
	assert.Equal(t, "alpha", m[0].Name)
	assert.True(t, m[0].Ignored)
	assert.Equal(t, "mid", m[1].Name)
	assert.Equal(t, "PythonTupleFunction", m[1].Template)
	assert.Equal(t, "zeta", m[2].Name)
	assert.Equal(t, "PythonTupleSink", m[2].Template)

	raw, err := json.Marshal(m[2])
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"kind":"Sink"`)
}

func TestRegistry_WriteManifest(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Sink(echo, WithName("printer"), WithDoc("prints tuples"))))
	require.NoError(t, r.Register(Ignore(echo, WithName("helper"))))

	var buf bytes.Buffer
	require.NoError(t, r.WriteManifest(&buf))
	assert.True(t, strings.HasSuffix(buf.String(), "}\n]\n"))

	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "helper", entries[0].Name)
	assert.Equal(t, KindIgnore, entries[0].Kind)
	assert.True(t, entries[0].Ignored)
	assert.Equal(t, "printer", entries[1].Name)
	assert.Equal(t, KindSink, entries[1].Kind)
	assert.Equal(t, "PythonTupleSink", entries[1].Template)
	assert.Equal(t, "prints tuples", entries[1].Doc)
	assert.Equal(t, r.Manifest(), entries)
}

func TestRegistry_WriteManifestEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewRegistry().WriteManifest(&buf))
	assert.Equal(t, "[]\n", buf.String())
}

func TestRegistry_ConcurrentRegister(t *testing.T) {
	r := NewRegistry()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}

	var wg sync.WaitGroup
	for _, n := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			assert.NoError(t, r.Register(Function(echo, WithName(name))))
		}(n)
	}
	wg.Wait()

	assert.Equal(t, len(names), r.Len())
}
