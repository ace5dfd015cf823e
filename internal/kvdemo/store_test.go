package kvdemo

import (
	"testing"

	"github.com/divedb/rosekv/internal/wal"
	"github.com/stretchr/testify/require"
)

func TestStorePutGetDelete(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(wal.Options{Dir: dir})
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	require.NoError(t, s.Put("a", []byte("1")))
	require.NoError(t, s.Put("b", []byte("2")))

	v, ok, err := s.Get("a")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("1"), v)

	deleted, err := s.Delete("a")
	require.NoError(t, err)
	require.True(t, deleted)

	_, ok, err = s.Get("a")
	require.NoError(t, err)
	require.False(t, ok)

	require.Equal(t, 1, s.Len())
}

func TestStoreReplayAfterReopen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(wal.Options{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, s.Put("k1", []byte("v1")))
	require.NoError(t, s.Put("k2", []byte("v2")))
	require.NoError(t, s.Put("k1", []byte("v1-updated")))
	_, err = s.Delete("k2")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s2, err := Open(wal.Options{Dir: dir})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	require.Equal(t, 1, s2.Len())

	v, ok, err := s2.Get("k1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []byte("v1-updated"), v)

	_, ok, err = s2.Get("k2")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestStoreReplayAcrossRollover(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(wal.Options{Dir: dir, MaxSegmentSize: 16 * 1024})
	require.NoError(t, err)

	value := make([]byte, 2048)
	for i := 0; i < 40; i++ {
		key := string(rune('a' + i%26))
		require.NoError(t, s.Put(key, value))
	}
	require.NoError(t, s.Close())

	s2, err := Open(wal.Options{Dir: dir, MaxSegmentSize: 16 * 1024})
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	require.GreaterOrEqual(t, s2.Len(), 1)
}
