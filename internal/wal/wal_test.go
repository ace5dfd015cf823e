package wal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestWAL(t *testing.T, opts Options) *WAL {
	t.Helper()
	if opts.Dir == "" {
		opts.Dir = t.TempDir()
	}
	w, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func TestWALWriteAndReadRoundTrip(t *testing.T) {
	w := openTestWAL(t, Options{})

	segID, off, err := w.Write([]byte("record one"))
	require.NoError(t, err)

	got, err := w.Read(segID, off)
	require.NoError(t, err)
	require.Equal(t, []byte("record one"), got)
}

func TestWALRolloverAcrossSegments(t *testing.T) {
	w := openTestWAL(t, Options{MaxSegmentSize: 1 << 20})

	record := make([]byte, 64*1024)
	type loc struct {
		seg SegmentID
		off int64
	}
	var locs []loc

	// 2 MiB of data in 64 KiB records forces at least 2 segment files.
	for i := 0; i < 32; i++ {
		segID, off, err := w.Write(record)
		require.NoError(t, err)
		locs = append(locs, loc{segID, off})
	}

	require.GreaterOrEqual(t, len(w.SegmentIDs()), 2)

	for _, l := range locs {
		got, err := w.Read(l.seg, l.off)
		require.NoError(t, err)
		require.Equal(t, record, got)
	}
}

func TestWALOversizeRejected(t *testing.T) {
	w := openTestWAL(t, Options{MaxSegmentSize: 64 * 1024})

	before := w.Stats()
	_, _, err := w.Write(make([]byte, 65530))
	require.ErrorIs(t, err, ErrTooLargeData)
	require.Equal(t, before, w.Stats())
}

func TestWALIOStats(t *testing.T) {
	w := openTestWAL(t, Options{})

	const n = 10
	for i := 0; i < n; i++ {
		_, _, err := w.Write([]byte("x"))
		require.NoError(t, err)
	}

	stats := w.Stats()
	require.EqualValues(t, n, stats.TotalWriteOps)
	require.EqualValues(t, n, stats.TotalBytesWritten)
}

func TestWALSyncPerWrite(t *testing.T) {
	w := openTestWAL(t, Options{SyncPerWrite: true})

	_, _, err := w.Write([]byte("durable"))
	require.NoError(t, err)

	stats := w.Stats()
	require.EqualValues(t, 1, stats.SyncOps)
	require.EqualValues(t, 0, stats.BytesSinceLastSync)
}

func TestWALSyncBytesThreshold(t *testing.T) {
	w := openTestWAL(t, Options{SyncBytesThreshold: 20})

	for i := 0; i < 3; i++ {
		_, _, err := w.Write([]byte("0123456789"))
		require.NoError(t, err)
	}

	stats := w.Stats()
	require.GreaterOrEqual(t, stats.SyncOps, int64(1))
}

func TestWALReopenDiscoversSegmentsNumerically(t *testing.T) {
	dir := t.TempDir()

	w := openTestWAL(t, Options{Dir: dir, MaxSegmentSize: 64 * 1024})
	// Each 32 KiB record needs more than half of a 64 KiB segment, so
	// every write rolls to a new segment and ids reach past 10.
	for i := 0; i < 20; i++ {
		_, _, err := w.Write(make([]byte, 32*1024))
		require.NoError(t, err)
	}
	ids := w.SegmentIDs()
	require.GreaterOrEqual(t, len(ids), 10)
	require.NoError(t, w.Close())

	w2, err := Open(Options{Dir: dir, MaxSegmentSize: 64 * 1024})
	require.NoError(t, err)
	defer func() { _ = w2.Close() }()

	// The source's lexicographic roster ordering would put "10.seg"
	// before "2.seg"; the numerically greatest id must still be active.
	require.Equal(t, ids[len(ids)-1], w2.SegmentIDs()[len(w2.SegmentIDs())-1])
	require.Equal(t, len(ids), len(w2.SegmentIDs()))
}

func TestWALDirectoryLockRejectsSecondOpener(t *testing.T) {
	dir := t.TempDir()
	w := openTestWAL(t, Options{Dir: dir})

	_, err := Open(Options{Dir: dir})
	require.ErrorIs(t, err, ErrLocked)

	require.NoError(t, w.Close())

	w2, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, w2.Close())
}

func TestWALIgnoresForeignExtensions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0644))

	w := openTestWAL(t, Options{Dir: dir})
	require.Empty(t, w.SegmentIDs())

	_, _, err := w.Write([]byte("x"))
	require.NoError(t, err)
	require.Len(t, w.SegmentIDs(), 1)
}
