package wal

import (
	"bytes"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTestSegment(t *testing.T) *Segment {
	t.Helper()
	path := filepath.Join(t.TempDir(), "1.seg")
	seg, err := openSegment(1, path, DefaultBlockCacheSize)
	require.NoError(t, err)
	t.Cleanup(func() { _ = seg.Close() })
	return seg
}

func TestSegmentSingleBlockFull(t *testing.T) {
	seg := openTestSegment(t)

	var offsets []int64
	for i := 0; i < 100; i++ {
		off, err := seg.Append([]byte("hello"))
		require.NoError(t, err)
		offsets = append(offsets, off)
	}

	for _, off := range offsets {
		got, err := seg.ReadAt(off)
		require.NoError(t, err)
		require.Equal(t, []byte("hello"), got)
	}

	require.Equal(t, int64(100*(HeaderSize+5)), seg.Size())
}

func TestSegmentCrossBlockRollover(t *testing.T) {
	seg := openTestSegment(t)

	const n = 2731
	offsets := make([]int64, n)
	for i := 0; i < n; i++ {
		off, err := seg.Append([]byte("world"))
		require.NoError(t, err)
		offsets[i] = off
	}

	for _, off := range offsets {
		got, err := seg.ReadAt(off)
		require.NoError(t, err)
		require.Equal(t, []byte("world"), got)
	}

	require.Greater(t, seg.Size(), int64(BlockSize))
}

func TestSegmentLargeMultiChunkRecord(t *testing.T) {
	seg := openTestSegment(t)

	record := bytes.Repeat([]byte{'S'}, 3*BlockSize)
	off, err := seg.Append(record)
	require.NoError(t, err)

	got, err := seg.ReadAt(off)
	require.NoError(t, err)
	require.Equal(t, record, got)
}

func TestSegmentRandomMixedSizes(t *testing.T) {
	seg := openTestSegment(t)
	rng := rand.New(rand.NewSource(42))

	const n = 2000
	records := make([][]byte, n)
	offsets := make([]int64, n)

	for i := 0; i < n; i++ {
		size := rng.Intn(4096) + 1
		rec := make([]byte, size)
		_, _ = rng.Read(rec)
		records[i] = rec

		off, err := seg.Append(rec)
		require.NoError(t, err)
		offsets[i] = off
	}

	order := rng.Perm(n)
	for _, i := range order {
		got, err := seg.ReadAt(offsets[i])
		require.NoError(t, err)
		require.Equal(t, records[i], got)
	}
}

func TestSegmentEmptyRecord(t *testing.T) {
	seg := openTestSegment(t)

	off, err := seg.Append(nil)
	require.NoError(t, err)

	got, err := seg.ReadAt(off)
	require.NoError(t, err)
	require.Empty(t, got)
	require.Equal(t, int64(HeaderSize), seg.Size())
}

func TestSegmentCorruptionDetected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.seg")
	seg, err := openSegment(1, path, 0)
	require.NoError(t, err)

	off, err := seg.Append([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[off+HeaderSize] ^= 0xFF // flip a payload byte
	require.NoError(t, os.WriteFile(path, raw, 0644))

	seg2, err := openSegment(1, path, 0)
	require.NoError(t, err)
	defer func() { _ = seg2.Close() }()

	_, err = seg2.ReadAt(off)
	require.ErrorIs(t, err, ErrCorruption)
}

func TestSegmentReopenResumesOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "1.seg")
	seg, err := openSegment(1, path, 0)
	require.NoError(t, err)

	off, err := seg.Append([]byte("first"))
	require.NoError(t, err)
	require.NoError(t, seg.Close())

	seg2, err := openSegment(1, path, 0)
	require.NoError(t, err)
	defer func() { _ = seg2.Close() }()

	off2, err := seg2.Append([]byte("second"))
	require.NoError(t, err)
	require.NotEqual(t, off, off2)

	got, err := seg2.ReadAt(off)
	require.NoError(t, err)
	require.Equal(t, []byte("first"), got)

	got2, err := seg2.ReadAt(off2)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), got2)
}

func TestRequiredSpaceMatchesActualGrowth(t *testing.T) {
	sizes := []int{0, 1, 5, MaxPayloadPerChunk - 1, MaxPayloadPerChunk, MaxPayloadPerChunk + 1, 3 * MaxPayloadPerChunk}

	for _, size := range sizes {
		seg := openTestSegment(t)
		before := seg.Size()
		expected := requiredSpaceAt(before, size)

		_, err := seg.Append(make([]byte, size))
		require.NoError(t, err)

		require.Equal(t, expected, seg.Size()-before, "size=%d", size)
	}
}
