package wal

import "errors"

// Sentinel errors returned by Segment and WAL operations. Callers should
// compare with errors.Is rather than on the wrapped message, since every
// return site adds file/offset context via fmt.Errorf("...: %w", ...).
var (
	// ErrTooLargeData is returned by WAL.Write when the record's length
	// plus HeaderSize exceeds options.MaxSegmentSize.
	ErrTooLargeData = errors.New("wal: record too large for max segment size")

	// ErrOpenFailed wraps a filesystem failure to create or open a
	// segment file.
	ErrOpenFailed = errors.New("wal: failed to open segment file")

	// ErrIOFailed covers short reads/writes and failed flushes.
	ErrIOFailed = errors.New("wal: io operation failed")

	// ErrCorruption is returned when a chunk's CRC does not match its
	// payload, or the chunk-type chain is malformed.
	ErrCorruption = errors.New("wal: chunk corruption detected")

	// ErrInvalidOffset is returned when ReadAt is given an offset outside
	// the segment's written range, or one that does not land on a
	// FULL/FIRST chunk after block-boundary alignment.
	ErrInvalidOffset = errors.New("wal: invalid read offset")

	// ErrClosed is returned by Append, ReadAt and NextRecord on a segment
	// whose closed flag is already set, and so by WAL.Write and WAL.Read
	// when they reach such a segment. Segment.Sync and Segment.Close on a
	// closed segment return nil.
	ErrClosed = errors.New("wal: segment or wal is closed")

	// ErrLocked is returned when the WAL directory is already locked by
	// another process.
	ErrLocked = errors.New("wal: directory is locked by another process")

	// ErrEndOfSegment is returned by NextRecord/ReadSegmentRecord once the
	// given offset has reached the segment's end; it is an iteration
	// sentinel, not a failure.
	ErrEndOfSegment = errors.New("wal: end of segment")
)
