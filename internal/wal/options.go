package wal

import (
	"time"

	"github.com/rs/zerolog"
)

// DefaultMaxSegmentSize is the default upper bound on a single segment
// file, in bytes.
const DefaultMaxSegmentSize = 64 * 1024 * 1024

// DefaultFileExtension is the default segment filename suffix.
const DefaultFileExtension = ".seg"

// DefaultBlockCacheSize is the default number of 32 KiB blocks kept in the
// per-segment read cache.
const DefaultBlockCacheSize = 256

// Options is the configuration bundle a caller supplies to Open. The core
// WAL takes no CLI flags or environment variables of its own — a higher
// layer (internal/libs/config, cmd/walctl) is responsible for turning
// operator-facing configuration into this struct.
type Options struct {
	// Dir is the directory holding segment files. Required.
	Dir string

	// FileExtension is the segment filename suffix, including the
	// leading dot. Defaults to ".seg".
	FileExtension string

	// MaxSegmentSize is the rollover threshold for a segment file: Write
	// starts a new segment when the active one's size plus the record's
	// block-aligned required space would exceed it, and rejects a record
	// whose length plus HeaderSize exceeds it. A segment can still end up
	// a few bytes larger (extra chunk headers and padding of a record that
	// starts mid-block, or of one large record alone in a segment).
	// Defaults to 64 MiB.
	MaxSegmentSize int64

	// SyncPerWrite, if true, syncs the active segment before every
	// Write returns.
	SyncPerWrite bool

	// SyncBytesThreshold triggers a sync inside Write once this many
	// bytes have accumulated since the last sync. Zero disables it.
	SyncBytesThreshold int64

	// SyncInterval, if positive, starts a background goroutine that
	// syncs the WAL on this period regardless of write volume.
	SyncInterval time.Duration

	// BlockCacheSize bounds the number of decoded blocks cached per
	// segment for ReadAt. Zero selects DefaultBlockCacheSize; a negative
	// value disables the cache (every read re-reads from the file).
	BlockCacheSize int

	// CompressionEnabled is advisory: it permits an external process to
	// compress sealed segments. It changes no core behavior.
	CompressionEnabled bool

	// VerboseLogging is advisory: the package itself does not read it;
	// log output is governed entirely by Logger.
	VerboseLogging bool

	// Logger receives structured diagnostics (segment rollover,
	// background sync failures, directory scan notes). Defaults to a
	// disabled logger so embedding this package is silent by default.
	Logger zerolog.Logger
}

// withDefaults returns a copy of o with zero-valued fields replaced by
// their defaults.
func (o Options) withDefaults() Options {
	if o.FileExtension == "" {
		o.FileExtension = DefaultFileExtension
	}
	if o.MaxSegmentSize <= 0 {
		o.MaxSegmentSize = DefaultMaxSegmentSize
	}
	if o.BlockCacheSize == 0 {
		o.BlockCacheSize = DefaultBlockCacheSize
	}
	return o
}
