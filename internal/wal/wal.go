// Package wal implements a block-chunked write-ahead log: the durability
// layer of rosekv. Records are appended as one or more CRC-protected
// chunks inside 32 KiB blocks, spread across a roster of segment files
// that roll over once the active segment reaches its configured maximum
// size. Every Write returns the byte offset of the record's first chunk;
// callers hold onto that offset (together with the segment id it was
// returned from) to read the record back later with Read.
//
// The package makes no attempt to index records by content, compact or
// checkpoint old segments, or span a single record across more than one
// segment — those are the responsibility of whatever sits on top of it.
package wal

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// WAL owns an ordered roster of Segments keyed by numeric segment id,
// routes appends to the active (greatest-id) segment, creates new
// segments on rollover, and enforces the configured sync policy.
type WAL struct {
	opts Options

	rw       sync.RWMutex // exclusive for Write/Sync, shared for Read
	segments map[SegmentID]*Segment
	order    []SegmentID // ascending; order[len-1] is the active segment
	nextID   SegmentID
	stats    IOStats
	lastErr  error

	lockFile *os.File

	stopOnce sync.Once
	stopCh   chan struct{}
	syncWG   sync.WaitGroup

	logger zerolog.Logger
}

// Open creates the WAL directory if missing, scans it for existing
// segment files, and opens a WAL ready to Write and Read. If
// opts.SyncInterval is positive, a background goroutine is started that
// periodically syncs the active roster.
func Open(opts Options) (*WAL, error) {
	opts = opts.withDefaults()
	if opts.Dir == "" {
		return nil, fmt.Errorf("wal: Dir is required")
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		return nil, fmt.Errorf("%w: mkdir %s: %v", ErrOpenFailed, opts.Dir, err)
	}

	lockFile, err := os.OpenFile(filepath.Join(opts.Dir, ".wal.lock"), os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("%w: open lock file: %v", ErrOpenFailed, err)
	}
	if err := lockDir(lockFile); err != nil {
		_ = lockFile.Close()
		return nil, err
	}

	w := &WAL{
		opts:     opts,
		segments: make(map[SegmentID]*Segment),
		lockFile: lockFile,
		stopCh:   make(chan struct{}),
		logger:   opts.Logger,
	}

	ids, err := scanSegmentIDs(opts.Dir, opts.FileExtension)
	if err != nil {
		_ = unlockDir(lockFile)
		_ = lockFile.Close()
		return nil, err
	}

	for _, id := range ids {
		path := segmentFilePath(opts.Dir, id, opts.FileExtension)
		seg, err := openSegment(id, path, opts.BlockCacheSize)
		if err != nil {
			w.closeSegmentsLocked()
			_ = unlockDir(lockFile)
			_ = lockFile.Close()
			return nil, err
		}
		w.segments[id] = seg
		w.order = append(w.order, id)
		if id > w.nextID {
			w.nextID = id
		}
	}

	w.logger.Info().Int("segments", len(w.order)).Str("dir", opts.Dir).Msg("wal opened")

	if opts.SyncInterval > 0 {
		w.startBackgroundSync(opts.SyncInterval)
	}

	return w, nil
}

// active returns the current active segment, or nil if the roster is
// empty. Callers must hold rw.
func (w *WAL) active() *Segment {
	if len(w.order) == 0 {
		return nil
	}
	return w.segments[w.order[len(w.order)-1]]
}

// Write appends record to the active segment, creating a new segment
// first if the roster is empty or the active segment doesn't have room,
// and syncing afterward if the configured policy calls for it. It
// returns the segment id and offset needed to read the record back.
func (w *WAL) Write(record []byte) (SegmentID, int64, error) {
	w.rw.Lock()
	defer w.rw.Unlock()

	if int64(len(record)+HeaderSize) > w.opts.MaxSegmentSize {
		return 0, 0, fmt.Errorf("%w: record of %d bytes exceeds max segment size %d", ErrTooLargeData, len(record), w.opts.MaxSegmentSize)
	}

	active := w.active()
	if active == nil || active.Size()+requiredSpace(len(record)) > w.opts.MaxSegmentSize {
		var err error
		active, err = w.rollLocked()
		if err != nil {
			w.lastErr = err
			return 0, 0, err
		}
	}

	offset, err := active.Append(record)
	if err != nil {
		w.lastErr = err
		return 0, 0, err
	}

	w.stats.recordWrite(int64(len(record)))

	if w.needSync() {
		if err := active.Sync(); err != nil {
			w.lastErr = err
			return 0, 0, err
		}
		w.stats.recordSync()
	}

	return active.ID(), offset, nil
}

// rollLocked creates and registers a new active segment. Callers must
// hold rw exclusively.
func (w *WAL) rollLocked() (*Segment, error) {
	w.nextID++
	id := w.nextID
	path := segmentFilePath(w.opts.Dir, id, w.opts.FileExtension)

	seg, err := openSegment(id, path, w.opts.BlockCacheSize)
	if err != nil {
		return nil, err
	}

	w.segments[id] = seg
	w.order = append(w.order, id)
	w.logger.Info().Uint32("segment", id).Str("path", path).Msg("rolled to new segment")
	return seg, nil
}

// needSync reports whether the sync policy requires a sync after the
// write that just completed. Callers must hold rw.
func (w *WAL) needSync() bool {
	if w.opts.SyncPerWrite {
		return true
	}
	if w.opts.SyncBytesThreshold > 0 && w.stats.BytesSinceLastSync >= w.opts.SyncBytesThreshold {
		return true
	}
	return false
}

// Read reconstructs the record previously written at (segmentID, offset).
func (w *WAL) Read(segmentID SegmentID, offset int64) ([]byte, error) {
	w.rw.RLock()
	seg, ok := w.segments[segmentID]
	w.rw.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: unknown segment %d", ErrInvalidOffset, segmentID)
	}
	return seg.ReadAt(offset)
}

// ReadSegmentRecord reads the record at (segmentID, offset) and also
// returns the offset of the next record in that segment, for callers that
// need to replay a segment's full contents sequentially (e.g. to rebuild
// an in-memory index on startup). It returns ErrEndOfSegment once offset
// has reached the segment's end.
func (w *WAL) ReadSegmentRecord(segmentID SegmentID, offset int64) ([]byte, int64, error) {
	w.rw.RLock()
	seg, ok := w.segments[segmentID]
	w.rw.RUnlock()

	if !ok {
		return nil, 0, fmt.Errorf("%w: unknown segment %d", ErrInvalidOffset, segmentID)
	}
	return seg.NextRecord(offset)
}

// Sync flushes every segment in the roster to durable storage. It holds
// the write lock, so it serializes against Write and against Read's
// roster lookup; a failure is also recorded for LastError.
func (w *WAL) Sync() error {
	w.rw.Lock()
	defer w.rw.Unlock()

	for _, id := range w.order {
		if err := w.segments[id].Sync(); err != nil {
			w.lastErr = err
			return err
		}
	}
	w.stats.recordSync()
	return nil
}

// Stats returns a snapshot of the running IO counters.
func (w *WAL) Stats() IOStats {
	w.rw.RLock()
	defer w.rw.RUnlock()
	return w.stats
}

// LastError returns the last error observed by a Write or a Sync
// (including the background sync), or nil.
func (w *WAL) LastError() error {
	w.rw.RLock()
	defer w.rw.RUnlock()
	return w.lastErr
}

// SegmentIDs returns the roster's segment ids, ascending, with the last
// entry being the active segment.
func (w *WAL) SegmentIDs() []SegmentID {
	w.rw.RLock()
	defer w.rw.RUnlock()
	out := make([]SegmentID, len(w.order))
	copy(out, w.order)
	return out
}

// startBackgroundSync spawns the single background goroutine that syncs
// the WAL every interval until Close is called.
func (w *WAL) startBackgroundSync(interval time.Duration) {
	w.syncWG.Add(1)
	ticker := time.NewTicker(interval)
	go func() {
		defer w.syncWG.Done()
		defer ticker.Stop()
		for {
			select {
			case <-w.stopCh:
				return
			case <-ticker.C:
				if err := w.Sync(); err != nil {
					w.logger.Warn().Err(err).Msg("background wal sync failed")
				}
			}
		}
	}()
}

// closeSegmentsLocked closes every open segment. Used both on normal
// Close and on a failed Open partway through scanning the directory.
func (w *WAL) closeSegmentsLocked() {
	for _, id := range w.order {
		_ = w.segments[id].Close()
	}
}

// Close stops the background sync goroutine (if any), closes every
// segment (syncing each best-effort first), and releases the directory
// lock. Idempotent.
func (w *WAL) Close() error {
	w.stopOnce.Do(func() { close(w.stopCh) })
	w.syncWG.Wait()

	w.rw.Lock()
	defer w.rw.Unlock()

	w.closeSegmentsLocked()

	err := unlockDir(w.lockFile)
	if closeErr := w.lockFile.Close(); err == nil {
		err = closeErr
	}
	return err
}
