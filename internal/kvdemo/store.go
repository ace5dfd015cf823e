// Package kvdemo is a minimal key/value store that uses internal/wal as its
// durability layer. It exists to demonstrate the WAL's external interface:
// the store itself owns the in-memory index mapping keys to (segment id,
// offset) pairs, while the WAL owns nothing about keys at all.
package kvdemo

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/divedb/rosekv/internal/wal"
)

// opKind distinguishes a value write from a tombstone in the WAL record
// encoding, so replay can tell a deletion from a put.
type opKind byte

const (
	opPut opKind = iota + 1
	opDelete
)

// location pins a key's most recent record to a spot in the WAL roster.
type location struct {
	segment wal.SegmentID
	offset  int64
}

// Store is a single-process, single-writer key/value store backed by a
// write-ahead log. Every Put/Delete is appended to the WAL before the
// in-memory index is updated, so a crash between the two never loses a
// durable write — on restart, Open replays the WAL to rebuild the index.
type Store struct {
	mu  sync.RWMutex
	w   *wal.WAL
	idx map[string]location
}

// Open opens (or creates) the WAL at opts.Dir and replays its full contents
// to rebuild the in-memory key index.
func Open(opts wal.Options) (*Store, error) {
	w, err := wal.Open(opts)
	if err != nil {
		return nil, err
	}

	s := &Store{
		w:   w,
		idx: make(map[string]location),
	}

	if err := s.replay(); err != nil {
		_ = w.Close()
		return nil, err
	}

	return s, nil
}

// replay walks every segment in ascending order and re-applies each record
// to the index, so the last write for a given key wins regardless of which
// segment it landed in.
func (s *Store) replay() error {
	for _, segID := range s.w.SegmentIDs() {
		offset := int64(0)
		for {
			record, next, err := s.w.ReadSegmentRecord(segID, offset)
			if err != nil {
				if err == wal.ErrEndOfSegment {
					break
				}
				return err
			}

			kind, key, _, err := decodeRecord(record)
			if err != nil {
				return fmt.Errorf("kvdemo: replay segment %d at %d: %w", segID, offset, err)
			}

			switch kind {
			case opPut:
				s.idx[key] = location{segment: segID, offset: offset}
			case opDelete:
				delete(s.idx, key)
			}

			offset = next
		}
	}
	return nil
}

// Put durably writes key/value and updates the index.
func (s *Store) Put(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := encodeRecord(opPut, key, value)
	segID, offset, err := s.w.Write(record)
	if err != nil {
		return err
	}

	s.idx[key] = location{segment: segID, offset: offset}
	return nil
}

// Get returns the most recently written value for key, or ok=false if the
// key was never written or has since been deleted.
func (s *Store) Get(key string) (value []byte, ok bool, err error) {
	s.mu.RLock()
	loc, found := s.idx[key]
	s.mu.RUnlock()
	if !found {
		return nil, false, nil
	}

	record, err := s.w.Read(loc.segment, loc.offset)
	if err != nil {
		return nil, false, err
	}

	_, _, val, err := decodeRecord(record)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

// Delete durably appends a tombstone for key and removes it from the index.
// Returns ok=false if the key was not present.
func (s *Store) Delete(key string) (ok bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.idx[key]; !found {
		return false, nil
	}

	record := encodeRecord(opDelete, key, nil)
	if _, _, err := s.w.Write(record); err != nil {
		return false, err
	}

	delete(s.idx, key)
	return true, nil
}

// Len returns the number of live keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.idx)
}

// Stats exposes the underlying WAL's IO counters.
func (s *Store) Stats() wal.IOStats {
	return s.w.Stats()
}

// SegmentIDs exposes the underlying WAL's segment roster.
func (s *Store) SegmentIDs() []wal.SegmentID {
	return s.w.SegmentIDs()
}

// Sync flushes the underlying WAL to durable storage.
func (s *Store) Sync() error {
	return s.w.Sync()
}

// Close flushes and closes the underlying WAL.
func (s *Store) Close() error {
	return s.w.Close()
}

// encodeRecord lays out a WAL record as: 1-byte op kind, 2-byte key length
// (big-endian), key bytes, then the value bytes (empty for a tombstone).
func encodeRecord(kind opKind, key string, value []byte) []byte {
	buf := make([]byte, 1+2+len(key)+len(value))
	buf[0] = byte(kind)
	binary.BigEndian.PutUint16(buf[1:3], uint16(len(key)))
	copy(buf[3:], key)
	copy(buf[3+len(key):], value)
	return buf
}

func decodeRecord(record []byte) (kind opKind, key string, value []byte, err error) {
	if len(record) < 3 {
		return 0, "", nil, fmt.Errorf("kvdemo: record too short: %d bytes", len(record))
	}
	kind = opKind(record[0])
	keyLen := int(binary.BigEndian.Uint16(record[1:3]))
	if 3+keyLen > len(record) {
		return 0, "", nil, fmt.Errorf("kvdemo: truncated key in record of %d bytes", len(record))
	}
	key = string(record[3 : 3+keyLen])
	value = record[3+keyLen:]
	return kind, key, value, nil
}
