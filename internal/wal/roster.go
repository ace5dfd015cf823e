package wal

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// SegmentID is the positive integer key segment files are named and
// ordered by.
type SegmentID = uint32

// segmentFileName returns the "<id><ext>" basename for a segment id.
func segmentFileName(id SegmentID, ext string) string {
	return strconv.FormatUint(uint64(id), 10) + ext
}

// segmentFilePath joins dir and the segment's basename.
func segmentFilePath(dir string, id SegmentID, ext string) string {
	return filepath.Join(dir, segmentFileName(id, ext))
}

// parseSegmentID extracts the numeric id from a segment basename with the
// given extension. ok is false if name doesn't match "<digits><ext>".
func parseSegmentID(name, ext string) (id SegmentID, ok bool) {
	if !strings.HasSuffix(name, ext) {
		return 0, false
	}
	digits := strings.TrimSuffix(name, ext)
	if digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return 0, false
	}
	return SegmentID(n), true
}

// scanSegmentIDs lists the numeric ids of every "<id><ext>" regular file
// in dir, sorted ascending (numerically, not lexicographically — the
// source's roster bug, fixed here per spec §9). Files with a different
// extension are skipped.
func scanSegmentIDs(dir, ext string) ([]SegmentID, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("wal: scan directory %s: %w", dir, err)
	}

	var ids []SegmentID
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		id, ok := parseSegmentID(e.Name(), ext)
		if !ok {
			continue
		}
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
