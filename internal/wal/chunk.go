package wal

import (
	"encoding/binary"
	"hash/crc32"
)

// ChunkType identifies the role a chunk plays in a (possibly multi-chunk)
// record.
type ChunkType = byte

// Chunk types, per the on-disk format: a record of L bytes is either one
// FULL chunk, or a FIRST chunk, zero or more MIDDLE chunks, and one LAST
// chunk.
const (
	ChunkTypeFull ChunkType = iota
	ChunkTypeFirst
	ChunkTypeMiddle
	ChunkTypeLast
)

const (
	// BlockSize is the fixed window a segment file is partitioned into.
	// A chunk never straddles a block boundary.
	BlockSize = 32 * 1024

	// HeaderSize is the packed width of a chunk header: crc32(4) +
	// len(2) + type(1).
	HeaderSize = 7

	// MaxPayloadPerChunk is the most payload a single chunk can carry:
	// whatever is left in a block after the header.
	MaxPayloadPerChunk = BlockSize - HeaderSize
)

// crcTable is the standard CRC-32 (IEEE 802.3) table: polynomial
// 0xEDB88320, reflected, initial 0xFFFFFFFF, xor-out 0xFFFFFFFF. This
// variant is frozen for the lifetime of this format — readers and writers
// must agree, and IEEE is what the rest of the corpus's WAL
// implementations converge on.
var crcTable = crc32.IEEETable

// encodeChunkHeader writes the 7-byte chunk header for a payload of the
// given length and type into dst, with the CRC computed over
// len ‖ type ‖ payload (the CRC field itself is excluded from its own
// checksum).
func encodeChunkHeader(dst []byte, payload []byte, typ ChunkType) {
	_ = dst[:HeaderSize]
	binary.LittleEndian.PutUint16(dst[4:6], uint16(len(payload)))
	dst[6] = typ

	sum := chunkCRC(dst[4:7], payload)
	binary.LittleEndian.PutUint32(dst[0:4], sum)
}

// decodeChunkHeader parses a 7-byte chunk header.
func decodeChunkHeader(src []byte) (crc uint32, length uint16, typ ChunkType) {
	_ = src[:HeaderSize]
	crc = binary.LittleEndian.Uint32(src[0:4])
	length = binary.LittleEndian.Uint16(src[4:6])
	typ = src[6]
	return
}

// chunkCRC computes the checksum over len ‖ type ‖ payload, where
// lenAndType is the 3-byte slice header[4:7].
func chunkCRC(lenAndType []byte, payload []byte) uint32 {
	sum := crc32.Update(0, crcTable, lenAndType)
	return crc32.Update(sum, crcTable, payload)
}

// availInBlock returns the payload capacity of the chunk that would start
// at file position pos: whatever remains in the current 32 KiB block
// after a 7-byte header.
func availInBlock(pos int64) int {
	rem := BlockSize - int(pos%BlockSize)
	avail := rem - HeaderSize
	if avail < 0 {
		return 0
	}
	return avail
}

// requiredSpace returns the number of bytes a record of length L adds to
// a segment when appended at a block-aligned offset (i.e. ignoring any
// padding caused by a pre-existing mid-block position). The WAL uses this
// to decide whether a record forces rollover to a new segment.
func requiredSpace(l int) int64 {
	if l == 0 {
		// A zero-length record still emits one FULL chunk: header only.
		return HeaderSize
	}
	full := l / MaxPayloadPerChunk
	rem := l % MaxPayloadPerChunk
	size := int64(full) * BlockSize
	if rem > 0 {
		size += int64(rem) + HeaderSize
		// A block tail too small for another header is zero-padded.
		if tail := BlockSize - (rem + HeaderSize); tail <= HeaderSize {
			size += int64(tail)
		}
	}
	return size
}
