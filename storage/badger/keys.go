package badger

import (
	"encoding/binary"
)

// Key prefixes for different data types
const (
	catalogModelPrefix    = "catmod"
	embeddingRecordPrefix = "embrec"
	catalogMetaKey        = "catmeta"
	embeddingsMetaKey     = "embmeta"
)

// makePositionKey generates a key for the row at position i of an artifact.
// Format: prefix:position
func makePositionKey(prefix string, i uint64) []byte {
	prefixBytes := []byte(prefix + ":")
	buf := make([]byte, len(prefixBytes)+8)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort preserves artifact order
	binary.BigEndian.PutUint64(buf[offset:], i)
	return buf
}
