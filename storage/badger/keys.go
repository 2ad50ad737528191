package badger

import (
	"encoding/binary"

	"github.com/poiesic/newsprep/core"
)

const (
	runRecordPrefix = "runrec"
	runIDSeq        = "runrecseq"
)

// makeRunKey generates a key for a run by ID.
// Format: prefix:id
func makeRunKey(id core.ID) []byte {
	prefix := runPrefix()
	buf := make([]byte, len(prefix)+8) // 8 bytes for ID
	offset := copy(buf, prefix)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func runPrefix() []byte {
	return []byte(runRecordPrefix + ":")
}

// lastRunKey sorts after every run key.
func lastRunKey() []byte {
	return makeRunKey(core.ID(^uint64(0)))
}
