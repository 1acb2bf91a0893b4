package ecies

import (
	"sync"
)

// bufferPool holds scratch buffers for KDF input. Token messages are a
// few hundred bytes at most.
var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 256)
		return &buf
	},
}

// getBuffer returns an empty buffer with at least minCapacity bytes of
// capacity. Release it with putBuffer.
func getBuffer(minCapacity int) []byte {
	bufPtr := bufferPool.Get().(*[]byte)
	buf := *bufPtr
	if cap(buf) < minCapacity {
		buf = make([]byte, 0, minCapacity)
	}
	return buf[:0]
}

func putBuffer(buf []byte) {
	const maxPooledBufferSize = 4 * 1024

	if cap(buf) <= maxPooledBufferSize {
		buf = buf[:0]
		bufferPool.Put(&buf)
	}
}
