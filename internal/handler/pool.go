package handler

import (
	"bytes"
	"sync"
)

const (
	// responseBufferSize is the initial capacity for response buffers
	responseBufferSize = 512

	// maxPooledBufferSize keeps oversized buffers out of the pool so one
	// large listing response does not pin memory for the process lifetime
	maxPooledBufferSize = 64 * 1024
)

var bufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, responseBufferSize))
	},
}

func getBuffer() *bytes.Buffer {
	return bufferPool.Get().(*bytes.Buffer)
}

func putBuffer(buf *bytes.Buffer) {
	if buf.Cap() > maxPooledBufferSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
