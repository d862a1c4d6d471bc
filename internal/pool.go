package internal

import (
	"bytes"
	"sync"
)

// BufferPool holds scratch buffers used while encoding packets and frames.
var BufferPool = sync.Pool{
	New: func() any {
		return bytes.NewBuffer(make([]byte, 0, 256))
	},
}
