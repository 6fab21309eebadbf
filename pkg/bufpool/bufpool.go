// Package bufpool provides a tiered buffer pool for transfer I/O.
//
// Data-channel pumps copy file bytes in fixed-size chunks; pooling those
// chunks avoids a fresh allocation per transfer and keeps GC pressure flat
// when many sessions stream concurrently.
//
// Two size tiers are used:
//   - Small buffers (4KB): LIST line assembly
//   - Transfer buffers (32KB): RETR/STOR streaming chunks
//
// Requests larger than the transfer tier are allocated directly and never
// pooled, so an occasional oversized request cannot pin memory.
//
// All operations are safe for concurrent use via sync.Pool.
package bufpool

import (
	"sync"
)

const (
	// SmallSize handles listing line assembly (4KB)
	SmallSize = 4 << 10

	// TransferSize is the chunk size for data-channel streaming (32KB)
	TransferSize = 32 << 10
)

var (
	smallPool = sync.Pool{
		New: func() any {
			buf := make([]byte, SmallSize)
			return &buf
		},
	}
	transferPool = sync.Pool{
		New: func() any {
			buf := make([]byte, TransferSize)
			return &buf
		},
	}
)

// Get returns a byte slice of at least the requested size.
// The slice length equals the requested size; its capacity may be larger.
// Pair every Get with a Put or the buffer is lost to the pool.
func Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= SmallSize:
		bufPtr = smallPool.Get().(*[]byte)
	case size <= TransferSize:
		bufPtr = transferPool.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	buf := *bufPtr
	return buf[:size]
}

// Put returns a buffer to its pool. Buffers that did not come from Get
// (unknown capacity) are dropped and garbage collected normally.
func Put(buf []byte) {
	if buf == nil {
		return
	}

	switch cap(buf) {
	case SmallSize:
		full := buf[:cap(buf)]
		smallPool.Put(&full)
	case TransferSize:
		full := buf[:cap(buf)]
		transferPool.Put(&full)
	}
}
