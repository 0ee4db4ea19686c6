// Package pool provides bucketed sync.Pool instances for the file buffers
// read during batch validation. Buffers are organized by size class to
// minimize waste.
package pool

import "sync"

// Size classes for bucketed pools.
const (
	Size4K   = 4 << 10
	Size16K  = 16 << 10
	Size64K  = 64 << 10
	Size256K = 256 << 10
	Size1M   = 1 << 20
	Size4M   = 4 << 20
	Size16M  = 16 << 20
)

// MaxPooled is the largest capacity Put keeps. Bigger buffers are left to
// the garbage collector so one huge file does not pin memory.
const MaxPooled = 4 * Size16M

// bucketIndex returns the pool index for a given size.
func bucketIndex(size int) int {
	switch {
	case size <= Size4K:
		return 0
	case size <= Size16K:
		return 1
	case size <= Size64K:
		return 2
	case size <= Size256K:
		return 3
	case size <= Size1M:
		return 4
	case size <= Size4M:
		return 5
	default:
		return 6
	}
}

var sizes = [7]int{Size4K, Size16K, Size64K, Size256K, Size1M, Size4M, Size16M}

var pools [7]sync.Pool

func init() {
	for i := range pools {
		sz := sizes[i]
		pools[i] = sync.Pool{
			New: func() any {
				b := make([]byte, sz)
				return &b
			},
		}
	}
}

// Get returns a byte slice of at least the requested size from the pool.
// The returned slice has length == size and may have a larger capacity.
// The caller must call Put when done.
func Get(size int) []byte {
	idx := bucketIndex(size)
	bp := pools[idx].Get().(*[]byte)
	b := *bp
	if cap(b) < size {
		b = make([]byte, size)
		*bp = b
		return b
	}
	return b[:size]
}

// Put returns a byte slice to the pool. The slice must have been obtained
// from Get and must not be used afterwards. Slices smaller than Size4K or
// larger than MaxPooled are not pooled.
func Put(b []byte) {
	c := cap(b)
	if c < Size4K || c > MaxPooled {
		return
	}
	idx := bucketIndex(c)
	b = b[:c]
	pools[idx].Put(&b)
}
