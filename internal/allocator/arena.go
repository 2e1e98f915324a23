package allocator

import (
	"unsafe"
)

// Arena is a chunked bump-pointer allocator. Allocation never fails: when
// the active chunk is exhausted a fresh chunk is appended. Individual
// allocations are never released; Reset drops every chunk at once and
// invalidates every pointer the arena ever issued.
//
// An Arena is owned by exactly one compilation context and is not safe for
// concurrent use. The context serializes all access (single-writer model).
type Arena struct {
	config         *Config
	chunks         [][]byte
	current        uintptr // bump offset into the active chunk
	allocations    uint64
	totalAllocated uintptr
	peakUsage      uintptr
}

// NewArena creates an arena with the given configuration.
// A nil config selects DefaultConfig.
func NewArena(config *Config) *Arena {
	if config == nil {
		config = DefaultConfig()
	}

	a := &Arena{config: config}
	a.grow(config.ChunkSize)

	return a
}

// grow appends a fresh chunk large enough for at least minSize bytes and
// makes it the active chunk.
func (a *Arena) grow(minSize uintptr) {
	size := a.config.ChunkSize
	if minSize > size {
		size = alignUp(minSize, a.config.AlignmentSize)
	}

	a.chunks = append(a.chunks, make([]byte, size))
	a.current = 0
}

// active returns the chunk allocations are currently served from.
func (a *Arena) active() []byte {
	return a.chunks[len(a.chunks)-1]
}

// Alloc allocates size bytes with the arena's default alignment.
// Zero-size requests return nil without consuming space.
func (a *Arena) Alloc(size uintptr) unsafe.Pointer {
	return a.AllocAligned(size, a.config.AlignmentSize)
}

// AllocAligned allocates size bytes aligned to the requested alignment.
// The returned memory is zeroed and lives until Reset.
func (a *Arena) AllocAligned(size, alignment uintptr) unsafe.Pointer {
	if size == 0 {
		return nil
	}

	alignedCurrent := alignUp(a.current, alignment)
	alignedSize := alignUp(size, a.config.AlignmentSize)

	if alignedCurrent+alignedSize > uintptr(len(a.active())) {
		a.grow(alignedSize)
		alignedCurrent = 0
	}

	ptr := unsafe.Pointer(&a.active()[alignedCurrent])

	a.current = alignedCurrent + alignedSize
	a.allocations++
	a.totalAllocated += alignedSize

	if a.totalAllocated > a.peakUsage {
		a.peakUsage = a.totalAllocated
	}

	return ptr
}

// AllocBytes allocates n bytes and returns them as a slice aliasing arena
// storage. The slice must not be appended to.
func (a *Arena) AllocBytes(n int) []byte {
	if n == 0 {
		return nil
	}

	ptr := a.Alloc(uintptr(n))

	return unsafe.Slice((*byte)(ptr), n)
}

// AllocString copies s into arena storage and returns a string header
// aliasing that storage. The copy lives until Reset, independent of the
// lifetime of s.
func (a *Arena) AllocString(s string) string {
	if len(s) == 0 {
		return ""
	}

	buf := a.AllocBytes(len(s))
	copy(buf, s)

	return unsafe.String(&buf[0], len(buf))
}

// Reset releases every chunk and restarts the arena with a single fresh
// chunk. All pointers, slices, and strings previously issued are invalid
// after Reset.
func (a *Arena) Reset() {
	a.chunks = nil
	a.grow(a.config.ChunkSize)
	a.current = 0
	a.allocations = 0
	a.totalAllocated = 0
}

// Used returns the number of bytes consumed in the active chunk.
func (a *Arena) Used() uintptr {
	return a.current
}

// Stats returns cumulative allocation statistics.
func (a *Arena) Stats() Stats {
	return Stats{
		TotalAllocated:  a.totalAllocated,
		AllocationCount: a.allocations,
		ChunkCount:      len(a.chunks),
		BytesInUse:      a.current,
		PeakUsage:       a.peakUsage,
	}
}
