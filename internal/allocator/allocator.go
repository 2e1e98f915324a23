// Package allocator provides arena-based memory allocation for the Lumina
// semantic model. Every type node payload and every interned identifier is
// copied into an arena owned by the enclosing context, so node lifetime
// tracks context lifetime uniformly and nothing is freed individually.
package allocator

// Config controls arena sizing and alignment.
type Config struct {
	ChunkSize     uintptr // Size of each arena chunk in bytes
	AlignmentSize uintptr // Default alignment for raw allocations
}

// DefaultConfig returns the configuration used by compilation contexts.
func DefaultConfig() *Config {
	return &Config{
		ChunkSize:     64 * 1024,
		AlignmentSize: 8,
	}
}

// Stats reports cumulative allocation statistics for an arena.
type Stats struct {
	TotalAllocated  uintptr // Total bytes handed out, including alignment padding
	AllocationCount uint64  // Number of Alloc/AllocString/AllocBytes calls
	ChunkCount      int     // Number of chunks currently owned
	BytesInUse      uintptr // Bytes consumed in the active chunk
	PeakUsage       uintptr // Highest TotalAllocated observed
}

// alignUp rounds size up to the next multiple of alignment.
// Alignment must be a power of two.
func alignUp(size, alignment uintptr) uintptr {
	return (size + alignment - 1) &^ (alignment - 1)
}
