// Package tape provides the byte-tape allocator collaborator: a
// contiguous, zero-initialized byte buffer of host-configurable size,
// owned exclusively by a single execution.
package tape

// New allocates a zero-initialized tape of the given size.
func New(size int) []byte {
	return make([]byte, size)
}
