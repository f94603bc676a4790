package native

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// mapping is an anonymous executable memory mapping holding one emitted
// function. It is scoped to a single invocation: acquired before entry,
// released after return, per spec §5.
type mapping struct {
	buf []byte
}

// allocExecutable copies code into a fresh anonymous mapping and
// transitions it from writable to executable. The mapping is never
// simultaneously writable and executable, per spec §9.
func allocExecutable(code []byte) (*mapping, error) {
	buf, err := unix.Mmap(-1, 0, len(code), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("native: mmap: %w", err)
	}

	copy(buf, code)

	if err := unix.Mprotect(buf, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		_ = unix.Munmap(buf)
		return nil, fmt.Errorf("native: mprotect: %w", err)
	}

	return &mapping{buf: buf}, nil
}

// entry returns the mapping's base address as a callable function pointer.
func (m *mapping) entry() uintptr {
	return uintptr(unsafe.Pointer(&m.buf[0]))
}

// Close unmaps the executable memory.
func (m *mapping) Close() error {
	return unix.Munmap(m.buf)
}
