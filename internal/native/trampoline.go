package native

import (
	"runtime/cgo"

	"github.com/ebitengine/purego"

	"github.com/bflang/bfjit/internal/hostio"
)

// trampolines holds the pair of (object pointer, C-ABI function pointer)
// handles the emitted code calls back into, per spec §4.6. The object
// pointer is a runtime/cgo.Handle disguised as a uintptr: an opaque,
// non-moving reference to the host-side Printer/Scanner closure.
type trampolines struct {
	printerObj cgo.Handle
	printerFn  uintptr
	scannerObj cgo.Handle
	scannerFn  uintptr
}

// newTrampolines wraps printer and scanner as a pair of C-ABI callbacks
// usable from JITed code, via purego.NewCallback.
func newTrampolines(printer hostio.Printer, scanner hostio.Scanner) *trampolines {
	printerObj := cgo.NewHandle(printer)
	scannerObj := cgo.NewHandle(scanner)

	printerFn := purego.NewCallback(func(obj, b uintptr) uintptr {
		cgo.Handle(obj).Value().(hostio.Printer).Print(byte(b))
		return 0
	})

	scannerFn := purego.NewCallback(func(obj uintptr) uintptr {
		return uintptr(cgo.Handle(obj).Value().(hostio.Scanner).Scan())
	})

	return &trampolines{
		printerObj: printerObj,
		printerFn:  printerFn,
		scannerObj: scannerObj,
		scannerFn:  scannerFn,
	}
}

func (t *trampolines) release() {
	t.printerObj.Delete()
	t.scannerObj.Delete()
}
