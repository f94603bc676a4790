package hostio_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bflang/bfjit/internal/hostio"
)

func TestStreamPrinterBuffersAndFlushes(t *testing.T) {
	var buf bytes.Buffer
	p := hostio.NewStreamPrinter(&buf)

	for _, b := range []byte("hi") {
		p.Print(b)
	}
	require.NoError(t, p.Flush())
	assert.Equal(t, "hi", buf.String())
}

func TestLineScannerAppendsNulSentinel(t *testing.T) {
	s := hostio.NewLineScanner(strings.NewReader("hi\n"))

	var got []byte
	for i := 0; i < 4; i++ {
		got = append(got, s.Scan())
	}
	assert.Equal(t, []byte("hi\n\x00"), got)
}

func TestLineScannerReturnsZeroForeverAtEOF(t *testing.T) {
	s := hostio.NewLineScanner(strings.NewReader("x"))

	assert.Equal(t, byte('x'), s.Scan())
	assert.Equal(t, byte(0), s.Scan())
	assert.Equal(t, byte(0), s.Scan())
	assert.Equal(t, byte(0), s.Scan())
}

func TestLineScannerMultipleLines(t *testing.T) {
	s := hostio.NewLineScanner(strings.NewReader("a\nb\n"))
	var got []byte
	for i := 0; i < 6; i++ {
		got = append(got, s.Scan())
	}
	assert.Equal(t, []byte("a\n\x00b\n\x00"), got)
}
