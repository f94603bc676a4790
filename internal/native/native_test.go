package native_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bflang/bfjit/internal/core"
	"github.com/bflang/bfjit/internal/native"
	"github.com/bflang/bfjit/internal/tape"
)

type bufPrinter struct{ out []byte }

func (p *bufPrinter) Print(b byte) { p.out = append(p.out, b) }

type constScanner struct{ b byte }

func (s constScanner) Scan() byte { return s.b }

func compileAndBackpatch(t *testing.T, src string) []core.Op {
	t.Helper()
	ops := core.Optimise(core.Parse(core.Tokenize([]byte(src))))
	require.NoError(t, core.Backpatch(ops))
	return ops
}

func TestEmitUnresolvedJumpIsRejected(t *testing.T) {
	ops := core.Parse(core.Tokenize([]byte("[+")))
	_, err := native.Emit(ops)
	require.Error(t, err)
	var unresolved *native.UnresolvedJumpError
	assert.ErrorAs(t, err, &unresolved)
}

func TestExecuteHelloA(t *testing.T) {
	ops := compileAndBackpatch(t, "++++++++[>++++++++<-]>+.")

	p := &bufPrinter{}
	err := native.Execute(ops, tape.New(core.TapeSize), p, constScanner{})
	require.NoError(t, err)
	assert.Equal(t, []byte{'A'}, p.out)
}

func TestExecuteMultiplyMove(t *testing.T) {
	ops := compileAndBackpatch(t, "++>+++<[->+<]>.")

	p := &bufPrinter{}
	err := native.Execute(ops, tape.New(core.TapeSize), p, constScanner{})
	require.NoError(t, err)
	assert.Equal(t, []byte{5}, p.out)
}

func TestExecuteReadsScanner(t *testing.T) {
	ops := compileAndBackpatch(t, ",+.")

	p := &bufPrinter{}
	err := native.Execute(ops, tape.New(core.TapeSize), p, constScanner{b: 'A'})
	require.NoError(t, err)
	assert.Equal(t, []byte{'B'}, p.out)
}
