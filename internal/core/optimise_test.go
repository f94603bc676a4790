package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bflang/bfjit/internal/core"
)

func compile(src string) []core.Op {
	return core.Optimise(core.Parse(core.Tokenize([]byte(src))))
}

func TestOptimiseClearLoop(t *testing.T) {
	ops := compile("[-]")
	require.Len(t, ops, 1)
	assert.Equal(t, core.OpSetZero, ops[0].Code)
}

func TestOptimiseClearLoopPlus(t *testing.T) {
	ops := compile("[+]")
	require.Len(t, ops, 1)
	assert.Equal(t, core.OpSetZero, ops[0].Code)
}

func TestOptimiseOffsetDelta(t *testing.T) {
	ops := compile(">>>+++<<<")
	require.Len(t, ops, 1)
	assert.Equal(t, core.OpInc, ops[0].Code)
	assert.EqualValues(t, 3, ops[0].Byte)
	assert.EqualValues(t, 3, ops[0].Offset)
}

func TestOptimiseOffsetDeltaReverse(t *testing.T) {
	ops := compile("<<<-->>>")
	require.Len(t, ops, 1)
	assert.Equal(t, core.OpDec, ops[0].Code)
	assert.EqualValues(t, 2, ops[0].Byte)
	assert.EqualValues(t, -3, ops[0].Offset)
}

func TestOptimiseMultiplyMove(t *testing.T) {
	// [->+++<] : move cell0 into cell1 scaled by 3, zeroing cell0.
	ops := compile("[->+++<]")
	require.Len(t, ops, 1)
	assert.Equal(t, core.OpMul, ops[0].Code)
	assert.EqualValues(t, 3, ops[0].Byte)
	assert.EqualValues(t, 1, ops[0].Offset)
}

func TestOptimiseIdempotent(t *testing.T) {
	// Property 2: optimize(optimize(x)) == optimize(x).
	src := "++++++++[>++++++++<-]>+.,[->+<]<<[-]"
	once := compile(src)
	twice := core.Optimise(once)
	require.Equal(t, once, twice)
}

func TestOptimiseNoOffsetWhenMotionDoesNotCancel(t *testing.T) {
	ops := compile(">>+<")
	require.Len(t, ops, 3)
	assert.Equal(t, core.OpRight, ops[0].Code)
	assert.Equal(t, core.OpInc, ops[1].Code)
	assert.EqualValues(t, 0, ops[1].Offset)
	assert.Equal(t, core.OpLeft, ops[2].Code)
}
