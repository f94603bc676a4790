package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bflang/bfjit/internal/core"
)

func parse(t *testing.T, src string) []core.Op {
	t.Helper()
	return core.Parse(core.Tokenize([]byte(src)))
}

func TestParseFoldsRuns(t *testing.T) {
	ops := parse(t, "+++>>><<-")

	require.Len(t, ops, 4)
	assert.Equal(t, core.OpInc, ops[0].Code)
	assert.EqualValues(t, 3, ops[0].Byte)
	assert.Equal(t, core.OpRight, ops[1].Code)
	assert.EqualValues(t, 3, ops[1].Count)
	assert.Equal(t, core.OpLeft, ops[2].Code)
	assert.EqualValues(t, 2, ops[2].Count)
	assert.Equal(t, core.OpDec, ops[3].Code)
	assert.EqualValues(t, 1, ops[3].Byte)
}

func TestParseCommentsIgnored(t *testing.T) {
	ops := parse(t, "hello + world - \xff\x00")
	require.Len(t, ops, 2)
	assert.Equal(t, core.OpInc, ops[0].Code)
	assert.Equal(t, core.OpDec, ops[1].Code)
}

func TestParseNoAdjacentRunsOfSameTag(t *testing.T) {
	// Property 1: after parsing, no two adjacent ops share a foldable tag.
	ops := parse(t, "+-><+-><")
	for i := 0; i+1 < len(ops); i++ {
		switch ops[i].Code {
		case core.OpInc, core.OpDec, core.OpLeft, core.OpRight:
			assert.NotEqual(t, ops[i].Code, ops[i+1].Code, "adjacent ops at %d/%d share a tag", i, i+1)
		}
	}
}

func TestParseBracketsUnresolved(t *testing.T) {
	ops := parse(t, "[+]")
	require.Len(t, ops, 3)
	assert.Equal(t, core.OpJumpIfZero, ops[0].Code)
	assert.Equal(t, 0, ops[0].Target)
	assert.Equal(t, core.OpJumpIfNotZero, ops[2].Code)
	assert.Equal(t, 0, ops[2].Target)
}

func TestParseOverflowingRunSplits(t *testing.T) {
	src := make([]byte, 300)
	for i := range src {
		src[i] = '+'
	}
	ops := parse(t, string(src))
	require.Len(t, ops, 2)
	assert.EqualValues(t, 255, ops[0].Byte)
	assert.EqualValues(t, 45, ops[1].Byte)
}
