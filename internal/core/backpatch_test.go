package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bflang/bfjit/internal/core"
)

func TestBackpatchResolvesPairedTargets(t *testing.T) {
	ops := core.Parse(core.Tokenize([]byte("++[->+<]")))
	require.NoError(t, core.Backpatch(ops))

	var jz, jnz int
	for i, op := range ops {
		switch op.Code {
		case core.OpJumpIfZero:
			jz = i
		case core.OpJumpIfNotZero:
			jnz = i
		}
	}

	// Property 3: ops[ops[i].target-1] is the paired bracket of ops[i].
	assert.Equal(t, jnz+1, ops[jz].Target)
	assert.Equal(t, jz+1, ops[jnz].Target)
}

func TestBackpatchNestedLoops(t *testing.T) {
	ops := core.Parse(core.Tokenize([]byte("[[+]-]")))
	require.NoError(t, core.Backpatch(ops))

	assert.Equal(t, 6, ops[0].Target) // outer JZ -> just past outer JNZ
	assert.Equal(t, 4, ops[1].Target) // inner JZ -> just past inner JNZ
	assert.Equal(t, 2, ops[3].Target) // inner JNZ -> just past inner JZ
	assert.Equal(t, 1, ops[5].Target) // outer JNZ -> just past outer JZ
}

func TestBackpatchUnmatchedCloseIsFatal(t *testing.T) {
	ops := []core.Op{core.Output(nil), core.JumpIfNotZero(nil)}
	err := core.Backpatch(ops)
	require.Error(t, err)
	var bracketErr *core.BracketError
	assert.ErrorAs(t, err, &bracketErr)
}

func TestBackpatchUnmatchedOpenIsFatal(t *testing.T) {
	ops := []core.Op{core.JumpIfZero(nil), core.Output(nil)}
	err := core.Backpatch(ops)
	require.Error(t, err)
}
