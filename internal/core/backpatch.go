package core

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// BracketError reports an unmatched bracket discovered during back-patching.
type BracketError struct {
	Msg string
	Pos *Position
}

func (e *BracketError) Error() string {
	if e.Pos != nil {
		return fmt.Sprintf("%s at line %d col %d (offset %d)", e.Msg, e.Pos.Line, e.Pos.Column, e.Pos.Offset)
	}
	return e.Msg
}

// Backpatch walks the op stream left to right, maintaining a stack of
// indices of unmatched JumpIfZero ops. For every JumpIfNotZero it pops the
// stack, sets the pair's targets to one past each other (fall-through on
// "exit loop"), and continues.
//
// On an unmatched ']' the mismatch is logged to the host error sink and
// Backpatch returns a *BracketError immediately, leaving any remaining
// jumps unresolved. This is the hardened behavior spec §9 recommends over
// diagnose-and-continue: callers must treat a non-nil error as fatal and
// refuse to execute the op stream, since its jump targets cannot be
// trusted.
func Backpatch(ops []Op) error {
	stack := make([]int, 0, 16)

	for i := range ops {
		switch ops[i].Code {
		case OpJumpIfZero:
			stack = append(stack, i)

		case OpJumpIfNotZero:
			if len(stack) == 0 {
				log.WithFields(log.Fields{
					"index": i,
					"pos":   ops[i].Pos,
				}).Error("unmatched ']' during back-patching")
				return &BracketError{Msg: "unmatched ']'", Pos: ops[i].Pos}
			}

			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			ops[i].Target = open + 1
			ops[open].Target = i + 1
		}
	}

	if len(stack) > 0 {
		unmatched := ops[stack[len(stack)-1]]
		log.WithFields(log.Fields{
			"index": stack[len(stack)-1],
			"pos":   unmatched.Pos,
		}).Error("unmatched '[' during back-patching")
		return &BracketError{Msg: "unmatched '['", Pos: unmatched.Pos}
	}

	return nil
}
