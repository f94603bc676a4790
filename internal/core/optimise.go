package core

// Optimise runs the three peephole passes over an op stream, in order.
// Each pass is a single left-to-right sweep with a read index and a write
// index into a freshly built buffer; nothing is re-scanned once written,
// so a rewrite produced by pass B is visible to pass C but pass B itself
// never loops back over its own output.
func Optimise(ops []Op) []Op {
	ops = passConsolidateRuns(ops)
	ops = passClearCellAndOffset(ops)
	ops = passMultiplyMove(ops)
	return ops
}

// passConsolidateRuns (pass A) collapses any adjacent runs of Inc, Dec,
// Left or Right that survived the parser's own folding. Redundant in the
// common case; kept as a safety net for op streams assembled by hand (e.g.
// in tests) or by a future alternate parser.
func passConsolidateRuns(ops []Op) []Op {
	out := make([]Op, 0, len(ops))

	for i := 0; i < len(ops); {
		op := ops[i]
		switch op.Code {
		case OpRight, OpLeft:
			count := op.Count
			j := i + 1
			for j < len(ops) && ops[j].Code == op.Code {
				count += ops[j].Count
				j++
			}
			op.Count = count
			out = append(out, op)
			i = j

		case OpInc, OpDec:
			count := op.Byte
			j := i + 1
			for j < len(ops) && ops[j].Code == op.Code && ops[j].Offset == op.Offset {
				count += ops[j].Byte
				j++
			}
			op.Byte = count
			out = append(out, op)
			i = j

		default:
			out = append(out, op)
			i++
		}
	}

	return out
}

// passClearCellAndOffset (pass B) rewrites [-]/[+]-style clear loops into
// SetZero, and cancels a pointer motion that brackets a single Inc/Dec
// into an offset on that op. Only an Inc/Dec whose Offset is still 0 is
// rewritten, so ops already carrying an offset are left as they are. Both
// rewrites are prerequisites for pass C.
func passClearCellAndOffset(ops []Op) []Op {
	out := make([]Op, 0, len(ops))

	for i := 0; i < len(ops); {
		if i+2 < len(ops) &&
			ops[i].Code == OpJumpIfZero &&
			(ops[i+1].Code == OpInc || ops[i+1].Code == OpDec) && ops[i+1].Offset == 0 &&
			ops[i+2].Code == OpJumpIfNotZero {
			out = append(out, SetZero(ops[i].Pos))
			i += 3
			continue
		}

		if i+2 < len(ops) &&
			ops[i].Code == OpRight && ops[i+2].Code == OpLeft &&
			(ops[i+1].Code == OpInc || ops[i+1].Code == OpDec) && ops[i+1].Offset == 0 &&
			ops[i].Count == ops[i+2].Count {
			mid := ops[i+1]
			mid.Offset = int32(ops[i].Count)
			out = append(out, mid)
			i += 3
			continue
		}

		if i+2 < len(ops) &&
			ops[i].Code == OpLeft && ops[i+2].Code == OpRight &&
			(ops[i+1].Code == OpInc || ops[i+1].Code == OpDec) && ops[i+1].Offset == 0 &&
			ops[i].Count == ops[i+2].Count {
			mid := ops[i+1]
			mid.Offset = -int32(ops[i].Count)
			out = append(out, mid)
			i += 3
			continue
		}

		out = append(out, ops[i])
		i++
	}

	return out
}

// passMultiplyMove (pass C) recognizes the canonical [->+++<]-style
// multiply-move loop, once pass B has folded its body into a single
// offset Inc, and replaces the whole bracket with Mul. The counter
// decrement and the offset increment can appear in either order inside
// the loop body ([->+++<] decrements first; some idioms increment
// first), so both orders are matched.
func passMultiplyMove(ops []Op) []Op {
	out := make([]Op, 0, len(ops))

	for i := 0; i < len(ops); {
		if i+3 < len(ops) &&
			ops[i].Code == OpJumpIfZero &&
			ops[i+1].Code == OpDec && ops[i+1].Byte == 1 && ops[i+1].Offset == 0 &&
			ops[i+2].Code == OpInc &&
			ops[i+3].Code == OpJumpIfNotZero {
			out = append(out, Mul(ops[i+2].Byte, ops[i+2].Offset, ops[i].Pos))
			i += 4
			continue
		}

		if i+3 < len(ops) &&
			ops[i].Code == OpJumpIfZero &&
			ops[i+1].Code == OpInc &&
			ops[i+2].Code == OpDec && ops[i+2].Byte == 1 && ops[i+2].Offset == 0 &&
			ops[i+3].Code == OpJumpIfNotZero {
			out = append(out, Mul(ops[i+1].Byte, ops[i+1].Offset, ops[i].Pos))
			i += 4
			continue
		}

		out = append(out, ops[i])
		i++
	}

	return out
}
