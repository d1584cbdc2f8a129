package buffer

import (
	"fmt"
	"strings"
)

// OpKind identifies a primitive edit.
type OpKind uint8

const (
	// OpInsert inserts Text into Row at byte Offset.
	OpInsert OpKind = iota

	// OpDelete removes Text from Row at byte Offset.
	OpDelete

	// OpSplit breaks Row at byte Offset; the tail becomes row Row+1.
	OpSplit

	// OpJoin appends row Row+1 to Row. Offset is the byte length of Row
	// before the join, which is where the inverse split happens.
	OpJoin

	// OpInsertBlock inserts Text, which holds at least one "\n", into Row
	// at byte Offset. Every "\n" starts a new row; the rows below move down
	// once for the whole block.
	OpInsertBlock

	// OpDeleteBlock removes Text, which holds at least one "\n", starting
	// in Row at byte Offset.
	OpDeleteBlock
)

// String returns the kind name.
func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpDelete:
		return "delete"
	case OpSplit:
		return "split"
	case OpJoin:
		return "join"
	case OpInsertBlock:
		return "insert-block"
	case OpDeleteBlock:
		return "delete-block"
	default:
		return "unknown"
	}
}

// Op is a primitive, exactly invertible edit.
type Op struct {
	Kind   OpKind
	Row    int
	Offset int
	Text   string
}

// String returns a compact description for logs and test failures.
func (op Op) String() string {
	if op.Text == "" {
		return fmt.Sprintf("%s@%d:%d", op.Kind, op.Row, op.Offset)
	}
	return fmt.Sprintf("%s@%d:%d %q", op.Kind, op.Row, op.Offset, op.Text)
}

// Invert returns the op that undoes op.
func (op Op) Invert() Op {
	inv := op
	switch op.Kind {
	case OpInsert:
		inv.Kind = OpDelete
	case OpDelete:
		inv.Kind = OpInsert
	case OpSplit:
		inv.Kind = OpJoin
	case OpJoin:
		inv.Kind = OpSplit
	case OpInsertBlock:
		inv.Kind = OpDeleteBlock
	case OpDeleteBlock:
		inv.Kind = OpInsertBlock
	}
	return inv
}

// Breaks returns the number of rows op adds (split, insert-block) or
// removes (join, delete-block). Single-row ops return 0.
func (op Op) Breaks() int {
	switch op.Kind {
	case OpSplit, OpJoin:
		return 1
	case OpInsertBlock, OpDeleteBlock:
		return strings.Count(op.Text, "\n")
	default:
		return 0
	}
}

// LastLine returns the text after the final "\n" of a block op, which is
// what the last affected row holds of it.
func (op Op) LastLine() string {
	return op.Text[strings.LastIndexByte(op.Text, '\n')+1:]
}

// InvertAll returns the inverses of ops in reverse order.
func InvertAll(ops []Op) []Op {
	out := make([]Op, len(ops))
	for i, op := range ops {
		out[len(ops)-1-i] = op.Invert()
	}
	return out
}

