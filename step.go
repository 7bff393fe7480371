package arith

import (
	"strconv"
	"strings"
)

// Op identifies the operation performed by one step of an evaluation.
type Op int8

const (
	// OpNum is the reading of a number literal. It has no operands.
	OpNum Op = iota
	// OpNeg is negation by a unary minus. It has one operand. Unary plus does
	// nothing and produces no step.
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPow
)

var opsyms = [...]string{
	OpNum: "number",
	OpNeg: "-",
	OpAdd: "+",
	OpSub: "-",
	OpMul: "*",
	OpDiv: "/",
	OpPow: "^",
}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opsyms) {
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
	return opsyms[op]
}

// Step is a single reduction performed during evaluation. Steps are reported
// in the order the evaluator performs them, which is the order of a
// post-order walk of the expression's parse tree.
type Step struct {
	// Op is the operation performed.
	Op Op
	// Operands are the inputs to Op, left to right.
	Operands []float64
	// Result is the value Op produced.
	Result float64
}

// String formats the step as, e.g., "2 ^ 3 = 8".
func (s Step) String() string {
	var b strings.Builder
	switch {
	case s.Op == OpNum:
		b.WriteString("number ")
		b.WriteString(fmtnum(s.Result))
		return b.String()
	case len(s.Operands) == 1:
		b.WriteString(s.Op.String())
		b.WriteByte('(')
		b.WriteString(fmtnum(s.Operands[0]))
		b.WriteByte(')')
	case len(s.Operands) == 2:
		b.WriteString(fmtnum(s.Operands[0]))
		b.WriteByte(' ')
		b.WriteString(s.Op.String())
		b.WriteByte(' ')
		b.WriteString(fmtnum(s.Operands[1]))
	default:
		b.WriteString(s.Op.String())
		for _, x := range s.Operands {
			b.WriteByte(' ')
			b.WriteString(fmtnum(x))
		}
	}
	b.WriteString(" = ")
	b.WriteString(fmtnum(s.Result))
	return b.String()
}

// fmtnum formats a number with ten significant digits.
func fmtnum(x float64) string {
	return strconv.FormatFloat(x, 'g', 10, 64)
}
