package arith_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"golang.org/x/sync/errgroup"

	"github.com/zephyrtronium/arith"
)

func TestEvaluate(t *testing.T) {
	cases := []struct {
		name string
		src  string
		r    float64
	}{
		{"num", "1", 1},
		{"frac", "2.5", 2.5},
		{"leading-point", ".25", 0.25},
		{"trailing-point", "3.", 3},
		{"plus", "+4", 4},
		{"neg", "-4", -4},
		{"negneg", "--4", 4},
		{"plusneg", "+-4", -4},
		{"add", "4+5+6", 4 + 5 + 6},
		{"sub", "4-5-6", 4 - 5 - 6},
		{"mul", "4*5*6", 4 * 5 * 6},
		{"div", "4/5/6", 4.0 / 5.0 / 6.0},
		{"pow", "2 ^ 3 ^ 2", 64},
		{"pow4", "4^3^2", 4096},
		{"negpow", "-3 ^ 2", 9},
		{"powneg", "2 ^ -1", 0.5},
		{"powfrac", "4 ^ 0.5", 2},
		{"negsub", "-3 - -3", 0},
		{"prec", "3 + 4 * 2", 11},
		{"paren", "(1 - 5)", -4},
		{"classic", "3 + 4 * 2 / (1 - 5) ^ 2", 3.5},
		{"desc", "2^3*4+5", 37},
		{"asc", "5+4*2^3", 37},
		{"nested", "((((7))))", 7},
		{"spaces", "  1   +    2  ", 3},
		{"newline", "6 * 7\n", 42},
		{"neg-paren", "-(2 + 3) * 2", -10},
		{"mul-neg", "2 * -3", -6},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := arith.Evaluate(c.src)
			if err != nil {
				t.Fatalf("%q failed to evaluate: %v", c.src, err)
			}
			if r != c.r {
				t.Errorf("wrong result for %q: want %g, got %g", c.src, c.r, r)
			}
		})
	}
}

func TestEvaluateSpecialValues(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		check func(float64) bool
	}{
		{"div-zero", "1 / 0", func(x float64) bool { return math.IsInf(x, 1) }},
		{"neg-div-zero", "-1 / 0", func(x float64) bool { return math.IsInf(x, -1) }},
		{"zero-div-zero", "0 / 0", math.IsNaN},
		{"neg-base-frac-exp", "(-8) ^ (1/3)", math.IsNaN},
		{"zero-neg-exp", "0 ^ -1", func(x float64) bool { return math.IsInf(x, 1) }},
		{"overflow", "10 ^ 400", func(x float64) bool { return math.IsInf(x, 1) }},
		{"inf-sub-inf", "1/0 - 1/0", math.IsNaN},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			r, err := arith.Evaluate(c.src)
			if err != nil {
				t.Fatalf("%q should succeed, got %v", c.src, err)
			}
			if !c.check(r) {
				t.Errorf("wrong result for %q: %g", c.src, r)
			}
		})
	}
}

func TestEvaluateSyntaxErrors(t *testing.T) {
	for _, src := range []string{"", "(1 + 2", "1 + ", "1 2", "1 & 2", ")", "1 +* 2", "2 ^ ^ 2"} {
		_, err := arith.Evaluate(src)
		var se *arith.SyntaxError
		if !errors.As(err, &se) {
			t.Errorf("%q: want *SyntaxError, got %#v", src, err)
		}
	}
}

func TestEvaluateIdempotent(t *testing.T) {
	srcs := []string{"3 + 4 * 2 / (1 - 5) ^ 2", "1 / 0", "1 &", "2 ^ 3 ^ 2"}
	for _, src := range srcs {
		r1, err1 := arith.Evaluate(src)
		r2, err2 := arith.Evaluate(src)
		if math.Float64bits(r1) != math.Float64bits(r2) {
			t.Errorf("%q gave %g then %g", src, r1, r2)
		}
		if fmt.Sprint(err1) != fmt.Sprint(err2) {
			t.Errorf("%q gave error %v then %v", src, err1, err2)
		}
	}
}

func TestEvaluateConcurrent(t *testing.T) {
	srcs := []string{"3 + 4 * 2", "(1 - 5)", "2 ^ 3 ^ 2", "-3 ^ 2", "1 2", "(((1)))"}
	want := make([]float64, len(srcs))
	for i, src := range srcs {
		want[i], _ = arith.Evaluate(src)
	}
	var g errgroup.Group
	for w := 0; w < 8; w++ {
		g.Go(func() error {
			for k := 0; k < 200; k++ {
				i := k % len(srcs)
				r, _ := arith.Evaluate(srcs[i])
				if r != want[i] {
					return fmt.Errorf("%q: want %g, got %g", srcs[i], want[i], r)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Error(err)
	}
}

func TestEvaluateContext(t *testing.T) {
	r, err := arith.EvaluateContext(context.Background(), "6 * 7")
	if err != nil || r != 42 {
		t.Errorf("want 42, nil; got %g, %v", r, err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := arith.EvaluateContext(ctx, "6 * 7"); !errors.Is(err, context.Canceled) {
		t.Errorf("want context.Canceled, got %v", err)
	}
}

func TestTrace(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		steps []arith.Step
	}{
		{
			name: "num",
			src:  "5",
			steps: []arith.Step{
				{Op: arith.OpNum, Result: 5},
			},
		},
		{
			name: "left-pow",
			src:  "2^3^2",
			steps: []arith.Step{
				{Op: arith.OpNum, Result: 2},
				{Op: arith.OpNum, Result: 3},
				{Op: arith.OpPow, Operands: []float64{2, 3}, Result: 8},
				{Op: arith.OpNum, Result: 2},
				{Op: arith.OpPow, Operands: []float64{8, 2}, Result: 64},
			},
		},
		{
			name: "neg-then-pow",
			src:  "-3^2",
			steps: []arith.Step{
				{Op: arith.OpNum, Result: 3},
				{Op: arith.OpNeg, Operands: []float64{3}, Result: -3},
				{Op: arith.OpNum, Result: 2},
				{Op: arith.OpPow, Operands: []float64{-3, 2}, Result: 9},
			},
		},
		{
			name: "plus-is-silent",
			src:  "+1 - 2 * 3",
			steps: []arith.Step{
				{Op: arith.OpNum, Result: 1},
				{Op: arith.OpNum, Result: 2},
				{Op: arith.OpNum, Result: 3},
				{Op: arith.OpMul, Operands: []float64{2, 3}, Result: 6},
				{Op: arith.OpSub, Operands: []float64{1, 6}, Result: -5},
			},
		},
		{
			name: "div",
			src:  "(8) / 2",
			steps: []arith.Step{
				{Op: arith.OpNum, Result: 8},
				{Op: arith.OpNum, Result: 2},
				{Op: arith.OpDiv, Operands: []float64{8, 2}, Result: 4},
			},
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var got []arith.Step
			r, err := arith.Evaluate(c.src, arith.Trace(func(s arith.Step) { got = append(got, s) }))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(c.steps, got, cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("wrong steps for %q (-want +got):\n%s", c.src, diff)
			}
			if last := got[len(got)-1]; last.Result != r {
				t.Errorf("last step %v doesn't give result %g", last, r)
			}
		})
	}
}

func TestSteps(t *testing.T) {
	r, steps, err := arith.Steps("1 + 2 + x")
	if err == nil {
		t.Fatalf("no error, result %g", r)
	}
	want := []string{"number 1", "number 2", "1 + 2 = 3"}
	got := make([]string, len(steps))
	for i, s := range steps {
		got[i] = s.String()
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("wrong steps before error (-want +got):\n%s", diff)
	}
}

func TestStepString(t *testing.T) {
	cases := []struct {
		s    arith.Step
		want string
	}{
		{arith.Step{Op: arith.OpNum, Result: 0.1}, "number 0.1"},
		{arith.Step{Op: arith.OpNeg, Operands: []float64{3}, Result: -3}, "-(3) = -3"},
		{arith.Step{Op: arith.OpPow, Operands: []float64{2, 10}, Result: 1024}, "2 ^ 10 = 1024"},
		{arith.Step{Op: arith.OpDiv, Operands: []float64{1, 3}, Result: 1.0 / 3}, "1 / 3 = 0.3333333333"},
		{arith.Step{Op: arith.OpDiv, Operands: []float64{1, 0}, Result: math.Inf(1)}, "1 / 0 = +Inf"},
	}
	for _, c := range cases {
		if got := c.s.String(); got != c.want {
			t.Errorf("want %q, got %q", c.want, got)
		}
	}
}

// tree is a randomly generated expression, used to check Evaluate against a
// direct computation of the same grouping.
type tree struct {
	op          byte
	num         float64
	left, right *tree
}

func gentree(rng *rand.Rand, depth int) *tree {
	if depth == 0 || rng.Intn(3) == 0 {
		return &tree{num: float64(rng.Intn(9) + 1)}
	}
	switch k := rng.Intn(7); k {
	case 0:
		return &tree{op: 'n', left: gentree(rng, depth-1)}
	default:
		return &tree{op: "+-*/^"[k%5], left: gentree(rng, depth-1), right: gentree(rng, depth-1)}
	}
}

// String writes the tree fully parenthesized, so that parsing it does not
// depend on precedence.
func (n *tree) String() string {
	switch n.op {
	case 0:
		return strconv.FormatFloat(n.num, 'f', -1, 64)
	case 'n':
		return "-(" + n.left.String() + ")"
	default:
		return "(" + n.left.String() + " " + string(n.op) + " " + n.right.String() + ")"
	}
}

func (n *tree) value() float64 {
	switch n.op {
	case 0:
		return n.num
	case 'n':
		return -n.left.value()
	case '+':
		return n.left.value() + n.right.value()
	case '-':
		return n.left.value() - n.right.value()
	case '*':
		return n.left.value() * n.right.value()
	case '/':
		return n.left.value() / n.right.value()
	case '^':
		return math.Pow(n.left.value(), n.right.value())
	}
	panic("bad tree op " + string(n.op))
}

func same(a, b float64) bool {
	return a == b || math.IsNaN(a) && math.IsNaN(b)
}

func TestEvaluateMatchesTree(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		n := gentree(rng, 5)
		src := n.String()
		r, err := arith.Evaluate(src)
		if err != nil {
			t.Fatalf("%q failed to evaluate: %v", src, err)
		}
		if want := n.value(); !same(r, want) {
			t.Errorf("%q: want %g, got %g", src, want, r)
		}
	}
}

// TestPrecedence checks unparenthesized chains against explicit groupings.
func TestPrecedence(t *testing.T) {
	cases := []struct {
		bare, grouped string
	}{
		{"1 + 2 * 3", "1 + (2 * 3)"},
		{"1 - 2 - 3", "(1 - 2) - 3"},
		{"8 / 4 / 2", "(8 / 4) / 2"},
		{"2 ^ 3 ^ 2", "(2 ^ 3) ^ 2"},
		{"2 * 3 ^ 2", "2 * (3 ^ 2)"},
		{"-2 ^ 2", "(-2) ^ 2"},
		{"2 ^ -2 ^ 2", "(2 ^ (-2)) ^ 2"},
		{"1 + 2 * 3 ^ 2 / 4 - 5", "(1 + ((2 * (3 ^ 2)) / 4)) - 5"},
		{"-1 - -1 * -1", "(-1) - ((-1) * (-1))"},
	}
	for _, c := range cases {
		a, err := arith.Evaluate(c.bare)
		if err != nil {
			t.Fatalf("%q: %v", c.bare, err)
		}
		b, err := arith.Evaluate(c.grouped)
		if err != nil {
			t.Fatalf("%q: %v", c.grouped, err)
		}
		if !same(a, b) {
			t.Errorf("%q = %g but %q = %g", c.bare, a, c.grouped, b)
		}
	}
}

func ExampleEvaluate() {
	r, err := arith.Evaluate("3 + 4 * 2 / (1 - 5) ^ 2")
	fmt.Println(r, err)
	_, err = arith.Evaluate("1 + ")
	fmt.Println(err)
	// Output:
	// 3.5 <nil>
	// 4: missing operand
}

func ExampleTrace() {
	arith.Evaluate("2 ^ 3 ^ 2", arith.Trace(func(s arith.Step) {
		if s.Op != arith.OpNum {
			fmt.Println(s)
		}
	}))
	// Output:
	// 2 ^ 3 = 8
	// 8 ^ 2 = 64
}
