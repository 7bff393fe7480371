package arith

import (
	"context"
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultMaxDepth is the nesting depth limit used when no MaxDepth option is
// given. Each open parenthesis and each unary sign counts as one level.
const DefaultMaxDepth = 1000

// Option is an option for evaluation.
type Option interface {
	option(*config)
}

type config struct {
	max   int
	trace func(Step)
}

type (
	traceopt func(Step)
	depthopt int
)

func (o traceopt) option(c *config) { c.trace = o }
func (o depthopt) option(c *config) { c.max = int(o) }

// Trace sets a function to be called with each reduction the evaluator
// performs. The function is called synchronously, before Evaluate returns.
func Trace(f func(s Step)) Option {
	return traceopt(f)
}

// MaxDepth sets the maximum nesting depth of parentheses and unary signs.
// Values less than 1 select DefaultMaxDepth.
func MaxDepth(n int) Option {
	return depthopt(n)
}

func newConfig(opts []Option) config {
	c := config{max: DefaultMaxDepth}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.option(&c)
	}
	if c.max < 1 {
		c.max = DefaultMaxDepth
	}
	return c
}

// Evaluate parses and evaluates an arithmetic expression. Whitespace around
// the whole expression is ignored; within it, only spaces may separate
// tokens. Any invalid input results in a *SyntaxError. Special floating-point
// results such as the infinity from 1/0 are not errors.
//
// Evaluate is safe to call concurrently.
func Evaluate(src string, opts ...Option) (float64, error) {
	c := newConfig(opts)
	trimmed := strings.TrimLeftFunc(src, unicode.IsSpace)
	base := utf8.RuneCountInString(src[:len(src)-len(trimmed)])
	trimmed = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	p := parser{
		scan:  lex(trimmed, base),
		max:   c.max,
		trace: c.trace,
	}
	return p.run()
}

// EvaluateContext is like Evaluate, but first returns ctx's error if it is
// already done. Evaluation itself never blocks, so ctx is not consulted once
// evaluation begins.
func EvaluateContext(ctx context.Context, src string, opts ...Option) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return Evaluate(src, opts...)
}

// Steps evaluates src and returns its result along with every reduction
// performed. On error, the steps are those performed before the error.
func Steps(src string, opts ...Option) (float64, []Step, error) {
	var steps []Step
	opts = append(opts[:len(opts):len(opts)], Trace(func(s Step) {
		steps = append(steps, s)
	}))
	v, err := Evaluate(src, opts...)
	return v, steps, err
}
