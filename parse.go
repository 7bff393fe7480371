package arith

import "math"

// Expression = Term { ('+' | '-') Term }
// Term = Power { ('*' | '/') Power }
// Power = Unary { '^' Unary }
// Unary = ('+' | '-') Unary | Primary
// Primary = num | '(' Expression ')'
//
// Every operator is left-associative, including '^': 2^3^2 is (2^3)^2. Signs
// bind tighter than '^', so -3^2 is (-3)^2.

// parser evaluates an expression as it parses it. tok is always the next
// unconsumed token.
type parser struct {
	scan  *lexer
	tok   lexToken
	depth int
	max   int
	trace func(Step)
}

// advance scans the next token into p.tok.
func (p *parser) advance() error {
	tok, err := p.scan.next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

// run evaluates the entire input.
func (p *parser) run() (float64, error) {
	if err := p.advance(); err != nil {
		return 0, err
	}
	if p.tok.kind == tokenEOF {
		return 0, &SyntaxError{Col: p.tok.pos, Reason: Empty}
	}
	v, err := p.expression()
	if err != nil {
		return 0, err
	}
	switch p.tok.kind {
	case tokenEOF:
		return v, nil
	case tokenClose:
		return 0, &SyntaxError{Col: p.tok.pos, Reason: UnmatchedClose, Text: p.tok.text}
	default:
		return 0, &SyntaxError{Col: p.tok.pos, Reason: Trailing, Text: p.tok.text}
	}
}

func (p *parser) expression() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokenPlus || p.tok.kind == tokenMinus {
		op := OpAdd
		if p.tok.kind == tokenMinus {
			op = OpSub
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		left = p.binary(op, left, right)
	}
	return left, nil
}

func (p *parser) term() (float64, error) {
	left, err := p.power()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokenStar || p.tok.kind == tokenSlash {
		op := OpMul
		if p.tok.kind == tokenSlash {
			op = OpDiv
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.power()
		if err != nil {
			return 0, err
		}
		left = p.binary(op, left, right)
	}
	return left, nil
}

func (p *parser) power() (float64, error) {
	left, err := p.unary()
	if err != nil {
		return 0, err
	}
	for p.tok.kind == tokenCaret {
		if err := p.advance(); err != nil {
			return 0, err
		}
		right, err := p.unary()
		if err != nil {
			return 0, err
		}
		left = p.binary(OpPow, left, right)
	}
	return left, nil
}

func (p *parser) unary() (float64, error) {
	switch p.tok.kind {
	case tokenPlus, tokenMinus:
		neg := p.tok.kind == tokenMinus
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.unary()
		if err != nil {
			return 0, err
		}
		if neg {
			v = p.negate(v)
		}
		return v, nil
	default:
		return p.primary()
	}
}

func (p *parser) primary() (float64, error) {
	switch tok := p.tok; tok.kind {
	case tokenNum:
		if p.trace != nil {
			p.trace(Step{Op: OpNum, Result: tok.num})
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		return tok.num, nil
	case tokenOpen:
		if err := p.enter(); err != nil {
			return 0, err
		}
		defer p.leave()
		if err := p.advance(); err != nil {
			return 0, err
		}
		v, err := p.expression()
		if err != nil {
			return 0, err
		}
		if p.tok.kind != tokenClose {
			return 0, &SyntaxError{Col: p.tok.pos, Reason: MissingClose, Text: p.tok.text}
		}
		if err := p.advance(); err != nil {
			return 0, err
		}
		return v, nil
	default:
		// EOF, a close parenthesis, or a binary-only operator.
		return 0, &SyntaxError{Col: tok.pos, Reason: MissingOperand, Text: tok.text}
	}
}

// enter records one more level of nesting.
func (p *parser) enter() error {
	if p.depth >= p.max {
		return &SyntaxError{Col: p.tok.pos, Reason: TooDeep, Text: p.tok.text}
	}
	p.depth++
	return nil
}

func (p *parser) leave() {
	p.depth--
}

// binary applies a binary operator and reports the reduction.
func (p *parser) binary(op Op, l, r float64) float64 {
	var v float64
	switch op {
	case OpAdd:
		v = l + r
	case OpSub:
		v = l - r
	case OpMul:
		v = l * r
	case OpDiv:
		// Division by zero follows IEEE 754: ±Inf, or NaN for 0/0.
		v = l / r
	case OpPow:
		v = math.Pow(l, r)
	default:
		panic("arith: invalid binary operator " + op.String())
	}
	if p.trace != nil {
		p.trace(Step{Op: op, Operands: []float64{l, r}, Result: v})
	}
	return v
}

func (p *parser) negate(x float64) float64 {
	v := -x
	if p.trace != nil {
		p.trace(Step{Op: OpNeg, Operands: []float64{x}, Result: v})
	}
	return v
}
