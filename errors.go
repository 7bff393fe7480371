package arith

import (
	"errors"
	"strconv"
)

// ErrSyntax is matched by every *SyntaxError under errors.Is.
var ErrSyntax = errors.New("syntax error")

// Reason describes what made an expression invalid. Every Reason is reported
// through the single error type SyntaxError.
type Reason int8

const (
	// BadChar is a character that begins no token.
	BadChar Reason = iota + 1
	// BadNumber is a run of digits and points that is not a number, such as
	// "1.2.3" or ".".
	BadNumber
	// Empty is an input with nothing but whitespace.
	Empty
	// MissingOperand is an operator or open parenthesis followed by something
	// other than an operand.
	MissingOperand
	// MissingClose is an open parenthesis with no matching close.
	MissingClose
	// UnmatchedClose is a close parenthesis with no matching open.
	UnmatchedClose
	// Trailing is input left over after a complete expression.
	Trailing
	// TooDeep is nesting beyond the configured maximum depth.
	TooDeep
)

func (r Reason) String() string {
	switch r {
	case BadChar:
		return "invalid character"
	case BadNumber:
		return "invalid number"
	case Empty:
		return "no expression"
	case MissingOperand:
		return "missing operand"
	case MissingClose:
		return "open parenthesis with no close parenthesis"
	case UnmatchedClose:
		return "close parenthesis with no open parenthesis"
	case Trailing:
		return "unexpected input after expression"
	case TooDeep:
		return "expression nested too deeply"
	default:
		return "Reason(" + strconv.Itoa(int(r)) + ")"
	}
}

// SyntaxError is the error for every invalid expression.
type SyntaxError struct {
	// Col is the 1-based column of the token that caused the error. For
	// errors at the end of input, it is one past the last character.
	Col int
	// Reason is the kind of problem found.
	Reason Reason
	// Text is the offending token, if there is one.
	Text string
}

func (err *SyntaxError) Error() string {
	msg := err.Reason.String()
	if err.Text != "" {
		msg += " " + strconv.Quote(err.Text)
	}
	return errpos(err.Col, msg)
}

// Is reports whether target is ErrSyntax.
func (err *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Pos returns the column of the error.
func (err *SyntaxError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}
