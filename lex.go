package arith

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
	num  float64
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	// tokenEOF indicates the end of the input.
	tokenEOF tokenKind = iota
	// tokenNum is a decimal number with an optional fraction.
	tokenNum
	tokenPlus
	tokenMinus
	tokenStar
	tokenSlash
	tokenCaret
	// tokenOpen and tokenClose are parentheses.
	tokenOpen
	tokenClose
)

var tokenNames = [...]string{
	tokenEOF:   "EOF",
	tokenNum:   "Num",
	tokenPlus:  "Plus",
	tokenMinus: "Minus",
	tokenStar:  "Star",
	tokenSlash: "Slash",
	tokenCaret: "Caret",
	tokenOpen:  "Open",
	tokenClose: "Close",
}

func (k tokenKind) String() string {
	if k < 0 || int(k) >= len(tokenNames) {
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
	return tokenNames[k]
}

// Operators contains the characters which are lexed as operators.
const Operators = "+-*/^"

// opkinds maps each byte of Operators to its token kind.
var opkinds = [...]tokenKind{tokenPlus, tokenMinus, tokenStar, tokenSlash, tokenCaret}

// lexer scans tokens from a string. It is owned by a single evaluation.
type lexer struct {
	src string
	// off is the byte offset just past the last scanned token.
	off int
	// base is the number of runes trimmed from the front of the original
	// input, so that columns refer to what the user typed.
	base int
}

func lex(src string, base int) *lexer {
	return &lexer{src: src, base: base}
}

// col is the 1-based column of a byte offset. Every byte before an offset the
// lexer reaches is ASCII, so bytes and columns coincide.
func (l *lexer) col(off int) int {
	return l.base + off + 1
}

// next scans the next token from the input. At the end of the input, the
// result is an EOF token with a nil error, and every later call returns the
// same. An invalid character or malformed number results in a zero token with
// the kind of EOF and a *SyntaxError; the caller must check the error before
// the kind.
func (l *lexer) next() (lexToken, error) {
	for l.off < len(l.src) && l.src[l.off] == ' ' {
		l.off++
	}
	tok := lexToken{pos: l.col(l.off)}
	if l.off >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	c := l.src[l.off]
	switch {
	case '0' <= c && c <= '9', c == '.':
		return l.scanNum(tok)
	case c == '(':
		tok.kind = tokenOpen
	case c == ')':
		tok.kind = tokenClose
	default:
		k := strings.IndexByte(Operators, c)
		if k < 0 {
			return lexToken{}, l.error(tok.pos, BadChar, l.badRune())
		}
		tok.kind = opkinds[k]
	}
	tok.text = l.src[l.off : l.off+1]
	l.off++
	return tok, nil
}

// scanNum scans a maximal run of digits and decimal points starting at the
// current offset.
func (l *lexer) scanNum(tok lexToken) (lexToken, error) {
	start := l.off
	dots, digits := 0, 0
	for l.off < len(l.src) {
		c := l.src[l.off]
		if c == '.' {
			dots++
		} else if '0' <= c && c <= '9' {
			digits++
		} else {
			break
		}
		l.off++
	}
	text := l.src[start:l.off]
	if dots > 1 || digits == 0 {
		return lexToken{}, l.error(tok.pos, BadNumber, text)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		// The only possible failure for a run of digits with at most one
		// point is overflow, for which ParseFloat still gives ±Inf.
		if !math.IsInf(v, 0) {
			return lexToken{}, l.error(tok.pos, BadNumber, text)
		}
	}
	tok.text = text
	tok.kind = tokenNum
	tok.num = v
	return tok, nil
}

// badRune returns the full character at the current offset so that multibyte
// characters appear whole in error messages.
func (l *lexer) badRune() string {
	_, sz := utf8.DecodeRuneInString(l.src[l.off:])
	return l.src[l.off : l.off+sz]
}

func (l *lexer) error(pos int, reason Reason, text string) error {
	return &SyntaxError{Col: pos, Reason: reason, Text: text}
}
