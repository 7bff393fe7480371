// Package arith implements a calculator for arithmetic expressions over
// float64.
//
// Expressions are made of decimal numbers, the binary operators + - * / and ^,
// unary signs, and parentheses. "^" is exponentiation. Precedence from
// loosest to tightest is addition and subtraction, then multiplication and
// division, then exponentiation, then unary signs. Every binary operator
// groups left to right, so "2^3^2" is 64, and signs apply before
// exponentiation, so "-3^2" is 9.
//
// Evaluation happens during parsing. There is no intermediate tree, and
// nothing is kept between calls to Evaluate.
//
package arith
