// Package expr parses the one-line expressions accepted by the driver.
//
// An expression is either a single operand, which is normalized, or two
// operands separated by whitespace around one operator:
//
//	-00042
//	12 + -7
//	99999999999999999999 * 2
//
// Operands are kept as text so that every engine parses them on its own and
// reports its own format errors.
package expr

import (
	"fmt"
	"strings"

	apperrors "github.com/agbru/bigcalc/internal/errors"
)

// Op identifies the operation of an Expression.
type Op string

const (
	// OpNormalize parses a single operand and renders it canonically.
	OpNormalize Op = "norm"
	// OpAdd adds two operands.
	OpAdd Op = "+"
	// OpSub subtracts the right operand from the left one.
	OpSub Op = "-"
	// OpMul multiplies two operands.
	OpMul Op = "*"
)

// Expression is a parsed driver line.
type Expression struct {
	Op    Op
	Left  string
	Right string
}

// String renders the expression in the form accepted by Parse.
func (e Expression) String() string {
	if e.Op == OpNormalize {
		return e.Left
	}
	return e.Left + " " + string(e.Op) + " " + e.Right
}

// Parse splits line into an Expression.
//
// Parameters:
//   - line: A single operand or "<a> <op> <b>" with op one of + - * x.
//
// Returns:
//   - Expression: The parsed expression.
//   - error: A ValidationError when the line does not have either shape.
func Parse(line string) (Expression, error) {
	fields := strings.Fields(line)
	switch len(fields) {
	case 0:
		return Expression{}, apperrors.ValidationError{Field: "expression", Message: "empty expression"}
	case 1:
		return Expression{Op: OpNormalize, Left: fields[0]}, nil
	case 3:
		op, ok := parseOp(fields[1])
		if !ok {
			return Expression{}, apperrors.ValidationError{Field: "operator", Message: fmt.Sprintf("unknown operator %q", fields[1])}
		}
		return Expression{Op: op, Left: fields[0], Right: fields[2]}, nil
	default:
		return Expression{}, apperrors.ValidationError{
			Field:   "expression",
			Message: fmt.Sprintf("expected \"<a> <op> <b>\" or a single operand, got %d fields", len(fields)),
		}
	}
}

// New builds an Expression from a command keyword used by the REPL
// ("add", "sub", "mul") and two operands.
func New(command, left, right string) (Expression, error) {
	switch strings.ToLower(command) {
	case "add":
		return Expression{Op: OpAdd, Left: left, Right: right}, nil
	case "sub":
		return Expression{Op: OpSub, Left: left, Right: right}, nil
	case "mul":
		return Expression{Op: OpMul, Left: left, Right: right}, nil
	}
	return Expression{}, apperrors.ValidationError{Field: "command", Message: fmt.Sprintf("unknown command %q", command)}
}

func parseOp(s string) (Op, bool) {
	switch s {
	case "+":
		return OpAdd, true
	case "-":
		return OpSub, true
	case "*", "x", "X":
		return OpMul, true
	}
	return "", false
}
