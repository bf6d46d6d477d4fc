package calc

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/agbru/bigcalc/internal/bigint"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
)

// Engine evaluates expressions and renders the result in canonical decimal
// form.
type Engine interface {
	// Name returns the registry name of the engine.
	Name() string
	// Evaluate computes e. Malformed operands yield *apperrors.FormatError.
	Evaluate(ctx context.Context, e expr.Expression) (string, error)
}

// DigitsEngine evaluates expressions with package bigint.
type DigitsEngine struct{}

// Name returns "digits".
func (DigitsEngine) Name() string { return "digits" }

// Evaluate implements Engine. Subtraction is addition of the negated
// right operand.
func (DigitsEngine) Evaluate(_ context.Context, e expr.Expression) (string, error) {
	a, err := bigint.Parse(e.Left)
	if err != nil {
		return "", err
	}
	if e.Op == expr.OpNormalize {
		return a.String(), nil
	}
	b, err := bigint.Parse(e.Right)
	if err != nil {
		return "", err
	}

	switch e.Op {
	case expr.OpAdd:
		return bigint.Add(a, b).String(), nil
	case expr.OpSub:
		return bigint.Add(a, b.Neg()).String(), nil
	case expr.OpMul:
		return bigint.Multiply(a, b).String(), nil
	}
	return "", unsupportedOp(e.Op)
}

// StdEngine evaluates expressions with math/big.
type StdEngine struct{}

// Name returns "std".
func (StdEngine) Name() string { return "std" }

// Evaluate implements Engine.
func (StdEngine) Evaluate(_ context.Context, e expr.Expression) (string, error) {
	a, err := parseStd(e.Left)
	if err != nil {
		return "", err
	}
	if e.Op == expr.OpNormalize {
		return a.String(), nil
	}
	b, err := parseStd(e.Right)
	if err != nil {
		return "", err
	}

	z := new(big.Int)
	switch e.Op {
	case expr.OpAdd:
		z.Add(a, b)
	case expr.OpSub:
		z.Sub(a, b)
	case expr.OpMul:
		z.Mul(a, b)
	default:
		return "", unsupportedOp(e.Op)
	}
	return z.String(), nil
}

// parseStd accepts exactly what bigint.Parse accepts: SetString in base 10
// already rejects underscores and prefixes, so only surrounding whitespace
// needs trimming.
func parseStd(s string) (*big.Int, error) {
	z, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, &apperrors.FormatError{Input: s}
	}
	return z, nil
}

func unsupportedOp(op expr.Op) error {
	return apperrors.ValidationError{Field: "operator", Message: fmt.Sprintf("unsupported operator %q", op)}
}
