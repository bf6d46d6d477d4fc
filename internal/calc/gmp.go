//go:build gmp

package calc

import (
	"context"
	"strings"

	"github.com/ncw/gmp"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
)

func init() {
	builtinEngines = append(builtinEngines, func() Engine { return GMPEngine{} })
}

// GMPEngine evaluates expressions with the GNU Multiple Precision library.
// It is only available in binaries built with -tags gmp.
type GMPEngine struct{}

// Name returns "gmp".
func (GMPEngine) Name() string { return "gmp" }

// Evaluate implements Engine.
func (GMPEngine) Evaluate(_ context.Context, e expr.Expression) (string, error) {
	a, err := parseGMP(e.Left)
	if err != nil {
		return "", err
	}
	if e.Op == expr.OpNormalize {
		return a.String(), nil
	}
	b, err := parseGMP(e.Right)
	if err != nil {
		return "", err
	}

	z := gmp.NewInt(0)
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

// parseGMP validates the operand with the same rules as the other engines
// before handing the unsigned digits to GMP, whose parser is more lenient.
func parseGMP(s string) (*gmp.Int, error) {
	body := strings.TrimSpace(s)
	negative := false
	if body != "" && (body[0] == '+' || body[0] == '-') {
		negative = body[0] == '-'
		body = body[1:]
	}
	if body == "" || strings.IndexFunc(body, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return nil, &apperrors.FormatError{Input: s}
	}
	z, ok := gmp.NewInt(0).SetString(body, 10)
	if !ok {
		return nil, &apperrors.FormatError{Input: s}
	}
	if negative {
		z.Neg(z)
	}
	return z, nil
}
