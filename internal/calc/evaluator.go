package calc

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/logging"
	"github.com/agbru/bigcalc/internal/metrics"
)

const tracerName = "github.com/agbru/bigcalc/internal/calc"

// Evaluator decorates an Engine with tracing, metrics and logging. It
// implements Engine itself.
type Evaluator struct {
	engine  Engine
	metrics *metrics.Metrics
	logger  logging.Logger
	tracer  trace.Tracer
}

// NewEvaluator wraps engine. A nil m records no metrics and a nil logger
// discards log output. Spans go to the global otel tracer provider.
func NewEvaluator(engine Engine, m *metrics.Metrics, logger logging.Logger) *Evaluator {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Evaluator{
		engine:  engine,
		metrics: m,
		logger:  logger,
		tracer:  otel.Tracer(tracerName),
	}
}

// Wrap returns one Evaluator per engine, sharing m and logger.
func Wrap(engines []Engine, m *metrics.Metrics, logger logging.Logger) []Engine {
	wrapped := make([]Engine, len(engines))
	for i, e := range engines {
		wrapped[i] = NewEvaluator(e, m, logger)
	}
	return wrapped
}

// Name returns the wrapped engine's name.
func (ev *Evaluator) Name() string { return ev.engine.Name() }

type outcome struct {
	value string
	err   error
}

// Evaluate runs the wrapped engine unless ctx is already done. Engines are
// not required to watch ctx, so the engine runs on its own goroutine and
// Evaluate returns ctx.Err() as soon as ctx is done. A value that arrives
// after the deadline is discarded.
func (ev *Evaluator) Evaluate(ctx context.Context, e expr.Expression) (string, error) {
	name := ev.engine.Name()
	if err := ctx.Err(); err != nil {
		ev.metrics.ObserveFailure(name, "canceled")
		return "", err
	}

	ctx, span := ev.tracer.Start(ctx, "calc.Evaluate", trace.WithAttributes(
		attribute.String("engine", name),
		attribute.String("op", string(e.Op)),
	))
	defer span.End()

	start := time.Now()
	done := make(chan outcome, 1)
	go func() {
		v, err := ev.engine.Evaluate(ctx, e)
		done <- outcome{value: v, err: err}
	}()

	var result string
	var err error
	select {
	case <-ctx.Done():
		err = ctx.Err()
	case o := <-done:
		result, err = o.value, o.err
		if err == nil {
			err = ctx.Err()
		}
	}
	elapsed := time.Since(start)

	if err != nil {
		kind := failureKind(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, kind)
		ev.metrics.ObserveFailure(name, kind)
		ev.logger.Error("evaluation failed", err,
			logging.String("engine", name),
			logging.String("expr", e.String()),
			logging.String("kind", kind),
		)
		return "", err
	}

	digits := len(strings.TrimPrefix(result, "-"))
	span.SetAttributes(attribute.Int("result.digits", digits))
	ev.metrics.ObserveEvaluation(name, string(e.Op), elapsed, digits)
	ev.logger.Debug("evaluated",
		logging.String("engine", name),
		logging.String("op", string(e.Op)),
		logging.Int("digits", digits),
		logging.Float64("seconds", elapsed.Seconds()),
	)
	return result, nil
}

func failureKind(err error) string {
	switch {
	case apperrors.IsFormatError(err):
		return "format"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}
