package orchestration

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/agbru/bigcalc/internal/calc"
	apperrors "github.com/agbru/bigcalc/internal/errors"
	"github.com/agbru/bigcalc/internal/expr"
	"github.com/agbru/bigcalc/internal/progress"
)

// MockResultPresenter records what it was asked to present.
type MockResultPresenter struct {
	mu     sync.Mutex
	tables int
	values []string
	errors []error
}

func (m *MockResultPresenter) PresentComparisonTable(ExpressionReport, io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables++
}

func (m *MockResultPresenter) PresentResult(_ ExpressionReport, value string, _ PresentationOptions, _ io.Writer) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = append(m.values, value)
}

func (m *MockResultPresenter) HandleError(err error, _ time.Duration, _ io.Writer) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors = append(m.errors, err)
	return apperrors.ExitCodeFor(err)
}

// MockEngine is a calc.Engine whose behavior is set per test.
type MockEngine struct {
	NameValue    string
	EvaluateFunc func(ctx context.Context, e expr.Expression) (string, error)
}

func (m *MockEngine) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

func (m *MockEngine) Evaluate(ctx context.Context, e expr.Expression) (string, error) {
	if m.EvaluateFunc != nil {
		return m.EvaluateFunc(ctx, e)
	}
	return "0", nil
}

func TestParseBatch(t *testing.T) {
	t.Parallel()
	items := ParseBatch([]string{"# header", "1 + 2", "", "  -7  ", "1 ? 2"})
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].Line != 2 || items[0].Expr.Op != expr.OpAdd {
		t.Errorf("items[0] = %+v", items[0])
	}
	if items[1].Line != 4 || items[1].Source != "-7" || items[1].Expr.Op != expr.OpNormalize {
		t.Errorf("items[1] = %+v", items[1])
	}
	var vErr apperrors.ValidationError
	if !errors.As(items[2].Err, &vErr) {
		t.Errorf("items[2].Err = %v, want ValidationError", items[2].Err)
	}
}

func TestReadBatch(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("9", 200_000)
	items, err := ReadBatch(strings.NewReader("3 * 4\n" + long + " + 1\n"))
	if err != nil {
		t.Fatalf("ReadBatch error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[1].Expr.Left != long {
		t.Error("long operand was truncated")
	}
}

func TestExecuteBatch(t *testing.T) {
	t.Parallel()
	engines := []calc.Engine{calc.DigitsEngine{}, calc.StdEngine{}}
	items := ParseBatch([]string{"12 * 34", "-5 + 5", "1 2 3", "abc"})

	reports := ExecuteBatch(context.Background(), engines, items, 2, NullProgressReporter{}, io.Discard)
	if len(reports) != len(items) {
		t.Fatalf("expected %d reports, got %d", len(items), len(reports))
	}

	for _, r := range reports[0].Results {
		if r.Err != nil || r.Value != "408" {
			t.Errorf("%s: 12 * 34 = %q, %v", r.Engine, r.Value, r.Err)
		}
	}
	if reports[0].Results[0].Engine != "digits" || reports[0].Results[1].Engine != "std" {
		t.Errorf("results not in engine order: %+v", reports[0].Results)
	}
	for _, r := range reports[1].Results {
		if r.Value != "0" {
			t.Errorf("%s: -5 + 5 = %q", r.Engine, r.Value)
		}
	}
	for _, r := range reports[2].Results {
		var evalErr apperrors.EvaluationError
		if !errors.As(r.Err, &evalErr) || evalErr.Expr != "1 2 3" {
			t.Errorf("%s: error = %v, want EvaluationError for the line", r.Engine, r.Err)
		}
	}
	for _, r := range reports[3].Results {
		if !apperrors.IsFormatError(r.Err) {
			t.Errorf("%s: error = %v, want FormatError", r.Engine, r.Err)
		}
	}
}

func TestExecuteBatchReportsProgress(t *testing.T) {
	t.Parallel()
	engines := []calc.Engine{calc.DigitsEngine{}}
	items := ParseBatch([]string{"1", "2", "3", "4"})

	var mu sync.Mutex
	var last float64
	reporter := ProgressReporterFunc(func(wg *sync.WaitGroup, ch <-chan progress.ProgressUpdate, n int, _ io.Writer) {
		defer wg.Done()
		if n != 1 {
			t.Errorf("numEngines = %d, want 1", n)
		}
		for u := range ch {
			mu.Lock()
			last = max(last, u.Value)
			mu.Unlock()
		}
	})

	ExecuteBatch(context.Background(), engines, items, 1, reporter, io.Discard)
	mu.Lock()
	defer mu.Unlock()
	if last != 1 {
		t.Errorf("final progress = %f, want 1", last)
	}
}

func TestAnalyzeResults(t *testing.T) {
	t.Parallel()
	formatErr := apperrors.EvaluationError{Expr: "x", Cause: &apperrors.FormatError{Input: "x"}}
	tests := []struct {
		name           string
		reports        []ExpressionReport
		expectedStatus int
		expectedValues int
	}{
		{
			name: "All consistent",
			reports: []ExpressionReport{
				{Line: 1, Source: "2 + 3", Results: []EngineResult{{Engine: "A", Value: "5"}, {Engine: "B", Value: "5"}}},
				{Line: 2, Source: "2 * 3", Results: []EngineResult{{Engine: "A", Value: "6"}, {Engine: "B", Value: "6"}}},
			},
			expectedStatus: apperrors.ExitSuccess,
			expectedValues: 2,
		},
		{
			name: "Mismatch",
			reports: []ExpressionReport{
				{Line: 1, Results: []EngineResult{{Engine: "A", Value: "5"}, {Engine: "B", Value: "6"}}},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "One engine fails while another succeeds",
			reports: []ExpressionReport{
				{Line: 1, Results: []EngineResult{{Engine: "A", Value: "5"}, {Engine: "B", Err: errors.New("fail")}}},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All engines reject the format",
			reports: []ExpressionReport{
				{Line: 1, Results: []EngineResult{{Engine: "A", Err: formatErr}, {Engine: "B", Err: formatErr}}},
				{Line: 2, Results: []EngineResult{{Engine: "A", Value: "1"}, {Engine: "B", Value: "1"}}},
			},
			expectedStatus: apperrors.ExitErrorFormat,
			expectedValues: 1,
		},
		{
			name: "Mismatch outranks format failure",
			reports: []ExpressionReport{
				{Line: 1, Results: []EngineResult{{Engine: "A", Err: formatErr}}},
				{Line: 2, Results: []EngineResult{{Engine: "A", Value: "1"}, {Engine: "B", Value: "2"}}},
			},
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "Canceled",
			reports: []ExpressionReport{
				{Line: 1, Results: []EngineResult{{Engine: "A", Value: "1"}, {Engine: "B", Err: context.Canceled}}},
			},
			expectedStatus: apperrors.ExitErrorCanceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			presenter := &MockResultPresenter{}
			status := AnalyzeResults(tt.reports, PresentationOptions{}, presenter, io.Discard)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
			if len(presenter.values) != tt.expectedValues {
				t.Errorf("expected %d presented values, got %d", tt.expectedValues, len(presenter.values))
			}
		})
	}
}

func TestAnalyzeResultsGlobalStatus(t *testing.T) {
	t.Parallel()
	reports := []ExpressionReport{
		{Line: 1, Results: []EngineResult{{Engine: "A", Value: "1"}}},
		{Line: 2, Results: []EngineResult{{Engine: "A", Value: "2"}}},
	}
	var sb strings.Builder
	presenter := &MockResultPresenter{}
	AnalyzeResults(reports, PresentationOptions{}, presenter, &sb)
	if !strings.Contains(sb.String(), "Global Status: Success. 2 expressions") {
		t.Errorf("missing global status line: %q", sb.String())
	}
	if presenter.tables != 0 {
		t.Errorf("single-engine reports should not render comparison tables, got %d", presenter.tables)
	}

	sb.Reset()
	AnalyzeResults(reports, PresentationOptions{Quiet: true}, presenter, &sb)
	if sb.Len() != 0 {
		t.Errorf("quiet mode wrote %q", sb.String())
	}
}
