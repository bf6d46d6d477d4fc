package orchestration

import (
	"testing"

	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
)

func TestGetEnginesToRun(t *testing.T) {
	t.Parallel()
	factory := calc.GlobalFactory()

	t.Run("Single engine", func(t *testing.T) {
		t.Parallel()
		engines := GetEnginesToRun("digits", factory)
		if len(engines) != 1 {
			t.Fatalf("Expected 1 engine, got %d", len(engines))
		}
		if engines[0].Name() != "digits" {
			t.Errorf("Name() = %q, want digits", engines[0].Name())
		}
	})

	t.Run("All engines in sorted order", func(t *testing.T) {
		t.Parallel()
		engines := GetEnginesToRun(config.AllEngines, factory)
		if len(engines) < 2 {
			t.Fatalf("Expected at least 2 engines for 'all', got %d", len(engines))
		}
		for i := 1; i < len(engines); i++ {
			if engines[i-1].Name() >= engines[i].Name() {
				t.Errorf("engines not sorted: %q before %q", engines[i-1].Name(), engines[i].Name())
			}
		}
	})

	t.Run("Unknown engine", func(t *testing.T) {
		t.Parallel()
		if engines := GetEnginesToRun("slide-rule", factory); engines != nil {
			t.Errorf("Expected nil, got %d engines", len(engines))
		}
	})
}
