package calc

import (
	"context"
	"slices"
	"sync"
	"testing"

	"github.com/agbru/bigcalc/internal/expr"
)

func TestDefaultFactoryList(t *testing.T) {
	t.Parallel()
	names := NewDefaultFactory().List()
	if !slices.IsSorted(names) {
		t.Errorf("List() not sorted: %v", names)
	}
	for _, want := range []string{"digits", "fft", "std"} {
		if !slices.Contains(names, want) {
			t.Errorf("List() = %v, missing %q", names, want)
		}
	}
}

func TestFactoryGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	e, err := f.Get("digits")
	if err != nil {
		t.Fatalf("Get(digits) error: %v", err)
	}
	if e.Name() != "digits" {
		t.Errorf("Name() = %q", e.Name())
	}
	if _, err := f.Get("abacus"); err == nil {
		t.Error("Get(abacus) expected error")
	}
}

func TestFactoryRegister(t *testing.T) {
	t.Parallel()
	f := NewFactory()
	if err := f.Register("digits", func() Engine { return DigitsEngine{} }); err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if err := f.Register("digits", func() Engine { return DigitsEngine{} }); err == nil {
		t.Error("duplicate Register() expected error")
	}
	if err := f.Register("", func() Engine { return DigitsEngine{} }); err == nil {
		t.Error("Register(\"\") expected error")
	}
	if err := f.Register("nil", nil); err == nil {
		t.Error("Register(nil creator) expected error")
	}
}

func TestFactoryMustGetPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("MustGet(unknown) did not panic")
		}
	}()
	NewFactory().MustGet("unknown")
}

func TestFactoryConcurrentGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e := f.MustGet("std")
			if _, err := e.Evaluate(context.Background(), expr.Expression{Op: expr.OpAdd, Left: "1", Right: "1"}); err != nil {
				t.Errorf("Evaluate error: %v", err)
			}
		}()
	}
	wg.Wait()

	all := f.GetAll()
	if len(all) != len(f.List()) {
		t.Errorf("GetAll() returned %d engines, List() %d", len(all), len(f.List()))
	}
}

func TestGlobalFactoryIsShared(t *testing.T) {
	t.Parallel()
	if GlobalFactory() != GlobalFactory() {
		t.Error("GlobalFactory() returned different instances")
	}
}
