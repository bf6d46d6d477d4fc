package calc

import (
	"fmt"
	"sort"
	"sync"
)

// builtinEngines lists the constructors registered by NewDefaultFactory.
// Build-tagged files append to it from init.
var builtinEngines = []func() Engine{
	func() Engine { return DigitsEngine{} },
	func() Engine { return StdEngine{} },
	func() Engine { return FFTEngine{} },
}

// EngineFactory creates and caches engines by name.
type EngineFactory interface {
	// Register adds an engine constructor under name.
	Register(name string, creator func() Engine) error
	// Get returns the engine registered under name.
	Get(name string) (Engine, error)
	// List returns the registered names in sorted order.
	List() []string
	// GetAll returns every registered engine keyed by name.
	GetAll() map[string]Engine
}

// DefaultFactory is the standard EngineFactory. Engines are created lazily
// on first use and cached. It is safe for concurrent use.
type DefaultFactory struct {
	mu       sync.RWMutex
	creators map[string]func() Engine
	cache    map[string]Engine
}

// NewFactory returns an empty factory.
func NewFactory() *DefaultFactory {
	return &DefaultFactory{
		creators: make(map[string]func() Engine),
		cache:    make(map[string]Engine),
	}
}

// NewDefaultFactory returns a factory with every built-in engine
// registered: "digits", "std", "fft", and "gmp" when built with -tags gmp.
func NewDefaultFactory() *DefaultFactory {
	f := NewFactory()
	for _, creator := range builtinEngines {
		e := creator()
		_ = f.Register(e.Name(), creator)
	}
	return f
}

var (
	globalFactory     *DefaultFactory
	globalFactoryOnce sync.Once
)

// GlobalFactory returns the process-wide default factory.
func GlobalFactory() *DefaultFactory {
	globalFactoryOnce.Do(func() {
		globalFactory = NewDefaultFactory()
	})
	return globalFactory
}

// Register implements EngineFactory. Registering an empty name, a nil
// constructor or a duplicate name fails.
func (f *DefaultFactory) Register(name string, creator func() Engine) error {
	if name == "" || creator == nil {
		return fmt.Errorf("invalid engine registration %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.creators[name]; exists {
		return fmt.Errorf("engine %q already registered", name)
	}
	f.creators[name] = creator
	return nil
}

// Get implements EngineFactory.
func (f *DefaultFactory) Get(name string) (Engine, error) {
	f.mu.RLock()
	if e, ok := f.cache[name]; ok {
		f.mu.RUnlock()
		return e, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.cache[name]; ok {
		return e, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("unknown engine %q", name)
	}
	e := creator()
	f.cache[name] = e
	return e, nil
}

// MustGet is like Get but panics if name is not registered.
func (f *DefaultFactory) MustGet(name string) Engine {
	e, err := f.Get(name)
	if err != nil {
		panic(err)
	}
	return e
}

// List implements EngineFactory.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll implements EngineFactory.
func (f *DefaultFactory) GetAll() map[string]Engine {
	all := make(map[string]Engine)
	for _, name := range f.List() {
		if e, err := f.Get(name); err == nil {
			all[name] = e
		}
	}
	return all
}
