package orchestration

import (
	"github.com/agbru/bigcalc/internal/calc"
	"github.com/agbru/bigcalc/internal/config"
)

// GetEnginesToRun determines which engines should be executed for the given
// selection. "all" returns every registered engine in sorted order for
// consistent, reproducible output. An unknown name yields nil.
//
// Parameters:
//   - name: The engine name or config.AllEngines.
//   - factory: The factory to retrieve engines from.
//
// Returns:
//   - []calc.Engine: The engines to execute.
func GetEnginesToRun(name string, factory calc.EngineFactory) []calc.Engine {
	if name == config.AllEngines {
		keys := factory.List()
		engines := make([]calc.Engine, 0, len(keys))
		for _, k := range keys {
			if e, err := factory.Get(k); err == nil {
				engines = append(engines, e)
			}
		}
		return engines
	}
	if e, err := factory.Get(name); err == nil {
		return []calc.Engine{e}
	}
	return nil
}
