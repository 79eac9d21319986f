package sim

import (
	"context"
	"sync"
)

// Ensemble runs independent engines of the same backend concurrently.
type Ensemble[N any] struct {
	engines []*Engine[N]
}

func NewEnsemble[N any](engines ...*Engine[N]) *Ensemble[N] {
	return &Ensemble[N]{engines: engines}
}

// Run returns one result per engine, in order. Every engine runs to its own
// end; errors are reported per index.
func (e *Ensemble[N]) Run(ctx context.Context) ([]*Result[N], []error) {
	results := make([]*Result[N], len(e.engines))
	errs := make([]error, len(e.engines))

	var wg sync.WaitGroup
	for i, eng := range e.engines {
		wg.Add(1)
		go func(idx int, eng *Engine[N]) {
			defer wg.Done()
			results[idx], errs[idx] = eng.Run(ctx)
		}(i, eng)
	}

	wg.Wait()
	return results, errs
}
