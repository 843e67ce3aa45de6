package qsynth

import (
	"context"

	"github.com/theapemachine/errnie"
)

// Result is the typed outcome of one record in a batch: a value or the error that
// aborted that record only.
type Result[T any] struct {
	Index int
	Value T
	Err   error
}

/*
Batch generates n book records in order. Record i draws from the i-th substream of src,
so the sequence is fixed by src alone and matches Parallel for the same src.
*/
func (gen *Generator) Batch(n int, src RandomSource) []Result[Sample] {
	return batch(n, src, gen.Sample)
}

// People generates n demographic records the same way Batch does.
func (gen *Generator) People(n int, src RandomSource) []Result[Person] {
	return batch(n, src, gen.Person)
}

func batch[T any](n int, src RandomSource, fn func(RandomSource) (T, error)) []Result[T] {
	results := make([]Result[T], 0, n)

	for i := 0; i < n; i++ {
		value, err := fn(Substream(src))
		if err != nil {
			errnie.Warn("record %d failed: %v", i, err)
		}
		results = append(results, Result[T]{Index: i, Value: value, Err: err})
	}

	return results
}

/*
Drive is the policy layer over batch generation: results are handed to sink in order,
failed records are skipped, and the run stops early once breaker opens or ctx is done. It
returns ctx's error, the breaker's error or the first sink error.
*/
func Drive[T any](
	ctx context.Context,
	n int, src RandomSource, fn func(RandomSource) (T, error), breaker *Breaker, sink func(Result[T]) error,
) error {
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			errnie.Warn("run stopped at record %d of %d: %v", i, n, err)
			return err
		}

		value, err := fn(Substream(src))
		result := Result[T]{Index: i, Value: value, Err: err}

		if err != nil {
			errnie.Warn("record %d failed: %v", i, err)
			breaker.RecordFailure()
			if !breaker.Allow() {
				return breaker.Err()
			}
			continue
		}

		breaker.RecordSuccess()

		if err := sink(result); err != nil {
			return err
		}
	}

	return nil
}
