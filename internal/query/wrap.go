package query

import "context"

// ResultFunc receives the outcome of a query. ok is false when the channel was unusable.
type ResultFunc func(ctx context.Context, result string, ok bool) error

// WithResult returns a callback that runs command through executor and hands the result to fn.
// Query errors are returned without calling fn.
func WithResult(executor *Executor, command string, fn ResultFunc) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		result, ok, errQuery := executor.Query(ctx, command)
		if errQuery != nil {
			return errQuery
		}

		return fn(ctx, result, ok)
	}
}
