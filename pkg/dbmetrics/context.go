package dbmetrics

import "context"

type executorKey struct{}

// WithExecutor stores a transaction-bound executor in the context.
// Repositories pick it up through GetExecutor, so the same repository code
// runs inside or outside a transaction.
func WithExecutor(ctx context.Context, executor DBExecutor) context.Context {
	return context.WithValue(ctx, executorKey{}, executor)
}

// GetExecutor returns the executor stored in the context, or fallback when
// the context carries no transaction.
func GetExecutor(ctx context.Context, fallback DBExecutor) DBExecutor {
	if executor, ok := ctx.Value(executorKey{}).(DBExecutor); ok {
		return executor
	}
	return fallback
}

// IsInTransaction reports whether the context carries a transaction-bound
// executor. Repositories use it to add locking clauses that are only valid
// inside a transaction.
func IsInTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(executorKey{}).(DBExecutor)
	return ok
}
