package shared

import "context"

// TransactionManager runs a function inside a single storage transaction.
// Repositories participating in the transaction pick it up from the context,
// so multi-repository operations (photo marking, submission reconciliation)
// commit atomically.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Filter represents query filter options for list operations
type Filter struct {
	OrderBy  string
	OrderDir string
	Limit    int
	Offset   int
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		OrderBy:  "created_at",
		OrderDir: "desc",
	}
}
