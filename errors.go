package dwquery

import "fmt"

// Error carries the failing operation, the query text when there is one, and
// the untouched driver error. Nothing is retried or swallowed here; callers
// unwrap to inspect the cause.
type Error struct {
	Op    string
	Query string
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("dwquery: %s %q: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("dwquery: %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
