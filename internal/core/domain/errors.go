package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidPriceRange  = errors.New("invalid price range")
	ErrInvalidPage        = errors.New("invalid page")
	ErrUnknownStoreDriver = errors.New("unknown store driver")
)

// QueryError - хранилище недоступно или отклонило запрос.
// Автоматически не ретраится: решение о повторе принимает вызывающий.
type QueryError struct {
	Op         string
	Collection string
	Retryable  bool
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("query %s on %q failed (retryable=%t): %v", e.Op, e.Collection, e.Retryable, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// NewQueryError оборачивает ошибку драйвера.
func NewQueryError(op, collection string, retryable bool, err error) *QueryError {
	return &QueryError{Op: op, Collection: collection, Retryable: retryable, Err: err}
}

// AsQueryError достает QueryError из цепочки ошибок.
func AsQueryError(err error) (*QueryError, bool) {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe, true
	}
	return nil, false
}
