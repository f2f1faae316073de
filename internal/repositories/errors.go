package repositories

import "errors"

// RepositoryError wraps storage failures with their operation and record id.
type RepositoryError struct {
	Operation string
	ID        string
	Err       error
	Message   string
}

func (e *RepositoryError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	prefix := e.Operation
	if e.ID != "" {
		prefix += " (id: " + e.ID + ")"
	}
	if e.Err != nil {
		return prefix + ": " + e.Err.Error()
	}
	return prefix + ": unknown error"
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// NewRepositoryError creates a new repository error
func NewRepositoryError(operation, id string, err error, message string) *RepositoryError {
	return &RepositoryError{
		Operation: operation,
		ID:        id,
		Err:       err,
		Message:   message,
	}
}

// ErrNotFound is the sentinel wrapped by all not-found errors, so callers
// can map them to 404 with errors.Is.
var ErrNotFound = errors.New("not found")

// ArticleNotFoundError reports a lookup on a missing article id.
func ArticleNotFoundError(id string) error {
	return &RepositoryError{
		Operation: "get_article",
		ID:        id,
		Err:       ErrNotFound,
		Message:   "article not found: " + id,
	}
}

// IsNotFound reports whether err is a missing-record error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
