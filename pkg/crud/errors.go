package crud

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

var (
	ErrEntityNotFound      = errors.New("entity not found")
	ErrActionNotFound      = errors.New("custom action not found")
	ErrNoRepository        = errors.New("entity has no repository")
	ErrOperationNotAllowed = errors.New("operation not allowed")
)

// ActionNotFoundError is returned when a custom action is not registered on an entity.
type ActionNotFoundError struct {
	Action   string
	Resource string
}

func (e *ActionNotFoundError) Error() string {
	return fmt.Sprintf("custom action [%s] is not registered on [%s]", e.Action, e.Resource)
}

func (e *ActionNotFoundError) Is(target error) bool {
	return target == ErrActionNotFound
}

// ValidationError carries the failed rules of a request, keyed by field id.
type ValidationError struct {
	Errors map[string][]string `json:"errors"`
}

func (e *ValidationError) Error() string {
	ids := make([]string, 0, len(e.Errors))
	for id := range e.Errors {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var messages []string
	for _, id := range ids {
		messages = append(messages, e.Errors[id]...)
	}

	return "the given data was invalid: " + strings.Join(messages, " ")
}
