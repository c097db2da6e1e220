package services

import (
	"fmt"
	"strings"
)

// ValidationError reports a single missing or invalid selection on a product.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors aggregates field-level errors so a calculation attempt can
// report everything that is missing in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, len(e))
	for i, v := range e {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

// FieldMap returns the errors keyed by field name, the shape handlers send to
// the client.
func (e ValidationErrors) FieldMap() map[string]string {
	m := make(map[string]string, len(e))
	for _, v := range e {
		if _, ok := m[v.Field]; !ok {
			m[v.Field] = v.Message
		}
	}
	return m
}

// LookupNotFoundError means a fully-specified selection has no matching priced
// fact. This is an admin data gap, not a user mistake, and must abort the
// calculation rather than price the component at zero.
type LookupNotFoundError struct {
	Component string // "body", "stem", "actuator", ...
	Key       string // human-readable lookup key
}

func (e *LookupNotFoundError) Error() string {
	return fmt.Sprintf("pricing data not found for %s (%s)", e.Component, e.Key)
}
