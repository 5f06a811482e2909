package infer

import (
	"fmt"

	"gsr-report/internal/mapping"
)

// InferenceError reports that no model or field satisfies a role.
type InferenceError struct {
	Role   mapping.Role
	Reason string
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("cannot infer %s mapping: %s", e.Role, e.Reason)
}

func fail(role mapping.Role, format string, args ...any) error {
	return &InferenceError{Role: role, Reason: fmt.Sprintf(format, args...)}
}
