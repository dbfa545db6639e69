package ecs

import "fmt"

// ContractViolation marks a scheduler-ordering bug: something ran that the
// phase sequencing must never allow. It is raised with panic and is not
// meant to be recovered by game code.
type ContractViolation struct {
	Op     string
	Detail string
}

func (e *ContractViolation) Error() string {
	return fmt.Sprintf("contract violation in %s: %s", e.Op, e.Detail)
}

// Violate panics with a *ContractViolation.
func Violate(op, format string, args ...any) {
	panic(&ContractViolation{Op: op, Detail: fmt.Sprintf(format, args...)})
}
