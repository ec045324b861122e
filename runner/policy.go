package runner

import (
	"fmt"
	"strings"
)

// ErrorPolicy decides how a batch reacts to a failing agent.
type ErrorPolicy int

const (
	// FailFast aborts the whole batch on the first failure.
	FailFast ErrorPolicy = iota
	// Isolate records failures per agent and keeps the batch.
	Isolate
)

// String implements fmt.Stringer.
func (p ErrorPolicy) String() string {
	switch p {
	case FailFast:
		return "fail-fast"
	case Isolate:
		return "isolate"
	default:
		return fmt.Sprintf("ErrorPolicy(%d)", int(p))
	}
}

// ParseErrorPolicy converts a policy name into an ErrorPolicy.
func ParseErrorPolicy(s string) (ErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return FailFast, nil
	case "isolate":
		return Isolate, nil
	default:
		return FailFast, fmt.Errorf("unknown error policy %q", s)
	}
}
