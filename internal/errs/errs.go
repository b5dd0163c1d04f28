// Package errs implements the error taxonomy of §7. Each kind is its own
// exported type satisfying the standard error interface, so callers can
// branch on kind with errors.As instead of string-matching a message —
// the idiomatic Go shape for what the teacher models with an interpreted
// *Error object carrying a Message string (internal/evaluator/object_control.go,
// internal/evaluator/helpers.go's newError/newErrorWithLocation). This
// core has no user-facing catch construct (§7: errors "propagate to the
// driver unchanged"), so a plain Go error hierarchy is the better fit
// than reifying errors as interpreted values.
package errs

import (
	"fmt"

	"github.com/p4lang/p4spectec-core/internal/region"
)

// Unbound is raised by a variable lookup miss (§4.D, §7).
type Unbound struct {
	Region region.Region
	Name   string
}

func (e *Unbound) Error() string { return fmt.Sprintf("unbound identifier: %s", e.Name) }

// KindMismatch is raised by a value accessor whose dynamic tag disagrees
// with the requested view (§4.A, §7).
type KindMismatch struct {
	Region   region.Region
	Expected string
	Actual   string
}

func (e *KindMismatch) Error() string {
	return fmt.Sprintf("expected %s, got %s", e.Expected, e.Actual)
}

// IterLengthMismatch is raised when IterE(List, ...) binders disagree in
// length (§4.D, §7, Testable Property 6).
type IterLengthMismatch struct {
	Region region.Region
	Lens   map[string]int
}

func (e *IterLengthMismatch) Error() string {
	return fmt.Sprintf("iteration binders disagree in length: %v", e.Lens)
}

// LetMismatch is raised when a LetI's rhs fails to match its lhs pattern
// (§4.E, §7).
type LetMismatch struct {
	Region region.Region
}

func (e *LetMismatch) Error() string { return "let binding pattern did not match" }

// EmptyList is raised by head/tail projection of an empty list (§4.D, §7).
type EmptyList struct {
	Region region.Region
}

func (e *EmptyList) Error() string { return "projection of empty list" }

// DivByZero is raised by division or modulo by zero (§4.D, §7).
type DivByZero struct {
	Region region.Region
}

func (e *DivByZero) Error() string { return "division by zero" }

// RelFailed is raised when an inductive rule's instruction list falls
// through without a ResultI (§4.E.1, §7).
type RelFailed struct {
	Region region.Region
	RelId  string
}

func (e *RelFailed) Error() string { return fmt.Sprintf("relation failed: %s", e.RelId) }

// StackOverflow is raised when recursion depth exceeds the configured
// bound (§4.D, §5, §7).
type StackOverflow struct {
	Region region.Region
	Depth  int
}

func (e *StackOverflow) Error() string {
	return fmt.Sprintf("stack overflow: recursion depth exceeded %d", e.Depth)
}

// Deadline is raised when a caller-installed deadline has passed (§5, §7).
type Deadline struct {
	Region region.Region
}

func (e *Deadline) Error() string { return "deadline exceeded" }

// BuiltinError wraps a message raised by a built-in function (§6, §7),
// e.g. BuiltinError("min of empty list").
type BuiltinError struct {
	Region region.Region
	Msg    string
}

func (e *BuiltinError) Error() string { return e.Msg }

// Parse and Elab round-trip errors raised by external collaborators (the
// SL parser/elaborator, out of scope for this core — §1, §7). This core
// never raises them itself; the type exists so a driver can deserialize
// an elaborator error blob through the same taxonomy instead of needing
// a second error representation.
type Parse struct {
	Region region.Region
	Msg    string
}

func (e *Parse) Error() string { return e.Msg }

type Elab struct {
	Region region.Region
	Msg    string
}

func (e *Elab) Error() string { return e.Msg }

// regioned is implemented by every error in this package, letting
// Diagnostic render the one-line form without a type switch per kind.
type regioned interface {
	error
	region() region.Region
}

func (e *Unbound) region() region.Region             { return e.Region }
func (e *KindMismatch) region() region.Region         { return e.Region }
func (e *IterLengthMismatch) region() region.Region   { return e.Region }
func (e *LetMismatch) region() region.Region          { return e.Region }
func (e *EmptyList) region() region.Region            { return e.Region }
func (e *DivByZero) region() region.Region            { return e.Region }
func (e *RelFailed) region() region.Region            { return e.Region }
func (e *StackOverflow) region() region.Region        { return e.Region }
func (e *Deadline) region() region.Region             { return e.Region }
func (e *BuiltinError) region() region.Region         { return e.Region }
func (e *Parse) region() region.Region                { return e.Region }
func (e *Elab) region() region.Region                 { return e.Region }

// Kind returns the one-word taxonomy name used in Diagnostic's rendering.
func Kind(err error) string {
	switch err.(type) {
	case *Unbound:
		return "Unbound"
	case *KindMismatch:
		return "KindMismatch"
	case *IterLengthMismatch:
		return "IterLengthMismatch"
	case *LetMismatch:
		return "LetMismatch"
	case *EmptyList:
		return "EmptyList"
	case *DivByZero:
		return "DivByZero"
	case *RelFailed:
		return "RelFailed"
	case *StackOverflow:
		return "StackOverflow"
	case *Deadline:
		return "Deadline"
	case *BuiltinError:
		return "BuiltinError"
	case *Parse:
		return "Parse"
	case *Elab:
		return "Elab"
	default:
		return "Error"
	}
}

// Diagnostic renders the §7 one-line form: "<region>: <kind>: <message>".
func Diagnostic(err error) string {
	r, ok := err.(regioned)
	if !ok {
		return fmt.Sprintf("%s: %s", Kind(err), err.Error())
	}
	return fmt.Sprintf("%s: %s: %s", r.region(), Kind(err), err.Error())
}
