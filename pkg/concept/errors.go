package concept

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the recoverable failure modes reported by the core.
// Every error returned by the concept, ontology, blackboard, and agent
// packages carries exactly one kind, so callers can branch on the condition
// without parsing message text.
type ErrorKind string

const (
	// KindTypeMismatch indicates an object that does not conform to the
	// required Concept, Property, or Relationship class.
	KindTypeMismatch ErrorKind = "type_mismatch"

	// KindValidation indicates a structural invariant violation on an add,
	// such as a relationship whose edges do not resolve within an ontology.
	KindValidation ErrorKind = "validation"

	// KindReferentialIntegrity indicates a removal that would orphan a
	// reference when cascade removal was not requested.
	KindReferentialIntegrity ErrorKind = "referential_integrity"

	// KindNotPublished indicates a subscribe or signal against a concept
	// that is not currently published to the blackboard.
	KindNotPublished ErrorKind = "not_published"

	// KindInvalidStateTransition indicates an agent lifecycle violation,
	// such as starting an already-running agent.
	KindInvalidStateTransition ErrorKind = "invalid_state_transition"
)

// Validate checks if the ErrorKind is a valid enum value.
func (k ErrorKind) Validate() error {
	switch k {
	case KindTypeMismatch, KindValidation, KindReferentialIntegrity,
		KindNotPublished, KindInvalidStateTransition:
		return nil
	default:
		return fmt.Errorf("unknown error kind: %q", k)
	}
}

// Error is the single reporting vehicle for dysfunction in the core.
// It pairs a machine-checkable kind with a human-readable message.
// It is not a control-flow mechanism for expected conditions: callers are
// expected to check preconditions (ConceptExists and friends) when they wish
// to avoid errors, but the core still reports the correct kind unconditionally.
type Error struct {
	Kind    ErrorKind
	Message string
}

// NewError builds an Error of the given kind with a formatted message.
func NewError(kind ErrorKind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// KindOf extracts the ErrorKind from err, unwrapping as needed.
// The second return is false when err was not produced by this core.
func KindOf(err error) (ErrorKind, bool) {
	var coreErr *Error
	if errors.As(err, &coreErr) {
		return coreErr.Kind, true
	}
	return "", false
}

func isKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

// IsTypeMismatch returns true if the error reports a class conformance failure.
func IsTypeMismatch(err error) bool { return isKind(err, KindTypeMismatch) }

// IsValidation returns true if the error reports a structural invariant violation.
func IsValidation(err error) bool { return isKind(err, KindValidation) }

// IsReferentialIntegrity returns true if the error reports a removal that
// would orphan a reference.
func IsReferentialIntegrity(err error) bool { return isKind(err, KindReferentialIntegrity) }

// IsNotPublished returns true if the error reports an operation against an
// unpublished concept.
func IsNotPublished(err error) bool { return isKind(err, KindNotPublished) }

// IsInvalidStateTransition returns true if the error reports an agent
// lifecycle violation.
func IsInvalidStateTransition(err error) bool { return isKind(err, KindInvalidStateTransition) }
