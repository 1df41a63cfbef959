package acl

import (
	"fmt"
	"strings"
)

// Deterministic error codes for ACL compilation failures. Every failure is
// terminal: this is a compile-time policy gate, not a runtime fault.
const (
	ErrParse                       = "ERR_ACL_PARSE"
	ErrDuplicateIdentifier         = "ERR_ACL_DUPLICATE_IDENTIFIER"
	ErrUnresolvedReference         = "ERR_ACL_UNRESOLVED_REFERENCE"
	ErrInvalidCapabilityPermission = "ERR_ACL_INVALID_CAPABILITY_PERMISSION"
	ErrIO                          = "ERR_ACL_IO"
)

// ParseError reports a malformed permission or capability document.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrParse, e.Path, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrParse, e.Path, e.Message)
}

func (e *ParseError) Unwrap() error { return e.Err }

// DuplicateIdentifierError reports two records of the same kind colliding on
// an identifier within one namespace.
type DuplicateIdentifierError struct {
	Namespace  string
	Kind       string // "permission", "permission set", "default permission" or "capability"
	Identifier string
}

func (e *DuplicateIdentifierError) Error() string {
	if e.Namespace == "" {
		return fmt.Sprintf("%s: %s %q defined twice", ErrDuplicateIdentifier, e.Kind, e.Identifier)
	}
	return fmt.Sprintf("%s: %s %q defined twice in namespace %q", ErrDuplicateIdentifier, e.Kind, e.Identifier, e.Namespace)
}

// UnresolvedReferenceError reports a permission set or default permission
// member that names no permission of its namespace.
type UnresolvedReferenceError struct {
	Namespace string
	Set       string // referencing set identifier, or "default"
	Reference string
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("%s: set %q in namespace %q references unknown permission %q", ErrUnresolvedReference, e.Set, e.Namespace, e.Reference)
}

// InvalidCapabilityPermissionError reports the first capability permission
// reference that resolves to nothing, together with every valid alternative
// across every namespace.
type InvalidCapabilityPermissionError struct {
	Capability string
	Permission string
	Known      []string
}

func (e *InvalidCapabilityPermissionError) Error() string {
	return fmt.Sprintf("%s: capability %q: permission %s not found, expected one of %s",
		ErrInvalidCapabilityPermission, e.Capability, e.Permission, strings.Join(e.Known, ", "))
}

// IOError wraps a discovery or persistence failure with the affected path.
type IOError struct {
	Path string
	Op   string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s: %s %s: %v", ErrIO, e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
