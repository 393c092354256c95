package collect

import (
	"errors"
	"fmt"

	"github.com/shardlite/shardlite/metadata"
	"github.com/shardlite/shardlite/shard"
)

// Error codes for the collect taxonomy
const (
	ErrCodeRoutingMismatch  = "routing_mismatch"
	ErrCodeUnknownReference = "unknown_reference"
	ErrCodeUnknownFunction  = "unknown_function"
	ErrCodeArityMismatch    = "arity_mismatch"
	ErrCodeShardUnavailable = "shard_unavailable"
	ErrCodeInvalidPlan      = "invalid_plan"
)

// Error is a collect call failure. RoutingMismatch and the bind-time codes
// are fatal for the call; ErrCodeShardUnavailable is transient and may be
// retried by the caller, never internally.
type Error struct {
	Code    string
	Op      string
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	return e.Message
}

// Unwrap implements the unwrap interface for error chaining
func (e *Error) Unwrap() error {
	return e.Err
}

// Is checks if the error matches the target error by code
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// NewRoutingMismatch creates the fatal error raised when the routing of a
// plan fragment does not contain the executing node.
func NewRoutingMismatch(nodeID, planName string) *Error {
	return &Error{
		Code:    ErrCodeRoutingMismatch,
		Op:      planName,
		Message: fmt.Sprintf("unsupported routing, node %s not routed", nodeID),
	}
}

// NewUnknownReference creates the bind-time error for an unresolvable
// reference ident.
func NewUnknownReference(ident metadata.ReferenceIdent) *Error {
	return &Error{
		Code:    ErrCodeUnknownReference,
		Message: fmt.Sprintf("unknown reference %s", ident),
	}
}

// NewUnknownFunction creates the bind-time error for an unregistered
// function ident.
func NewUnknownFunction(ident metadata.FunctionIdent) *Error {
	return &Error{
		Code:    ErrCodeUnknownFunction,
		Message: fmt.Sprintf("unknown function %s", ident),
	}
}

// NewArityMismatch creates the bind-time error for a call whose argument
// count differs from the declared arity.
func NewArityMismatch(ident metadata.FunctionIdent, got int) *Error {
	return &Error{
		Code:    ErrCodeArityMismatch,
		Message: fmt.Sprintf("function %s called with %d arguments, %d declared", ident, got, len(ident.ArgTypes)),
	}
}

// NewShardUnavailable creates the transient error for a shard that closed
// or relocated while a collect call needed it.
func NewShardUnavailable(id shard.ID, cause error) *Error {
	return &Error{
		Code:    ErrCodeShardUnavailable,
		Message: fmt.Sprintf("shard %s unavailable", id),
		Err:     cause,
	}
}

// NewInvalidPlan wraps a plan validation failure
func NewInvalidPlan(err error) *Error {
	return &Error{
		Code:    ErrCodeInvalidPlan,
		Message: err.Error(),
		Err:     err,
	}
}

func isCode(err error, code string) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsRoutingMismatch checks for the routing mismatch error
func IsRoutingMismatch(err error) bool { return isCode(err, ErrCodeRoutingMismatch) }

// IsUnknownReference checks for the unresolvable reference error
func IsUnknownReference(err error) bool { return isCode(err, ErrCodeUnknownReference) }

// IsUnknownFunction checks for the unresolvable function error
func IsUnknownFunction(err error) bool { return isCode(err, ErrCodeUnknownFunction) }

// IsArityMismatch checks for the bind-time arity error
func IsArityMismatch(err error) bool { return isCode(err, ErrCodeArityMismatch) }

// IsShardUnavailable checks for the transient shard error
func IsShardUnavailable(err error) bool { return isCode(err, ErrCodeShardUnavailable) }

// IsRetryable reports whether the caller may retry the whole call.
// Only shard unavailability qualifies.
func IsRetryable(err error) bool { return IsShardUnavailable(err) }
