package query

import "fmt"

// ConfigurationError reports a fatal misuse of the engine: requesting a
// dynamic scope's spec without the event context, or an unknown scope.
// It is not recoverable by the caller of the current request.
type ConfigurationError struct {
	Scope   Scope
	Message string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("query configuration error in scope %q: %s", e.Scope, e.Message)
}

// ValidationError reports untrusted input that does not fit the resolved
// spec: an operator illegal for a field's type, a moniker absent from the
// spec, a wrong operand count, or an overlong order list. It is
// recoverable and meant to be surfaced to the submitting user.
type ValidationError struct {
	Field    string
	Operator Operator
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid query: %s", e.Message)
	}
	return fmt.Sprintf("invalid query field %q: %s", e.Field, e.Message)
}

// Common validation message formats.
const (
	errUnknownMoniker     = "not part of the spec"
	errOperatorNotLegal   = "operator %s not legal for type %s"
	errWantTwoOperands    = "operator %s requires exactly two operands, got %d"
	errWantValueList      = "operator %s requires a list of operands"
	errWantSingleOperand  = "operator %s requires a single operand"
	errOrderTooLong       = "order list longer than %d"
	errValuelessWithValue = "operator %s takes no operand"
)
