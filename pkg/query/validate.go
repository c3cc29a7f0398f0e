package query

import (
	"fmt"
	"slices"
)

// Validate checks the query against its resolved spec: every referenced
// moniker must exist, every operator must be legal for its field's type,
// operand shapes must match the operator class and the order list must
// stay within the serialization bound. The first violation is returned
// as a *ValidationError.
func (q *Query) Validate() error {
	if q.Spec == nil {
		return &ValidationError{Message: "query has no resolved spec"}
	}

	for _, f := range q.Fields {
		if !q.Spec.Has(f) {
			return &ValidationError{Field: f, Message: errUnknownMoniker}
		}
	}

	for _, c := range q.Constraints {
		entry, ok := q.Spec.Get(c.Field)
		if !ok {
			return &ValidationError{Field: c.Field, Message: errUnknownMoniker}
		}
		if _, known := operatorNames[c.Operator]; !known {
			return &ValidationError{Field: c.Field, Operator: c.Operator,
				Message: fmt.Sprintf("unknown operator id %d", int(c.Operator))}
		}
		if !slices.Contains(LegalOperators(entry.Type), c.Operator) {
			return &ValidationError{Field: c.Field, Operator: c.Operator,
				Message: fmt.Sprintf(errOperatorNotLegal, c.Operator, entry.Type)}
		}
		if err := validateOperand(c); err != nil {
			return err
		}
	}

	if len(q.Order) > MaxOrderLength {
		return &ValidationError{Message: fmt.Sprintf(errOrderTooLong, MaxOrderLength)}
	}
	for _, o := range q.Order {
		if !q.Spec.Has(o.Field) {
			return &ValidationError{Field: o.Field, Message: errUnknownMoniker}
		}
	}

	return nil
}

// validateOperand checks the shape of a constraint's operand against its
// operator class. Membership operators accept any list length including
// zero; the interval operators demand exactly two operands.
func validateOperand(c Constraint) error {
	op := c.Operator

	if op.IsValueless() {
		if c.Value != nil {
			return &ValidationError{Field: c.Field, Operator: op,
				Message: fmt.Sprintf(errValuelessWithValue, op)}
		}
		return nil
	}

	if op.IsMultiValued() {
		values, ok := c.Value.([]any)
		if !ok {
			return &ValidationError{Field: c.Field, Operator: op,
				Message: fmt.Sprintf(errWantValueList, op)}
		}
		if (op == OpBetween || op == OpOutside) && len(values) != 2 {
			return &ValidationError{Field: c.Field, Operator: op,
				Message: fmt.Sprintf(errWantTwoOperands, op, len(values))}
		}
		return nil
	}

	if _, isList := c.Value.([]any); isList || c.Value == nil {
		return &ValidationError{Field: c.Field, Operator: op,
			Message: fmt.Sprintf(errWantSingleOperand, op)}
	}
	return nil
}
