package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validTestQuery() *Query {
	spec := NewSpec()
	spec.Put("personas.id", Entry{Type: TypeID})
	spec.Put("personas.given_names", Entry{Type: TypeStr})
	spec.Put("personas.birthday", Entry{Type: TypeDate})
	spec.Put("personas.is_member", Entry{Type: TypeBool})

	return &Query{
		Scope:  ScopePersona,
		Spec:   spec,
		Fields: []string{"personas.id", "personas.given_names"},
		Constraints: []Constraint{
			{Field: "personas.given_names", Operator: OpMatch, Value: "anna"},
			{Field: "personas.id", Operator: OpOneOf, Value: []any{int64(1), int64(2)}},
			{Field: "personas.is_member", Operator: OpNonEmpty},
			{Field: "personas.birthday", Operator: OpBetween, Value: []any{
				time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2010, 1, 1, 0, 0, 0, 0, time.UTC),
			}},
		},
		Order: []OrderSpec{{Field: "personas.given_names", Ascending: true}},
	}
}

func TestValidateAcceptsWellFormedQuery(t *testing.T) {
	require.NoError(t, validTestQuery().Validate())
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Query)
	}{
		{
			"selected field not in spec",
			func(q *Query) { q.Fields = append(q.Fields, "personas.bogus") },
		},
		{
			"constrained field not in spec",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "nope", Operator: OpEqual, Value: int64(1)})
			},
		},
		{
			"unknown operator",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.id", Operator: Operator(77), Value: int64(1)})
			},
		},
		{
			"string operator on id field",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.id", Operator: OpMatch, Value: "x"})
			},
		},
		{
			"range operator on bool field",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.is_member", Operator: OpLess, Value: true})
			},
		},
		{
			"valueless operator with operand",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.id", Operator: OpEmpty, Value: int64(1)})
			},
		},
		{
			"multi valued operator without list",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.id", Operator: OpOneOf, Value: int64(1)})
			},
		},
		{
			"between with one operand",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.birthday", Operator: OpBetween, Value: []any{
					time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC),
				}})
			},
		},
		{
			"outside with three operands",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.birthday", Operator: OpOutside, Value: []any{
					time.Now(), time.Now(), time.Now(),
				}})
			},
		},
		{
			"single valued operator without operand",
			func(q *Query) {
				q.Constraints = append(q.Constraints, Constraint{Field: "personas.id", Operator: OpEqual})
			},
		},
		{
			"order references unknown field",
			func(q *Query) {
				q.Order = append(q.Order, OrderSpec{Field: "personas.bogus"})
			},
		},
		{
			"order too long",
			func(q *Query) {
				for i := 0; i <= MaxOrderLength; i++ {
					q.Order = append(q.Order, OrderSpec{Field: "personas.id", Ascending: true})
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validTestQuery()
			tt.mutate(q)

			err := q.Validate()
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestValidateEmptyMembershipList(t *testing.T) {
	q := validTestQuery()
	q.Constraints = []Constraint{
		{Field: "personas.id", Operator: OpOneOf, Value: []any{}},
	}
	assert.NoError(t, q.Validate())
}

func TestValidateNoSpec(t *testing.T) {
	q := &Query{Scope: ScopePersona}
	var valErr *ValidationError
	require.ErrorAs(t, q.Validate(), &valErr)
}
