package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorString(t *testing.T) {
	tests := []struct {
		op   Operator
		want string
	}{
		{OpEqual, "equal"},
		{OpOneOf, "oneof"},
		{OpBetween, "between"},
		{OpFuzzy, "fuzzy"},
		{Operator(99), "operator(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.op.String())
		})
	}
}

func TestParseOperatorRoundTrip(t *testing.T) {
	for op, name := range operatorNames {
		parsed, ok := ParseOperator(name)
		require.True(t, ok, name)
		assert.Equal(t, op, parsed)
	}

	_, ok := ParseOperator("no_such_operator")
	assert.False(t, ok)
}

func TestOperatorClasses(t *testing.T) {
	tests := []struct {
		op        Operator
		valueless bool
		multi     bool
	}{
		{OpEmpty, true, false},
		{OpNonEmpty, true, false},
		{OpEqual, false, false},
		{OpOneOf, false, true},
		{OpOtherThan, false, true},
		{OpContainsAll, false, true},
		{OpBetween, false, true},
		{OpOutside, false, true},
		{OpLess, false, false},
		{OpMatch, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			assert.Equal(t, tt.valueless, tt.op.IsValueless())
			assert.Equal(t, tt.multi, tt.op.IsMultiValued())
		})
	}
}

func TestIsSelectionFriendly(t *testing.T) {
	assert.True(t, OpEqual.IsSelectionFriendly())
	assert.True(t, OpOneOf.IsSelectionFriendly())
	assert.False(t, OpMatch.IsSelectionFriendly())
	assert.False(t, OpRegex.IsSelectionFriendly())
	assert.False(t, OpBetween.IsSelectionFriendly())
}

func TestLegalOperators(t *testing.T) {
	types := []FieldType{
		TypeStr, TypeInt, TypeFloat, TypeDate, TypeDatetime, TypeBool, TypeID,
	}

	for _, typ := range types {
		t.Run(string(typ), func(t *testing.T) {
			ops := LegalOperators(typ)
			require.NotEmpty(t, ops)

			seen := make(map[Operator]bool, len(ops))
			for _, op := range ops {
				assert.False(t, seen[op], "duplicate operator %s", op)
				seen[op] = true
			}
		})
	}
}

func TestLegalOperatorsBoolSubsetOfID(t *testing.T) {
	idOps := make(map[Operator]bool)
	for _, op := range LegalOperators(TypeID) {
		idOps[op] = true
	}
	for _, op := range LegalOperators(TypeBool) {
		assert.True(t, idOps[op], "bool operator %s not legal for id", op)
	}
}

func TestLegalOperatorsRangeTypes(t *testing.T) {
	for _, typ := range []FieldType{TypeInt, TypeFloat, TypeDate, TypeDatetime} {
		t.Run(string(typ), func(t *testing.T) {
			ops := LegalOperators(typ)
			assert.Contains(t, ops, OpBetween)
			assert.Contains(t, ops, OpOutside)
			assert.NotContains(t, ops, OpMatch)
			assert.NotContains(t, ops, OpRegex)
		})
	}
}

func TestLegalOperatorsReturnsCopy(t *testing.T) {
	ops := LegalOperators(TypeBool)
	ops[0] = OpFuzzy

	assert.Equal(t, OpEqual, LegalOperators(TypeBool)[0])
}

func TestLegalOperatorsUnknownTypePanics(t *testing.T) {
	assert.Panics(t, func() {
		LegalOperators(FieldType("blob"))
	})
}
