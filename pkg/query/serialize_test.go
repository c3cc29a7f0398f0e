package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wireTestSpec() *Spec {
	s := NewSpec()
	s.Put("personas.id", Entry{Type: TypeID, Title: "ID"})
	s.Put("personas.given_names", Entry{Type: TypeStr, Title: "Given Names"})
	s.Put("personas.is_member", Entry{Type: TypeBool, Title: "Member"})
	s.Put("personas.birthday", Entry{Type: TypeDate, Title: "Birthday"})
	s.Put("personas.balance", Entry{Type: TypeFloat, Title: "Balance"})
	s.Put("reg.ctime", Entry{Type: TypeDatetime, Title: "Registered At"})
	return s
}

func TestSerializeLayout(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	q := &Query{
		Scope: ScopePersona,
		Spec:  wireTestSpec(),
		Fields: []string{
			"personas.id", "personas.given_names",
		},
		Constraints: []Constraint{
			{Field: "personas.is_member", Operator: OpEqual, Value: true},
			{Field: "personas.given_names", Operator: OpNonEmpty},
			{Field: "personas.id", Operator: OpOneOf, Value: []any{int64(1), int64(2), int64(3)}},
		},
		Order: []OrderSpec{
			{Field: "personas.given_names", Ascending: true},
			{Field: "personas.id", Ascending: false},
		},
		Name: "members",
	}

	data := q.Serialize(true, berlin)

	assert.Equal(t, "persona", data[ScopeKey])
	assert.Equal(t, "members", data[QueryNameKey])
	assert.Equal(t, "true", data["qsel_personas.id"])
	assert.Equal(t, "true", data["qsel_personas.given_names"])
	assert.Equal(t, "3", data["qop_personas.is_member"])
	assert.Equal(t, "true", data["qval_personas.is_member"])
	assert.Equal(t, "2", data["qop_personas.given_names"])
	assert.NotContains(t, data, "qval_personas.given_names")
	assert.Equal(t, "1,2,3", data["qval_personas.id"])
	assert.Equal(t, "personas.given_names", data["qord_0"])
	assert.Equal(t, "true", data["qord_0_ascending"])
	assert.Equal(t, "personas.id", data["qord_1"])
	assert.Equal(t, "false", data["qord_1_ascending"])
}

func TestSerializeTruncatesOrder(t *testing.T) {
	q := &Query{Scope: ScopePersona, Spec: wireTestSpec()}
	for i := 0; i < MaxOrderLength+2; i++ {
		q.Order = append(q.Order, OrderSpec{Field: "personas.id", Ascending: true})
	}

	data := q.Serialize(true, time.UTC)
	assert.Contains(t, data, "qord_5")
	assert.NotContains(t, data, "qord_6")
}

func TestRoundTripMultiValue(t *testing.T) {
	q := &Query{
		Scope: ScopePersona,
		Spec:  wireTestSpec(),
		Constraints: []Constraint{
			{Field: "personas.id", Operator: OpOneOf, Value: []any{int64(3), int64(1), int64(2)}},
		},
	}

	got, err := Deserialize(q.Serialize(true, time.UTC), ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	require.Len(t, got.Constraints, 1)

	c := got.Constraints[0]
	assert.Equal(t, OpOneOf, c.Operator)
	assert.ElementsMatch(t, []any{int64(1), int64(2), int64(3)}, c.Value)
}

func TestRoundTripDatetimeAware(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	instant := time.Date(2026, time.July, 15, 14, 30, 0, 0, berlin)

	q := &Query{
		Scope: ScopePersona,
		Spec:  wireTestSpec(),
		Constraints: []Constraint{
			{Field: "reg.ctime", Operator: OpLess, Value: instant},
		},
	}

	got, err := Deserialize(q.Serialize(true, time.UTC), ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	require.Len(t, got.Constraints, 1)

	parsed, ok := got.Constraints[0].Value.(time.Time)
	require.True(t, ok)
	assert.True(t, parsed.Equal(instant), "instants differ: %v vs %v", parsed, instant)
}

func TestRoundTripDatetimeNaive(t *testing.T) {
	berlin, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)
	instant := time.Date(2026, time.July, 15, 12, 30, 0, 0, time.UTC)

	q := &Query{
		Scope: ScopePersona,
		Spec:  wireTestSpec(),
		Constraints: []Constraint{
			{Field: "reg.ctime", Operator: OpMoreEqual, Value: instant},
		},
	}

	// Naive serialization renders in the default zone without offset.
	data := q.Serialize(false, berlin)
	assert.Equal(t, "2026-07-15T14:30:00", data["qval_reg.ctime"])

	// Reinterpreting in the same zone reproduces the instant.
	got, err := Deserialize(data, ScopePersona, wireTestSpec(), berlin)
	require.NoError(t, err)
	parsed := got.Constraints[0].Value.(time.Time)
	assert.True(t, parsed.Equal(instant))
}

func TestRoundTripDateAndFloat(t *testing.T) {
	q := &Query{
		Scope: ScopePersona,
		Spec:  wireTestSpec(),
		Constraints: []Constraint{
			{Field: "personas.birthday", Operator: OpBetween, Value: []any{
				time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC),
				time.Date(2010, time.December, 31, 0, 0, 0, 0, time.UTC),
			}},
			{Field: "personas.balance", Operator: OpMore, Value: 2.5},
		},
	}

	data := q.Serialize(true, time.UTC)
	assert.Equal(t, "2000-01-01,2010-12-31", data["qval_personas.birthday"])
	assert.Equal(t, "2.5", data["qval_personas.balance"])

	got, err := Deserialize(data, ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	require.Len(t, got.Constraints, 2)

	dates := got.Constraints[0].Value.([]any)
	require.Len(t, dates, 2)
	assert.Equal(t, 2000, dates[0].(time.Time).Year())
	assert.Equal(t, 2.5, got.Constraints[1].Value)
}

func TestDeserializeSelectionInSpecOrder(t *testing.T) {
	data := map[string]string{
		"scope":                     "persona",
		"qsel_reg.ctime":            "true",
		"qsel_personas.id":          "true",
		"qsel_personas.given_names": "true",
	}

	got, err := Deserialize(data, ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	assert.Equal(t, []string{"personas.id", "personas.given_names", "reg.ctime"}, got.Fields)
}

func TestDeserializeValueless(t *testing.T) {
	data := map[string]string{
		"qop_personas.given_names": "1",
	}

	got, err := Deserialize(data, ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	require.Len(t, got.Constraints, 1)
	assert.Equal(t, OpEmpty, got.Constraints[0].Operator)
	assert.Nil(t, got.Constraints[0].Value)
}

func TestDeserializeErrors(t *testing.T) {
	tests := []struct {
		name string
		data map[string]string
	}{
		{"unknown scope tag", map[string]string{"scope": "bogus"}},
		{"mismatched scope tag", map[string]string{"scope": "cde_user"}},
		{"malformed operator", map[string]string{"qop_personas.id": "many"}},
		{"unknown operator id", map[string]string{"qop_personas.id": "77"}},
		{"malformed int", map[string]string{"qop_personas.id": "3", "qval_personas.id": "abc"}},
		{"malformed bool", map[string]string{"qop_personas.is_member": "3", "qval_personas.is_member": "maybe"}},
		{"malformed date", map[string]string{"qop_personas.birthday": "3", "qval_personas.birthday": "01.02.2000"}},
		{"malformed datetime", map[string]string{"qop_reg.ctime": "30", "qval_reg.ctime": "yesterday"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Deserialize(tt.data, ScopePersona, wireTestSpec(), time.UTC)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
		})
	}
}

func TestDeserializeIgnoresUnknownMonikers(t *testing.T) {
	data := map[string]string{
		"qsel_bogus.field": "true",
		"qop_bogus.field":  "3",
		"qval_bogus.field": "x",
	}

	got, err := Deserialize(data, ScopePersona, wireTestSpec(), time.UTC)
	require.NoError(t, err)
	assert.Empty(t, got.Fields)
	assert.Empty(t, got.Constraints)
}

func TestDeserializeOwnsSpecCopy(t *testing.T) {
	spec := wireTestSpec()
	got, err := Deserialize(map[string]string{}, ScopePersona, spec, time.UTC)
	require.NoError(t, err)

	got.Spec.Delete("personas.id")
	assert.True(t, spec.Has("personas.id"))
}
