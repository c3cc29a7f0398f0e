package query

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Wire format constants. This flat map layout is the canonical exchange
// format with the UI and persistence collaborators and the only stable
// "format" this package owns; the prefixes, the ordinal order keys, the
// multi-value separator and the order bound must not change.
const (
	// SelectionPrefix flags a projected field: qsel_<moniker> = "true".
	SelectionPrefix = "qsel_"
	// OperatorPrefix carries a constraint's operator id: qop_<moniker>.
	OperatorPrefix = "qop_"
	// ValuePrefix carries a constraint's operand: qval_<moniker>.
	ValuePrefix = "qval_"
	// OrderPrefix keys the sort directives by ordinal: qord_<i> holds
	// the moniker, qord_<i>_ascending the direction.
	OrderPrefix          = "qord_"
	OrderAscendingSuffix = "_ascending"

	// MultiValueSeparator joins the stringified operands of multi-valued
	// operators inside one qval entry.
	MultiValueSeparator = ","

	// MaxOrderLength bounds the number of serialized sort directives.
	MaxOrderLength = 6

	// ScopeKey and QueryNameKey carry the scope tag and optional name.
	ScopeKey     = "scope"
	QueryNameKey = "query_name"
)

// Datetime layouts. Aware values render with their offset; naive values
// are normalized into the default zone first, so reinterpreting them in
// that zone reproduces the instant. Offset fidelity is deliberately not
// guaranteed for naive serialization.
const (
	dateLayout          = "2006-01-02"
	datetimeNaiveLayout = "2006-01-02T15:04:05"
)

// Serialize projects the query onto the flat wire map. When
// timezoneAware is false, datetimes are normalized into defaultZone and
// rendered without offset; the zone must then be threaded to the
// deserializing side for the instant to round-trip.
func (q *Query) Serialize(timezoneAware bool, defaultZone *time.Location) map[string]string {
	out := make(map[string]string)
	out[ScopeKey] = string(q.Scope)
	if q.Name != "" {
		out[QueryNameKey] = q.Name
	}

	for _, f := range q.Fields {
		out[SelectionPrefix+f] = "true"
	}

	for _, c := range q.Constraints {
		out[OperatorPrefix+c.Field] = strconv.Itoa(int(c.Operator))
		if c.Operator.IsValueless() {
			continue
		}
		typ := q.fieldType(c.Field)
		if c.Operator.IsMultiValued() {
			out[ValuePrefix+c.Field] = stringifyList(c.Value, typ, timezoneAware, defaultZone)
		} else {
			out[ValuePrefix+c.Field] = stringifyValue(c.Value, typ, timezoneAware, defaultZone)
		}
	}

	order := q.Order
	if len(order) > MaxOrderLength {
		order = order[:MaxOrderLength]
	}
	for i, o := range order {
		out[OrderPrefix+strconv.Itoa(i)] = o.Field
		out[OrderPrefix+strconv.Itoa(i)+OrderAscendingSuffix] = strconv.FormatBool(o.Ascending)
	}

	return out
}

// Deserialize reconstructs a query from the wire map against a resolved
// spec. The query owns a deep copy of the spec. Selection and constraint
// keys are matched against the spec in spec order, so the reconstructed
// field list is deterministic regardless of map iteration; wire keys
// referencing unknown monikers are ignored and left for validation to
// reject at submission time.
func Deserialize(data map[string]string, scope Scope, spec *Spec, defaultZone *time.Location) (*Query, error) {
	q := &Query{
		Scope: scope,
		Spec:  spec.Clone(),
		Name:  data[QueryNameKey],
	}
	if tag, ok := data[ScopeKey]; ok {
		parsed, known := ParseScope(tag)
		if !known {
			return nil, &ValidationError{Message: fmt.Sprintf("unknown scope tag %q", tag)}
		}
		if parsed != scope {
			return nil, &ValidationError{Message: fmt.Sprintf("scope tag %q does not match %q", tag, scope)}
		}
	}

	for _, key := range q.Spec.Keys() {
		if data[SelectionPrefix+key] == "true" {
			q.Fields = append(q.Fields, key)
		}

		rawOp, ok := data[OperatorPrefix+key]
		if !ok {
			continue
		}
		opID, err := strconv.Atoi(rawOp)
		if err != nil {
			return nil, &ValidationError{Field: key, Message: fmt.Sprintf("malformed operator %q", rawOp)}
		}
		op := Operator(opID)
		if _, known := operatorNames[op]; !known {
			return nil, &ValidationError{Field: key, Message: fmt.Sprintf("unknown operator id %d", opID)}
		}

		entry, _ := q.Spec.Get(key)
		value, err := parseOperand(op, entry.Type, data[ValuePrefix+key], defaultZone)
		if err != nil {
			return nil, &ValidationError{Field: key, Operator: op, Message: err.Error()}
		}
		q.Constraints = append(q.Constraints, Constraint{Field: key, Operator: op, Value: value})
	}

	for i := 0; i < MaxOrderLength; i++ {
		field, ok := data[OrderPrefix+strconv.Itoa(i)]
		if !ok {
			break
		}
		ascending := data[OrderPrefix+strconv.Itoa(i)+OrderAscendingSuffix] != "false"
		q.Order = append(q.Order, OrderSpec{Field: field, Ascending: ascending})
	}

	return q, nil
}

// fieldType looks up the declared type of a moniker, defaulting to str
// so stringification never fails on a stray field.
func (q *Query) fieldType(moniker string) FieldType {
	if q.Spec != nil {
		if e, ok := q.Spec.Get(moniker); ok {
			return e.Type
		}
	}
	return TypeStr
}

func parseOperand(op Operator, typ FieldType, raw string, defaultZone *time.Location) (any, error) {
	if op.IsValueless() {
		return nil, nil
	}
	if op.IsMultiValued() {
		// Zero operands is a defined degenerate case for the membership
		// operators; between/outside counts are enforced by Validate.
		if raw == "" {
			return []any{}, nil
		}
		parts := strings.Split(raw, MultiValueSeparator)
		values := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := parseValue(typ, p, defaultZone)
			if err != nil {
				return nil, err
			}
			values = append(values, v)
		}
		return values, nil
	}
	return parseValue(typ, raw, defaultZone)
}

// parseValue interprets one stringified operand according to the
// field's declared type. Naive datetimes are interpreted in the default
// zone, matching the naive serialization rule.
func parseValue(typ FieldType, s string, defaultZone *time.Location) (any, error) {
	switch typ {
	case TypeInt, TypeID:
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed integer %q", s)
		}
		return v, nil
	case TypeFloat:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("malformed float %q", s)
		}
		return v, nil
	case TypeBool:
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("malformed bool %q", s)
		}
		return v, nil
	case TypeDate:
		v, err := time.ParseInLocation(dateLayout, s, defaultZone)
		if err != nil {
			return nil, fmt.Errorf("malformed date %q", s)
		}
		return v, nil
	case TypeDatetime:
		if v, err := time.Parse(time.RFC3339, s); err == nil {
			return v, nil
		}
		v, err := time.ParseInLocation(datetimeNaiveLayout, s, defaultZone)
		if err != nil {
			return nil, fmt.Errorf("malformed datetime %q", s)
		}
		return v, nil
	default:
		return s, nil
	}
}

func stringifyList(v any, typ FieldType, timezoneAware bool, defaultZone *time.Location) string {
	values, ok := v.([]any)
	if !ok {
		return stringifyValue(v, typ, timezoneAware, defaultZone)
	}
	parts := make([]string, len(values))
	for i, item := range values {
		parts[i] = stringifyValue(item, typ, timezoneAware, defaultZone)
	}
	return strings.Join(parts, MultiValueSeparator)
}

func stringifyValue(v any, typ FieldType, timezoneAware bool, defaultZone *time.Location) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		switch {
		case typ == TypeDate:
			return val.Format(dateLayout)
		case timezoneAware:
			return val.Format(time.RFC3339)
		default:
			return val.In(defaultZone).Format(datetimeNaiveLayout)
		}
	default:
		return fmt.Sprintf("%v", val)
	}
}
