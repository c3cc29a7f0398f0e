// Package query implements a type-aware query specification engine for
// ad-hoc filtered, sorted and projected queries over a relational store.
//
// The package describes queries, it never executes them: it owns the
// operator catalog, the per-scope field specs (static and dynamically
// synthesized from an event's structure), the combination of parallel
// per-entity specs into "match any of" entries, and the flat wire format
// used to exchange queries with UI and persistence collaborators.
package query

import "fmt"

// Operator identifies a filter operator. The numeric values are stable
// and appear in serialized queries; never renumber them.
type Operator int

// Filter operators, grouped by operand shape.
const (
	// Valueless operators.
	OpEmpty    Operator = 1
	OpNonEmpty Operator = 2

	// Single-value equality family.
	OpEqual         Operator = 3
	OpUnequal       Operator = 4
	OpEqualOrNull   Operator = 5
	OpUnequalOrNull Operator = 6

	// Multi-value membership family.
	OpOneOf        Operator = 10
	OpOtherThan    Operator = 11
	OpContainsAll  Operator = 14
	OpContainsNone Operator = 15
	OpContainsSome Operator = 16

	// Single-value string matching.
	OpMatch    Operator = 20
	OpNoMatch  Operator = 21
	OpRegex    Operator = 22
	OpNotRegex Operator = 23
	OpFuzzy    Operator = 24

	// Comparisons; between/outside take exactly two operands.
	OpLess      Operator = 30
	OpLessEqual Operator = 31
	OpBetween   Operator = 32
	OpOutside   Operator = 33
	OpMoreEqual Operator = 34
	OpMore      Operator = 35
)

var operatorNames = map[Operator]string{
	OpEmpty:         "empty",
	OpNonEmpty:      "nonempty",
	OpEqual:         "equal",
	OpUnequal:       "unequal",
	OpEqualOrNull:   "equalornull",
	OpUnequalOrNull: "unequalornull",
	OpOneOf:         "oneof",
	OpOtherThan:     "otherthan",
	OpContainsAll:   "containsall",
	OpContainsNone:  "containsnone",
	OpContainsSome:  "containssome",
	OpMatch:         "match",
	OpNoMatch:       "nomatch",
	OpRegex:         "regex",
	OpNotRegex:      "notregex",
	OpFuzzy:         "fuzzy",
	OpLess:          "less",
	OpLessEqual:     "lessequal",
	OpBetween:       "between",
	OpOutside:       "outside",
	OpMoreEqual:     "moreequal",
	OpMore:          "more",
}

// String returns the lowercase wire name of the operator.
func (op Operator) String() string {
	if name, ok := operatorNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operator(%d)", int(op))
}

// ParseOperator resolves a wire name back to an Operator.
func ParseOperator(name string) (Operator, bool) {
	for op, n := range operatorNames {
		if n == name {
			return op, true
		}
	}
	return 0, false
}

// IsValueless reports whether the operator takes no operand.
func (op Operator) IsValueless() bool {
	return op == OpEmpty || op == OpNonEmpty
}

// IsMultiValued reports whether the operator takes a list of operands.
// For OpBetween and OpOutside the list must hold exactly two values; the
// membership operators accept any count including zero.
func (op Operator) IsMultiValued() bool {
	switch op {
	case OpOneOf, OpOtherThan, OpContainsAll, OpContainsNone, OpContainsSome,
		OpBetween, OpOutside:
		return true
	}
	return false
}

// IsSelectionFriendly reports whether the operator makes sense for a
// field whose domain is a finite choice set. Comparisons, substring and
// regex matching are excluded: they compare against arbitrary text, not
// against one of the known choices.
func (op Operator) IsSelectionFriendly() bool {
	switch op {
	case OpEmpty, OpNonEmpty,
		OpEqual, OpUnequal, OpEqualOrNull, OpUnequalOrNull,
		OpOneOf, OpOtherThan:
		return true
	}
	return false
}

// Operator blocks shared between the per-type tables. Order is
// presentation order, not set membership.
var (
	genericOperators = []Operator{
		OpEqual, OpUnequal, OpEqualOrNull, OpUnequalOrNull,
		OpOneOf, OpOtherThan, OpEmpty, OpNonEmpty,
	}

	stringOperators = []Operator{
		OpMatch, OpNoMatch, OpRegex, OpNotRegex, OpFuzzy,
		OpContainsAll, OpContainsNone, OpContainsSome,
	}

	rangeOperators = []Operator{
		OpLess, OpLessEqual, OpBetween, OpOutside, OpMoreEqual, OpMore,
	}
)

// legalOperators maps each semantic field type to its ordered list of
// legal operators.
var legalOperators = map[FieldType][]Operator{
	TypeStr:      concatOperators(genericOperators, stringOperators),
	TypeInt:      concatOperators(genericOperators, rangeOperators),
	TypeFloat:    concatOperators(genericOperators, rangeOperators),
	TypeDate:     concatOperators(genericOperators, rangeOperators),
	TypeDatetime: concatOperators(genericOperators, rangeOperators),
	TypeBool:     {OpEqual, OpUnequal, OpEmpty, OpNonEmpty},
	TypeID:       genericOperators,
}

// LegalOperators returns the ordered legal operators for a field type.
// The returned slice is a copy; callers may reorder it freely.
//
// An unknown type is a programmer error and panics: the set of field
// types is closed and fixed at compile time.
func LegalOperators(t FieldType) []Operator {
	ops, ok := legalOperators[t]
	if !ok {
		panic(fmt.Sprintf("query: no operator table for field type %q", t))
	}
	out := make([]Operator, len(ops))
	copy(out, ops)
	return out
}

func concatOperators(blocks ...[]Operator) []Operator {
	var out []Operator
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}
