package query

import "strings"

// Constraint is one filter condition: a spec moniker, an operator and
// an operand. Multi-valued operators carry a []any operand; valueless
// operators carry nil.
type Constraint struct {
	Field    string
	Operator Operator
	Value    any
}

// OrderSpec is one sort directive.
type OrderSpec struct {
	Field     string
	Ascending bool
}

// Query is the value object bundling everything needed to describe one
// search: the scope, an owned spec copy, the projected fields, the
// constraints and the sort order. It is built by a validating caller
// from untrusted input, mutated in place by NormalizeIdentifiers, and
// consumed read-only by the executor.
//
// Query performs no validation itself; see Validate for the checks a
// caller is expected to run on untrusted input.
type Query struct {
	Scope Scope

	// Spec is this query's own copy; every moniker referenced below must
	// be one of its keys.
	Spec *Spec

	// Fields are the monikers to project, in display order.
	Fields []string

	Constraints []Constraint
	Order       []OrderSpec

	// Name and QueryID are set for stored queries.
	Name    string
	QueryID string
}

// NormalizeIdentifiers rewrites every referenced moniker so that path
/// segments which are not entirely lowercase are double quoted: the
// backing store folds unquoted identifiers to lowercase, but custom
// field names may be mixed case. Spec entries whose key changes under
// quoting are relocated to the new key, keeping their position. The
// operation mutates the query in place and is idempotent.
func (q *Query) NormalizeIdentifiers() {
	for i, f := range q.Fields {
		q.Fields[i] = normalizeMoniker(f)
	}
	for i := range q.Constraints {
		q.Constraints[i].Field = normalizeMoniker(q.Constraints[i].Field)
	}
	for i := range q.Order {
		q.Order[i].Field = normalizeMoniker(q.Order[i].Field)
	}
	if q.Spec == nil {
		return
	}
	for _, key := range q.Spec.Keys() {
		if normalized := normalizeMoniker(key); normalized != key {
			q.Spec.Rename(key, normalized)
		}
	}
}

// normalizeMoniker quotes the non-lowercase path segments of a possibly
// composite moniker.
func normalizeMoniker(moniker string) string {
	paths := SplitMoniker(moniker)
	for i, path := range paths {
		segments := SplitPath(path)
		for j, seg := range segments {
			segments[j] = quoteSegment(seg)
		}
		paths[i] = strings.Join(segments, MonikerSeparator)
	}
	return paths.Join()
}

// quoteSegment wraps a segment in double quotes when it contains
// anything the store would case-fold. Already quoted segments pass
// through untouched, which makes normalization idempotent.
func quoteSegment(seg string) string {
	if len(seg) >= 2 && strings.HasPrefix(seg, `"`) && strings.HasSuffix(seg, `"`) {
		return seg
	}
	if seg == strings.ToLower(seg) {
		return seg
	}
	return `"` + seg + `"`
}

// FieldFormat classifies how values of the field should be displayed.
// The entry's synthesis-time tag wins, then the declared type; entries
// from static specs that predate tagging fall back to a small table of
// scope-specific moniker patterns. Unmatched fields are generic.
func (q *Query) FieldFormat(moniker string) FieldFormat {
	if q.Spec != nil {
		if e, ok := q.Spec.Get(moniker); ok {
			if e.Format != "" {
				return e.Format
			}
			switch e.Type {
			case TypeDate:
				return FormatDate
			case TypeDatetime:
				return FormatDatetime
			case TypeBool:
				return FormatBool
			}
		}
	}

	// Pattern fallback, judged on the first constituent of composites.
	path := SplitMoniker(moniker)[0]
	switch q.Scope {
	case ScopeRegistration:
		switch {
		case path == "persona.id":
			return FormatPersona
		case strings.HasSuffix(path, ".course_id"),
			strings.HasSuffix(path, ".course_instructor"):
			return FormatCourse
		case strings.HasSuffix(path, ".lodgement_id"):
			return FormatLodgement
		}
	case ScopeLodgement:
		if path == "lodgement.id" {
			return FormatLodgement
		}
	case ScopeCourse:
		if path == "course.id" {
			return FormatCourse
		}
	default:
		if path == "personas.id" {
			return FormatPersona
		}
	}
	return FormatGeneric
}
