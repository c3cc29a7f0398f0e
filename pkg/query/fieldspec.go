package query

import "strings"

// FieldType is the semantic type of a queryable field. It decides which
// operators are legal and how constraint values are parsed and rendered.
type FieldType string

// Semantic field types.
const (
	TypeStr      FieldType = "str"
	TypeInt      FieldType = "int"
	TypeFloat    FieldType = "float"
	TypeDate     FieldType = "date"
	TypeDatetime FieldType = "datetime"
	TypeBool     FieldType = "bool"
	TypeID       FieldType = "id"
)

// FieldFormat classifies how a field's values should be displayed.
// Values of declared type date/datetime/bool map onto the matching
// format; id fields pointing at a cross-referenced entity carry a
// scope-specific tag so the UI can render a link instead of a number.
type FieldFormat string

// Display formats.
const (
	FormatGeneric   FieldFormat = "generic"
	FormatDate      FieldFormat = "date"
	FormatDatetime  FieldFormat = "datetime"
	FormatBool      FieldFormat = "bool"
	FormatCourse    FieldFormat = "course"
	FormatLodgement FieldFormat = "lodgement"
	FormatPersona   FieldFormat = "persona"
)

// MonikerSeparator joins the path segments of a field moniker.
// CompositeSeparator joins several monikers into one composite key.
const (
	MonikerSeparator   = "."
	CompositeSeparator = ","
)

// Entry is the per-field metadata of a Spec.
type Entry struct {
	// Type is the semantic type shared by every constituent of the key.
	Type FieldType

	// Title is the base display title; TitlePrefix disambiguates parallel
	// entries (part or track shortname, group name). TranslatePrefix
	// marks prefixes that are generic labels subject to translation
	// rather than user-chosen names.
	Title           string
	TitlePrefix     string
	TranslatePrefix bool

	// Choices maps stringified field values to display labels when the
	// field's domain is a finite set. Order is irrelevant.
	Choices map[string]string

	// Format is the display classification stamped at synthesis time.
	// Empty means "derive from Type".
	Format FieldFormat
}

// clone returns a deep copy of the entry.
func (e Entry) clone() Entry {
	out := e
	if e.Choices != nil {
		out.Choices = make(map[string]string, len(e.Choices))
		for k, v := range e.Choices {
			out.Choices[k] = v
		}
	}
	return out
}

// Spec is an order-significant catalog of the legal monikers of a scope.
// A moniker is a dot-qualified path ("part7.status") or several such
// paths joined by commas for composite "match any of" entries.
//
// The zero value is not usable; create specs with NewSpec.
type Spec struct {
	order   []string
	entries map[string]Entry
}

// NewSpec returns an empty Spec.
func NewSpec() *Spec {
	return &Spec{entries: make(map[string]Entry)}
}

// Put appends the entry under the given moniker, or replaces it in place
// if the moniker is already present.
func (s *Spec) Put(moniker string, e Entry) {
	if _, ok := s.entries[moniker]; !ok {
		s.order = append(s.order, moniker)
	}
	s.entries[moniker] = e
}

// Get returns the entry for a moniker.
func (s *Spec) Get(moniker string) (Entry, bool) {
	e, ok := s.entries[moniker]
	return e, ok
}

// Has reports whether the moniker is a key of the spec.
func (s *Spec) Has(moniker string) bool {
	_, ok := s.entries[moniker]
	return ok
}

// Keys returns the monikers in insertion order. The slice is a copy.
func (s *Spec) Keys() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// KeyAt returns the moniker at position i.
func (s *Spec) KeyAt(i int) string {
	return s.order[i]
}

// Len returns the number of entries.
func (s *Spec) Len() int {
	return len(s.order)
}

// Delete removes a moniker, preserving the order of the rest.
func (s *Spec) Delete(moniker string) {
	if _, ok := s.entries[moniker]; !ok {
		return
	}
	delete(s.entries, moniker)
	for i, k := range s.order {
		if k == moniker {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Rename moves the entry under oldKey to newKey, keeping its position.
// A no-op if oldKey is absent or the keys are equal.
func (s *Spec) Rename(oldKey, newKey string) {
	if oldKey == newKey {
		return
	}
	e, ok := s.entries[oldKey]
	if !ok {
		return
	}
	delete(s.entries, oldKey)
	s.entries[newKey] = e
	for i, k := range s.order {
		if k == oldKey {
			s.order[i] = newKey
			break
		}
	}
}

// Merge appends every entry of other, replacing duplicated monikers.
// The merged entries are deep copies.
func (s *Spec) Merge(other *Spec) {
	if other == nil {
		return
	}
	for _, k := range other.order {
		s.Put(k, other.entries[k].clone())
	}
}

// Clone returns a deep copy. Registry accessors always hand out clones
// because callers routinely mutate their working copy, e.g. when merging
// user-defined combined filters.
func (s *Spec) Clone() *Spec {
	out := &Spec{
		order:   make([]string, len(s.order)),
		entries: make(map[string]Entry, len(s.entries)),
	}
	copy(out.order, s.order)
	for k, e := range s.entries {
		out.entries[k] = e.clone()
	}
	return out
}

// CompositeRef is an ordered list of monikers that acts as a single
// "true if any constituent matches" spec key. It only becomes a
// comma-joined string at the spec boundary; internally the constituents
// stay addressable without re-parsing.
type CompositeRef []string

// Join renders the composite key.
func (c CompositeRef) Join() string {
	return strings.Join(c, CompositeSeparator)
}

// SplitMoniker breaks a (possibly composite) moniker into its
// constituent dot-qualified paths.
func SplitMoniker(moniker string) CompositeRef {
	return strings.Split(moniker, CompositeSeparator)
}

// SplitPath breaks a single dot-qualified path into segments.
func SplitPath(path string) []string {
	return strings.Split(path, MonikerSeparator)
}
