package query

// The static field spec registry. Each scope with a fixed backing view
// owns one canonical ordered spec; staticSpec hands out deep copies
// only. Titles here are base display titles; static entries carry no
// prefix.

type specField struct {
	key     string
	typ     FieldType
	title   string
	choices map[string]string
}

func buildStatic(fields []specField) *Spec {
	s := NewSpec()
	for _, f := range fields {
		s.Put(f.key, Entry{Type: f.typ, Title: f.title, Choices: f.choices})
	}
	return s
}

// personaBase is the identity/contact block shared by every persona
// search variant.
var personaBase = []specField{
	{key: "personas.id", typ: TypeID, title: "ID"},
	{key: "personas.given_names", typ: TypeStr, title: "Given Names"},
	{key: "personas.family_name", typ: TypeStr, title: "Family Name"},
	{key: "personas.display_name", typ: TypeStr, title: "Known As"},
	{key: "personas.username", typ: TypeStr, title: "E-Mail"},
	{key: "personas.birthday", typ: TypeDate, title: "Birthday"},
	{key: "personas.telephone", typ: TypeStr, title: "Phone"},
	{key: "personas.mobile", typ: TypeStr, title: "Mobile Phone"},
	{key: "personas.address", typ: TypeStr, title: "Address"},
	{key: "personas.postal_code", typ: TypeStr, title: "Postal Code"},
	{key: "personas.location", typ: TypeStr, title: "City"},
	{key: "personas.country", typ: TypeStr, title: "Country"},
}

var personaFlags = []specField{
	{key: "personas.is_active", typ: TypeBool, title: "Active"},
	{key: "personas.is_member", typ: TypeBool, title: "Member"},
	{key: "personas.is_searchable", typ: TypeBool, title: "Searchable"},
	{key: "personas.notes", typ: TypeStr, title: "Admin Notes"},
}

var personaArchive = []specField{
	{key: "personas.is_archived", typ: TypeBool, title: "Archived"},
	{key: "personas.is_purged", typ: TypeBool, title: "Purged"},
}

var cdeExtra = []specField{
	{key: "personas.balance", typ: TypeFloat, title: "Balance"},
	{key: "personas.trial_member", typ: TypeBool, title: "Trial Member"},
	{key: "personas.paper_expuls", typ: TypeBool, title: "Printed exPuls"},
	{key: "personas.decided_search", typ: TypeBool, title: "Consented to Search"},
}

var pastEventCourseFields = []specField{
	{key: "courses.id", typ: TypeID, title: "ID"},
	{key: "courses.pevent_id", typ: TypeID, title: "Past Event"},
	{key: "events.title", typ: TypeStr, title: "Event Title"},
	{key: "events.tempus", typ: TypeDate, title: "Event Date"},
	{key: "courses.nr", typ: TypeStr, title: "Course Nr."},
	{key: "courses.title", typ: TypeStr, title: "Course Title"},
	{key: "courses.description", typ: TypeStr, title: "Description"},
}

var staticSpecs = map[Scope]*Spec{}

func init() {
	staticSpecs[ScopePersona] = buildStatic(concatFields(personaBase, personaFlags))
	staticSpecs[ScopeCoreUser] = buildStatic(concatFields(personaBase, personaFlags, personaArchive))
	staticSpecs[ScopeAllUsers] = buildStatic(concatFields(personaBase, personaFlags, personaArchive))
	staticSpecs[ScopeEventUser] = buildStatic(concatFields(personaBase, personaFlags))
	staticSpecs[ScopeAssemblyUser] = buildStatic(concatFields(personaBase, personaFlags))
	staticSpecs[ScopeCdEUser] = buildStatic(concatFields(personaBase, personaFlags, cdeExtra))
	staticSpecs[ScopeCdEMember] = buildStatic(concatFields(personaBase, cdeExtra))
	staticSpecs[ScopePastEventCourse] = buildStatic(pastEventCourseFields)
}

func concatFields(blocks ...[]specField) []specField {
	var out []specField
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

// staticSpec returns a defensive deep copy of the scope's canonical
// spec. Callers mutate their working copy; the registry must never be
// exposed by reference.
func staticSpec(s Scope) *Spec {
	canonical, ok := staticSpecs[s]
	if !ok {
		// Dynamic scopes never reach this; see Scope.GetSpec.
		return NewSpec()
	}
	return canonical.Clone()
}
