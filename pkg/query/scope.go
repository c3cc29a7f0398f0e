package query

// Scope is a named logical query context. It determines the backing
// view, the primary key, the field spec and whether queries against it
// may be stored.
type Scope string

// Query scopes. The persona family searches user records with varying
// visibility; the registration, lodgement and course scopes are dynamic:
// their specs depend on an event's structural configuration.
const (
	ScopePersona         Scope = "persona"
	ScopeCoreUser        Scope = "core_user"
	ScopeAllUsers        Scope = "all_users"
	ScopeEventUser       Scope = "event_user"
	ScopeAssemblyUser    Scope = "assembly_user"
	ScopeCdEUser         Scope = "cde_user"
	ScopeCdEMember       Scope = "cde_member"
	ScopePastEventCourse Scope = "past_event_course"
	ScopeRegistration    Scope = "registration"
	ScopeLodgement       Scope = "lodgement"
	ScopeCourse          Scope = "course"
)

// scopeInfo is the per-scope data record.
type scopeInfo struct {
	// view is an opaque join descriptor consumed only by the external
	// executor. For dynamic scopes it names the base tables whose
	// aliases match the spec's qualification prefixes; the per-part and
	// per-track joins are the executor's business.
	view string

	// primaryKey is the row-id moniker; shortPrimaryKey its unqualified
	// form.
	primaryKey      string
	shortPrimaryKey string

	includesArchived bool
	storable         bool

	// build synthesizes the spec for dynamic scopes; nil for static
	// scopes, which resolve through the registry.
	build func(*EventContext) *Spec
}

var scopes = map[Scope]*scopeInfo{
	ScopePersona: {
		view:            "core.personas",
		primaryKey:      "personas.id",
		shortPrimaryKey: "id",
	},
	ScopeCoreUser: {
		view:             "core.personas",
		primaryKey:       "personas.id",
		shortPrimaryKey:  "id",
		includesArchived: true,
	},
	ScopeAllUsers: {
		view:             "core.personas",
		primaryKey:       "personas.id",
		shortPrimaryKey:  "id",
		includesArchived: true,
	},
	ScopeEventUser: {
		view:            "core.personas",
		primaryKey:      "personas.id",
		shortPrimaryKey: "id",
	},
	ScopeAssemblyUser: {
		view:            "core.personas",
		primaryKey:      "personas.id",
		shortPrimaryKey: "id",
	},
	ScopeCdEUser: {
		view:            "core.personas",
		primaryKey:      "personas.id",
		shortPrimaryKey: "id",
	},
	ScopeCdEMember: {
		view:            "core.personas",
		primaryKey:      "personas.id",
		shortPrimaryKey: "id",
	},
	ScopePastEventCourse: {
		view:            "past_event.courses JOIN past_event.events ON courses.pevent_id = events.id",
		primaryKey:      "courses.id",
		shortPrimaryKey: "id",
		storable:        true,
	},
	ScopeRegistration: {
		view:            "event.registrations AS reg JOIN core.personas AS persona ON reg.persona_id = persona.id",
		primaryKey:      "reg.id",
		shortPrimaryKey: "id",
		storable:        true,
		build:           BuildRegistrationSpec,
	},
	ScopeLodgement: {
		view:            "event.lodgements AS lodgement LEFT JOIN event.lodgement_groups AS lodgement_group ON lodgement.group_id = lodgement_group.id",
		primaryKey:      "lodgement.id",
		shortPrimaryKey: "id",
		storable:        true,
		build:           BuildLodgementSpec,
	},
	ScopeCourse: {
		view:            "event.courses AS course",
		primaryKey:      "course.id",
		shortPrimaryKey: "id",
		storable:        true,
		build:           BuildCourseSpec,
	},
}

// ParseScope resolves a wire tag back to a Scope.
func ParseScope(tag string) (Scope, bool) {
	s := Scope(tag)
	_, ok := scopes[s]
	return s, ok
}

// AllScopes returns every known scope in a fixed presentation order.
func AllScopes() []Scope {
	return []Scope{
		ScopePersona, ScopeCoreUser, ScopeAllUsers, ScopeEventUser,
		ScopeAssemblyUser, ScopeCdEUser, ScopeCdEMember,
		ScopePastEventCourse, ScopeRegistration, ScopeLodgement,
		ScopeCourse,
	}
}

// IsDynamic reports whether the scope's spec depends on an event's
// structural configuration.
func (s Scope) IsDynamic() bool {
	info, ok := scopes[s]
	return ok && info.build != nil
}

// SupportsStoring reports whether queries against the scope may be
// persisted.
func (s Scope) SupportsStoring() bool {
	info, ok := scopes[s]
	return ok && info.storable
}

// IncludesArchived reports whether the scope's backing view covers
// archived records.
func (s Scope) IncludesArchived() bool {
	info, ok := scopes[s]
	return ok && info.includesArchived
}

// GetView returns the scope's backing-view descriptor. The descriptor is
// opaque to this package; only the external executor interprets it.
func (s Scope) GetView() (string, error) {
	info, ok := scopes[s]
	if !ok {
		return "", &ConfigurationError{Scope: s, Message: "unknown scope"}
	}
	return info.view, nil
}

// GetPrimaryKey returns the scope's row-id moniker, unqualified when
// short is true.
func (s Scope) GetPrimaryKey(short bool) (string, error) {
	info, ok := scopes[s]
	if !ok {
		return "", &ConfigurationError{Scope: s, Message: "unknown scope"}
	}
	if short {
		return info.shortPrimaryKey, nil
	}
	return info.primaryKey, nil
}

// GetSpec resolves the scope's field spec. Static scopes return a deep
// copy of the registry spec, so the canonical catalog is never aliased.
// Dynamic scopes synthesize a fresh spec from ctx on every call; there
// is deliberately no cache, so a changed event structure can never serve
// a stale spec. Requesting a dynamic scope without ctx is a fatal
// configuration error.
func (s Scope) GetSpec(ctx *EventContext) (*Spec, error) {
	info, ok := scopes[s]
	if !ok {
		return nil, &ConfigurationError{Scope: s, Message: "unknown scope"}
	}
	if info.build != nil {
		if ctx == nil || ctx.Event == nil {
			return nil, &ConfigurationError{Scope: s, Message: "dynamic scope requires an event context"}
		}
		return info.build(ctx), nil
	}
	return staticSpec(s), nil
}
