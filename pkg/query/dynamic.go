package query

import (
	"fmt"
	"strconv"
)

// Dynamic spec synthesis for the three per-event scopes. The shape of
// these specs depends on the event's structural configuration: its
// parts, tracks, groups and custom fields. Specs are rebuilt from the
// EventContext on every call; nothing here is cached.
//
// Positional parallelism matters: the per-part and per-track sub-specs
// built below feed Combine, so every sub-spec of a category emits the
// same field kinds in the same relative order. Variable-count blocks
// (custom fields are fixed per event, choice ranks are not) therefore
// always come last, so a shorter sibling is only ever missing trailing
// positions.

// registrationStatusChoices labels the registration status codes.
var registrationStatusChoices = map[string]string{
	"-1": "Not Applied",
	"1":  "Applied",
	"2":  "Participant",
	"3":  "Waitlist",
	"4":  "Guest",
	"5":  "Cancelled",
	"6":  "Rejected",
}

// Generic prefixes for synthetic whole-event combinations. They are
// subject to translation, unlike user-chosen shortnames.
const (
	anyPartLabel  = "any part"
	anyTrackLabel = "any track"
)

// BuildRegistrationSpec synthesizes the registration-scope field spec.
func BuildRegistrationSpec(ctx *EventContext) *Spec {
	ev := ctx.Event
	spec := registrationCoreSpec()

	multiPart := len(ev.Parts) > 1
	multiTrack := ev.TrackCount() > 1

	lodgementFields := ev.SortedFields(AssocLodgement)
	courseFields := ev.SortedFields(AssocCourse)

	partSpecs := make(map[int]*Spec, len(ev.Parts))
	trackSpecs := make(map[int]*Spec)
	trackIDsByPart := make(map[int][]int, len(ev.Parts))
	var allPartIDs, allTrackIDs []int

	for _, part := range ev.SortedParts() {
		prefix := ""
		if multiPart {
			prefix = part.Shortname
		}
		ps := registrationPartSpec(ctx, part, prefix, lodgementFields)
		partSpecs[part.ID] = ps
		allPartIDs = append(allPartIDs, part.ID)
		spec.Merge(ps)

		for _, track := range part.SortedTracks() {
			trackPrefix := ""
			if multiTrack {
				trackPrefix = track.Shortname
			}
			synced := ev.SyncGroupFor(track.ID) != nil
			ts := registrationTrackSpec(ctx, track, trackPrefix, courseFields, synced)
			trackSpecs[track.ID] = ts
			trackIDsByPart[part.ID] = append(trackIDsByPart[part.ID], track.ID)
			allTrackIDs = append(allTrackIDs, track.ID)
			spec.Merge(ts)

			// The synthetic "any choice" key lives in the main spec
			// only; including it in the per-track sub-spec would sit
			// behind a variable number of rank entries and break
			// positional parallelism.
			if !synced && track.NumChoices > 1 {
				spec.Put(anyChoiceKey(trackKey(track.ID), track.NumChoices), Entry{
					Type:        TypeID,
					Title:       "Any Course Choice",
					TitlePrefix: trackPrefix,
					Choices:     ctx.courseChoices(),
					Format:      FormatCourse,
				})
			}
		}

		// Combined "any of this part's tracks" entries.
		spec.Merge(Combine(trackSpecs, trackIDsByPart[part.ID], part.Shortname, false))
	}

	// Statistic part groups combine their parts and, transitively, the
	// tracks owned by those parts.
	for _, g := range ev.SortedPartGroups(PartGroupStatistic) {
		spec.Merge(Combine(partSpecs, g.PartIDs, g.Shortname, false))
		var groupTrackIDs []int
		for _, pid := range g.PartIDs {
			groupTrackIDs = append(groupTrackIDs, trackIDsByPart[pid]...)
		}
		spec.Merge(Combine(trackSpecs, groupTrackIDs, g.Shortname, false))
	}

	// Synthetic whole-event group.
	spec.Merge(Combine(partSpecs, allPartIDs, anyPartLabel, true))
	spec.Merge(Combine(trackSpecs, allTrackIDs, anyTrackLabel, true))

	// Course-choice-sync groups expose their shared choices exactly
	// once, keyed at group level. Emitting per-track rank entries as
	// well would allow two differently-keyed filters that silently
	// diverge after a sync write.
	for _, g := range ev.SortedTrackGroups(TrackGroupCourseChoiceSync) {
		appendSyncGroupChoices(spec, ctx, g)
	}

	// Registration custom fields close the spec.
	for _, f := range ev.SortedFields(AssocRegistration) {
		spec.Put("reg_fields."+xfieldKey(f), customFieldEntry(f, ""))
	}

	return spec
}

// registrationCoreSpec is the fixed identity/demographic/payment/
// consent/admin block every registration spec starts with.
func registrationCoreSpec() *Spec {
	return buildStatic([]specField{
		{key: "reg.id", typ: TypeID, title: "ID"},
		{key: "persona.id", typ: TypeID, title: "Persona ID"},
		{key: "persona.given_names", typ: TypeStr, title: "Given Names"},
		{key: "persona.family_name", typ: TypeStr, title: "Family Name"},
		{key: "persona.username", typ: TypeStr, title: "E-Mail"},
		{key: "persona.is_member", typ: TypeBool, title: "Member"},
		{key: "persona.birthday", typ: TypeDate, title: "Birthday"},
		{key: "reg.payment", typ: TypeDate, title: "Payment Date"},
		{key: "reg.amount_paid", typ: TypeFloat, title: "Amount Paid"},
		{key: "reg.amount_owed", typ: TypeFloat, title: "Amount Owed"},
		{key: "reg.parental_agreement", typ: TypeBool, title: "Parental Consent"},
		{key: "reg.mixed_lodging", typ: TypeBool, title: "Mixed Lodging"},
		{key: "reg.list_consent", typ: TypeBool, title: "Participant List Consent"},
		{key: "reg.notes", typ: TypeStr, title: "Notes"},
		{key: "reg.orga_notes", typ: TypeStr, title: "Orga Notes"},
		{key: "reg.checkin", typ: TypeDatetime, title: "Checked In"},
		{key: "reg.ctime", typ: TypeDatetime, title: "Registered At"},
		{key: "reg.mtime", typ: TypeDatetime, title: "Last Modified"},
	})
}

func partKey(id int) string  { return "part" + strconv.Itoa(id) }
func trackKey(id int) string { return "track" + strconv.Itoa(id) }

func xfieldKey(f *Field) string { return "xfield_" + f.Name }

func customFieldEntry(f *Field, prefix string) Entry {
	return Entry{
		Type:        f.Kind,
		Title:       f.Name,
		TitlePrefix: prefix,
		Choices:     f.Entries,
	}
}

// registrationPartSpec emits one part's block: status, camping mat
// flag, the lodgement cross references and every lodgement custom
// field, namespaced by part id.
func registrationPartSpec(ctx *EventContext, part *Part, prefix string, lodgementFields []*Field) *Spec {
	ns := partKey(part.ID)
	s := NewSpec()
	put := func(key string, e Entry) {
		e.TitlePrefix = prefix
		s.Put(ns+MonikerSeparator+key, e)
	}

	put("status", Entry{Type: TypeInt, Title: "Status", Choices: registrationStatusChoices})
	put("is_camping_mat", Entry{Type: TypeBool, Title: "Camping Mat"})
	put("lodgement_id", Entry{Type: TypeID, Title: "Lodgement", Choices: ctx.lodgementChoices(), Format: FormatLodgement})
	put("lodgement.title", Entry{Type: TypeStr, Title: "Lodgement Title"})
	put("lodgement.notes", Entry{Type: TypeStr, Title: "Lodgement Notes"})
	put("lodgement.group_id", Entry{Type: TypeID, Title: "Lodgement Group", Choices: ctx.lodgementGroupChoices()})
	put("lodgement.group.title", Entry{Type: TypeStr, Title: "Lodgement Group Title"})
	for _, f := range lodgementFields {
		put("lodgement."+xfieldKey(f), customFieldEntry(f, ""))
	}
	return s
}

// registrationTrackSpec emits one track's block: instructor flag, the
// course cross references mirrored for "as instructor", every course
// custom field, and (for unsynced tracks) the per-rank course choices.
func registrationTrackSpec(ctx *EventContext, track *Track, prefix string, courseFields []*Field, synced bool) *Spec {
	ns := trackKey(track.ID)
	courses := ctx.courseChoices()
	s := NewSpec()
	put := func(key string, e Entry) {
		e.TitlePrefix = prefix
		s.Put(ns+MonikerSeparator+key, e)
	}

	put("is_course_instructor", Entry{Type: TypeBool, Title: "Course Instructor"})
	put("course_id", Entry{Type: TypeID, Title: "Course", Choices: courses, Format: FormatCourse})
	put("course_instructor", Entry{Type: TypeID, Title: "Instructed Course", Choices: courses, Format: FormatCourse})
	put("course.nr", Entry{Type: TypeStr, Title: "Course Nr."})
	put("course.title", Entry{Type: TypeStr, Title: "Course Title"})
	put("course.shortname", Entry{Type: TypeStr, Title: "Course Shortname"})
	put("course.notes", Entry{Type: TypeStr, Title: "Course Notes"})
	put("instructed_course.nr", Entry{Type: TypeStr, Title: "Instructed Course Nr."})
	put("instructed_course.title", Entry{Type: TypeStr, Title: "Instructed Course Title"})
	put("instructed_course.shortname", Entry{Type: TypeStr, Title: "Instructed Course Shortname"})
	put("instructed_course.notes", Entry{Type: TypeStr, Title: "Instructed Course Notes"})
	for _, f := range courseFields {
		put("course."+xfieldKey(f), customFieldEntry(f, ""))
	}

	if !synced {
		for k := 0; k < track.NumChoices; k++ {
			put(choiceRankKey(k), Entry{
				Type:    TypeID,
				Title:   choiceRankTitle(k),
				Choices: courses,
				Format:  FormatCourse,
			})
		}
	}
	return s
}

func choiceRankKey(rank int) string {
	return "course_choice_" + strconv.Itoa(rank)
}

func choiceRankTitle(rank int) string {
	return fmt.Sprintf("%d. Course Choice", rank+1)
}

// anyChoiceKey joins the rank keys under ns into the composite "matches
// any choice" key.
func anyChoiceKey(ns string, numChoices int) string {
	ref := make(CompositeRef, numChoices)
	for k := 0; k < numChoices; k++ {
		ref[k] = ns + MonikerSeparator + choiceRankKey(k)
	}
	return ref.Join()
}

// appendSyncGroupChoices emits the single group-level rank entry set for
// a course-choice-sync track group. The rank count is read from one
// member track; the sync invariant guarantees identical counts across
// members, and the builder trusts it rather than recomputing.
func appendSyncGroupChoices(spec *Spec, ctx *EventContext, g *TrackGroup) {
	track := ctx.firstTrack(g.TrackIDs)
	if track == nil {
		return
	}
	ns := "track_group" + strconv.Itoa(g.ID)
	courses := ctx.courseChoices()
	for k := 0; k < track.NumChoices; k++ {
		spec.Put(ns+MonikerSeparator+choiceRankKey(k), Entry{
			Type:        TypeID,
			Title:       choiceRankTitle(k),
			TitlePrefix: g.Shortname,
			Choices:     courses,
			Format:      FormatCourse,
		})
	}
	if track.NumChoices > 1 {
		spec.Put(anyChoiceKey(ns, track.NumChoices), Entry{
			Type:        TypeID,
			Title:       "Any Course Choice",
			TitlePrefix: g.Shortname,
			Choices:     courses,
			Format:      FormatCourse,
		})
	}
}

// firstTrack returns the member track with the smallest id.
func (ctx *EventContext) firstTrack(ids []int) *Track {
	var best *Track
	for _, p := range ctx.Event.Parts {
		for _, t := range p.Tracks {
			for _, id := range ids {
				if t.ID == id && (best == nil || t.ID < best.ID) {
					best = t
				}
			}
		}
	}
	return best
}

// BuildLodgementSpec synthesizes the lodgement-scope field spec: the
// lodgement and group columns, the lodgement custom fields, one
// inhabitant-count block per part, and the statistic combinations.
func BuildLodgementSpec(ctx *EventContext) *Spec {
	ev := ctx.Event
	spec := buildStatic([]specField{
		{key: "lodgement.id", typ: TypeID, title: "ID"},
		{key: "lodgement.title", typ: TypeStr, title: "Title"},
		{key: "lodgement.regular_capacity", typ: TypeInt, title: "Regular Capacity"},
		{key: "lodgement.camping_mat_capacity", typ: TypeInt, title: "Camping Mat Capacity"},
		{key: "lodgement.notes", typ: TypeStr, title: "Notes"},
		{key: "lodgement.group_id", typ: TypeID, title: "Lodgement Group"},
		{key: "lodgement_group.title", typ: TypeStr, title: "Group Title"},
		{key: "lodgement_group.regular_capacity", typ: TypeInt, title: "Group Regular Capacity"},
		{key: "lodgement_group.camping_mat_capacity", typ: TypeInt, title: "Group Camping Mat Capacity"},
	})
	if e, ok := spec.Get("lodgement.group_id"); ok {
		e.Choices = ctx.lodgementGroupChoices()
		spec.Put("lodgement.group_id", e)
	}

	for _, f := range ev.SortedFields(AssocLodgement) {
		spec.Put("lodgement_fields."+xfieldKey(f), customFieldEntry(f, ""))
	}

	multiPart := len(ev.Parts) > 1
	partSpecs := make(map[int]*Spec, len(ev.Parts))
	var partIDs []int
	for _, part := range ev.SortedParts() {
		prefix := ""
		if multiPart {
			prefix = part.Shortname
		}
		ps := lodgementPartSpec(part, prefix)
		partSpecs[part.ID] = ps
		partIDs = append(partIDs, part.ID)
		spec.Merge(ps)
	}

	for _, g := range ev.SortedPartGroups(PartGroupStatistic) {
		spec.Merge(Combine(partSpecs, g.PartIDs, g.Shortname, false))
	}
	spec.Merge(Combine(partSpecs, partIDs, anyPartLabel, true))

	return spec
}

func lodgementPartSpec(part *Part, prefix string) *Spec {
	ns := partKey(part.ID)
	s := NewSpec()
	put := func(key string, e Entry) {
		e.TitlePrefix = prefix
		s.Put(ns+MonikerSeparator+key, e)
	}
	put("regular_inhabitants", Entry{Type: TypeInt, Title: "Regular Inhabitants"})
	put("camping_mat_inhabitants", Entry{Type: TypeInt, Title: "Camping Mat Inhabitants"})
	put("total_inhabitants", Entry{Type: TypeInt, Title: "Total Inhabitants"})
	put("group_regular_inhabitants", Entry{Type: TypeInt, Title: "Group Regular Inhabitants"})
	put("group_camping_mat_inhabitants", Entry{Type: TypeInt, Title: "Group Camping Mat Inhabitants"})
	put("group_total_inhabitants", Entry{Type: TypeInt, Title: "Group Total Inhabitants"})
	return s
}

// BuildCourseSpec synthesizes the course-scope field spec: the course
// columns, the course custom fields, one block per track, and the
// combinations over each part's tracks and the whole event. Course
// choice syncing does not apply here; the per-track rank interest
// counters are emitted unconditionally.
func BuildCourseSpec(ctx *EventContext) *Spec {
	ev := ctx.Event
	spec := buildStatic([]specField{
		{key: "course.id", typ: TypeID, title: "ID"},
		{key: "course.nr", typ: TypeStr, title: "Nr."},
		{key: "course.title", typ: TypeStr, title: "Title"},
		{key: "course.shortname", typ: TypeStr, title: "Shortname"},
		{key: "course.description", typ: TypeStr, title: "Description"},
		{key: "course.instructors", typ: TypeStr, title: "Instructors"},
		{key: "course.min_size", typ: TypeInt, title: "Minimum Size"},
		{key: "course.max_size", typ: TypeInt, title: "Maximum Size"},
		{key: "course.is_visible", typ: TypeBool, title: "Visible"},
		{key: "course.notes", typ: TypeStr, title: "Notes"},
	})

	for _, f := range ev.SortedFields(AssocCourse) {
		spec.Put("course_fields."+xfieldKey(f), customFieldEntry(f, ""))
	}

	multiTrack := ev.TrackCount() > 1
	trackSpecs := make(map[int]*Spec)
	var allTrackIDs []int
	for _, part := range ev.SortedParts() {
		var partTrackIDs []int
		for _, track := range part.SortedTracks() {
			prefix := ""
			if multiTrack {
				prefix = track.Shortname
			}
			ts := courseTrackSpec(track, prefix)
			trackSpecs[track.ID] = ts
			partTrackIDs = append(partTrackIDs, track.ID)
			allTrackIDs = append(allTrackIDs, track.ID)
			spec.Merge(ts)
		}
		spec.Merge(Combine(trackSpecs, partTrackIDs, part.Shortname, false))
	}

	for _, g := range ev.SortedPartGroups(PartGroupStatistic) {
		var groupTrackIDs []int
		for _, pid := range g.PartIDs {
			if part, ok := ev.Parts[pid]; ok {
				for _, t := range part.SortedTracks() {
					groupTrackIDs = append(groupTrackIDs, t.ID)
				}
			}
		}
		spec.Merge(Combine(trackSpecs, groupTrackIDs, g.Shortname, false))
	}
	spec.Merge(Combine(trackSpecs, allTrackIDs, anyTrackLabel, true))

	return spec
}

func courseTrackSpec(track *Track, prefix string) *Spec {
	ns := trackKey(track.ID)
	s := NewSpec()
	put := func(key string, e Entry) {
		e.TitlePrefix = prefix
		s.Put(ns+MonikerSeparator+key, e)
	}
	put("is_offered", Entry{Type: TypeBool, Title: "Offered"})
	put("takes_place", Entry{Type: TypeBool, Title: "Takes Place"})
	put("attendees", Entry{Type: TypeInt, Title: "Attendees"})
	put("instructors", Entry{Type: TypeInt, Title: "Instructors"})
	for k := 0; k < track.NumChoices; k++ {
		put("num_choices_"+strconv.Itoa(k), Entry{
			Type:  TypeInt,
			Title: fmt.Sprintf("%d. Choices", k+1),
		})
	}
	return s
}
