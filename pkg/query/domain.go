package query

import (
	"sort"
	"strconv"
	"time"
)

// FieldAssociation says which entity a custom field is attached to.
type FieldAssociation string

// Custom field associations.
const (
	AssocRegistration FieldAssociation = "registration"
	AssocCourse       FieldAssociation = "course"
	AssocLodgement    FieldAssociation = "lodgement"
)

// Group kinds. Only statistic part groups and course-choice-sync track
// groups influence spec synthesis; other kinds pass through untouched.
const (
	PartGroupStatistic         = "statistic"
	TrackGroupCourseChoiceSync = "course_choice_sync"
)

// Field is an orga-defined custom field attached to registrations,
// courses or lodgements. Names may be mixed case, which matters for
// identifier quoting.
type Field struct {
	ID          int
	Name        string
	Association FieldAssociation
	Kind        FieldType
	SortKey     int

	// Entries restricts the field to a finite choice set when non-nil,
	// mapping stringified values to labels.
	Entries map[string]string
}

// Track is a course track within an event part. NumChoices is the number
// of course choice ranks a registration records for this track.
type Track struct {
	ID         int
	PartID     int
	Shortname  string
	Title      string
	NumChoices int
	MinChoices int
	SortKey    int
}

// Part is a structural subdivision of an event; it owns zero or more
// tracks and runs from Begin to End.
type Part struct {
	ID        int
	Shortname string
	Title     string
	Begin     time.Time
	End       time.Time
	Tracks    map[int]*Track
}

// SortedTracks returns the part's tracks in canonical order.
func (p *Part) SortedTracks() []*Track {
	out := make([]*Track, 0, len(p.Tracks))
	for _, t := range p.Tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey < out[j].SortKey
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// PartGroup is a named grouping of parts. Statistic groups additionally
// get combined "any of" spec entries across their members.
type PartGroup struct {
	ID        int
	Shortname string
	Title     string
	Kind      string
	PartIDs   []int
}

// TrackGroup is a named grouping of tracks. Course-choice-sync groups
// force shared course choices across their member tracks.
type TrackGroup struct {
	ID        int
	Shortname string
	Title     string
	Kind      string
	TrackIDs  []int
	SortKey   int
}

// Event is the structural configuration a dynamic spec is synthesized
// from. All collections are keyed by id; canonical orderings are
// produced by the Sorted* helpers.
type Event struct {
	ID          int
	Shortname   string
	Title       string
	Parts       map[int]*Part
	Fields      map[int]*Field
	PartGroups  map[int]*PartGroup
	TrackGroups map[int]*TrackGroup
}

// SortedParts returns the event's parts in canonical order: by begin
// date, end date, shortname, id.
func (ev *Event) SortedParts() []*Part {
	out := make([]*Part, 0, len(ev.Parts))
	for _, p := range ev.Parts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.Begin.Equal(b.Begin) {
			return a.Begin.Before(b.Begin)
		}
		if !a.End.Equal(b.End) {
			return a.End.Before(b.End)
		}
		if a.Shortname != b.Shortname {
			return a.Shortname < b.Shortname
		}
		return a.ID < b.ID
	})
	return out
}

// SortedFields returns the custom fields of one association, ordered by
// sort key then name.
func (ev *Event) SortedFields(assoc FieldAssociation) []*Field {
	out := make([]*Field, 0, len(ev.Fields))
	for _, f := range ev.Fields {
		if f.Association == assoc {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey < out[j].SortKey
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortedTrackGroups returns the track groups of one kind in canonical
// order.
func (ev *Event) SortedTrackGroups(kind string) []*TrackGroup {
	out := make([]*TrackGroup, 0, len(ev.TrackGroups))
	for _, g := range ev.TrackGroups {
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortKey != out[j].SortKey {
			return out[i].SortKey < out[j].SortKey
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// SortedPartGroups returns the part groups of one kind ordered by id.
func (ev *Event) SortedPartGroups(kind string) []*PartGroup {
	out := make([]*PartGroup, 0, len(ev.PartGroups))
	for _, g := range ev.PartGroups {
		if g.Kind == kind {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// SyncGroupFor returns the course-choice-sync group containing the
// track, or nil.
func (ev *Event) SyncGroupFor(trackID int) *TrackGroup {
	for _, g := range ev.TrackGroups {
		if g.Kind != TrackGroupCourseChoiceSync {
			continue
		}
		for _, id := range g.TrackIDs {
			if id == trackID {
				return g
			}
		}
	}
	return nil
}

// TrackCount returns the total number of tracks across all parts.
func (ev *Event) TrackCount() int {
	n := 0
	for _, p := range ev.Parts {
		n += len(p.Tracks)
	}
	return n
}

// Course, Lodgement and LodgementGroup are the cross-reference records
// used to render id-valued fields as finite choice sets.
type Course struct {
	ID        int
	Nr        string
	Shortname string
	Title     string
}

// Label renders the course for choice lists.
func (c *Course) Label() string {
	if c.Nr != "" {
		return c.Nr + ". " + c.Shortname
	}
	return c.Shortname
}

type Lodgement struct {
	ID      int
	Title   string
	GroupID int
}

type LodgementGroup struct {
	ID    int
	Title string
}

// EventContext bundles the domain structure and the known cross
// reference collections a dynamic spec is built from. Courses,
// Lodgements and LodgementGroups may be nil; the affected entries then
// simply carry no choices.
type EventContext struct {
	Event           *Event
	Courses         map[int]*Course
	Lodgements      map[int]*Lodgement
	LodgementGroups map[int]*LodgementGroup
}

// courseChoices renders the course lookup as a choices map.
func (ctx *EventContext) courseChoices() map[string]string {
	if len(ctx.Courses) == 0 {
		return nil
	}
	out := make(map[string]string, len(ctx.Courses))
	for id, c := range ctx.Courses {
		out[strconv.Itoa(id)] = c.Label()
	}
	return out
}

// lodgementChoices renders the lodgement lookup as a choices map.
func (ctx *EventContext) lodgementChoices() map[string]string {
	if len(ctx.Lodgements) == 0 {
		return nil
	}
	out := make(map[string]string, len(ctx.Lodgements))
	for id, l := range ctx.Lodgements {
		out[strconv.Itoa(id)] = l.Title
	}
	return out
}

// lodgementGroupChoices renders the lodgement group lookup as a choices
// map.
func (ctx *EventContext) lodgementGroupChoices() map[string]string {
	if len(ctx.LodgementGroups) == 0 {
		return nil
	}
	out := make(map[string]string, len(ctx.LodgementGroups))
	for id, g := range ctx.LodgementGroups {
		out[strconv.Itoa(id)] = g.Title
	}
	return out
}
