// Package eventcfg loads an event's structural description from YAML
// and materializes it as the domain model the dynamic spec builders
// consume.
package eventcfg

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eventware/queryspec/pkg/query"
)

type fileModel struct {
	Event           eventModel       `yaml:"event"`
	Courses         []courseModel    `yaml:"courses"`
	Lodgements      []lodgementModel `yaml:"lodgements"`
	LodgementGroups []groupModel     `yaml:"lodgement_groups"`
}

type eventModel struct {
	ID          int               `yaml:"id"`
	Shortname   string            `yaml:"shortname"`
	Title       string            `yaml:"title"`
	Parts       []partModel       `yaml:"parts"`
	Fields      []fieldModel      `yaml:"fields"`
	PartGroups  []partGroupModel  `yaml:"part_groups"`
	TrackGroups []trackGroupModel `yaml:"track_groups"`
}

type partModel struct {
	ID        int          `yaml:"id"`
	Shortname string       `yaml:"shortname"`
	Title     string       `yaml:"title"`
	Begin     time.Time    `yaml:"begin"`
	End       time.Time    `yaml:"end"`
	Tracks    []trackModel `yaml:"tracks"`
}

type trackModel struct {
	ID         int    `yaml:"id"`
	Shortname  string `yaml:"shortname"`
	Title      string `yaml:"title"`
	NumChoices int    `yaml:"num_choices"`
	MinChoices int    `yaml:"min_choices"`
	SortKey    int    `yaml:"sort_key"`
}

type fieldModel struct {
	ID          int               `yaml:"id"`
	Name        string            `yaml:"name"`
	Association string            `yaml:"association"`
	Kind        string            `yaml:"kind"`
	SortKey     int               `yaml:"sort_key"`
	Entries     map[string]string `yaml:"entries"`
}

type partGroupModel struct {
	ID        int    `yaml:"id"`
	Shortname string `yaml:"shortname"`
	Title     string `yaml:"title"`
	Kind      string `yaml:"kind"`
	PartIDs   []int  `yaml:"part_ids"`
}

type trackGroupModel struct {
	ID        int    `yaml:"id"`
	Shortname string `yaml:"shortname"`
	Title     string `yaml:"title"`
	Kind      string `yaml:"kind"`
	TrackIDs  []int  `yaml:"track_ids"`
	SortKey   int    `yaml:"sort_key"`
}

type courseModel struct {
	ID        int    `yaml:"id"`
	Nr        string `yaml:"nr"`
	Shortname string `yaml:"shortname"`
	Title     string `yaml:"title"`
}

type lodgementModel struct {
	ID      int    `yaml:"id"`
	Title   string `yaml:"title"`
	GroupID int    `yaml:"group_id"`
}

type groupModel struct {
	ID    int    `yaml:"id"`
	Title string `yaml:"title"`
}

// Load reads and parses an event description file.
func Load(path string) (*query.EventContext, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading event file: %w", err)
	}
	ctx, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return ctx, nil
}

// Parse decodes an event description from YAML.
func Parse(data []byte) (*query.EventContext, error) {
	var m fileModel
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return materialize(&m)
}

func materialize(m *fileModel) (*query.EventContext, error) {
	if m.Event.ID == 0 {
		return nil, fmt.Errorf("event id is required")
	}

	ev := &query.Event{
		ID:          m.Event.ID,
		Shortname:   m.Event.Shortname,
		Title:       m.Event.Title,
		Parts:       make(map[int]*query.Part),
		Fields:      make(map[int]*query.Field),
		PartGroups:  make(map[int]*query.PartGroup),
		TrackGroups: make(map[int]*query.TrackGroup),
	}

	knownTracks := make(map[int]bool)
	for _, pm := range m.Event.Parts {
		if _, dup := ev.Parts[pm.ID]; dup {
			return nil, fmt.Errorf("duplicate part id %d", pm.ID)
		}
		part := &query.Part{
			ID:        pm.ID,
			Shortname: pm.Shortname,
			Title:     pm.Title,
			Begin:     pm.Begin,
			End:       pm.End,
			Tracks:    make(map[int]*query.Track),
		}
		for _, tm := range pm.Tracks {
			if knownTracks[tm.ID] {
				return nil, fmt.Errorf("duplicate track id %d", tm.ID)
			}
			knownTracks[tm.ID] = true
			part.Tracks[tm.ID] = &query.Track{
				ID:         tm.ID,
				PartID:     pm.ID,
				Shortname:  tm.Shortname,
				Title:      tm.Title,
				NumChoices: tm.NumChoices,
				MinChoices: tm.MinChoices,
				SortKey:    tm.SortKey,
			}
		}
		ev.Parts[pm.ID] = part
	}

	for _, fm := range m.Event.Fields {
		assoc, err := parseAssociation(fm.Association)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fm.Name, err)
		}
		kind, err := parseKind(fm.Kind)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fm.Name, err)
		}
		ev.Fields[fm.ID] = &query.Field{
			ID:          fm.ID,
			Name:        fm.Name,
			Association: assoc,
			Kind:        kind,
			SortKey:     fm.SortKey,
			Entries:     fm.Entries,
		}
	}

	for _, gm := range m.Event.PartGroups {
		for _, pid := range gm.PartIDs {
			if _, ok := ev.Parts[pid]; !ok {
				return nil, fmt.Errorf("part group %q references unknown part %d", gm.Shortname, pid)
			}
		}
		ev.PartGroups[gm.ID] = &query.PartGroup{
			ID:        gm.ID,
			Shortname: gm.Shortname,
			Title:     gm.Title,
			Kind:      gm.Kind,
			PartIDs:   gm.PartIDs,
		}
	}

	for _, gm := range m.Event.TrackGroups {
		for _, tid := range gm.TrackIDs {
			if !knownTracks[tid] {
				return nil, fmt.Errorf("track group %q references unknown track %d", gm.Shortname, tid)
			}
		}
		ev.TrackGroups[gm.ID] = &query.TrackGroup{
			ID:        gm.ID,
			Shortname: gm.Shortname,
			Title:     gm.Title,
			Kind:      gm.Kind,
			TrackIDs:  gm.TrackIDs,
			SortKey:   gm.SortKey,
		}
	}

	ctx := &query.EventContext{Event: ev}
	if len(m.Courses) > 0 {
		ctx.Courses = make(map[int]*query.Course, len(m.Courses))
		for _, cm := range m.Courses {
			ctx.Courses[cm.ID] = &query.Course{ID: cm.ID, Nr: cm.Nr, Shortname: cm.Shortname, Title: cm.Title}
		}
	}
	if len(m.Lodgements) > 0 {
		ctx.Lodgements = make(map[int]*query.Lodgement, len(m.Lodgements))
		for _, lm := range m.Lodgements {
			ctx.Lodgements[lm.ID] = &query.Lodgement{ID: lm.ID, Title: lm.Title, GroupID: lm.GroupID}
		}
	}
	if len(m.LodgementGroups) > 0 {
		ctx.LodgementGroups = make(map[int]*query.LodgementGroup, len(m.LodgementGroups))
		for _, gm := range m.LodgementGroups {
			ctx.LodgementGroups[gm.ID] = &query.LodgementGroup{ID: gm.ID, Title: gm.Title}
		}
	}

	return ctx, nil
}

func parseAssociation(s string) (query.FieldAssociation, error) {
	switch query.FieldAssociation(s) {
	case query.AssocRegistration, query.AssocCourse, query.AssocLodgement:
		return query.FieldAssociation(s), nil
	}
	return "", fmt.Errorf("unknown field association %q", s)
}

func parseKind(s string) (query.FieldType, error) {
	switch query.FieldType(s) {
	case query.TypeStr, query.TypeInt, query.TypeFloat,
		query.TypeDate, query.TypeDatetime, query.TypeBool, query.TypeID:
		return query.FieldType(s), nil
	}
	return "", fmt.Errorf("unknown field kind %q", s)
}
