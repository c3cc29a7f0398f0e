package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpecInsertionOrder(t *testing.T) {
	s := NewSpec()
	s.Put("b.one", Entry{Type: TypeStr, Title: "One"})
	s.Put("a.two", Entry{Type: TypeInt, Title: "Two"})
	s.Put("c.three", Entry{Type: TypeBool, Title: "Three"})

	assert.Equal(t, []string{"b.one", "a.two", "c.three"}, s.Keys())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, "a.two", s.KeyAt(1))
}

func TestSpecPutReplacesInPlace(t *testing.T) {
	s := NewSpec()
	s.Put("x", Entry{Type: TypeStr, Title: "old"})
	s.Put("y", Entry{Type: TypeStr, Title: "other"})
	s.Put("x", Entry{Type: TypeInt, Title: "new"})

	assert.Equal(t, []string{"x", "y"}, s.Keys())
	e, ok := s.Get("x")
	require.True(t, ok)
	assert.Equal(t, TypeInt, e.Type)
	assert.Equal(t, "new", e.Title)
}

func TestSpecDelete(t *testing.T) {
	s := NewSpec()
	s.Put("a", Entry{})
	s.Put("b", Entry{})
	s.Put("c", Entry{})

	s.Delete("b")
	assert.Equal(t, []string{"a", "c"}, s.Keys())
	assert.False(t, s.Has("b"))

	s.Delete("missing")
	assert.Equal(t, 2, s.Len())
}

func TestSpecRenameKeepsPosition(t *testing.T) {
	s := NewSpec()
	s.Put("a", Entry{Title: "A"})
	s.Put("reg_fields.xfield_Shirt", Entry{Title: "Shirt"})
	s.Put("c", Entry{Title: "C"})

	s.Rename("reg_fields.xfield_Shirt", `reg_fields."xfield_Shirt"`)

	assert.Equal(t, []string{"a", `reg_fields."xfield_Shirt"`, "c"}, s.Keys())
	e, ok := s.Get(`reg_fields."xfield_Shirt"`)
	require.True(t, ok)
	assert.Equal(t, "Shirt", e.Title)
	assert.False(t, s.Has("reg_fields.xfield_Shirt"))
}

func TestSpecRenameAbsentIsNoop(t *testing.T) {
	s := NewSpec()
	s.Put("a", Entry{})
	s.Rename("missing", "other")
	assert.Equal(t, []string{"a"}, s.Keys())
}

func TestSpecMergeDeepCopies(t *testing.T) {
	src := NewSpec()
	src.Put("f", Entry{Type: TypeInt, Choices: map[string]string{"1": "one"}})

	dst := NewSpec()
	dst.Put("a", Entry{Type: TypeStr})
	dst.Merge(src)

	assert.Equal(t, []string{"a", "f"}, dst.Keys())

	merged, _ := dst.Get("f")
	merged.Choices["2"] = "two"
	original, _ := src.Get("f")
	assert.NotContains(t, original.Choices, "2")
}

func TestSpecCloneIndependence(t *testing.T) {
	s := NewSpec()
	s.Put("f", Entry{Type: TypeID, Choices: map[string]string{"1": "one"}})

	c := s.Clone()
	c.Put("g", Entry{Type: TypeStr})
	got, _ := c.Get("f")
	got.Choices["1"] = "mutated"

	assert.Equal(t, 1, s.Len())
	orig, _ := s.Get("f")
	assert.Equal(t, "one", orig.Choices["1"])
}

func TestCompositeRefJoinSplit(t *testing.T) {
	ref := CompositeRef{"track1.course_choice_0", "track1.course_choice_1"}
	joined := ref.Join()
	assert.Equal(t, "track1.course_choice_0,track1.course_choice_1", joined)
	assert.Equal(t, ref, SplitMoniker(joined))

	assert.Equal(t, CompositeRef{"part7.status"}, SplitMoniker("part7.status"))
	assert.Equal(t, []string{"part7", "status"}, SplitPath("part7.status"))
}
