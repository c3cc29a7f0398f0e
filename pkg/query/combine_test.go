package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siblingSpec(ns string, n int) *Spec {
	s := NewSpec()
	keys := []string{"status", "is_camping_mat", "lodgement_id", "notes"}
	for i := 0; i < n; i++ {
		s.Put(ns+MonikerSeparator+keys[i], Entry{
			Type:  TypeStr,
			Title: keys[i],
		})
	}
	return s
}

func TestCombineJoinsParallelPositions(t *testing.T) {
	specs := map[int]*Spec{
		1: siblingSpec("part1", 3),
		2: siblingSpec("part2", 3),
	}

	got := Combine(specs, []int{1, 2}, "1. Half", false)

	require.Equal(t, 3, got.Len())
	assert.Equal(t, "part1.status,part2.status", got.KeyAt(0))
	assert.Equal(t, "part1.is_camping_mat,part2.is_camping_mat", got.KeyAt(1))

	e, ok := got.Get("part1.status,part2.status")
	require.True(t, ok)
	assert.Equal(t, "status", e.Title)
	assert.Equal(t, "1. Half", e.TitlePrefix)
	assert.False(t, e.TranslatePrefix)
}

func TestCombineOrderInsensitive(t *testing.T) {
	specs := map[int]*Spec{
		3: siblingSpec("part3", 2),
		7: siblingSpec("part7", 2),
		5: siblingSpec("part5", 2),
	}

	a := Combine(specs, []int{7, 3, 5}, "", false)
	b := Combine(specs, []int{3, 5, 7}, "", false)

	assert.Equal(t, a.Keys(), b.Keys())
	assert.Equal(t, "part3.status,part5.status,part7.status", a.KeyAt(0))
}

func TestCombineSkipsLonePositions(t *testing.T) {
	// The longer sibling's trailing field has no counterpart and must
	// not produce a degenerate single-constituent key.
	specs := map[int]*Spec{
		1: siblingSpec("part1", 2),
		2: siblingSpec("part2", 4),
	}

	got := Combine(specs, []int{1, 2}, "", false)

	require.Equal(t, 2, got.Len())
	for _, key := range got.Keys() {
		assert.Len(t, SplitMoniker(key), 2)
	}
}

func TestCombineFewerThanTwoEntities(t *testing.T) {
	specs := map[int]*Spec{1: siblingSpec("part1", 3)}

	assert.Equal(t, 0, Combine(specs, []int{1}, "", false).Len())
	assert.Equal(t, 0, Combine(specs, nil, "", false).Len())
}

func TestCombineTranslatablePrefix(t *testing.T) {
	specs := map[int]*Spec{
		1: siblingSpec("part1", 1),
		2: siblingSpec("part2", 1),
	}

	got := Combine(specs, []int{1, 2}, "any part", true)
	e, ok := got.Get("part1.status,part2.status")
	require.True(t, ok)
	assert.True(t, e.TranslatePrefix)
	assert.Equal(t, "any part", e.TitlePrefix)
}

func TestCombineReferenceIsLongestSpec(t *testing.T) {
	// The reference entry's metadata comes from the longest sibling, so
	// positions past the shorter ones still resolve.
	long := NewSpec()
	long.Put("track1.a", Entry{Type: TypeInt, Title: "A long"})
	long.Put("track1.b", Entry{Type: TypeBool, Title: "B long"})

	short := NewSpec()
	short.Put("track2.a", Entry{Type: TypeInt, Title: "A short"})

	got := Combine(map[int]*Spec{1: long, 2: short}, []int{2, 1}, "", false)

	require.Equal(t, 1, got.Len())
	e, _ := got.Get("track1.a,track2.a")
	assert.Equal(t, "A long", e.Title)
}

func TestCombineClonesChoices(t *testing.T) {
	a := NewSpec()
	a.Put("track1.course_id", Entry{Type: TypeID, Choices: map[string]string{"1": "one"}})
	b := NewSpec()
	b.Put("track2.course_id", Entry{Type: TypeID, Choices: map[string]string{"1": "one"}})

	got := Combine(map[int]*Spec{1: a, 2: b}, []int{1, 2}, "", false)
	e, _ := got.Get("track1.course_id,track2.course_id")
	e.Choices["2"] = "two"

	orig, _ := a.Get("track1.course_id")
	assert.NotContains(t, orig.Choices, "2")
}
