package query

import "slices"

// Combine synthesizes "match any of" entries across a set of
// structurally parallel per-entity specs. For each position of the
// longest contributing spec it joins the keys the contributors hold at
// that position into one composite key whose entry copies the reference
// entry's type, title and choices under the given prefix.
//
// Contract: sibling specs must be positionally parallel. The Nth key of
// every contributor denotes the same field kind; shorter contributors
// may only be missing trailing fields. The dynamic builder guarantees
// this by emitting the same field kinds in the same relative order for
// every leaf entity of a category.
//
// Positions held by fewer than two contributors are skipped, never
// padded. A set of fewer than two entities yields an empty spec.
// Combine is insensitive to the order of ids but deterministic: entity
// ids are sorted ascending before keys are joined.
func Combine(specsByID map[int]*Spec, ids []int, titlePrefix string, translatePrefix bool) *Spec {
	out := NewSpec()
	if len(ids) <= 1 {
		return out
	}

	sorted := make([]int, len(ids))
	copy(sorted, ids)
	slices.Sort(sorted)

	// Reference is the longest contributing spec; ties break towards the
	// smallest entity id.
	var ref *Spec
	for _, id := range sorted {
		s := specsByID[id]
		if s == nil {
			continue
		}
		if ref == nil || s.Len() > ref.Len() {
			ref = s
		}
	}
	if ref == nil {
		return out
	}

	for i := 0; i < ref.Len(); i++ {
		var parts CompositeRef
		for _, id := range sorted {
			s := specsByID[id]
			if s == nil || i >= s.Len() {
				continue
			}
			parts = append(parts, s.KeyAt(i))
		}
		if len(parts) < 2 {
			continue
		}

		entry, _ := ref.Get(ref.KeyAt(i))
		combined := entry.clone()
		combined.TitlePrefix = titlePrefix
		combined.TranslatePrefix = translatePrefix
		out.Put(parts.Join(), combined)
	}

	return out
}
