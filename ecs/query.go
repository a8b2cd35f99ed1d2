package ecs

import (
	"sort"

	"github.com/milk9111/dndrepro/ecs/component"
)

// Query returns, in slot order, the entities that hold every listed kind.
func Query(w *World, kinds ...component.Kind) []Entity {
	if w == nil || len(kinds) == 0 {
		return nil
	}
	sets := make([]*SparseSet, 0, len(kinds))
	for _, k := range kinds {
		s := w.store(k.ID(), false)
		if s.Len() == 0 {
			return nil
		}
		sets = append(sets, s)
	}
	// iterate smallest set
	sort.Slice(sets, func(i, j int) bool { return sets[i].Len() < sets[j].Len() })

	out := make([]Entity, 0, sets[0].Len())
	for _, e := range sets[0].Entities() {
		match := true
		for _, s := range sets[1:] {
			if !s.Has(e) {
				match = false
				break
			}
		}
		if match {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].id() < out[j].id() })
	return out
}

// First returns the lowest-slot entity holding every listed kind.
func First(w *World, kinds ...component.Kind) (Entity, bool) {
	ents := Query(w, kinds...)
	if len(ents) == 0 {
		return 0, false
	}
	return ents[0], true
}

// Count returns the number of entities holding every listed kind.
func Count(w *World, kinds ...component.Kind) int {
	return len(Query(w, kinds...))
}
