package symbols

import (
	"fmt"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// EditDelta records one text edit in pre-edit coordinates: the original
// half-open range [Start, End) that was replaced and the signed change
// in length. The replacement text therefore spans
// [Start, End+Delta) in post-edit coordinates.
type EditDelta struct {
	Start int
	End   int
	Delta int
}

// IndexMapping is an ordered sequence of edit deltas, sorted by Start
// and non-overlapping, used to translate pre-edit offsets into their
// post-edit positions without reparsing.
type IndexMapping []EditDelta

func (m IndexMapping) validate() error {
	prevEnd := 0
	for i, e := range m {
		if e.Start < 0 {
			return fmt.Errorf("mapping entry %d: negative start %d", i, e.Start)
		}
		if e.Start > e.End {
			return fmt.Errorf("mapping entry %d: start %d exceeds end %d", i, e.Start, e.End)
		}
		if e.End-e.Start+e.Delta < 0 {
			return fmt.Errorf("mapping entry %d: delta %d shrinks range [%d,%d) below zero length", i, e.Delta, e.Start, e.End)
		}
		if i > 0 && e.Start < prevEnd {
			return fmt.Errorf("mapping entry %d: start %d overlaps previous entry ending at %d", i, e.Start, prevEnd)
		}
		prevEnd = e.End
	}
	return nil
}

// offset translates one pre-edit offset. Offsets at or past an edited
// range shift by its delta; offsets inside an edited range clamp to the
// end of the replacement text, which keeps start<=end intact when both
// endpoints of a position are translated.
func (m IndexMapping) offset(old int) int {
	shift := 0
	for _, e := range m {
		if old >= e.End {
			shift += e.Delta
			continue
		}
		if old > e.Start {
			return e.Start + (e.End - e.Start + e.Delta) + shift
		}
		break
	}
	return old + shift
}

// Remap translates every position in the cache through the mapping and
// recomputes the denormalized line/column pairs with the resolver. It
// must run after every incremental edit to a document whose positions
// are cached, before any subsequent point query; skipping it leaves
// stale ranges behind. The mapping is validated in full before any
// position is touched.
func Remap(cache *Cache, mapping IndexMapping, resolve func(offset int) protocol.Position) error {
	return remap(cache, mapping, resolve, nil)
}

// RemapDocument is Remap restricted to positions stamped with the given
// document, for running a single document's edit against the shared
// workspace cache.
func RemapDocument(cache *Cache, document uri.URI, mapping IndexMapping, resolve func(offset int) protocol.Position) error {
	return remap(cache, mapping, resolve, &document)
}

func remap(cache *Cache, mapping IndexMapping, resolve func(offset int) protocol.Position, only *uri.URI) error {
	if resolve == nil {
		return fmt.Errorf("remap requires an offset resolver")
	}
	if err := mapping.validate(); err != nil {
		return fmt.Errorf("invalid index mapping: %w", err)
	}
	for _, t := range cache.order {
		cat := cache.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			for _, kind := range PositionKinds {
				positions := unit.Positions(kind)
				for i := range positions {
					if only != nil && positions[i].URI != *only {
						continue
					}
					positions[i].Start = mapping.offset(positions[i].Start)
					positions[i].End = mapping.offset(positions[i].End)
					positions[i].StartPos = resolve(positions[i].Start)
					positions[i].EndPos = resolve(positions[i].End)
					if positions[i].Scope != nil {
						positions[i].Scope = &Segment{
							Start: mapping.offset(positions[i].Scope.Start),
							End:   mapping.offset(positions[i].Scope.End),
						}
					}
				}
			}
		}
	}
	return nil
}

// RemoveByDocument drops every position stamped with the given document
// from every unit. Units emptied this way are kept; Trim collects them,
// so removal and collection stay independently testable and composable.
func RemoveByDocument(cache *Cache, document uri.URI) {
	for _, t := range cache.order {
		cat := cache.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			for _, kind := range PositionKinds {
				positions := unit.Positions(kind)
				kept := positions[:0]
				for _, pos := range positions {
					if pos.URI != document {
						kept = append(kept, pos)
					}
				}
				unit.setPositions(kind, kept)
			}
		}
	}
}

// RemoveUnit deletes one identifier entry outright, for when the
// identifier itself was undeclared or renamed away rather than its
// document merely changing.
func RemoveUnit(cache *Cache, t CacheType, identity string) {
	if !cache.has(t) {
		return
	}
	cache.categories[t].Delete(identity)
}

// Trim removes every unit whose three position sequences are all empty,
// documentation or not, then removes every category left empty.
// Idempotent.
func Trim(cache *Cache) {
	for _, t := range cache.Types() {
		cat := cache.categories[t]
		for _, id := range cat.Identities() {
			if cat.Get(id).IsEmpty() {
				cat.Delete(id)
			}
		}
		if cat.Len() == 0 {
			cache.deleteCategory(t)
		}
	}
}
