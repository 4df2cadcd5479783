package symbols

import (
	"fmt"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// Stamp carries the document coordinates merged positions take on: the
// absolute URI of the owning document and a resolver from document
// offsets to line/column pairs. A binder computes positions relative to
// its own text; the stamp is what folds them into the shared cache with
// absolute coordinates.
type Stamp struct {
	URI     uri.URI
	Resolve func(offset int) protocol.Position
}

// Merge folds a document-local override cache into base, mutating and
// returning base. Override units with no positions and no documentation
// are ignored outright, so an empty unit never clears an existing base
// unit. Positions are appended, never replaced; documentation is
// last-writer-wins. When a stamp is supplied every appended position is
// stamped with the stamp's URI and denormalized line/column pair before
// insertion. Override is never mutated.
//
// Malformed override positions are rejected before base is touched, so
// a failed merge leaves base exactly as it was.
func Merge(base, override *Cache, stamp *Stamp) (*Cache, error) {
	if base == nil || override == nil {
		return base, fmt.Errorf("merge requires non-nil base and override caches")
	}

	// Validate everything up front; appending happens only once the
	// whole override is known to be well formed.
	for _, t := range override.order {
		cat := override.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			for _, kind := range PositionKinds {
				for i, pos := range unit.Positions(kind) {
					if err := pos.validate(); err != nil {
						return base, fmt.Errorf("override %s %q %s[%d]: %w", t, id, kind, i, err)
					}
				}
			}
		}
	}

	for _, t := range override.order {
		cat := override.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			if !unit.hasContent() {
				continue
			}
			target := base.Unit(t, id)
			for _, kind := range PositionKinds {
				for _, pos := range clonePositions(unit.Positions(kind)) {
					if stamp != nil {
						pos.URI = stamp.URI
						pos.StartPos = stamp.Resolve(pos.Start)
						pos.EndPos = stamp.Resolve(pos.End)
					}
					target.setPositions(kind, append(target.Positions(kind), pos))
				}
			}
			if unit.Documentation != "" {
				target.Documentation = unit.Documentation
			}
		}
	}
	return base, nil
}
