package symbols

import (
	"go.lsp.dev/protocol"
)

// ForIdentity produces a deep, independent copy of the cache holding
// only the declarations and definitions visible to the requesting
// identity; references are excluded, since the view answers "what can I
// jump to or complete", not "who references me". Units left with no
// visible declarations or definitions are dropped, then categories left
// empty. The input cache is never mutated, so features like completion
// can use the result without leaking restricted symbols into the
// requester's file.
func ForIdentity(cache *Cache, requestingType CacheType, requestingID Identity, policy VisibilityPolicy, resolve IdentityResolver) *Cache {
	result := NewCache()
	for _, t := range cache.order {
		cat := cache.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			declarations := visiblePositions(unit.Declarations, requestingType, requestingID, policy, resolve)
			definitions := visiblePositions(unit.Definitions, requestingType, requestingID, policy, resolve)
			if len(declarations) == 0 && len(definitions) == 0 {
				continue
			}
			target := result.Unit(t, id)
			target.Declarations = declarations
			target.Definitions = definitions
			target.Documentation = unit.Documentation
		}
	}
	return result
}

func visiblePositions(positions []Position, requestingType CacheType, requestingID Identity, policy VisibilityPolicy, resolve IdentityResolver) []Position {
	var visible []Position
	for _, pos := range positions {
		if TestVisibility(pos.Visibility, requestingType, requestingID, pos.URI, policy, resolve) {
			visible = append(visible, pos)
		}
	}
	return clonePositions(visible)
}

// Completions lists every identity under a type as a completion item
// replacing [insertStart, insertEnd), attaching documentation when
// present. Internal types never surface. No visibility filtering
// happens here; callers wanting scoped completions run ForIdentity
// first and complete over its result.
func Completions(cache *Cache, t CacheType, insertStart, insertEnd protocol.Position) []protocol.CompletionItem {
	if IsInternalType(t) {
		return nil
	}
	cat := cache.Category(t)
	items := make([]protocol.CompletionItem, 0, cat.Len())
	for _, id := range cat.Identities() {
		item := protocol.CompletionItem{
			Label: id,
			TextEdit: &protocol.TextEdit{
				Range:   protocol.Range{Start: insertStart, End: insertEnd},
				NewText: id,
			},
		}
		if doc := cat.Get(id).Documentation; doc != "" {
			item.Documentation = doc
		}
		items = append(items, item)
	}
	return items
}
