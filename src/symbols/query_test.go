package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

func TestForIdentityExcludesReferences(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:declared").Declarations = []Position{position(0, 1)}
	cache.Unit(TypeFunction, "a:referenced-only").References = []Position{position(5, 6)}

	view := ForIdentity(cache, TypeFunction, ParseIdentity("b:y"), publicPolicy(), nil)

	assert.NotNil(t, view.Category(TypeFunction).Get("a:declared"))
	assert.Nil(t, view.Category(TypeFunction).Get("a:referenced-only"))
}

func TestForIdentityReturnsIndependentCopy(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").Definitions = []Position{position(3, 9)}

	view := ForIdentity(cache, TypeFunction, ParseIdentity("b:y"), publicPolicy(), nil)
	view.Unit(TypeFunction, "a:x").Definitions[0].Start = 777
	view.Unit(TypeFunction, "a:new").Declarations = []Position{position(0, 1)}

	assert.Equal(t, 3, cache.Unit(TypeFunction, "a:x").Definitions[0].Start)
	assert.Nil(t, cache.Category(TypeFunction).Get("a:new"))
}

func TestForIdentityFiltersByVisibility(t *testing.T) {
	document := uri.URI("file:///data/a/functions/x.mcfunction")
	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").Declarations = []Position{{
		Start: 0, End: 4, URI: document,
		Visibility: VisibilityFor(VisibilityPrivate, TypeFunction, ParseIdentity("a:x")),
	}}

	// Requesting from another identity: the private declaration is gone,
	// and with it the whole unit and category.
	outsider := ForIdentity(cache, TypeFunction, ParseIdentity("b:y"), publicPolicy(), nil)
	assert.Empty(t, outsider.Types())

	// Requesting as the defining identity itself: visible.
	self := ForIdentity(cache, TypeFunction, ParseIdentity("a:x"), publicPolicy(), nil)
	require.NotNil(t, self.Category(TypeFunction).Get("a:x"))
	assert.Len(t, self.Category(TypeFunction).Get("a:x").Declarations, 1)
}

func TestForIdentityEndToEndMergeThenQuery(t *testing.T) {
	document := uri.URI("file:///data/a/functions/x.mcfunction")

	local := NewCache()
	local.Unit(TypeFunction, "a:x").Declarations = []Position{{
		Start: 0, End: 3,
		Visibility: VisibilityFor(VisibilityPrivate, TypeFunction, ParseIdentity("a:x")),
	}}

	shared := NewCache()
	_, err := Merge(shared, local, &Stamp{URI: document, Resolve: lineResolver(80)})
	require.NoError(t, err)

	excluded := ForIdentity(shared, TypeFunction, ParseIdentity("b:y"), publicPolicy(), nil)
	assert.Nil(t, excluded.Category(TypeFunction).Get("a:x"))

	included := ForIdentity(shared, TypeFunction, ParseIdentity("a:x"), publicPolicy(), nil)
	assert.NotNil(t, included.Category(TypeFunction).Get("a:x"))
}

func TestCompletions(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:first").Declarations = []Position{position(0, 1)}
	cache.Unit(TypeFunction, "a:second").Declarations = []Position{position(2, 3)}
	cache.Unit(TypeFunction, "a:second").Documentation = "the second one"

	start := protocol.Position{Line: 4, Character: 10}
	end := protocol.Position{Line: 4, Character: 14}
	items := Completions(cache, TypeFunction, start, end)

	require.Len(t, items, 2)
	assert.Equal(t, "a:first", items[0].Label)
	require.NotNil(t, items[0].TextEdit)
	assert.Equal(t, start, items[0].TextEdit.Range.Start)
	assert.Equal(t, end, items[0].TextEdit.Range.End)
	assert.Equal(t, "a:first", items[0].TextEdit.NewText)
	assert.Nil(t, items[0].Documentation)
	assert.Equal(t, "the second one", items[1].Documentation)
}

func TestCompletionsNeverSurfaceInternalTypes(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeColor, "red").Declarations = []Position{position(0, 1)}
	cache.Unit(TypeAliasEntity, "@nearest").Declarations = []Position{position(2, 3)}

	assert.Nil(t, Completions(cache, TypeColor, protocol.Position{}, protocol.Position{}))
	assert.Nil(t, Completions(cache, TypeAliasEntity, protocol.Position{}, protocol.Position{}))
}

func TestCompletionsEmptyType(t *testing.T) {
	items := Completions(NewCache(), TypeFunction, protocol.Position{}, protocol.Position{})
	assert.Empty(t, items)
}
