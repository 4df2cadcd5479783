package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"
)

func TestIndexMappingOffset(t *testing.T) {
	// One edit: [10,15) replaced by something 3 longer.
	mapping := IndexMapping{{Start: 10, End: 15, Delta: 3}}

	assert.Equal(t, 5, mapping.offset(5), "before the edit: unchanged")
	assert.Equal(t, 23, mapping.offset(20), "after the edit: shifted")
	assert.Equal(t, 18, mapping.offset(12), "inside the edit: clamped to replacement end")
}

func TestIndexMappingAccumulatesDeltas(t *testing.T) {
	mapping := IndexMapping{
		{Start: 0, End: 2, Delta: 5},
		{Start: 10, End: 12, Delta: -2},
	}
	assert.Equal(t, 23, mapping.offset(20))
	assert.Equal(t, 10, mapping.offset(5))
}

func TestRemapTranslatesPositionsAndScope(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").References = []Position{{
		Start: 20, End: 25, Scope: &Segment{Start: 18, End: 30},
	}}

	mapping := IndexMapping{{Start: 0, End: 5, Delta: 10}}
	require.NoError(t, Remap(cache, mapping, lineResolver(100)))

	pos := cache.Unit(TypeFunction, "a:x").References[0]
	assert.Equal(t, 30, pos.Start)
	assert.Equal(t, 35, pos.End)
	assert.Equal(t, 28, pos.Scope.Start)
	assert.Equal(t, 40, pos.Scope.End)
	assert.Equal(t, uint32(30), pos.StartPos.Character)
}

func TestRemapRejectsMalformedMapping(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").References = []Position{position(5, 6)}

	cases := map[string]IndexMapping{
		"negative start":  {{Start: -1, End: 3, Delta: 0}},
		"start after end": {{Start: 5, End: 2, Delta: 0}},
		"negative length": {{Start: 0, End: 4, Delta: -6}},
		"overlap":         {{Start: 0, End: 10, Delta: 1}, {Start: 5, End: 12, Delta: 1}},
	}
	for name, mapping := range cases {
		err := Remap(cache, mapping, lineResolver(100))
		require.Error(t, err, name)
	}

	// Rejected mappings never touch the cache.
	assert.Equal(t, 5, cache.Unit(TypeFunction, "a:x").References[0].Start)
}

func TestRemapRequiresResolver(t *testing.T) {
	assert.Error(t, Remap(NewCache(), nil, nil))
}

func TestRemapDocumentOnlyTouchesStampedPositions(t *testing.T) {
	edited := uri.URI("file:///edited")
	other := uri.URI("file:///other")

	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").References = []Position{
		docPosition(string(edited), 20, 22),
		docPosition(string(other), 20, 22),
	}

	mapping := IndexMapping{{Start: 0, End: 1, Delta: 7}}
	require.NoError(t, RemapDocument(cache, edited, mapping, lineResolver(100)))

	refs := cache.Unit(TypeFunction, "a:x").References
	assert.Equal(t, 27, refs[0].Start)
	assert.Equal(t, 20, refs[1].Start)
}

func TestRemoveByDocumentKeepsEmptiedUnits(t *testing.T) {
	closing := uri.URI("file:///closing")
	staying := uri.URI("file:///staying")

	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").Declarations = []Position{docPosition(string(closing), 0, 1)}
	cache.Unit(TypeFunction, "a:x").References = []Position{docPosition(string(staying), 5, 6)}
	cache.Unit(TypeFunction, "a:gone").Definitions = []Position{docPosition(string(closing), 9, 12)}

	RemoveByDocument(cache, closing)

	assert.Empty(t, cache.Unit(TypeFunction, "a:x").Declarations)
	assert.Len(t, cache.Unit(TypeFunction, "a:x").References, 1)
	require.NotNil(t, cache.Category(TypeFunction).Get("a:gone"), "emptied units survive until Trim")
	assert.True(t, cache.Category(TypeFunction).Get("a:gone").IsEmpty())
}

func TestRemoveByDocumentThenTrim(t *testing.T) {
	closing := uri.URI("file:///closing")

	cache := NewCache()
	cache.Unit(TypeFunction, "a:gone").Definitions = []Position{docPosition(string(closing), 0, 4)}
	cache.Unit(TypeObjective, "obj").References = []Position{docPosition("file:///other", 0, 4)}

	RemoveByDocument(cache, closing)
	Trim(cache)

	assert.Equal(t, 0, countPositionsFor(cache, closing))
	assert.Equal(t, []CacheType{TypeObjective}, cache.Types())
}

func countPositionsFor(cache *Cache, document uri.URI) int {
	count := 0
	for _, t := range cache.Types() {
		cat := cache.Category(t)
		for _, id := range cat.Identities() {
			unit := cat.Get(id)
			for _, kind := range PositionKinds {
				for _, pos := range unit.Positions(kind) {
					if pos.URI == document {
						count++
					}
				}
			}
		}
	}
	return count
}

func TestRemoveUnit(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:x").Declarations = []Position{position(0, 1)}
	cache.Unit(TypeFunction, "a:y").Declarations = []Position{position(2, 3)}

	RemoveUnit(cache, TypeFunction, "a:x")
	RemoveUnit(cache, TypeBossbar, "nope") // absent category: no-op

	assert.Nil(t, cache.Category(TypeFunction).Get("a:x"))
	assert.NotNil(t, cache.Category(TypeFunction).Get("a:y"))
}

func TestTrimDropsDocOnlyUnits(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:doc-only").Documentation = "orphaned docs"
	cache.Unit(TypeFunction, "a:kept").References = []Position{position(0, 1)}

	Trim(cache)

	assert.Nil(t, cache.Category(TypeFunction).Get("a:doc-only"))
	assert.NotNil(t, cache.Category(TypeFunction).Get("a:kept"))
}

func TestTrimIsIdempotent(t *testing.T) {
	cache := NewCache()
	cache.Unit(TypeFunction, "a:empty")
	cache.Unit(TypeObjective, "obj").Declarations = []Position{position(0, 1)}
	cache.Unit(TypeBossbar, "b:empty")

	Trim(cache)
	first := cacheShape(cache)
	Trim(cache)

	assert.Equal(t, first, cacheShape(cache))
	assert.Equal(t, []CacheType{TypeObjective}, cache.Types())
}

func cacheShape(cache *Cache) map[CacheType][]string {
	shape := make(map[CacheType][]string)
	for _, t := range cache.Types() {
		shape[t] = cache.Category(t).Identities()
	}
	return shape
}
