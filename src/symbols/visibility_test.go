package symbols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.lsp.dev/uri"
)

var testDoc = uri.URI("file:///data/a/functions/x.mcfunction")

func publicPolicy() VisibilityPolicy {
	return VisibilityPolicy{Tier: VisibilityPublic}
}

func TestVisibilityForPrivate(t *testing.T) {
	rules := VisibilityFor(VisibilityPrivate, TypeFunction, ParseIdentity("a:x"))
	require.Len(t, rules, 1)
	assert.Equal(t, "a:x", rules[0].Pattern)
	assert.Equal(t, TypeFunction, rules[0].Type)

	// Matches only the exact defining identity in the defining category.
	assert.True(t, TestVisibility(rules, TypeFunction, ParseIdentity("a:x"), testDoc, publicPolicy(), nil))
	assert.False(t, TestVisibility(rules, TypeFunction, ParseIdentity("a:y"), testDoc, publicPolicy(), nil))
	assert.False(t, TestVisibility(rules, TypeAdvancement, ParseIdentity("a:x"), testDoc, publicPolicy(), nil))
}

func TestVisibilityForInternal(t *testing.T) {
	rules := VisibilityFor(VisibilityInternal, TypeFunction, ParseIdentity("mypack:util/x"))
	require.Len(t, rules, 2)
	assert.Equal(t, "mypack:**", rules[0].Pattern)
	assert.Equal(t, TypeWildcard, rules[0].Type)
	assert.Equal(t, "minecraft:**", rules[1].Pattern)

	// Same namespace, default namespace: visible. Third namespace: not.
	assert.True(t, TestVisibility(rules, TypeAdvancement, ParseIdentity("mypack:other"), testDoc, publicPolicy(), nil))
	assert.True(t, TestVisibility(rules, TypeFunction, ParseIdentity("minecraft:anything"), testDoc, publicPolicy(), nil))
	assert.False(t, TestVisibility(rules, TypeFunction, ParseIdentity("otherpack:thing"), testDoc, publicPolicy(), nil))
}

func TestVisibilityForInternalDefaultNamespace(t *testing.T) {
	// Declared in the default namespace: no second escape-hatch rule.
	rules := VisibilityFor(VisibilityInternal, TypeFunction, ParseIdentity("minecraft:x"))
	require.Len(t, rules, 1)
	assert.Equal(t, "minecraft:**", rules[0].Pattern)
}

func TestVisibilityForPublic(t *testing.T) {
	rules := VisibilityFor(VisibilityPublic, TypeFunction, ParseIdentity("a:x"))
	require.Len(t, rules, 1)
	assert.True(t, TestVisibility(rules, TypeBossbar, ParseIdentity("anything:at/all"), testDoc, publicPolicy(), nil))
}

func TestVisibilityRuleSetIsUnionOfRules(t *testing.T) {
	rules := []Visibility{
		{Pattern: "a:**", Type: TypeFunction},
		{Pattern: "b:**", Type: TypeFunction},
	}
	assert.True(t, TestVisibility(rules, TypeFunction, ParseIdentity("b:thing"), testDoc, publicPolicy(), nil))
	assert.False(t, TestVisibility(rules, TypeFunction, ParseIdentity("c:thing"), testDoc, publicPolicy(), nil))
}

func TestVisibilityFallbackToPolicyRules(t *testing.T) {
	policy := VisibilityPolicy{Rules: []Visibility{{Pattern: "a:**", Type: TypeWildcard}}}
	assert.True(t, TestVisibility(nil, TypeFunction, ParseIdentity("a:x"), testDoc, policy, nil))
	assert.False(t, TestVisibility(nil, TypeFunction, ParseIdentity("b:x"), testDoc, policy, nil))
}

func TestVisibilityFallbackToTierDerivesAgainstDefiningDocument(t *testing.T) {
	resolve := func(document uri.URI) (CacheType, Identity, bool) {
		require.Equal(t, testDoc, document)
		return TypeFunction, ParseIdentity("a:x"), true
	}
	policy := VisibilityPolicy{Tier: VisibilityPrivate}

	assert.True(t, TestVisibility(nil, TypeFunction, ParseIdentity("a:x"), testDoc, policy, resolve))
	assert.False(t, TestVisibility(nil, TypeFunction, ParseIdentity("b:y"), testDoc, policy, resolve))
}

func TestVisibilityUnresolvableDefiningIdentityDefaultsToVisible(t *testing.T) {
	resolve := func(uri.URI) (CacheType, Identity, bool) {
		return "", Identity{}, false
	}
	policy := VisibilityPolicy{Tier: VisibilityPrivate}

	// A best-effort feature must not hide symbols over a parse gap.
	assert.True(t, TestVisibility(nil, TypeFunction, ParseIdentity("b:y"), testDoc, policy, resolve))
	assert.True(t, TestVisibility(nil, TypeFunction, ParseIdentity("b:y"), testDoc, policy, nil))
}
