package symbols

import (
	"go.lsp.dev/uri"

	"github.com/Trivaxy/Spyglass/src/internal/common"
)

// TypeWildcard marks a visibility rule that applies to every category.
const TypeWildcard CacheType = "*"

// Visibility is one rule restricting who may resolve a position: a glob
// pattern over requesting identity strings plus the category the rule
// applies to (or TypeWildcard for all).
type Visibility struct {
	Pattern string    `json:"pattern"`
	Type    CacheType `json:"type"`
}

// VisibilityTier is a source-level declared visibility.
type VisibilityTier string

const (
	VisibilityPrivate  VisibilityTier = "private"
	VisibilityInternal VisibilityTier = "internal"
	VisibilityPublic   VisibilityTier = "public"
)

// VisibilityFor derives the rule set recorded for a declaration of the
// given tier.
//
// A private symbol is visible only to exact self-references within its
// own category. An internal symbol is visible to its whole namespace,
// and additionally to the default namespace when declared outside it,
// so default-namespace consumers can always reach internal symbols. A
// public symbol is visible everywhere. An unknown or empty tier derives
// as public.
func VisibilityFor(tier VisibilityTier, definingType CacheType, definingID Identity) []Visibility {
	switch tier {
	case VisibilityPrivate:
		return []Visibility{{Pattern: definingID.String(), Type: definingType}}
	case VisibilityInternal:
		rules := []Visibility{{Pattern: definingID.Namespace + ":**", Type: TypeWildcard}}
		if definingID.Namespace != DefaultNamespace {
			rules = append(rules, Visibility{Pattern: DefaultNamespace + ":**", Type: TypeWildcard})
		}
		return rules
	default:
		return []Visibility{{Pattern: "**", Type: TypeWildcard}}
	}
}

// VisibilityPolicy is the caller-supplied fallback applied to positions
// that carry no recorded rules. When Rules is non-empty it is used
// directly; otherwise Tier is derived against the defining document's
// own declared identity.
type VisibilityPolicy struct {
	Rules []Visibility
	Tier  VisibilityTier
}

// IdentityResolver reports the declared category and identity of a
// document, typically backed by the document registry. ok is false when
// the document was never successfully parsed.
type IdentityResolver func(document uri.URI) (CacheType, Identity, bool)

// TestVisibility reports whether the requesting identity, acting as a
// member of the requesting category, may see a position defined in the
// given document under the recorded rules.
//
// An empty rule set means no rule was recorded and the policy decides:
// explicit policy rules are tested as-is, while a bare tier is derived
// against the defining document's identity first. When that identity
// cannot be resolved the gap is logged and the position is treated as
// visible, since hiding a valid symbol costs an interactive consumer
// more than showing a restricted one. A non-empty rule set passes if
// any member rule passes.
func TestVisibility(rules []Visibility, requestingType CacheType, requestingID Identity, definingDocument uri.URI, policy VisibilityPolicy, resolve IdentityResolver) bool {
	if len(rules) == 0 {
		if len(policy.Rules) > 0 {
			rules = policy.Rules
		} else {
			definingType, definingID, ok := CacheType(""), Identity{}, false
			if resolve != nil {
				definingType, definingID, ok = resolve(definingDocument)
			}
			if !ok {
				common.SymbolsLogger.Warningf("cannot resolve identity of %s for visibility fallback, defaulting to visible", definingDocument)
				return true
			}
			rules = VisibilityFor(policy.Tier, definingType, definingID)
		}
	}
	for _, rule := range rules {
		if testRule(rule, requestingType, requestingID) {
			return true
		}
	}
	return false
}

func testRule(rule Visibility, requestingType CacheType, requestingID Identity) bool {
	if rule.Type != TypeWildcard && rule.Type != requestingType {
		return false
	}
	return CompilePattern(rule.Pattern).Match(requestingID.String())
}
