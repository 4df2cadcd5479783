package symbols

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
)

// PositionKind distinguishes the three sequences a Unit keeps.
type PositionKind int

const (
	KindDeclaration PositionKind = iota
	KindDefinition
	KindReference
)

// PositionKinds lists the three kinds in the order queries scan them.
var PositionKinds = []PositionKind{KindDeclaration, KindDefinition, KindReference}

func (k PositionKind) String() string {
	switch k {
	case KindDeclaration:
		return "declaration"
	case KindDefinition:
		return "definition"
	case KindReference:
		return "reference"
	default:
		return fmt.Sprintf("PositionKind(%d)", int(k))
	}
}

// Segment is a half-open offset range [Start, End).
type Segment struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Contains reports whether the segment contains [start, end).
func (s Segment) Contains(start, end int) bool {
	return s.Start <= start && end <= s.End
}

// Position records one occurrence of an identifier: a half-open offset
// range into the owning document, the document URI it was stamped with,
// denormalized line/column pairs for both endpoints (cached so merges
// and queries never re-resolve offsets), an optional enclosing scope
// for locally-valid occurrences, and optional visibility rules.
type Position struct {
	Start int `json:"start"`
	End   int `json:"end"`

	URI uri.URI `json:"uri,omitempty"`

	StartPos protocol.Position `json:"startPos"`
	EndPos   protocol.Position `json:"endPos"`

	Scope      *Segment     `json:"scope,omitempty"`
	Visibility []Visibility `json:"visibility,omitempty"`
}

// Contains reports whether offset falls inside the position, inclusive
// of both endpoints. The end offset is deliberately included so that a
// cursor sitting immediately after the last character still hits.
func (p Position) Contains(offset int) bool {
	return p.Start <= offset && offset <= p.End
}

// Range renders the denormalized line/column pair as a protocol range.
func (p Position) Range() protocol.Range {
	return protocol.Range{Start: p.StartPos, End: p.EndPos}
}

func (p Position) validate() error {
	if p.Start < 0 {
		return fmt.Errorf("position start %d is negative", p.Start)
	}
	if p.Start > p.End {
		return fmt.Errorf("position start %d exceeds end %d", p.Start, p.End)
	}
	if p.Scope != nil && !p.Scope.Contains(p.Start, p.End) {
		return fmt.Errorf("scope [%d,%d) does not contain position [%d,%d)", p.Scope.Start, p.Scope.End, p.Start, p.End)
	}
	return nil
}

// Unit collects everything known about one identifier within one
// category: its declaring, defining and referencing positions plus
// optional documentation. A Unit whose three sequences are all empty is
// garbage and is collected by Trim.
type Unit struct {
	Declarations  []Position `json:"dcl,omitempty"`
	Definitions   []Position `json:"def,omitempty"`
	References    []Position `json:"ref,omitempty"`
	Documentation string     `json:"doc,omitempty"`
}

// Positions returns the sequence for the given kind. The returned slice
// aliases the Unit's storage.
func (u *Unit) Positions(kind PositionKind) []Position {
	switch kind {
	case KindDeclaration:
		return u.Declarations
	case KindDefinition:
		return u.Definitions
	default:
		return u.References
	}
}

func (u *Unit) setPositions(kind PositionKind, positions []Position) {
	switch kind {
	case KindDeclaration:
		u.Declarations = positions
	case KindDefinition:
		u.Definitions = positions
	default:
		u.References = positions
	}
}

// IsEmpty reports whether all three position sequences are empty,
// regardless of documentation.
func (u *Unit) IsEmpty() bool {
	return len(u.Declarations) == 0 && len(u.Definitions) == 0 && len(u.References) == 0
}

// hasContent reports whether the unit contributes anything to a merge.
func (u *Unit) hasContent() bool {
	return !u.IsEmpty() || u.Documentation != ""
}

// Clone returns a deep copy sharing no storage with the receiver.
func (u *Unit) Clone() *Unit {
	return &Unit{
		Declarations:  clonePositions(u.Declarations),
		Definitions:   clonePositions(u.Definitions),
		References:    clonePositions(u.References),
		Documentation: u.Documentation,
	}
}

func clonePositions(positions []Position) []Position {
	if positions == nil {
		return nil
	}
	out := make([]Position, len(positions))
	for i, p := range positions {
		out[i] = p
		if p.Scope != nil {
			scope := *p.Scope
			out[i].Scope = &scope
		}
		if p.Visibility != nil {
			out[i].Visibility = append([]Visibility(nil), p.Visibility...)
		}
	}
	return out
}

// Category maps identity strings to Units, preserving insertion order
// so iteration (and therefore point-query tie-breaking) is stable.
type Category struct {
	units map[string]*Unit
	order []string
}

// NewCategory creates an empty category.
func NewCategory() *Category {
	return &Category{units: make(map[string]*Unit)}
}

// Get returns the unit for an identity, or nil if absent.
func (c *Category) Get(identity string) *Unit {
	return c.units[identity]
}

// Set inserts or replaces the unit for an identity.
func (c *Category) Set(identity string, unit *Unit) {
	if _, exists := c.units[identity]; !exists {
		c.order = append(c.order, identity)
	}
	c.units[identity] = unit
}

// Delete removes an identity and its unit.
func (c *Category) Delete(identity string) {
	if _, exists := c.units[identity]; !exists {
		return
	}
	delete(c.units, identity)
	for i, id := range c.order {
		if id == identity {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// Identities returns the identity keys in insertion order. The returned
// slice is a copy.
func (c *Category) Identities() []string {
	return append([]string(nil), c.order...)
}

// Len returns the number of units.
func (c *Category) Len() int {
	return len(c.units)
}

// Clone returns a deep copy of the category.
func (c *Category) Clone() *Category {
	out := NewCategory()
	for _, id := range c.order {
		out.Set(id, c.units[id].Clone())
	}
	return out
}

// MarshalJSON renders the category as a JSON object in insertion order.
func (c *Category) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(c.order), func(i int) (string, interface{}) {
		return c.order[i], c.units[c.order[i]]
	})
}

// UnmarshalJSON rebuilds the category, keeping the file's key order.
func (c *Category) UnmarshalJSON(data []byte) error {
	c.units = make(map[string]*Unit)
	c.order = nil
	return unmarshalOrdered(data, func(key string, raw json.RawMessage) error {
		unit := &Unit{}
		if err := json.Unmarshal(raw, unit); err != nil {
			return fmt.Errorf("unit %q: %w", key, err)
		}
		c.Set(key, unit)
		return nil
	})
}

// Cache is the workspace-wide identifier index: an ordered map from
// CacheType to Category. One Cache instance is shared for the lifetime
// of a language-tool session; see Session for the locking discipline.
type Cache struct {
	categories map[CacheType]*Category
	order      []CacheType
}

// NewCache creates the canonical empty cache.
func NewCache() *Cache {
	return &Cache{categories: make(map[CacheType]*Category)}
}

// Category returns the category for a type, or an empty throwaway
// category if absent. The empty result is not inserted into the cache,
// so read-only callers never grow it.
func (c *Cache) Category(t CacheType) *Category {
	if cat, ok := c.categories[t]; ok {
		return cat
	}
	return NewCategory()
}

// has reports whether a category exists without creating one.
func (c *Cache) has(t CacheType) bool {
	_, ok := c.categories[t]
	return ok
}

// Unit returns the unit for an identity under a type, seeding an empty
// Unit (and Category) if absent.
func (c *Cache) Unit(t CacheType, identity string) *Unit {
	cat, ok := c.categories[t]
	if !ok {
		cat = NewCategory()
		c.categories[t] = cat
		c.order = append(c.order, t)
	}
	unit := cat.Get(identity)
	if unit == nil {
		unit = &Unit{}
		cat.Set(identity, unit)
	}
	return unit
}

// Types returns the cached types in insertion order. The returned slice
// is a copy.
func (c *Cache) Types() []CacheType {
	return append([]CacheType(nil), c.order...)
}

// deleteCategory removes a whole category.
func (c *Cache) deleteCategory(t CacheType) {
	if _, ok := c.categories[t]; !ok {
		return
	}
	delete(c.categories, t)
	for i, existing := range c.order {
		if existing == t {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// FoundIdentity is the result of a point query.
type FoundIdentity struct {
	Type     CacheType
	Identity string
	Kind     PositionKind
	Position Position
}

// FindIdentity scans every type, identity and position kind in
// insertion order and returns the first position containing the offset
// (both endpoints inclusive). The scan order is the behavioral
// contract: stable and deterministic, but overlapping ranges resolve to
// whichever was inserted first, not to the smallest.
func (c *Cache) FindIdentity(offset int) (FoundIdentity, bool) {
	for _, t := range c.order {
		cat := c.categories[t]
		for _, id := range cat.order {
			unit := cat.units[id]
			for _, kind := range PositionKinds {
				for _, pos := range unit.Positions(kind) {
					if pos.Contains(offset) {
						return FoundIdentity{Type: t, Identity: id, Kind: kind, Position: pos}, true
					}
				}
			}
		}
	}
	return FoundIdentity{}, false
}

// Clone returns a deep, independent copy of the whole cache. Queries
// that must stay stable across suspension points take one of these
// instead of holding a live reference into the shared cache; the cost
// is one allocation per category, unit and position slice.
func (c *Cache) Clone() *Cache {
	out := NewCache()
	for _, t := range c.order {
		out.categories[t] = c.categories[t].Clone()
		out.order = append(out.order, t)
	}
	return out
}

// UnitCount returns the total number of units across all categories.
func (c *Cache) UnitCount() int {
	total := 0
	for _, cat := range c.categories {
		total += cat.Len()
	}
	return total
}

// PositionCount returns the total number of positions of every kind.
func (c *Cache) PositionCount() int {
	total := 0
	for _, cat := range c.categories {
		for _, unit := range cat.units {
			total += len(unit.Declarations) + len(unit.Definitions) + len(unit.References)
		}
	}
	return total
}

// MarshalJSON renders the cache as a JSON object in insertion order.
func (c *Cache) MarshalJSON() ([]byte, error) {
	return marshalOrdered(len(c.order), func(i int) (string, interface{}) {
		return string(c.order[i]), c.categories[c.order[i]]
	})
}

// UnmarshalJSON rebuilds the cache, keeping the file's key order.
func (c *Cache) UnmarshalJSON(data []byte) error {
	c.categories = make(map[CacheType]*Category)
	c.order = nil
	return unmarshalOrdered(data, func(key string, raw json.RawMessage) error {
		t := CacheType(key)
		if !IsValidType(t) {
			return fmt.Errorf("unknown cache type %q", key)
		}
		cat := NewCategory()
		if err := json.Unmarshal(raw, cat); err != nil {
			return fmt.Errorf("category %q: %w", key, err)
		}
		c.categories[t] = cat
		c.order = append(c.order, t)
		return nil
	})
}

// marshalOrdered writes a JSON object whose keys appear in index order.
func marshalOrdered(n int, at func(int) (string, interface{})) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := 0; i < n; i++ {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, value := at(i)
		keyJSON, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		valueJSON, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		buf.Write(keyJSON)
		buf.WriteByte(':')
		buf.Write(valueJSON)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// unmarshalOrdered walks a JSON object's keys in file order.
func unmarshalOrdered(data []byte, visit func(key string, raw json.RawMessage) error) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("expected JSON object, got %v", tok)
	}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("expected object key, got %v", keyTok)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("value of %q: %w", key, err)
		}
		if err := visit(key, raw); err != nil {
			return err
		}
	}
	_, err = dec.Token()
	return err
}
