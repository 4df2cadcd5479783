package server

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"golang.org/x/sync/errgroup"

	"github.com/Trivaxy/Spyglass/src/internal/common"
	"github.com/Trivaxy/Spyglass/src/symbols"
)

// Binder produces a document-local symbol cache from document content.
// Implementations live with the parser; the session only consumes the
// result. Positions in the returned cache are offsets into the given
// content, unstamped; the session stamps them during the merge.
type Binder interface {
	Bind(ctx context.Context, document uri.URI, content []byte) (*symbols.Cache, error)
}

// DocumentRegistry answers what identity and category a document
// declares, used only on the visibility fallback path.
type DocumentRegistry interface {
	Identity(document uri.URI) (symbols.CacheType, symbols.Identity, bool)
}

// Session owns the shared workspace cache for the lifetime of the
// language tool. Every mutation runs to completion under one exclusive
// lock; finer locking would still let a reader observe a half-merged
// cache, so there is none. Reads that must stay stable across await
// points take a deep copy instead of holding the lock.
type Session struct {
	mu       sync.Mutex
	file     *symbols.CacheFile
	binder   Binder
	registry DocumentRegistry
	policy   symbols.VisibilityPolicy
}

// NewSession creates a session around an empty cache.
func NewSession(binder Binder, registry DocumentRegistry, policy symbols.VisibilityPolicy) *Session {
	return &Session{
		file:     symbols.NewCacheFile(),
		binder:   binder,
		registry: registry,
		policy:   policy,
	}
}

// LoadFrom replaces the session's cache with the record persisted at
// path. Incompatible or unreadable records come back empty.
func (s *Session) LoadFrom(path string) error {
	file, err := symbols.LoadCacheFile(path)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.file = file
	s.mu.Unlock()
	common.ServerLogger.Infof("loaded symbol cache: %d units, %d positions", file.Cache.UnitCount(), file.Cache.PositionCount())
	return nil
}

// SaveTo persists the current record at path.
func (s *Session) SaveTo(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Save(path)
}

// DidOpen binds a freshly opened document and folds its symbols into
// the shared cache. Any positions a previous bind of the same document
// contributed are removed first, so reopening never duplicates.
func (s *Session) DidOpen(ctx context.Context, document uri.URI, content []byte, modified int64) error {
	return s.rebind(ctx, document, content, modified)
}

// DidChange translates the document's cached positions through the edit
// mapping. Content is the post-edit text, used to recompute line/column
// pairs and the stored checksum.
func (s *Session) DidChange(document uri.URI, content []byte, mapping symbols.IndexMapping, modified int64) error {
	idx := NewLineIndex(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := symbols.RemapDocument(s.file.Cache, document, mapping, idx.Position); err != nil {
		return err
	}
	s.file.Track(document, content, modified)
	return nil
}

// DidClose drops the document's positions and collects whatever units
// that leaves empty.
func (s *Session) DidClose(document uri.URI) {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols.RemoveByDocument(s.file.Cache, document)
	symbols.Trim(s.file.Cache)
	s.file.Untrack(document)
}

// Invalidate is DidClose for documents changed outside the editor; the
// watcher calls it before requesting a rebind.
func (s *Session) Invalidate(document uri.URI) {
	s.DidClose(document)
}

// Undeclare deletes one identifier entry outright.
func (s *Session) Undeclare(t symbols.CacheType, identity string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols.RemoveUnit(s.file.Cache, t, identity)
}

// Rebind re-binds a document whose content changed wholesale (e.g. a
// watcher-detected external write).
func (s *Session) Rebind(ctx context.Context, document uri.URI, content []byte, modified int64) error {
	return s.rebind(ctx, document, content, modified)
}

func (s *Session) rebind(ctx context.Context, document uri.URI, content []byte, modified int64) error {
	if s.binder == nil {
		return fmt.Errorf("session has no binder")
	}
	local, err := s.binder.Bind(ctx, document, content)
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", document, err)
	}

	idx := NewLineIndex(content)
	s.mu.Lock()
	defer s.mu.Unlock()
	symbols.RemoveByDocument(s.file.Cache, document)
	if _, err := symbols.Merge(s.file.Cache, local, &symbols.Stamp{URI: document, Resolve: idx.Position}); err != nil {
		return err
	}
	symbols.Trim(s.file.Cache)
	s.file.Track(document, content, modified)
	return nil
}

// BindAll binds a set of documents concurrently and folds each into the
// cache as it completes. Binding is read-only and fans out across CPUs;
// the merges themselves serialize on the session lock.
func (s *Session) BindAll(ctx context.Context, documents map[uri.URI][]byte, modified int64) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for document, content := range documents {
		document, content := document, content
		g.Go(func() error {
			return s.rebind(ctx, document, content, modified)
		})
	}
	return g.Wait()
}

// UpToDate reports whether the cached state for a document still
// matches the given content.
func (s *Session) UpToDate(document uri.URI, content []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.UpToDate(document, content)
}

// LookupAt answers "what is under the cursor": the first cached
// position of the given document containing the offset, in cache scan
// order.
func (s *Session) LookupAt(document uri.URI, offset int) (symbols.FoundIdentity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.file.Cache.Types() {
		cat := s.file.Cache.Category(t)
		for _, id := range cat.Identities() {
			unit := cat.Get(id)
			for _, kind := range symbols.PositionKinds {
				for _, pos := range unit.Positions(kind) {
					if pos.URI == document && pos.Contains(offset) {
						return symbols.FoundIdentity{Type: t, Identity: id, Kind: kind, Position: pos}, true
					}
				}
			}
		}
	}
	return symbols.FoundIdentity{}, false
}

// Snapshot returns a deep copy of the whole cache for reads that must
// stay stable after the lock is released.
func (s *Session) Snapshot() *symbols.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Cache.Clone()
}

// ForIdentity returns the visibility-scoped view of the cache for a
// requesting identity.
func (s *Session) ForIdentity(requestingType symbols.CacheType, requestingID symbols.Identity) *symbols.Cache {
	s.mu.Lock()
	defer s.mu.Unlock()
	return symbols.ForIdentity(s.file.Cache, requestingType, requestingID, s.policy, s.resolveIdentity)
}

// Completions lists completion items for a type, scoped to the
// requesting identity.
func (s *Session) Completions(requestingType symbols.CacheType, requestingID symbols.Identity, t symbols.CacheType, insertStart, insertEnd protocol.Position) []protocol.CompletionItem {
	scoped := s.ForIdentity(requestingType, requestingID)
	return symbols.Completions(scoped, t, insertStart, insertEnd)
}

func (s *Session) resolveIdentity(document uri.URI) (symbols.CacheType, symbols.Identity, bool) {
	if s.registry == nil {
		return "", symbols.Identity{}, false
	}
	return s.registry.Identity(document)
}
