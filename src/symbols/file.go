package symbols

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"go.lsp.dev/uri"

	"github.com/Trivaxy/Spyglass/src/internal/common"
)

// FileState is the per-document bookkeeping stored next to the cache:
// a content checksum and the modification time observed when the
// document was last bound. A stored state that no longer matches the
// file on disk means the cached positions for that document are stale.
type FileState struct {
	Checksum uint64 `json:"checksum"`
	Modified int64  `json:"modified"`
}

// CacheFile is the persisted form of the symbol index: the cache
// itself, the per-document states, and the format version that gates
// compatibility.
type CacheFile struct {
	Cache   *Cache                `json:"cache"`
	Files   map[uri.URI]FileState `json:"files"`
	Version int                   `json:"version"`
}

// NewCacheFile returns an empty record at the current format version.
func NewCacheFile() *CacheFile {
	return &CacheFile{
		Cache:   NewCache(),
		Files:   make(map[uri.URI]FileState),
		Version: CacheVersion,
	}
}

// ChecksumContent hashes document content for change detection.
func ChecksumContent(content []byte) uint64 {
	return xxhash.Sum64(content)
}

// Track records the state of a freshly bound document.
func (f *CacheFile) Track(document uri.URI, content []byte, modified int64) {
	f.Files[document] = FileState{Checksum: ChecksumContent(content), Modified: modified}
}

// Untrack forgets a document's state, typically alongside
// RemoveByDocument.
func (f *CacheFile) Untrack(document uri.URI) {
	delete(f.Files, document)
}

// UpToDate reports whether the stored state for a document still
// matches the given content.
func (f *CacheFile) UpToDate(document uri.URI, content []byte) bool {
	state, ok := f.Files[document]
	return ok && state.Checksum == ChecksumContent(content)
}

// LoadCacheFile reads a persisted record from disk. A missing file, an
// unreadable record, or a version other than CacheVersion all yield a
// fresh empty record: an incompatible cache is discarded wholesale,
// never partially migrated.
func LoadCacheFile(path string) (*CacheFile, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewCacheFile(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	// Probe the version before decoding the cache body so an old
	// format never half-loads.
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		common.SymbolsLogger.Warningf("discarding unreadable cache file %s: %v", path, err)
		return NewCacheFile(), nil
	}
	if probe.Version != CacheVersion {
		common.SymbolsLogger.Infof("discarding cache file %s with version %d (current %d)", path, probe.Version, CacheVersion)
		return NewCacheFile(), nil
	}

	file := NewCacheFile()
	if err := json.Unmarshal(data, file); err != nil {
		common.SymbolsLogger.Warningf("discarding corrupt cache file %s: %v", path, err)
		return NewCacheFile(), nil
	}
	if file.Cache == nil {
		file.Cache = NewCache()
	}
	if file.Files == nil {
		file.Files = make(map[uri.URI]FileState)
	}
	return file, nil
}

// Save writes the record to disk, creating parent directories as
// needed.
func (f *CacheFile) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("failed to marshal cache file: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}
