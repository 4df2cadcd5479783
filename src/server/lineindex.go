package server

import (
	"go.lsp.dev/protocol"
)

// LineIndex resolves byte offsets in a document to line/column pairs.
// It records the start offset of every line once; lookups binary-search
// that table, so stamping a merge with hundreds of positions stays
// cheap.
type LineIndex struct {
	lineStarts []int
	length     int
}

// NewLineIndex builds the line table for the given content.
func NewLineIndex(content []byte) *LineIndex {
	idx := &LineIndex{lineStarts: []int{0}, length: len(content)}
	for i, b := range content {
		if b == '\n' {
			idx.lineStarts = append(idx.lineStarts, i+1)
		}
	}
	return idx
}

// Position resolves an offset. Offsets are clamped into the document,
// so a position pointing just past a shrunken document still resolves
// instead of corrupting the denormalized pair.
func (idx *LineIndex) Position(offset int) protocol.Position {
	if offset < 0 {
		offset = 0
	}
	if offset > idx.length {
		offset = idx.length
	}

	lo, hi := 0, len(idx.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if idx.lineStarts[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return protocol.Position{
		Line:      uint32(lo),
		Character: uint32(offset - idx.lineStarts[lo]),
	}
}
