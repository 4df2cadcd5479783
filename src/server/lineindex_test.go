package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.lsp.dev/protocol"
)

func TestLineIndexPosition(t *testing.T) {
	idx := NewLineIndex([]byte("say hi\nsay bye\n\nsay end"))

	cases := map[int]protocol.Position{
		0:  {Line: 0, Character: 0},
		6:  {Line: 0, Character: 6},  // the newline itself
		7:  {Line: 1, Character: 0},  // first char of line 1
		15: {Line: 2, Character: 0},  // empty line
		16: {Line: 3, Character: 0},
		23: {Line: 3, Character: 7},  // end of content
	}
	for offset, want := range cases {
		assert.Equal(t, want, idx.Position(offset), "offset %d", offset)
	}
}

func TestLineIndexClampsOutOfRange(t *testing.T) {
	idx := NewLineIndex([]byte("abc"))
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, idx.Position(-5))
	assert.Equal(t, protocol.Position{Line: 0, Character: 3}, idx.Position(100))
}

func TestLineIndexEmptyContent(t *testing.T) {
	idx := NewLineIndex(nil)
	assert.Equal(t, protocol.Position{Line: 0, Character: 0}, idx.Position(0))
}
