package parallel_test

import (
	"testing"

	"github.com/on-the-ground/toolkit_go/parallel"
	"github.com/stretchr/testify/assert"
)

func TestChunk(t *testing.T) {
	assert.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, parallel.Chunk([]int{1, 2, 3, 4, 5}, 2))
	assert.Equal(t, [][]int{{1, 2, 3}}, parallel.Chunk([]int{1, 2, 3}, 10))
	assert.Empty(t, parallel.Chunk([]int{}, 3))
}

func TestChunk_AppendDoesNotClobber(t *testing.T) {
	chunks := parallel.Chunk([]int{1, 2, 3, 4}, 2)
	_ = append(chunks[0], 99)
	assert.Equal(t, []int{3, 4}, chunks[1])
}

func TestChunk_InvalidSizePanics(t *testing.T) {
	assert.Panics(t, func() { parallel.Chunk([]int{1}, 0) })
}
