package improv

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeIterator(t *testing.T) {
	grid := []float32{0, 1, 2, 3, 4, 5}
	it := MakeIterator(grid, 2, 3)
	require.Len(t, it, 2)
	assert.Equal(t, []float32{3, 4, 5}, it[1])

	it[1][2] = 9
	assert.Equal(t, float32(9), grid[5], "rows are views of the grid")
	assert.Len(t, it[0], 3)
	assert.Equal(t, 3, cap(it[0]), "rows cannot grow into the next")

	ReturnIterator(2, it)
	it = MakeIterator(grid, 2, 3)
	assert.Equal(t, []float32{0, 1, 2}, it[0])
	ReturnIterator(2, it)
}
