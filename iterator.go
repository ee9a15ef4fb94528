package improv

// MakeIterator makes row views of a flat m by n grid. Writes through a view go
// to grid. Give the views back with ReturnIterator when done.
func MakeIterator(grid []float32, m, n int) (retVal [][]float32) {
	retVal = borrowIterator(m)
	for i := range retVal {
		start := i * n
		retVal[i] = grid[start : start+n : start+n]
	}
	return
}
