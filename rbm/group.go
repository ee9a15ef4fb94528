package rbm

import "fmt"

// Group is a contiguous half-open range [Start, End) of visible units. A
// one-hot group has exactly one active unit after a grouped activation.
type Group struct {
	Start, End int
	OneHot     bool
}

func (g Group) Len() int { return g.End - g.Start }

func (g Group) Contains(i int) bool { return i >= g.Start && i < g.End }

// Overlaps reports whether g and o share a unit.
func (g Group) Overlaps(o Group) bool { return g.Start < o.End && o.Start < g.End }

// Conflicts reports whether g and o may not both belong to one layer: they
// overlap and at least one of them is one-hot.
func (g Group) Conflicts(o Group) bool { return (g.OneHot || o.OneHot) && g.Overlaps(o) }

func (g Group) String() string {
	if g.OneHot {
		return fmt.Sprintf("[%d, %d)*", g.Start, g.End)
	}
	return fmt.Sprintf("[%d, %d)", g.Start, g.End)
}

// Tile repeats a per-row group layout over rows rows of cols columns each.
func Tile(layout []Group, rows, cols int) []Group {
	retVal := make([]Group, 0, len(layout)*rows)
	for row := 0; row < rows; row++ {
		offset := row * cols
		for _, g := range layout {
			retVal = append(retVal, Group{
				Start:  g.Start + offset,
				End:    g.End + offset,
				OneHot: g.OneHot,
			})
		}
	}
	return retVal
}
