package rbm

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Activation is a visible activation policy.
type Activation byte

const (
	Stochastic Activation = iota // sample every unit independently
	MaxProb                      // most probable unit of each one-hot group wins
	ProbDist                     // one unit of each one-hot group is drawn from the group's distribution
)

func (a Activation) String() string {
	switch a {
	case Stochastic:
		return "stochastic"
	case MaxProb:
		return "maxprob"
	case ProbDist:
		return "probdist"
	}
	return "unknown"
}

// VisibleLayer is the visible side of a Machine. There are two kinds: the plain
// layer every machine gets by default, and the *InputLayer which supports
// groups and clamping.
type VisibleLayer interface {
	// Units returns the unit states, bias included.
	Units() Units

	// SetInput overwrites the non-bias units with in.
	SetInput(in []byte)

	activate(m *Machine, policy Activation)
}

// plainLayer has no groups, so every policy is the independent stochastic rule.
type plainLayer struct {
	units Units
}

func (l plainLayer) Units() Units { return l.units }

func (l plainLayer) SetInput(in []byte) { l.units.Load(in) }

func (l plainLayer) activate(m *Machine, _ Activation) {
	for i := 0; i < l.units.Len(); i++ {
		l.units[i] = m.sample(m.visibleSum(i), 1)
	}
}

// InputLayer is a visible layer with per-unit clamps and groups. Clamped
// units are never written by any activation; SetInput is the only way to
// change them.
type InputLayer struct {
	units     Units
	clamped   []bool
	groups    []Group
	ungrouped []int // index of the unit, or -1 if a one-hot group covers it
}

// NewInputLayer creates an input layer of n units plus bias.
func NewInputLayer(n int) *InputLayer {
	retVal := &InputLayer{
		units:   NewUnits(n),
		clamped: make([]bool, n),
	}
	retVal.computeUngrouped()
	return retVal
}

func (l *InputLayer) Units() Units { return l.units }

// SetInput overwrites the units regardless of clamps and recomputes the
// ungrouped table.
func (l *InputLayer) SetInput(in []byte) {
	l.units.Load(in)
	l.computeUngrouped()
}

// Clamp fixes unit i. Out of range indices are ignored.
func (l *InputLayer) Clamp(i int) {
	if i >= 0 && i < len(l.clamped) {
		l.clamped[i] = true
	}
}

// ClampRange clamps [start, end), clipped to the layer.
func (l *InputLayer) ClampRange(start, end int) { l.setClamp(start, end, true) }

// Unclamp releases unit i. Out of range indices are ignored.
func (l *InputLayer) Unclamp(i int) {
	if i >= 0 && i < len(l.clamped) {
		l.clamped[i] = false
	}
}

// UnclampRange releases [start, end), clipped to the layer.
func (l *InputLayer) UnclampRange(start, end int) { l.setClamp(start, end, false) }

func (l *InputLayer) UnclampAll() {
	for i := range l.clamped {
		l.clamped[i] = false
	}
}

func (l *InputLayer) IsClamped(i int) bool {
	return i >= 0 && i < len(l.clamped) && l.clamped[i]
}

// Clamped returns a copy of the clamp flags.
func (l *InputLayer) Clamped() []bool {
	retVal := make([]bool, len(l.clamped))
	copy(retVal, l.clamped)
	return retVal
}

func (l *InputLayer) setClamp(start, end int, v bool) {
	if start < 0 {
		start = 0
	}
	if end > len(l.clamped) {
		end = len(l.clamped)
	}
	for i := start; i < end; i++ {
		l.clamped[i] = v
	}
}

// MakeGroup adds the one-hot group [start, end).
func (l *InputLayer) MakeGroup(start, end int) error {
	return l.AddGroup(Group{Start: start, End: end, OneHot: true})
}

// AddGroup adds g, clipped to the layer. Empty groups are dropped. A group
// that conflicts with one already added is rejected.
func (l *InputLayer) AddGroup(g Group) error {
	if g.Start < 0 {
		g.Start = 0
	}
	if g.End > l.units.Len() {
		g.End = l.units.Len()
	}
	if g.Len() <= 0 {
		return nil
	}
	for _, h := range l.groups {
		if g.Conflicts(h) {
			return errors.WithStack(ConfigurationError{What: "group " + g.String(), Expected: "no overlap with a one-hot group", Actual: h})
		}
	}
	l.groups = append(l.groups, g)
	l.computeUngrouped()
	return nil
}

// Groups returns the groups in the order they were added.
func (l *InputLayer) Groups() []Group {
	retVal := make([]Group, len(l.groups))
	copy(retVal, l.groups)
	return retVal
}

// Ungrouped returns the ungrouped table: i where unit i is outside every
// one-hot group, -1 otherwise.
func (l *InputLayer) Ungrouped() []int {
	retVal := make([]int, len(l.ungrouped))
	copy(retVal, l.ungrouped)
	return retVal
}

func (l *InputLayer) computeUngrouped() {
	if len(l.ungrouped) != l.units.Len() {
		l.ungrouped = make([]int, l.units.Len())
	}
	for i := range l.ungrouped {
		l.ungrouped[i] = i
	}
	for _, g := range l.groups {
		if !g.OneHot {
			continue
		}
		for i := g.Start; i < g.End; i++ {
			l.ungrouped[i] = -1
		}
	}
}

func (l *InputLayer) set(i int, v byte) {
	if !l.clamped[i] {
		l.units[i] = v
	}
}

func (l *InputLayer) activate(m *Machine, policy Activation) {
	switch policy {
	case MaxProb:
		for _, g := range l.groups {
			if g.OneHot {
				l.maxProb(m, g)
			}
		}
		l.activateUngrouped(m)
	case ProbDist:
		for _, g := range l.groups {
			if g.OneHot {
				l.probDist(m, g)
			}
		}
		l.activateUngrouped(m)
	default:
		for i := 0; i < l.units.Len(); i++ {
			if l.clamped[i] {
				continue
			}
			l.units[i] = m.sample(m.visibleSum(i), 1)
		}
	}
}

func (l *InputLayer) maxProb(m *Machine, g Group) {
	best := g.Start
	maxP := math32.Inf(-1)
	for i := g.Start; i < g.End; i++ {
		if p := m.visibleProb(i); p > maxP {
			maxP = p
			best = i
		}
	}
	for i := g.Start; i < g.End; i++ {
		l.set(i, 0)
	}
	l.set(best, 1)
}

func (l *InputLayer) probDist(m *Machine, g Group) {
	cumulative := make([]float32, g.Len())
	var total float32
	for i := range cumulative {
		cumulative[i] = m.visibleProb(g.Start + i)
		total += cumulative[i]
	}
	var acc float32
	for i := range cumulative {
		acc += cumulative[i] / total
		cumulative[i] = acc
	}

	// rounding can leave the last bound just under the draw
	best := g.End - 1
	check := float32(m.rand.Float64())
	for i, c := range cumulative {
		if check < c {
			best = g.Start + i
			break
		}
	}
	for i := g.Start; i < g.End; i++ {
		l.set(i, 0)
	}
	l.set(best, 1)
}

func (l *InputLayer) activateUngrouped(m *Machine) {
	for _, i := range l.ungrouped {
		if i < 0 || l.clamped[i] {
			continue
		}
		l.units[i] = m.sample(m.visibleSum(i), 1)
	}
}
