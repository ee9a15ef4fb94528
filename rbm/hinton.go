package rbm

import (
	"github.com/pkg/errors"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// Float is the dtype of every weight.
var Float = G.Float32

type maebe struct {
	err error
}

func (m *maebe) do(f func() (*G.Node, error)) (retVal *G.Node) {
	if m.err != nil {
		return nil
	}
	if retVal, m.err = f(); m.err != nil {
		m.err = errors.WithStack(m.err)
	}
	return
}

func (m *maebe) run(g *G.ExprGraph, out *G.Node) []float32 {
	if m.err != nil {
		return nil
	}
	var v G.Value
	G.Read(out, &v)
	vm := G.NewTapeMachine(g)
	defer vm.Close()
	if m.err = vm.RunAll(); m.err != nil {
		m.err = errors.WithStack(m.err)
		return nil
	}
	data := v.Data().([]float32)
	retVal := make([]float32, len(data))
	copy(retVal, data)
	return retVal
}

func (m *Machine) weightNode(g *G.ExprGraph) *G.Node {
	w := m.weights.Clone().(*tensor.Dense)
	return G.NewMatrix(g, Float, G.WithShape(w.Shape()...), G.WithValue(w), G.WithName("W"))
}

func unitNode(g *G.ExprGraph, u Units, name string) *G.Node {
	t := tensor.New(tensor.WithShape(len(u)), tensor.WithBacking(u.Float32s(nil)))
	return G.NewVector(g, Float, G.WithShape(len(u)), G.WithValue(t), G.WithName(name))
}

// VisibleProbabilities returns sigmoid(W·h) for the current hidden state: the
// probability each visible unit (bias included) turns on at temperature 1.
func (m *Machine) VisibleProbabilities() ([]float32, error) {
	var mb maebe
	g := G.NewGraph()
	w := m.weightNode(g)
	h := unitNode(g, m.hidden, "h")

	sum := mb.do(func() (*G.Node, error) { return G.Mul(w, h) })
	prob := mb.do(func() (*G.Node, error) { return G.Sigmoid(sum) })
	retVal := mb.run(g, prob)
	return retVal, mb.err
}

// HiddenProbabilities returns sigmoid(Wᵀ·v / AnnealingRate) for the current
// visible state, bias column included.
func (m *Machine) HiddenProbabilities() ([]float32, error) {
	var mb maebe
	g := G.NewGraph()
	w := m.weightNode(g)
	v := unitNode(g, m.visible.Units(), "v")
	invT := G.NewConstant(float32(1)/m.AnnealingRate, G.WithName("1/T"))

	wT := mb.do(func() (*G.Node, error) { return G.Transpose(w) })
	sum := mb.do(func() (*G.Node, error) { return G.Mul(wT, v) })
	scaled := mb.do(func() (*G.Node, error) { return G.Mul(sum, invT) })
	prob := mb.do(func() (*G.Node, error) { return G.Sigmoid(scaled) })
	retVal := mb.run(g, prob)
	return retVal, mb.err
}

// HintonDiagram lays the visible activation probabilities out as rows x cols.
// Cells past the last visible unit are left at zero.
func (m *Machine) HintonDiagram(rows, cols int) ([][]float32, error) {
	probs, err := m.VisibleProbabilities()
	if err != nil {
		return nil, err
	}
	n := m.NumVisible()
	retVal := make([][]float32, rows)
	for r := range retVal {
		retVal[r] = make([]float32, cols)
		for c := range retVal[r] {
			if i := r*cols + c; i < n {
				retVal[r][c] = probs[i]
			}
		}
	}
	return retVal, nil
}
