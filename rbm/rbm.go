package rbm

import (
	"math/rand"
	"time"

	"github.com/chewxy/math32"
	"github.com/pkg/errors"
	"gorgonia.org/tensor"
	"gorgonia.org/tensor/native"
	"gorgonia.org/vecf32"
)

// Machine is a restricted Boltzmann machine with binary stochastic units.
//
// The weight matrix has (visible+1) rows and (hidden+1) columns; the last row
// and the last column belong to the bias units. Every stochastic unit decision
// consumes exactly one draw from the machine's own random source, in index
// order, so a machine replays exactly once it is reseeded.
type Machine struct {
	Config

	visible VisibleLayer
	hidden  Units

	weights, dPos, dNeg *tensor.Dense
	w, pos, neg         [][]float32 // row views of the above

	rand *rand.Rand
}

// ConsOpt is a construction option for a Machine.
type ConsOpt func(m *Machine)

// WithConfig sets the learning rate, annealing rate and initial weight scale.
func WithConfig(conf Config) ConsOpt {
	return func(m *Machine) { m.Config = conf }
}

// WithRand makes the machine draw from r.
func WithRand(r *rand.Rand) ConsOpt {
	return func(m *Machine) { m.rand = r }
}

// WithSeed makes the machine draw from a source seeded with seed.
func WithSeed(seed int64) ConsOpt {
	return func(m *Machine) { m.rand = rand.New(rand.NewSource(seed)) }
}

// WithLearningRate overrides the learning rate.
func WithLearningRate(lr float32) ConsOpt {
	return func(m *Machine) { m.LearningRate = lr }
}

// New creates a machine with its own visible units.
func New(numVisible, numHidden int, opts ...ConsOpt) *Machine {
	return build(plainLayer{NewUnits(numVisible)}, numHidden, opts...)
}

// NewShared creates a machine whose visible units are visible. The slice is
// not copied: writes by either owner are seen by both. len(visible) includes
// the bias unit.
func NewShared(visible Units, numHidden int, opts ...ConsOpt) *Machine {
	return build(plainLayer{visible}, numHidden, opts...)
}

// NewInput creates a machine whose visible side is an *InputLayer, so its
// units may be grouped and clamped.
func NewInput(numVisible, numHidden int, opts ...ConsOpt) *Machine {
	return build(NewInputLayer(numVisible), numHidden, opts...)
}

func build(visible VisibleLayer, numHidden int, opts ...ConsOpt) *Machine {
	m := &Machine{
		Config:  DefaultConf(),
		visible: visible,
		hidden:  NewUnits(numHidden),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.rand == nil {
		m.rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	rows, cols := len(visible.Units()), len(m.hidden)
	m.weights = tensor.New(tensor.WithShape(rows, cols), tensor.Of(tensor.Float32))
	m.dPos = tensor.New(tensor.WithShape(rows, cols), tensor.Of(tensor.Float32))
	m.dNeg = tensor.New(tensor.WithShape(rows, cols), tensor.Of(tensor.Float32))
	m.views()

	for _, row := range m.w {
		for j := range row {
			row[j] = m.InitScale * float32(m.rand.NormFloat64())
		}
	}
	return m
}

func (m *Machine) views() {
	var err error
	if m.w, err = native.MatrixF32(m.weights); err != nil {
		panic(err)
	}
	if m.pos, err = native.MatrixF32(m.dPos); err != nil {
		panic(err)
	}
	if m.neg, err = native.MatrixF32(m.dNeg); err != nil {
		panic(err)
	}
}

// Visible returns the visible units, bias included.
func (m *Machine) Visible() Units { return m.visible.Units() }

// Hidden returns the hidden units, bias included. A machine stacked on top of
// this one shares the returned slice as its visible units.
func (m *Machine) Hidden() Units { return m.hidden }

// Layer returns the visible layer.
func (m *Machine) Layer() VisibleLayer { return m.visible }

// Input returns the visible layer as an *InputLayer, if it is one.
func (m *Machine) Input() (*InputLayer, bool) {
	in, ok := m.visible.(*InputLayer)
	return in, ok
}

func (m *Machine) NumVisible() int { return m.visible.Units().Len() }
func (m *Machine) NumHidden() int  { return m.hidden.Len() }

// Weights returns row views of the weight matrix. Writes go to the machine.
func (m *Machine) Weights() [][]float32 { return m.w }

// WeightsTensor returns the weight matrix.
func (m *Machine) WeightsTensor() *tensor.Dense { return m.weights }

// SetWeights copies w into the weight matrix.
func (m *Machine) SetWeights(w *tensor.Dense) error {
	if !w.Shape().Eq(m.weights.Shape()) {
		return errors.WithStack(ConfigurationError{What: "weight matrix shape", Expected: m.weights.Shape(), Actual: w.Shape()})
	}
	data, ok := w.Data().([]float32)
	if !ok {
		return errors.WithStack(ConfigurationError{What: "weight matrix dtype", Expected: tensor.Float32, Actual: w.Dtype()})
	}
	copy(m.weights.Data().([]float32), data)
	return nil
}

func (m *Machine) SetAnnealingRate(rate float32) { m.AnnealingRate = rate }

// Reseed replaces the random source.
func (m *Machine) Reseed(seed int64) { m.rand = rand.New(rand.NewSource(seed)) }

// SetInput copies in into the visible units. Only min(len(in), NumVisible())
// values are copied; the bias unit is never touched.
func (m *Machine) SetInput(in []byte) { m.visible.SetInput(in) }

// ActivateHidden samples every non-bias hidden unit with probability
// sigmoid(sum/AnnealingRate), where sum is the total weight from the active
// visible units (bias included).
func (m *Machine) ActivateHidden() {
	visible := m.visible.Units()
	for j := 0; j < m.hidden.Len(); j++ {
		var sum float32
		for i, v := range visible {
			if v == 1 {
				sum += m.w[i][j]
			}
		}
		m.hidden[j] = m.sample(sum, m.AnnealingRate)
	}
}

// ActivateVisible samples the visible units at temperature 1. Clamped units of
// an *InputLayer keep their values.
func (m *Machine) ActivateVisible() { m.visible.activate(m, Stochastic) }

// ActivateVisibleMaxProb activates the most probable unit of every one-hot
// group and samples the rest independently. On a plain layer it is the same as
// ActivateVisible.
func (m *Machine) ActivateVisibleMaxProb() { m.visible.activate(m, MaxProb) }

// ActivateVisibleProbDist picks one unit of every one-hot group by sampling
// the group's normalized probabilities, and samples the rest independently.
func (m *Machine) ActivateVisibleProbDist() { m.visible.activate(m, ProbDist) }

// ActivateVisibleWith dispatches on the activation policy.
func (m *Machine) ActivateVisibleWith(a Activation) { m.visible.activate(m, a) }

// ActivateUngrouped samples only the units outside one-hot groups.
func (m *Machine) ActivateUngrouped() {
	if in, ok := m.visible.(*InputLayer); ok {
		in.activateUngrouped(m)
		return
	}
	m.visible.activate(m, Stochastic)
}

// Train runs one contrastive divergence step of cycles Gibbs cycles on the
// current visible state. The positive statistics are taken after the first
// hidden activation, the negative ones after the last.
func (m *Machine) Train(cycles int) {
	m.ActivateHidden()
	m.accumulate(m.pos)
	for i := 0; i < cycles; i++ {
		m.ActivateVisible()
		m.ActivateHidden()
	}
	m.accumulate(m.neg)
}

func (m *Machine) accumulate(acc [][]float32) {
	for i, v := range m.visible.Units() {
		if v != 1 {
			continue
		}
		row := acc[i]
		for j, h := range m.hidden {
			row[j] += float32(h)
		}
	}
}

// UpdateWeights applies LearningRate*(dPos-dNeg)/batchSize to every weight and
// zeroes both accumulators.
func (m *Machine) UpdateWeights(batchSize int) {
	if batchSize < 1 {
		batchSize = 1
	}
	pos := m.dPos.Data().([]float32)
	neg := m.dNeg.Data().([]float32)
	vecf32.Sub(pos, neg)
	vecf32.Scale(pos, m.LearningRate/float32(batchSize))
	vecf32.Add(m.weights.Data().([]float32), pos)
	m.dPos.Zero()
	m.dNeg.Zero()
}

// Energy is -Σ v_i h_j w_ij over every visible/hidden pair, biases included.
func (m *Machine) Energy() float32 {
	var energy float32
	for i, v := range m.visible.Units() {
		if v == 0 {
			continue
		}
		for j, h := range m.hidden {
			if h == 1 {
				energy -= m.w[i][j]
			}
		}
	}
	return energy
}

// visibleSum is the total weight into visible unit i from the active hidden units.
func (m *Machine) visibleSum(i int) float32 {
	var sum float32
	row := m.w[i]
	for j, h := range m.hidden {
		if h == 1 {
			sum += row[j]
		}
	}
	return sum
}

func (m *Machine) visibleProb(i int) float32 { return sigmoid(m.visibleSum(i), 1) }

func (m *Machine) sample(sum, temperature float32) byte {
	if m.rand.Float64() < float64(sigmoid(sum, temperature)) {
		return 1
	}
	return 0
}

func sigmoid(x, temperature float32) float32 {
	return 1 / (1 + math32.Exp(-x/temperature))
}
