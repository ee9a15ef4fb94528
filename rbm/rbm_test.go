package rbm

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorgonia.org/tensor"
)

func zeroWeights(m *Machine) {
	for _, row := range m.Weights() {
		for j := range row {
			row[j] = 0
		}
	}
}

func TestNew(t *testing.T) {
	m := New(5, 3, WithSeed(1))
	assert.Equal(t, 5, m.NumVisible())
	assert.Equal(t, 3, m.NumHidden())
	assert.Len(t, m.Visible(), 6)
	assert.Len(t, m.Hidden(), 4)
	assert.Equal(t, byte(1), m.Visible()[5], "visible bias")
	assert.Equal(t, byte(1), m.Hidden()[3], "hidden bias")

	w := m.Weights()
	require.Len(t, w, 6)
	var nonzero int
	for _, row := range w {
		require.Len(t, row, 4)
		for _, v := range row {
			if v != 0 {
				nonzero++
			}
			assert.True(t, v > -1 && v < 1, "initial weights are small: %v", v)
		}
	}
	assert.NotZero(t, nonzero)
	assert.True(t, m.Config.IsValid())
}

func TestSetInput(t *testing.T) {
	m := New(5, 3, WithSeed(1))
	m.SetInput([]byte{1, 1, 1, 1, 1, 1, 1, 1})
	assert.Equal(t, Units{1, 1, 1, 1, 1, 1}, m.Visible())

	m.SetInput([]byte{0, 0})
	assert.Equal(t, Units{0, 0, 1, 1, 1, 1}, m.Visible(), "short inputs only overwrite a prefix")
}

func TestActivateHiddenReplay(t *testing.T) {
	const seed = 1337
	m := New(6, 8, WithSeed(1))
	zeroWeights(m)
	m.SetInput([]byte{1, 0, 1, 0, 1, 0})
	m.Reseed(seed)
	m.ActivateHidden()

	// with zero weights every hidden unit fires with probability exactly 0.5
	r := rand.New(rand.NewSource(seed))
	expected := NewUnits(8)
	for j := 0; j < expected.Len(); j++ {
		if r.Float64() < 0.5 {
			expected[j] = 1
		} else {
			expected[j] = 0
		}
	}
	assert.Equal(t, expected, m.Hidden())

	m.Reseed(seed)
	m.ActivateHidden()
	assert.Equal(t, expected, m.Hidden(), "reseeding replays the same states")
}

func TestEnergy(t *testing.T) {
	m := New(3, 2, WithSeed(1))
	zeroWeights(m)
	w := m.Weights()
	w[0][0], w[0][1], w[0][2] = 1, 2, 3
	w[1][0] = 100 // unit 1 is off
	w[2][1] = 0.5
	w[3][2] = 0.25 // bias to bias

	m.SetInput([]byte{1, 0, 1})
	copy(m.Hidden(), []byte{0, 1, 1})

	// active pairs: (0,1) (0,2) (2,1) (2,2) (3,1) (3,2)
	assert.InDelta(t, -(2 + 3 + 0.5 + 0.25), m.Energy(), 1e-6)

	zeroWeights(m)
	assert.Equal(t, float32(0), m.Energy())
}

func TestUpdateWeights(t *testing.T) {
	m := New(2, 2, WithSeed(1), WithLearningRate(0.2))
	zeroWeights(m)
	m.pos[0][0] = 2
	m.neg[0][0] = 1
	m.neg[1][1] = 4

	m.UpdateWeights(4)
	w := m.Weights()
	assert.InDelta(t, 0.05, w[0][0], 1e-6)
	assert.InDelta(t, -0.2, w[1][1], 1e-6)
	assert.Equal(t, float32(0), w[2][2])

	for i := range m.pos {
		for j := range m.pos[i] {
			assert.Equal(t, float32(0), m.pos[i][j])
			assert.Equal(t, float32(0), m.neg[i][j])
		}
	}
}

func TestTrainZeroCycles(t *testing.T) {
	m := New(6, 4, WithSeed(7))
	before := m.WeightsTensor().Clone().(*tensor.Dense)
	m.SetInput([]byte{1, 1, 0, 0, 1, 0})
	m.Train(0)
	m.UpdateWeights(1)
	assert.Equal(t, before.Data(), m.WeightsTensor().Data(), "positive and negative phases cancel")
}

func TestTrainLowersEnergy(t *testing.T) {
	m := New(8, 6, WithSeed(3))
	pattern := []byte{1, 1, 1, 1, 0, 0, 0, 0}

	energy := func() float32 {
		var total float32
		for i := 0; i < 50; i++ {
			m.SetInput(pattern)
			m.ActivateHidden()
			total += m.Energy()
		}
		return total / 50
	}
	before := energy()
	for epoch := 0; epoch < 200; epoch++ {
		m.SetInput(pattern)
		m.Train(1)
		m.UpdateWeights(1)
	}
	assert.True(t, energy() < before, "a trained pattern sits lower in the energy landscape")
}

func TestSharedUnits(t *testing.T) {
	a := New(4, 3, WithSeed(1))
	b := NewShared(a.Hidden(), 2, WithSeed(2))
	assert.Equal(t, 3, b.NumVisible())
	assert.True(t, &a.Hidden()[0] == &b.Visible()[0], "the buffer is shared, not copied")

	a.Hidden()[1] = 1
	assert.Equal(t, byte(1), b.Visible()[1])

	b.ActivateVisible()
	assert.Equal(t, b.Visible(), a.Hidden())
	assert.Equal(t, byte(1), a.Hidden()[a.Hidden().Bias()], "bias survives activation")
}

func TestSetWeights(t *testing.T) {
	m := New(3, 2, WithSeed(1))
	ok := tensor.New(tensor.WithShape(4, 3), tensor.WithBacking(make([]float32, 12)))
	require.NoError(t, m.SetWeights(ok))
	assert.Equal(t, float32(0), m.Energy())

	bad := tensor.New(tensor.WithShape(3, 3), tensor.WithBacking(make([]float32, 9)))
	err := m.SetWeights(bad)
	require.Error(t, err)
	_, isConf := errors.Cause(err).(ConfigurationError)
	assert.True(t, isConf)
}

func TestMachineGob(t *testing.T) {
	m := NewInput(6, 3, WithSeed(5))
	in, _ := m.Input()
	require.NoError(t, in.MakeGroup(0, 3))
	require.NoError(t, in.AddGroup(Group{Start: 3, End: 5}))
	in.ClampRange(4, 6)

	p, err := m.GobEncode()
	require.NoError(t, err)

	var m2 Machine
	require.NoError(t, m2.GobDecode(p))
	assert.Equal(t, m.WeightsTensor().Data(), m2.WeightsTensor().Data())
	in2, ok := m2.Input()
	require.True(t, ok)
	assert.Equal(t, in.Groups(), in2.Groups())
	assert.Equal(t, in.Clamped(), in2.Clamped())
	assert.Equal(t, m.Config, m2.Config)
}
