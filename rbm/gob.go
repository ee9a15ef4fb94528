package rbm

import (
	"bytes"
	"encoding/gob"

	"github.com/pkg/errors"
	"gorgonia.org/tensor"
)

type machineState struct {
	Config
	Visible, Hidden int
	Weights         []float32

	Input   bool
	Groups  []Group
	Clamped []bool
}

// GobEncode encodes the sizes, configuration and weights. An input layer's
// groups and clamps are kept; unit states are not.
func (m *Machine) GobEncode() ([]byte, error) {
	s := machineState{
		Config:  m.Config,
		Visible: m.NumVisible(),
		Hidden:  m.NumHidden(),
		Weights: m.weights.Data().([]float32),
	}
	if in, ok := m.Input(); ok {
		s.Input = true
		s.Groups = in.groups
		s.Clamped = in.clamped
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the machine with fresh, unshared units and a time-seeded
// random source.
func (m *Machine) GobDecode(p []byte) error {
	var s machineState
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&s); err != nil {
		return errors.WithStack(err)
	}
	if len(s.Weights) != (s.Visible+1)*(s.Hidden+1) {
		return errors.WithStack(ConfigurationError{What: "encoded weights", Expected: (s.Visible + 1) * (s.Hidden + 1), Actual: len(s.Weights)})
	}

	var fresh *Machine
	if s.Input {
		fresh = NewInput(s.Visible, s.Hidden, WithConfig(s.Config))
		in := fresh.visible.(*InputLayer)
		for _, g := range s.Groups {
			if err := in.AddGroup(g); err != nil {
				return err
			}
		}
		copy(in.clamped, s.Clamped)
	} else {
		fresh = New(s.Visible, s.Hidden, WithConfig(s.Config))
	}
	w := tensor.New(tensor.WithShape(s.Visible+1, s.Hidden+1), tensor.WithBacking(s.Weights))
	if err := fresh.SetWeights(w); err != nil {
		return err
	}
	*m = *fresh
	return nil
}
