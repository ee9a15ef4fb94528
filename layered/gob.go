package layered

import (
	"bytes"
	"encoding/gob"

	"github.com/gorgonia/improv/rbm"
	"github.com/pkg/errors"
)

type networkState struct {
	Config
	Trained []bool
	Layers  []*rbm.Machine
	Clamped []bool
}

// GobEncode encodes the configuration, training state and every layer's weights.
func (n *Network) GobEncode() ([]byte, error) {
	s := networkState{
		Config:  n.Config,
		Trained: n.trained,
		Layers:  n.layers,
		Clamped: n.input.Clamped(),
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(&s); err != nil {
		return nil, errors.WithStack(err)
	}
	return buf.Bytes(), nil
}

// GobDecode rebuilds the network, shared units included.
func (n *Network) GobDecode(p []byte) error {
	var s networkState
	if err := gob.NewDecoder(bytes.NewReader(p)).Decode(&s); err != nil {
		return errors.WithStack(err)
	}
	if len(s.Layers) != len(s.LayerSizes) || len(s.Trained) != len(s.LayerSizes) {
		return errors.WithStack(rbm.ConfigurationError{What: "encoded layers", Expected: len(s.LayerSizes), Actual: len(s.Layers)})
	}

	fresh, err := New(s.Config)
	if err != nil {
		return err
	}
	for i, l := range s.Layers {
		if err = fresh.SetWeights(i, l.WeightsTensor()); err != nil {
			return err
		}
		fresh.layers[i].Config = l.Config
	}
	for i, c := range s.Clamped {
		if c {
			fresh.input.Clamp(i)
		}
	}
	copy(fresh.trained, s.Trained)
	*n = *fresh
	return nil
}
