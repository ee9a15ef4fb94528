package layered

import (
	"github.com/gorgonia/improv/rbm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Generate runs conf.Cycles up-down Gibbs passes from seed and returns the
// resulting input state. Clamped input units keep their seeded values.
//
// A pass samples the hidden units bottom-up and the visible units top-down.
// The final pass samples the hidden units at temperature 1, the visible units
// of every layer but the first, and then the first layer's units with
// conf.Final.
//
// A seed shorter than the input only overwrites a prefix of the input units.
func (n *Network) Generate(seed []byte, conf GenerationConfig) ([]byte, error) {
	if !conf.IsValid() {
		return nil, errors.WithStack(rbm.ConfigurationError{What: "generation config", Expected: "a valid config", Actual: conf})
	}
	if len(seed) > n.InputLength {
		return nil, errors.WithStack(rbm.ConfigurationError{What: "seed length", Expected: n.InputLength, Actual: len(seed)})
	}
	if u := n.Untrained(); u >= 0 {
		log.WithField("layer", u).Warn("generating from an untrained layer")
	}

	n.lj.reset()
	n.setAnnealingRate(1)
	n.layers[0].SetInput(seed)
	for cycle := 0; cycle < conf.Cycles; cycle++ {
		if conf.Annealing {
			n.setAnnealingRate(annealing(conf.MinAnnealingRate, cycle, conf.Cycles))
		}
		n.up()
		for i := len(n.layers) - 1; i >= 0; i-- {
			n.layers[i].ActivateVisible()
		}
		n.lj.record(cycleTrace{cycle: cycle}, n.layers[0].Visible())
	}

	n.setAnnealingRate(1)
	n.up()
	for i := len(n.layers) - 1; i >= 1; i-- {
		n.layers[i].ActivateVisible()
	}
	n.layers[0].ActivateVisibleWith(conf.Final)
	n.lj.record(cycleTrace{cycle: conf.Cycles, final: true, policy: conf.Final}, n.layers[0].Visible())

	return n.layers[0].Visible().Clone(), nil
}

func (n *Network) up() {
	for _, l := range n.layers {
		l.ActivateHidden()
	}
}

func (n *Network) setAnnealingRate(rate float32) {
	for _, l := range n.layers {
		l.SetAnnealingRate(rate)
	}
}
