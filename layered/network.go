package layered

import (
	"math/rand"
	"time"

	"github.com/gorgonia/improv/rbm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorgonia.org/tensor"
)

// Network is a stack of machines. The hidden units of layer i are the visible
// units of layer i+1; the first layer's visible side is an *rbm.InputLayer.
type Network struct {
	Config

	layers  []*rbm.Machine
	input   *rbm.InputLayer
	trained []bool

	rand *rand.Rand // seeds new layers and shuffles examples
	lj   *lumberjack
}

// New creates a network as described by conf.
func New(conf Config) (*Network, error) {
	if !conf.IsValid() {
		return nil, errors.WithStack(rbm.ConfigurationError{What: "network config", Expected: "a valid config", Actual: conf})
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	conf.LayerSizes = append([]int(nil), conf.LayerSizes...)
	conf.Groups = append([]rbm.Group(nil), conf.Groups...)

	n := &Network{
		Config: conf,
		rand:   rand.New(rand.NewSource(seed)),
		lj:     makeLumberJack(),
	}

	first := rbm.NewInput(conf.InputLength, conf.LayerSizes[0], n.layerOpts()...)
	n.input, _ = first.Input()
	for _, g := range conf.Groups {
		if err := n.input.AddGroup(g); err != nil {
			return nil, err
		}
	}
	n.layers = append(n.layers, first)
	n.trained = append(n.trained, false)
	for _, size := range conf.LayerSizes[1:] {
		n.stack(size)
	}

	log.WithFields(log.Fields{
		"input":  conf.InputLength,
		"layers": conf.LayerSizes,
		"groups": len(conf.Groups),
	}).Debug("network created")
	return n, nil
}

func (n *Network) layerOpts() []rbm.ConsOpt {
	return []rbm.ConsOpt{rbm.WithConfig(n.RBM), rbm.WithSeed(n.rand.Int63())}
}

func (n *Network) stack(width int) {
	top := n.layers[len(n.layers)-1]
	n.layers = append(n.layers, rbm.NewShared(top.Hidden(), width, n.layerOpts()...))
	n.trained = append(n.trained, false)
}

// AddLayer stacks a new untrained layer of width hidden units on top of the
// network and returns its index. Train it with Train(ctx, inputs, conf, index).
func (n *Network) AddLayer(width int) (int, error) {
	if width < 1 {
		return -1, errors.WithStack(rbm.ConfigurationError{What: "layer width", Expected: ">= 1", Actual: width})
	}
	n.stack(width)
	n.LayerSizes = append(n.LayerSizes, width)
	log.WithFields(log.Fields{"layer": len(n.layers) - 1, "width": width}).Info("layer added")
	return len(n.layers) - 1, nil
}

// Depth is the number of layers.
func (n *Network) Depth() int { return len(n.layers) }

// Layer returns the machine at layer i.
func (n *Network) Layer(i int) *rbm.Machine { return n.layers[i] }

// Input returns the first layer's visible layer.
func (n *Network) Input() *rbm.InputLayer { return n.input }

// Weights returns row views of layer i's weight matrix.
func (n *Network) Weights(i int) [][]float32 { return n.layers[i].Weights() }

// SetWeights replaces layer i's weight matrix.
func (n *Network) SetWeights(i int, w *tensor.Dense) error {
	if i < 0 || i >= len(n.layers) {
		return errors.WithStack(rbm.ConfigurationError{What: "layer index", Expected: len(n.layers), Actual: i})
	}
	return errors.WithMessagef(n.layers[i].SetWeights(w), "layer %d", i)
}

// Trained reports whether layer i has completed training.
func (n *Network) Trained(i int) bool { return n.trained[i] }

// Untrained returns the index of the lowest untrained layer, or -1.
func (n *Network) Untrained() int {
	for i, t := range n.trained {
		if !t {
			return i
		}
	}
	return -1
}

// Clamp fixes input units [start, end) during generation.
func (n *Network) Clamp(start, end int) { n.input.ClampRange(start, end) }

// Unclamp releases input units [start, end).
func (n *Network) Unclamp(start, end int) { n.input.UnclampRange(start, end) }

func (n *Network) UnclampAll() { n.input.UnclampAll() }

// PropagateInput loads input into the first layer and samples the hidden units
// of the first depth layers, so layer depth sees the input's representation as
// its visible state.
func (n *Network) PropagateInput(input []byte, depth int) {
	n.layers[0].SetInput(input)
	for i := 0; i < depth && i < len(n.layers); i++ {
		n.layers[i].ActivateHidden()
	}
}

// Reseed reseeds every layer from seed.
func (n *Network) Reseed(seed int64) {
	n.rand = rand.New(rand.NewSource(seed))
	for _, l := range n.layers {
		l.Reseed(n.rand.Int63())
	}
}

// Trace returns the generation trace. It is empty unless built with the debug tag.
func (n *Network) Trace() string { return n.lj.Log() }
