package layered

import (
	"context"

	"github.com/gorgonia/improv/rbm"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ErrTrainingCancelled is returned by Train when its context is done. Every
// example processed before the cancellation stays applied and the network
// remains usable.
var ErrTrainingCancelled = errors.New("training cancelled")

// Progress receives training progress. Calls are made synchronously from the
// training goroutine.
type Progress interface {
	OnEpochStart(layer, epoch int)
	// OnExampleProcessed is called after the weight update of an example, with
	// the layer's energy at that point.
	OnExampleProcessed(layer, epoch, example, total int, energy float32)
}

// Train trains layers startLayer through the top, one layer at a time. Each
// example is propagated up to the layer being trained, which then runs one
// contrastive divergence step and updates its weights with the example count
// as the batch size. The hidden temperature of a layer anneals linearly from 1
// towards conf.MinAnnealingRate over its epochs.
//
// ctx is checked before every example.
func (n *Network) Train(ctx context.Context, inputs [][]byte, conf TrainingConfig, startLayer int) error {
	if !conf.IsValid() {
		return errors.WithStack(rbm.ConfigurationError{What: "training config", Expected: "a valid config", Actual: conf})
	}
	if startLayer < 0 || startLayer >= len(n.layers) {
		return errors.WithStack(rbm.ConfigurationError{What: "start layer", Expected: len(n.layers), Actual: startLayer})
	}
	for i, in := range inputs {
		if len(in) != n.InputLength {
			return errors.Wrapf(rbm.ConfigurationError{What: "example length", Expected: n.InputLength, Actual: len(in)}, "example %d", i)
		}
	}

	order := make([]int, len(inputs))
	for i := range order {
		order[i] = i
	}

	for l := startLayer; l < len(n.layers); l++ {
		layer := n.layers[l]
		logger := log.WithFields(log.Fields{"layer": l, "width": layer.NumHidden()})
		logger.Info("training layer")

		for epoch := 0; epoch < conf.Epochs; epoch++ {
			layer.SetAnnealingRate(annealing(conf.MinAnnealingRate, epoch, conf.Epochs))
			if conf.Shuffle {
				n.shuffle(order)
			}
			if conf.Progress != nil {
				conf.Progress.OnEpochStart(l, epoch)
			}

			for k, idx := range order {
				select {
				case <-ctx.Done():
					logger.WithField("epoch", epoch).Warn("training cancelled")
					return errors.Wrapf(ErrTrainingCancelled, "layer %d, epoch %d, example %d", l, epoch, k)
				default:
				}

				n.PropagateInput(inputs[idx], l)
				layer.Train(conf.Cycles)
				layer.UpdateWeights(len(inputs))
				if conf.Progress != nil {
					conf.Progress.OnExampleProcessed(l, epoch, k, len(inputs), layer.Energy())
				}
			}
			logger.WithField("epoch", epoch).Debug("epoch done")
		}
		n.trained[l] = true
	}
	return nil
}

// shuffle is a Fisher-Yates shuffle on the network's own random source.
func (n *Network) shuffle(order []int) {
	for i := range order {
		j := n.rand.Intn(i + 1)
		order[i], order[j] = order[j], order[i]
	}
}
