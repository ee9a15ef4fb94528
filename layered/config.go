package layered

import (
	"github.com/gorgonia/improv/rbm"
)

const (
	DefaultLayerWidth       = 100
	DefaultEpochs           = 250
	DefaultTrainingCycles   = 1
	DefaultGenerationCycles = 20
)

// Config configures the shape of a network.
type Config struct {
	InputLength int         // number of visible units of the first layer
	LayerSizes  []int       // hidden widths, first layer first
	Groups      []rbm.Group // groups of the input layer
	RBM         rbm.Config  // shared by every layer
	Seed        int64       // seeds every layer. 0 picks a time based seed
}

// DefaultConf creates a network of depth layers of DefaultLayerWidth units.
func DefaultConf(inputLength, depth int) Config {
	sizes := make([]int, depth)
	for i := range sizes {
		sizes[i] = DefaultLayerWidth
	}
	return Config{
		InputLength: inputLength,
		LayerSizes:  sizes,
		RBM:         rbm.DefaultConf(),
	}
}

func (conf Config) IsValid() bool {
	if conf.InputLength < 1 || len(conf.LayerSizes) < 1 || !conf.RBM.IsValid() {
		return false
	}
	for _, s := range conf.LayerSizes {
		if s < 1 {
			return false
		}
	}
	for i, g := range conf.Groups {
		if g.Start < 0 || g.End > conf.InputLength || g.Start >= g.End {
			return false
		}
		for _, h := range conf.Groups[:i] {
			if g.Conflicts(h) {
				return false
			}
		}
	}
	return true
}

// TrainingConfig configures Train.
type TrainingConfig struct {
	Epochs           int
	Cycles           int     // Gibbs cycles per contrastive divergence step
	MinAnnealingRate float32 // hidden temperature at the last epoch of a layer
	Shuffle          bool    // visit the examples in a fresh random order every epoch
	Progress         Progress
}

func DefaultTrainingConf() TrainingConfig {
	return TrainingConfig{
		Epochs:           DefaultEpochs,
		Cycles:           DefaultTrainingCycles,
		MinAnnealingRate: 1,
	}
}

func (conf TrainingConfig) IsValid() bool {
	return conf.Epochs >= 0 && conf.Cycles >= 0 && conf.MinAnnealingRate > 0
}

// annealing is the hidden temperature at step of steps. It moves linearly from
// 1 at step 0 towards min.
func annealing(min float32, step, steps int) float32 {
	if steps == 0 {
		return 1
	}
	return ((min-1)/float32(steps))*float32(step) + 1
}

// GenerationConfig configures Generate.
type GenerationConfig struct {
	Cycles           int
	Final            rbm.Activation // activation of the input layer in the last pass
	Annealing        bool           // anneal the hidden temperature across the cycles
	MinAnnealingRate float32
}

func DefaultGenerationConf() GenerationConfig {
	return GenerationConfig{
		Cycles:           DefaultGenerationCycles,
		Final:            rbm.MaxProb,
		MinAnnealingRate: 1,
	}
}

func (conf GenerationConfig) IsValid() bool {
	return conf.Cycles >= 0 && conf.MinAnnealingRate > 0
}
