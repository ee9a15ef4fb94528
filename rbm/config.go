package rbm

// Config configures a single machine.
type Config struct {
	LearningRate  float32 // step size of a weight update
	AnnealingRate float32 // temperature of the hidden units
	InitScale     float32 // standard deviation of the initial weights
}

// DefaultConf returns the configuration used by the layered networks.
func DefaultConf() Config {
	return Config{
		LearningRate:  0.2,
		AnnealingRate: 1,
		InitScale:     0.1,
	}
}

func (conf Config) IsValid() bool {
	return conf.LearningRate > 0 &&
		conf.AnnealingRate > 0 &&
		conf.InitScale >= 0
}
