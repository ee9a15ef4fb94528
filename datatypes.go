package improv

import (
	"github.com/gorgonia/improv/encoding/field"
	"github.com/gorgonia/improv/layered"
	"github.com/gorgonia/improv/melody"
	"github.com/gorgonia/improv/rbm"
)

type Config struct {
	Name       string
	Encoding   melody.Encoding
	Rows       int   // melody rows of an example
	LayerSizes []int // hidden widths, first layer first
	RBM        rbm.Config
	Seed       int64 // 0 picks a time based seed

	// Simple leaves the input ungrouped, so every unit is sampled on its own.
	Simple bool

	Training   layered.TrainingConfig
	Generation layered.GenerationConfig
}

// DefaultConfig is a two layer brain over examples of rows rows.
func DefaultConfig(enc melody.Encoding, rows int) Config {
	return Config{
		Name:       "improv",
		Encoding:   enc,
		Rows:       rows,
		LayerSizes: []int{layered.DefaultLayerWidth, layered.DefaultLayerWidth},
		RBM:        rbm.DefaultConf(),
		Training:   layered.DefaultTrainingConf(),
		Generation: layered.DefaultGenerationConf(),
	}
}

// MelodyLength is the number of melody bits of an example.
func (conf Config) MelodyLength() int { return conf.Rows * conf.Encoding.Columns() }

// InputLength is the number of bits of an example: the melody followed by one
// chord row per melody row.
func (conf Config) InputLength() int { return conf.MelodyLength() + conf.Rows*melody.NumChordColumns }

func (conf Config) IsValid() bool {
	if conf.Rows < 1 || conf.Encoding.String() == "unknown" {
		return false
	}
	return conf.networkConf().IsValid() && conf.Training.IsValid() && conf.Generation.IsValid()
}

func (conf Config) networkConf() layered.Config {
	retVal := layered.Config{
		InputLength: conf.InputLength(),
		LayerSizes:  conf.LayerSizes,
		RBM:         conf.RBM,
		Seed:        conf.Seed,
	}
	if !conf.Simple {
		retVal.Groups = conf.Encoding.Layout(conf.Rows)
	}
	return retVal
}

// FieldEncoder renders receptive fields. *field.Encoder is one.
type FieldEncoder interface {
	Encode(f field.Frame) error
	Flush() error
}
