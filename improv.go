package improv

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/gorgonia/improv/layered"
	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Brain is the top level structure and the entry point of the API. It learns
// melodies over chords with a layered network, and improvises new melodies
// over given chords.
type Brain struct {
	Statistics

	conf    Config
	net     *layered.Network
	rand    *rand.Rand
	learned [][]byte // examples of the last Learn, reused by Extend

	buf    bytes.Buffer
	logger *log.Logger
}

// New creates a brain with an untrained network.
func New(conf Config) (*Brain, error) {
	if !conf.IsValid() {
		return nil, errors.Errorf("invalid brain config %+v", conf)
	}
	conf.LayerSizes = append([]int(nil), conf.LayerSizes...)
	net, err := layered.New(conf.networkConf())
	if err != nil {
		return nil, err
	}
	seed := conf.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	retVal := &Brain{
		Statistics: makeStatistics(conf.Training.Progress),
		conf:       conf,
		net:        net,
		rand:       rand.New(rand.NewSource(seed)),
	}
	retVal.logger = log.New()
	retVal.logger.SetOutput(&retVal.buf)
	retVal.logger.SetFormatter(&log.TextFormatter{DisableColors: true, DisableTimestamp: true})
	return retVal, nil
}

func (b *Brain) Config() Config { return b.conf }

// Network returns the brain's network.
func (b *Brain) Network() *layered.Network { return b.net }

func (b *Brain) train(ctx context.Context, start int) error {
	conf := b.conf.Training
	conf.Progress = &b.Statistics
	b.logger.WithFields(log.Fields{
		"name":     b.conf.Name,
		"examples": len(b.learned),
		"layer":    start,
		"epochs":   conf.Epochs,
	}).Info("learning")
	if err := b.net.Train(ctx, b.learned, conf, start); err != nil {
		b.logger.WithError(err).Warn("learning stopped")
		return err
	}
	for l := start; l < b.net.Depth() && l < len(b.Energy); l++ {
		if series := b.Energy[l]; len(series) > 0 {
			b.logger.WithFields(log.Fields{"layer": l, "energy": series[len(series)-1]}).Info("layer learned")
		}
	}
	return nil
}

// Learn trains the network on vessels, starting at the lowest untrained layer.
// A fully trained network is trained again from the first layer.
func (b *Brain) Learn(ctx context.Context, vessels []*melody.Vessel) error {
	examples, err := b.conf.examples(vessels)
	if err != nil {
		return errors.WithMessage(err, "cannot learn")
	}
	b.learned = examples
	start := b.net.Untrained()
	if start < 0 {
		start = 0
	}
	return b.train(ctx, start)
}

// Extend stacks a layer of width hidden units and trains it on the examples of
// the last Learn.
func (b *Brain) Extend(ctx context.Context, width int) (int, error) {
	if len(b.learned) == 0 {
		return -1, errors.New("nothing learned yet")
	}
	l, err := b.net.AddLayer(width)
	if err != nil {
		return -1, err
	}
	b.conf.LayerSizes = append(b.conf.LayerSizes, width)
	return l, b.train(ctx, l)
}

func (b *Brain) chordCheck(chords []byte, rows int) error {
	if len(chords) != rows*melody.NumChordColumns {
		return errors.Errorf("expected %d chord rows, got %d bits", rows, len(chords))
	}
	return nil
}

func (b *Brain) generate(seed *melody.Vessel) error {
	out, err := b.net.Generate(seed.Data(), b.conf.Generation)
	if err != nil {
		return err
	}
	seed.SetData(out)
	return nil
}

// Generate improvises a melody over one chord row per melody row. The chords
// are clamped; the melody starts from random bits.
func (b *Brain) Generate(chords []byte) (*melody.Vessel, error) {
	if err := b.chordCheck(chords, b.conf.Rows); err != nil {
		return nil, err
	}
	seed, err := melody.Seed(b.rand, b.conf.Encoding.Columns(), chords)
	if err != nil {
		return nil, err
	}
	start, end := seed.ChordSpan()
	b.net.Clamp(start, end)
	defer b.net.Unclamp(start, end)
	if err = b.generate(seed); err != nil {
		return nil, err
	}
	b.logger.WithField("rows", seed.Rows).Info("generated")
	return seed, nil
}

// GenerateWindowed improvises a melody over chords of any number of rows, one
// step of rows at a time.
//
// The first window is generated step by step, keeping each generated step
// clamped for the next. Then the window slides by step rows: the melody shifts
// back, its tail restarts from random bits, the chords shift along, and the
// tail is generated with the rest of the window clamped. The output holds
// every whole step that fits in chords.
func (b *Brain) GenerateWindowed(chords []byte, step int) (*melody.Vessel, error) {
	rows, cols := b.conf.Rows, b.conf.Encoding.Columns()
	if len(chords)%melody.NumChordColumns != 0 {
		return nil, errors.Errorf("chords have %d bits, not a whole number of rows", len(chords))
	}
	total := len(chords) / melody.NumChordColumns
	if step < 1 || rows%step != 0 {
		return nil, errors.Errorf("step %d does not divide the window of %d rows", step, rows)
	}
	if total < rows {
		return nil, errors.Errorf("%d chord rows do not fill a window of %d", total, rows)
	}

	chunks := total / step
	chunk := step * cols
	window := rows * cols
	first := rows/step - 1
	out := make([]byte, chunks*chunk)

	seed, err := melody.Seed(b.rand, cols, chords[:rows*melody.NumChordColumns])
	if err != nil {
		return nil, err
	}
	start, end := seed.ChordSpan()
	b.net.Clamp(start, end)
	defer b.net.UnclampAll()

	for i := 0; i < first; i++ {
		if err = b.generate(seed); err != nil {
			return nil, err
		}
		b.net.Clamp(i*chunk, (i+1)*chunk)
		copy(out[i*chunk:], seed.Melody[i*chunk:(i+1)*chunk])
	}
	if err = b.generate(seed); err != nil {
		return nil, err
	}
	copy(out[first*chunk:], seed.Melody[window-chunk:])

	for i := first + 1; i < chunks; i++ {
		copy(seed.Melody, seed.Melody[chunk:])
		copy(seed.Melody[window-chunk:], melody.RandomBits(b.rand, chunk))
		off := (i - first) * step * melody.NumChordColumns
		copy(seed.Chords, chords[off:off+rows*melody.NumChordColumns])
		if err = b.generate(seed); err != nil {
			return nil, err
		}
		copy(out[i*chunk:], seed.Melody[window-chunk:])
	}

	b.logger.WithFields(log.Fields{"rows": chunks * step, "step": step}).Info("generated windowed")
	return &melody.Vessel{
		Melody: out,
		Chords: append([]byte(nil), chords[:chunks*step*melody.NumChordColumns]...),
		Rows:   chunks * step,
		Cols:   cols,
	}, nil
}

// GenerateLooping loops chords to rows rows and generates over them with
// GenerateWindowed.
func (b *Brain) GenerateLooping(chords []byte, step, rows int) (*melody.Vessel, error) {
	if len(chords) == 0 || len(chords)%melody.NumChordColumns != 0 {
		return nil, errors.Errorf("chords have %d bits, not a whole number of rows", len(chords))
	}
	return b.GenerateWindowed(melody.LoopChords(chords, rows), step)
}

type brainState struct {
	Name     string
	Encoding melody.Encoding
	Rows     int
	Simple   bool
	Network  *layered.Network
}

// Save writes the brain's network and shape into filename.
func (b *Brain) Save(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	s := brainState{
		Name:     b.conf.Name,
		Encoding: b.conf.Encoding,
		Rows:     b.conf.Rows,
		Simple:   b.conf.Simple,
		Network:  b.net,
	}
	if err = gob.NewEncoder(f).Encode(&s); err != nil {
		return errors.WithStack(err)
	}
	b.logger.WithField("file", filename).Info("saved")
	return nil
}

// Load replaces the brain's network and shape with the ones saved in filename.
// Training and generation settings are kept.
func (b *Brain) Load(filename string) error {
	f, err := os.Open(filename)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()

	var s brainState
	if err = gob.NewDecoder(f).Decode(&s); err != nil {
		return errors.WithStack(err)
	}
	if s.Network == nil {
		return errors.Errorf("%s holds no network", filename)
	}
	conf := b.conf
	conf.Name, conf.Encoding, conf.Rows, conf.Simple = s.Name, s.Encoding, s.Rows, s.Simple
	conf.LayerSizes = append([]int(nil), s.Network.LayerSizes...)
	conf.RBM = s.Network.RBM
	if s.Network.InputLength != conf.InputLength() {
		return errors.Errorf("%s holds a network of %d inputs, expected %d", filename, s.Network.InputLength, conf.InputLength())
	}

	b.conf = conf
	b.net = s.Network
	b.learned = nil
	b.logger.WithFields(log.Fields{"file": filename, "layers": conf.LayerSizes}).Info("loaded")
	return nil
}

// Log writes the brain's log into w.
func (b *Brain) Log(w io.Writer) { fmt.Fprint(w, b.buf.String()) }
