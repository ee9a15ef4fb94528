package improv

import (
	"bytes"
	"context"
	"image/gif"
	"path/filepath"
	"testing"

	"github.com/gorgonia/improv/encoding/field"
	"github.com/gorgonia/improv/layered"
	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	conf := DefaultConfig(melody.Chromatic, 2)
	conf.Name = "test"
	conf.LayerSizes = []int{12, 6}
	conf.Seed = 1337
	conf.Training.Epochs = 3
	conf.Generation.Cycles = 4
	return conf
}

func vessel(t *testing.T, notes []melody.Note, chords ...string) *melody.Vessel {
	mel, rows, err := melody.Chromatic.EncodeMelody(notes)
	require.NoError(t, err)
	c, err := melody.ChordRows(chords...)
	require.NoError(t, err)
	v, err := melody.NewVessel(mel, c, rows, melody.Chromatic.Columns())
	require.NoError(t, err)
	return v
}

func corpus(t *testing.T) []*melody.Vessel {
	return []*melody.Vessel{
		vessel(t, []melody.Note{{MIDI: 60, Duration: 1}, {MIDI: 64, Duration: 1}}, "C", "C"),
		vessel(t, []melody.Note{{MIDI: 67, Duration: 2}}, "G7", "G7"),
		vessel(t, []melody.Note{{MIDI: 62, Duration: 1}, {MIDI: melody.Rest, Duration: 1}}, "Dm7", "G7"),
		vessel(t, []melody.Note{{MIDI: 72, Duration: 1}, {MIDI: 71, Duration: 1}}, "C", "F"),
	}
}

func learned(t *testing.T) *Brain {
	b, err := New(testConfig())
	require.NoError(t, err)
	require.NoError(t, b.Learn(context.Background(), corpus(t)))
	return b
}

// oneHotRows checks that every row of v has exactly one pitch class and one
// octave.
func oneHotRows(t *testing.T, v *melody.Vessel) {
	for i := 0; i < v.Rows; i++ {
		row := v.Row(i)
		var pitch, octave int
		for _, b := range row[2:14] {
			pitch += int(b)
		}
		for _, b := range row[14:18] {
			octave += int(b)
		}
		assert.Equal(t, 1, pitch, "row %d pitch", i)
		assert.Equal(t, 1, octave, "row %d octave", i)
	}
}

func TestConfig(t *testing.T) {
	conf := DefaultConfig(melody.Chromatic, 2)
	assert.True(t, conf.IsValid())
	assert.Equal(t, 36, conf.MelodyLength())
	assert.Equal(t, 60, conf.InputLength())
	assert.Len(t, conf.networkConf().Groups, 6)

	conf.Simple = true
	assert.Nil(t, conf.networkConf().Groups)

	conf.Rows = 0
	assert.False(t, conf.IsValid())
	conf = DefaultConfig(melody.Encoding(9), 2)
	assert.False(t, conf.IsValid())

	_, err := New(conf)
	assert.Error(t, err)
}

func TestLearnAndGenerate(t *testing.T) {
	b := learned(t)
	net := b.Network()
	assert.Equal(t, -1, net.Untrained())
	require.Len(t, b.Energy, 2)
	for _, series := range b.Energy {
		assert.Len(t, series, 3)
	}

	chords, err := melody.ChordRows("C", "G7")
	require.NoError(t, err)
	v, err := b.Generate(chords)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Rows)
	assert.Equal(t, chords, v.Chords, "chords are clamped")
	oneHotRows(t, v)

	start, _ := v.ChordSpan()
	assert.False(t, net.Input().IsClamped(start), "clamps are released")

	_, err = b.Generate(chords[:12])
	assert.Error(t, err)

	var buf bytes.Buffer
	b.Log(&buf)
	assert.Contains(t, buf.String(), "learning")
	assert.Contains(t, buf.String(), "generated")
}

func TestLearnRejects(t *testing.T) {
	b, err := New(testConfig())
	require.NoError(t, err)
	assert.Error(t, b.Learn(context.Background(), nil))

	vs := corpus(t)
	vs[1] = vessel(t, []melody.Note{{MIDI: 60, Duration: 3}}, "C", "C", "C")
	vs[3].Melody[0] = 2
	err = b.Learn(context.Background(), vs)
	require.Error(t, err)
	assert.Len(t, Errors(err), 2)
	assert.Equal(t, 0, b.Network().Untrained(), "nothing is trained")

	assert.Nil(t, Errors(nil))
	assert.Len(t, Errors(errors.New("one")), 1)
}

func TestLearnCancelled(t *testing.T) {
	b, err := New(testConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = b.Learn(ctx, corpus(t))
	assert.True(t, errors.Is(err, layered.ErrTrainingCancelled))
	assert.Equal(t, 0, b.Network().Untrained())
}

func TestExtend(t *testing.T) {
	b, err := New(testConfig())
	require.NoError(t, err)
	_, err = b.Extend(context.Background(), 4)
	assert.Error(t, err, "nothing learned yet")

	require.NoError(t, b.Learn(context.Background(), corpus(t)))
	l, err := b.Extend(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, 2, l)
	assert.Equal(t, 3, b.Network().Depth())
	assert.True(t, b.Network().Trained(2))
	assert.Equal(t, []int{12, 6, 4}, b.Config().LayerSizes)
	assert.Len(t, b.Energy[2], 3)

	_, err = b.Extend(context.Background(), 0)
	assert.Error(t, err)
}

func TestGenerateWindowed(t *testing.T) {
	b := learned(t)
	chords, err := melody.ChordRows("C", "F", "G7", "C", "Dm7", "G7")
	require.NoError(t, err)

	v, err := b.GenerateWindowed(chords, 1)
	require.NoError(t, err)
	assert.Equal(t, 6, v.Rows)
	assert.Len(t, v.Melody, 6*melody.Chromatic.Columns())
	assert.Equal(t, chords, v.Chords)
	oneHotRows(t, v)
	for _, c := range b.Network().Input().Clamped() {
		assert.False(t, c)
	}

	v, err = b.GenerateWindowed(chords, 2)
	require.NoError(t, err)
	assert.Equal(t, 6, v.Rows)

	_, err = b.GenerateWindowed(chords, 3)
	assert.Error(t, err, "step must divide the window")
	_, err = b.GenerateWindowed(chords[:12], 1)
	assert.Error(t, err, "chords shorter than a window")
	_, err = b.GenerateWindowed(chords[:13], 1)
	assert.Error(t, err)
}

func TestGenerateLooping(t *testing.T) {
	b := learned(t)
	chords, err := melody.ChordRows("C", "G7")
	require.NoError(t, err)

	v, err := b.GenerateLooping(chords, 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Rows)
	assert.Equal(t, "C", melody.ChordSymbol(v.ChordRow(2)))
	assert.Equal(t, "G7", melody.ChordSymbol(v.ChordRow(3)))

	_, err = b.GenerateLooping(nil, 1, 4)
	assert.Error(t, err)
}

func TestSaveLoad(t *testing.T) {
	b := learned(t)
	filename := filepath.Join(t.TempDir(), "brain.gob")
	require.NoError(t, b.Save(filename))

	other, err := New(DefaultConfig(melody.Sequential, 3))
	require.NoError(t, err)
	require.NoError(t, other.Load(filename))
	conf := other.Config()
	assert.Equal(t, "test", conf.Name)
	assert.Equal(t, melody.Chromatic, conf.Encoding)
	assert.Equal(t, 2, conf.Rows)
	assert.Equal(t, []int{12, 6}, conf.LayerSizes)
	for l := 0; l < 2; l++ {
		assert.Equal(t, b.Network().Weights(l), other.Network().Weights(l))
	}
	assert.Equal(t, -1, other.Network().Untrained())

	chords, err := melody.ChordRows("F", "C")
	require.NoError(t, err)
	v, err := other.Generate(chords)
	require.NoError(t, err)
	assert.Equal(t, chords, v.Chords)

	assert.Error(t, other.Load(filepath.Join(t.TempDir(), "missing.gob")))
}

func TestReceptiveFields(t *testing.T) {
	b := learned(t)

	frame, km, err := b.ReceptiveFields(0, -1)
	require.NoError(t, err)
	require.NotNil(t, km)
	assert.True(t, km.K() == 1 || km.K() == 2, "an emptied cluster drops k")
	assert.Equal(t, 2, frame.Rows)
	assert.Equal(t, 30, frame.Cols)
	require.Len(t, frame.Fields, 12)
	for i, f := range frame.Fields {
		assert.Equal(t, i, f.Detector)
		assert.Len(t, f.Values, 60)
		assert.True(t, f.Cluster >= 0 && f.Cluster < km.K())
	}

	frame, km, err = b.ReceptiveFields(1, 0)
	require.NoError(t, err)
	assert.Nil(t, km)
	assert.Len(t, frame.Fields, 6)
	for _, f := range frame.Fields {
		assert.Equal(t, -1, f.Cluster)
		assert.Len(t, f.Values, 12)
	}

	_, _, err = b.ReceptiveFields(2, 0)
	assert.Error(t, err)
	_, _, err = b.ReceptiveFields(1, 7)
	assert.Error(t, err, "more clusters than detectors")
}

func TestTimeMajor(t *testing.T) {
	b, err := New(testConfig())
	require.NoError(t, err)
	values := make([]float32, 60)
	for i := range values {
		values[i] = float32(i)
	}
	got := b.timeMajor(values)
	require.Len(t, got, 60)
	assert.Equal(t, float32(17), got[17])
	assert.Equal(t, float32(36), got[18], "chord row 0 follows melody row 0")
	assert.Equal(t, float32(18), got[30])
	assert.Equal(t, float32(59), got[59])
}

func TestHinton(t *testing.T) {
	b := learned(t)
	chords, err := melody.ChordRows("C", "G7")
	require.NoError(t, err)
	_, err = b.Generate(chords)
	require.NoError(t, err)

	d, err := b.Hinton()
	require.NoError(t, err)
	require.Len(t, d, 2)
	for _, row := range d {
		require.Len(t, row, 30)
		for _, p := range row {
			assert.True(t, p >= 0 && p <= 1)
		}
	}

	probs, err := b.Network().Layer(0).VisibleProbabilities()
	require.NoError(t, err)
	assert.Equal(t, probs[0], d[0][0])
	assert.Equal(t, probs[18], d[1][0], "melody row 1")
	assert.Equal(t, probs[36], d[0][18], "chord row 0 follows melody row 0")
	assert.Equal(t, probs[59], d[1][29])
}

func TestDrawFields(t *testing.T) {
	b := learned(t)
	var buf bytes.Buffer
	require.NoError(t, b.DrawFields(field.NewEncoder(&buf), 3))
	g, err := gif.DecodeAll(&buf)
	require.NoError(t, err)
	assert.Len(t, g.Image, 2)
}
