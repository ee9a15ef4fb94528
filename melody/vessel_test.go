package melody

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChordBits(t *testing.T) {
	cases := []struct {
		symbol string
		want   []int
	}{
		{"C", []int{0, 4, 7}},
		{"CM", []int{0, 4, 7}},
		{"Dm7", []int{0, 2, 5, 9}},
		{"Bb7/D", []int{2, 5, 8, 10}},
		{"A#7", []int{2, 5, 8, 10}},
		{"F#h7", []int{0, 4, 6, 9}},
		{"Gsus4", []int{0, 2, 7}},
		{NoChord, nil},
	}
	for _, c := range cases {
		bits, err := ChordBits(c.symbol)
		require.NoError(t, err, c.symbol)
		assert.Len(t, bits, NumChordColumns)
		assert.Equal(t, c.want, active(bits), c.symbol)
	}

	for _, bad := range []string{"", "H7", "Cxyz", "c7"} {
		_, err := ChordBits(bad)
		assert.Error(t, err, bad)
	}
}

func TestChordSymbol(t *testing.T) {
	for symbol, want := range map[string]string{
		"C":      "C",
		"Dm7":    "Dm7",
		"G7":     "G7",
		"Bb7/D":  "A#7",
		"Ebmaj7": "D#M7",
	} {
		bits, err := ChordBits(symbol)
		require.NoError(t, err)
		assert.Equal(t, want, ChordSymbol(bits), symbol)
	}
	assert.Equal(t, NoChord, ChordSymbol(Zeros(NumChordColumns)))
	assert.Equal(t, NoChord, ChordSymbol(Ones(NumChordColumns)))
}

func TestChordRows(t *testing.T) {
	rows, err := ChordRows("C", "NC", "G7")
	require.NoError(t, err)
	assert.Len(t, rows, 3*NumChordColumns)
	assert.Equal(t, []int{0, 4, 7, 26, 29, 31, 35}, active(rows))

	_, err = ChordRows("C", "X")
	assert.Error(t, err)
}

func TestVessel(t *testing.T) {
	_, err := NewVessel(make([]byte, 5), nil, 2, 3)
	assert.Error(t, err)
	_, err = NewVessel(make([]byte, 6), make([]byte, 12), 2, 3)
	assert.Error(t, err)

	chords, err := ChordRows("C", "F")
	require.NoError(t, err)
	v, err := NewVessel([]byte{1, 0, 1, 0, 1, 0}, chords, 2, 3)
	require.NoError(t, err)

	assert.Equal(t, 30, v.Len())
	assert.Equal(t, 2, v.ChordRows())
	start, end := v.ChordSpan()
	assert.Equal(t, 6, start)
	assert.Equal(t, 30, end)

	data := v.Data()
	assert.Equal(t, v.Melody, data[:start])
	assert.Equal(t, v.Chords, data[start:end])
	assert.Equal(t, []byte{0, 1, 0}, v.Row(1))
	assert.Equal(t, "F", ChordSymbol(v.ChordRow(1)))

	c := v.Clone()
	data[0] = 0
	data[6] = 0
	c.SetData(data)
	assert.Equal(t, byte(0), c.Melody[0])
	assert.Equal(t, byte(0), c.Chords[0])
	assert.Equal(t, byte(1), v.Melody[0], "clones do not share bits")
	assert.Equal(t, byte(1), v.Chords[0])

	assert.Equal(t, "Vessel 2x3, 2 chord rows", fmt.Sprintf("%v", v))
	noChords, err := NewVessel([]byte{1, 0, 1, 0, 1, 0}, nil, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, "Vessel 2x3, 0 chord rows\nMelody:\n1 0 1\n0 1 0", fmt.Sprintf("%+v", noChords))
}

func TestSeed(t *testing.T) {
	r := rand.New(rand.NewSource(1337))
	chords, err := ChordRows("C", "Am", "Dm", "G7")
	require.NoError(t, err)

	v, err := Seed(r, Chromatic.Columns(), chords)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Rows)
	assert.Equal(t, Chromatic.Columns(), v.Cols)
	assert.Equal(t, chords, v.Chords)
	assert.Len(t, v.Melody, 4*Chromatic.Columns())
	for _, b := range v.Melody {
		assert.True(t, b == 0 || b == 1)
	}
	chords[0] = 0
	assert.Equal(t, byte(1), v.Chords[0], "seed copies the chords")

	// the same source replays the same melody
	again, err := Seed(rand.New(rand.NewSource(1337)), Chromatic.Columns(), v.Chords)
	require.NoError(t, err)
	assert.Equal(t, v.Melody, again.Melody)

	_, err = Seed(r, 18, make([]byte, 13))
	assert.Error(t, err)

	w, err := SeedChords(r, v.Melody, 4)
	require.NoError(t, err)
	assert.Len(t, w.Chords, 4*NumChordColumns)
	_, err = SeedChords(r, v.Melody, 5)
	assert.Error(t, err)
}

func TestZerosOnes(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0}, Zeros(3))
	assert.Equal(t, []byte{1, 1, 1}, Ones(3))
}

func TestLoopChords(t *testing.T) {
	chords, err := ChordRows("C", "G7")
	require.NoError(t, err)
	looped := LoopChords(chords, 5)
	require.Len(t, looped, 5*NumChordColumns)
	got := make([]string, 5)
	for i := range got {
		got[i] = ChordSymbol(looped[i*NumChordColumns : (i+1)*NumChordColumns])
	}
	assert.Equal(t, []string{"C", "G7", "C", "G7", "C"}, got)
	assert.Equal(t, Zeros(2*NumChordColumns), LoopChords(nil, 2))
}

func TestTransposeChord(t *testing.T) {
	c, err := ChordBits("C")
	require.NoError(t, err)
	assert.Equal(t, "D", ChordSymbol(TransposeChord(c, 2)))
	assert.Equal(t, "A#", ChordSymbol(TransposeChord(c, -2)))
	assert.Equal(t, "C", ChordSymbol(TransposeChord(c, 24)))
}

func TestWindows(t *testing.T) {
	melody := make([]byte, 6*2)
	for i := range melody {
		melody[i] = byte(i / 2 % 2)
	}
	chords, err := ChordRows("C", "F", "G")
	require.NoError(t, err)
	v := &Vessel{Melody: melody, Chords: chords, Rows: 6, Cols: 2}

	ws, err := Windows(v, 4, 1)
	require.NoError(t, err)
	require.Len(t, ws, 3)
	for i, w := range ws {
		assert.Equal(t, 4, w.Rows)
		assert.Equal(t, melody[i*2:(i+4)*2], w.Melody)
		assert.Equal(t, 4, w.ChordRows())
	}
	assert.Equal(t, "F", ChordSymbol(ws[1].ChordRow(0)))
	assert.Equal(t, "F", ChordSymbol(ws[2].ChordRow(2)), "chords are looped")

	ws, err = Windows(v, 4, 2)
	require.NoError(t, err)
	assert.Len(t, ws, 2)

	_, err = Windows(v, 7, 1)
	assert.Error(t, err)
	_, err = Windows(v, 4, 0)
	assert.Error(t, err)
}
