package main

import (
	"math/rand"

	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
)

var progressions = [][]string{
	{"C", "Am7", "Dm7", "G7"},
	{"Dm7", "G7", "CM7", "CM7"},
	{"F", "Bb7", "C", "G7"},
	{"Am", "D7", "G", "E7"},
}

// chordTones are the pitches of a chord over the two octaves from C4, or the
// top two octaves enc can encode if those reach no higher.
func chordTones(enc melody.Encoding, bits []byte) []int {
	base := 60
	if _, hi := enc.Range(); base+24 > hi {
		base = hi - 24
	}
	var retVal []int
	for octave := base; octave < base+24; octave += melody.NumChordColumns {
		for pc, b := range bits {
			if b == 1 {
				retVal = append(retVal, octave+pc)
			}
		}
	}
	return retVal
}

// song improvises a melody of bars bars over looping progressions, each chord
// lasting beats rows. Most notes are chord tones; some are rests or held.
func song(r *rand.Rand, enc melody.Encoding, bars, beats int) (*melody.Vessel, error) {
	var symbols []string
	for len(symbols) < bars {
		symbols = append(symbols, progressions[r.Intn(len(progressions))]...)
	}
	symbols = symbols[:bars]

	var notes []melody.Note
	var chords []byte
	for _, s := range symbols {
		bits, err := melody.ChordBits(s)
		if err != nil {
			return nil, err
		}
		tones := chordTones(enc, bits)
		for beat := 0; beat < beats; {
			d := 1 + r.Intn(2)
			if beat+d > beats {
				d = beats - beat
			}
			n := melody.Note{MIDI: tones[r.Intn(len(tones))], Duration: d}
			if r.Intn(8) == 0 {
				n.MIDI = melody.Rest
			}
			notes = append(notes, n)
			beat += d
		}
		for beat := 0; beat < beats; beat++ {
			chords = append(chords, bits...)
		}
	}

	mel, rows, err := enc.EncodeMelody(notes)
	if err != nil {
		return nil, errors.WithMessage(err, "cannot encode song")
	}
	return melody.NewVessel(mel, chords, rows, enc.Columns())
}

// corpus cuts songs into training windows of rows rows.
func corpus(r *rand.Rand, enc melody.Encoding, songs, rows int) ([]*melody.Vessel, error) {
	var retVal []*melody.Vessel
	for i := 0; i < songs; i++ {
		s, err := song(r, enc, 8, 4)
		if err != nil {
			return nil, err
		}
		ws, err := melody.Windows(s, rows, rows/2+1)
		if err != nil {
			return nil, errors.WithMessagef(err, "song %d", i)
		}
		retVal = append(retVal, ws...)
	}
	return retVal, nil
}
