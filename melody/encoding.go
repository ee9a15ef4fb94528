package melody

import (
	"strings"

	"github.com/gorgonia/improv/rbm"
	"github.com/pkg/errors"
)

// Rest is the MIDI value of a rest.
const Rest = -1

// LowestOctave is the MIDI octave stored in the first octave bit. Four octaves
// are encoded, so MIDI 48 through 95 are representable.
const LowestOctave = 4

// Encoding is a scheme for turning one time step of a melody into a row of
// bits. Every row starts with a sustain bit and a rest bit.
type Encoding byte

const (
	Chromatic       Encoding = iota // one-hot pitch class, one-hot octave
	Sequential                      // one-hot pitch over two octaves
	CirclesOfThirds                 // pitch class on the circles of major and minor thirds, one-hot octave
)

const (
	sustainBit = 0
	restBit    = 1
	pitchStart = 2
)

var encodingNames = map[Encoding]string{
	Chromatic:       "chromatic",
	Sequential:      "sequential",
	CirclesOfThirds: "circles",
}

func (e Encoding) String() string {
	if n, ok := encodingNames[e]; ok {
		return n
	}
	return "unknown"
}

// ParseEncoding parses the name returned by String.
func ParseEncoding(s string) (Encoding, error) {
	for e, n := range encodingNames {
		if strings.EqualFold(n, s) {
			return e, nil
		}
	}
	return 0, errors.Errorf("unknown note encoding %q", s)
}

func (e Encoding) pitchSize() int {
	switch e {
	case Sequential:
		return 24
	case CirclesOfThirds:
		return 4 + 3
	}
	return 12
}

func (e Encoding) octaveSize() int {
	if e == Sequential {
		return 0
	}
	return 4
}

// Range is the half-open range of MIDI values e can encode.
func (e Encoding) Range() (lo, hi int) {
	lo = LowestOctave * 12
	if e == Sequential {
		return lo, lo + e.pitchSize()
	}
	return lo, lo + 12*e.octaveSize()
}

// Columns is the width of one row.
func (e Encoding) Columns() int { return pitchStart + e.pitchSize() + e.octaveSize() }

// Groups is the per-row group layout: the sustain and rest bits together, not
// one-hot, followed by the one-hot pitch and octave groups.
func (e Encoding) Groups() []rbm.Group {
	pitchEnd := pitchStart + e.pitchSize()
	retVal := []rbm.Group{{Start: sustainBit, End: pitchStart}}
	switch e {
	case CirclesOfThirds:
		retVal = append(retVal,
			rbm.Group{Start: pitchStart, End: pitchStart + 4, OneHot: true},
			rbm.Group{Start: pitchStart + 4, End: pitchEnd, OneHot: true})
	default:
		retVal = append(retVal, rbm.Group{Start: pitchStart, End: pitchEnd, OneHot: true})
	}
	if e.octaveSize() > 0 {
		retVal = append(retVal, rbm.Group{Start: pitchEnd, End: pitchEnd + e.octaveSize(), OneHot: true})
	}
	return retVal
}

// Layout tiles Groups over rows rows.
func (e Encoding) Layout(rows int) []rbm.Group { return rbm.Tile(e.Groups(), rows, e.Columns()) }

func (e Encoding) writePitch(row []byte, midi int) {
	pitch := row[pitchStart : pitchStart+e.pitchSize()]
	switch e {
	case Sequential:
		pitch[midi-LowestOctave*12] = 1
	case CirclesOfThirds:
		pc := midi % 12
		pitch[pc%4] = 1
		pitch[4+pc%3] = 1
	default:
		pitch[midi%12] = 1
	}
	if e.octaveSize() > 0 {
		octave := row[pitchStart+e.pitchSize():]
		octave[midi/12-LowestOctave] = 1
	}
}

// EncodeNote encodes a note of duration time steps as duration rows. Every row
// after the first has its sustain bit set. midi is Rest for a rest.
func (e Encoding) EncodeNote(midi, duration int) ([]byte, error) {
	if duration < 1 {
		return nil, errors.Errorf("duration must be positive, got %d", duration)
	}
	if lo, hi := e.Range(); midi != Rest && (midi < lo || midi >= hi) {
		return nil, errors.Errorf("MIDI %d is outside the encoded range [%d, %d)", midi, lo, hi)
	}

	cols := e.Columns()
	retVal := make([]byte, cols*duration)
	for i := 0; i < duration; i++ {
		row := retVal[i*cols : (i+1)*cols]
		if i > 0 {
			row[sustainBit] = 1
		}
		if midi == Rest {
			row[restBit] = 1
			continue
		}
		e.writePitch(row, midi)
	}
	return retVal, nil
}

// Step is one decoded row.
type Step struct {
	MIDI    int // Rest if the row rests or carries no pitch
	Sustain bool
}

// DecodeRow reads a row written by EncodeNote, or generated by a network with
// one-hot groups. The lowest active bit of each group wins.
func (e Encoding) DecodeRow(row []byte) Step {
	s := Step{MIDI: Rest, Sustain: row[sustainBit] == 1}
	if row[restBit] == 1 {
		return s
	}
	pitch := row[pitchStart : pitchStart+e.pitchSize()]
	var pc int
	switch e {
	case CirclesOfThirds:
		major, minor := first(pitch[:4]), first(pitch[4:])
		if major < 0 || minor < 0 {
			return s
		}
		// the pitch class is the unique value in [0, 12) with those residues
		for pc = 0; pc < 12; pc++ {
			if pc%4 == major && pc%3 == minor {
				break
			}
		}
	default:
		if pc = first(pitch); pc < 0 {
			return s
		}
	}

	octave := 0
	if e.octaveSize() > 0 {
		if octave = first(row[pitchStart+e.pitchSize():]); octave < 0 {
			octave = 0
		}
	}
	s.MIDI = (LowestOctave+octave)*12 + pc
	return s
}

func first(bits []byte) int {
	for i, b := range bits {
		if b == 1 {
			return i
		}
	}
	return -1
}
