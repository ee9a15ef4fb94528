package melody

import "github.com/pkg/errors"

// Note is a pitch held for Duration rows. MIDI is Rest for a rest.
type Note struct {
	MIDI     int
	Duration int
}

// EncodeMelody encodes notes one after the other and returns the bits and the
// number of rows.
func (e Encoding) EncodeMelody(notes []Note) ([]byte, int, error) {
	var retVal []byte
	var rows int
	for i, n := range notes {
		bits, err := e.EncodeNote(n.MIDI, n.Duration)
		if err != nil {
			return nil, 0, errors.WithMessagef(err, "note %d", i)
		}
		retVal = append(retVal, bits...)
		rows += n.Duration
	}
	return retVal, rows, nil
}

// DecodeMelody reads notes back from melody bits. A sustained row lengthens the
// note before it. A sustained first row starts a rest.
func (e Encoding) DecodeMelody(bits []byte) []Note {
	cols := e.Columns()
	var retVal []Note
	for i := 0; i+cols <= len(bits); i += cols {
		s := e.DecodeRow(bits[i : i+cols])
		if s.Sustain && len(retVal) > 0 {
			retVal[len(retVal)-1].Duration++
			continue
		}
		if s.Sustain {
			s.MIDI = Rest
		}
		retVal = append(retVal, Note{MIDI: s.MIDI, Duration: 1})
	}
	return retVal
}
