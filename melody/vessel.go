package melody

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Vessel is one example: a melody of Rows rows of Cols bits, followed by one
// chord row per melody row.
type Vessel struct {
	Melody []byte
	Chords []byte
	Rows   int
	Cols   int
}

// NewVessel checks the sizes of melody and chords against rows and cols.
func NewVessel(melody, chords []byte, rows, cols int) (*Vessel, error) {
	if len(melody) != rows*cols {
		return nil, errors.Errorf("melody has %d bits, expected %d rows of %d", len(melody), rows, cols)
	}
	if len(chords) != 0 && len(chords) != rows*NumChordColumns {
		return nil, errors.Errorf("chords have %d bits, expected %d rows of %d", len(chords), rows, NumChordColumns)
	}
	return &Vessel{Melody: melody, Chords: chords, Rows: rows, Cols: cols}, nil
}

// Len is the length of Data.
func (v *Vessel) Len() int { return len(v.Melody) + len(v.Chords) }

// Data returns a new slice holding the melody bits followed by the chord bits.
func (v *Vessel) Data() []byte {
	retVal := make([]byte, 0, v.Len())
	retVal = append(retVal, v.Melody...)
	return append(retVal, v.Chords...)
}

// ChordSpan is the range of Data holding the chords.
func (v *Vessel) ChordSpan() (start, end int) { return len(v.Melody), v.Len() }

// ChordRows is the number of chord rows.
func (v *Vessel) ChordRows() int { return len(v.Chords) / NumChordColumns }

// SetData copies data back into the melody and the chords. data may be shorter
// than Len; the rest is left as is.
func (v *Vessel) SetData(data []byte) {
	n := copy(v.Melody, data)
	copy(v.Chords, data[n:])
}

// Row returns melody row i. Writes go to the vessel.
func (v *Vessel) Row(i int) []byte { return v.Melody[i*v.Cols : (i+1)*v.Cols] }

// ChordRow returns chord row i. Writes go to the vessel.
func (v *Vessel) ChordRow(i int) []byte {
	return v.Chords[i*NumChordColumns : (i+1)*NumChordColumns]
}

func (v *Vessel) Clone() *Vessel {
	return &Vessel{
		Melody: append([]byte(nil), v.Melody...),
		Chords: append([]byte(nil), v.Chords...),
		Rows:   v.Rows,
		Cols:   v.Cols,
	}
}

// Format implements fmt.Formatter. %v prints the sizes; %+v prints every row.
func (v *Vessel) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "Vessel %dx%d, %d chord rows", v.Rows, v.Cols, v.ChordRows())
	if !s.Flag('+') {
		return
	}
	var buf strings.Builder
	buf.WriteString("\nMelody:")
	writeRows(&buf, v.Melody, v.Cols)
	if len(v.Chords) > 0 {
		buf.WriteString("\nChords:")
		writeRows(&buf, v.Chords, NumChordColumns)
	}
	s.Write([]byte(buf.String()))
}

func writeRows(buf *strings.Builder, bits []byte, cols int) {
	for i, b := range bits {
		if i%cols == 0 {
			buf.WriteByte('\n')
		} else {
			buf.WriteByte(' ')
		}
		buf.WriteByte('0' + b)
	}
}
