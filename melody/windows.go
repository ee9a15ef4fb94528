package melody

import "github.com/pkg/errors"

// LoopChords repeats chord rows until there are rows of them. The last
// repetition may be cut short.
func LoopChords(chords []byte, rows int) []byte {
	retVal := make([]byte, rows*NumChordColumns)
	if len(chords) == 0 {
		return retVal
	}
	for i := 0; i < len(retVal); i += len(chords) {
		copy(retVal[i:], chords)
	}
	return retVal
}

// TransposeChord rotates chord bits up by semitones. Negative values rotate
// down.
func TransposeChord(bits []byte, semitones int) []byte {
	retVal := make([]byte, NumChordColumns)
	shift := ((semitones % NumChordColumns) + NumChordColumns) % NumChordColumns
	for i := 0; i < NumChordColumns && i < len(bits); i++ {
		retVal[(i+shift)%NumChordColumns] = bits[i]
	}
	return retVal
}

// Windows cuts v into vessels of length rows, each starting step rows after
// the last. A vessel with fewer chord rows than melody rows has its chords
// looped first.
func Windows(v *Vessel, length, step int) ([]*Vessel, error) {
	if length < 1 || step < 1 {
		return nil, errors.Errorf("window length %d and step %d must be positive", length, step)
	}
	if v.Rows < length {
		return nil, errors.Errorf("vessel of %d rows is shorter than a window of %d", v.Rows, length)
	}
	chords := v.Chords
	if v.ChordRows() != v.Rows {
		chords = LoopChords(chords, v.Rows)
	}

	n := (v.Rows-length)/step + 1
	retVal := make([]*Vessel, 0, n)
	for i := 0; i < n; i++ {
		start := i * step
		w := &Vessel{
			Melody: append([]byte(nil), v.Melody[start*v.Cols:(start+length)*v.Cols]...),
			Chords: append([]byte(nil), chords[start*NumChordColumns:(start+length)*NumChordColumns]...),
			Rows:   length,
			Cols:   v.Cols,
		}
		retVal = append(retVal, w)
	}
	return retVal, nil
}
