package melody

import (
	"math/rand"

	"github.com/pkg/errors"
)

func Zeros(n int) []byte { return make([]byte, n) }

func Ones(n int) []byte {
	retVal := make([]byte, n)
	for i := range retVal {
		retVal[i] = 1
	}
	return retVal
}

// RandomBits draws n fair bits from r.
func RandomBits(r *rand.Rand, n int) []byte {
	retVal := make([]byte, n)
	for i := range retVal {
		retVal[i] = byte(r.Intn(2))
	}
	return retVal
}

// Seed makes a vessel with random melody bits over the given chord rows. The
// melody has one row of cols bits per chord row.
func Seed(r *rand.Rand, cols int, chords []byte) (*Vessel, error) {
	if len(chords) == 0 || len(chords)%NumChordColumns != 0 {
		return nil, errors.Errorf("chords have %d bits, not a whole number of rows", len(chords))
	}
	rows := len(chords) / NumChordColumns
	return NewVessel(RandomBits(r, rows*cols), append([]byte(nil), chords...), rows, cols)
}

// SeedChords makes a vessel with the given melody and random chord bits.
func SeedChords(r *rand.Rand, melody []byte, rows int) (*Vessel, error) {
	if rows < 1 || len(melody)%rows != 0 {
		return nil, errors.Errorf("melody of %d bits cannot be split into %d rows", len(melody), rows)
	}
	return NewVessel(append([]byte(nil), melody...), RandomBits(r, rows*NumChordColumns), rows, len(melody)/rows)
}
