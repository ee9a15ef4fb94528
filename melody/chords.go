package melody

import (
	"strings"

	"github.com/pkg/errors"
)

// NumChordColumns is the width of one chord row: one bit per pitch class.
const NumChordColumns = 12

// NoChord is the symbol of a row with no chord.
const NoChord = "NC"

// chordType is a chord quality rooted on C, as semitones above the root.
type chordType struct {
	name      string
	intervals []int
}

// chordTypes is ordered by preference when bits are read back into a symbol.
var chordTypes = []chordType{
	{"", []int{0, 4, 7}},
	{"m", []int{0, 3, 7}},
	{"7", []int{0, 4, 7, 10}},
	{"M7", []int{0, 4, 7, 11}},
	{"m7", []int{0, 3, 7, 10}},
	{"m7b5", []int{0, 3, 6, 10}},
	{"o7", []int{0, 3, 6, 9}},
	{"6", []int{0, 4, 7, 9}},
	{"m6", []int{0, 3, 7, 9}},
	{"9", []int{0, 2, 4, 7, 10}},
	{"M9", []int{0, 2, 4, 7, 11}},
	{"m9", []int{0, 2, 3, 7, 10}},
	{"11", []int{0, 2, 4, 5, 7, 10}},
	{"m11", []int{0, 2, 3, 5, 7, 10}},
	{"13", []int{0, 2, 4, 7, 9, 10}},
	{"m13", []int{0, 2, 3, 5, 7, 9, 10}},
	{"mM7", []int{0, 3, 7, 11}},
	{"+", []int{0, 4, 8}},
	{"+7", []int{0, 4, 8, 10}},
	{"M7#5", []int{0, 4, 8, 11}},
	{"7b5", []int{0, 4, 6, 10}},
	{"7b9", []int{0, 1, 4, 7, 10}},
	{"7#9", []int{0, 3, 4, 7, 10}},
	{"7#11", []int{0, 4, 6, 7, 10}},
	{"M7#11", []int{0, 4, 6, 7, 11}},
	{"7alt", []int{0, 3, 4, 8, 10}},
	{"7b13", []int{0, 4, 7, 8, 10}},
	{"7no5", []int{0, 4, 10}},
	{"sus2", []int{0, 2, 7}},
	{"sus4", []int{0, 5, 7}},
	{"7sus4", []int{0, 5, 7, 10}},
	{"9sus4", []int{0, 2, 5, 7, 10}},
	{"m+", []int{0, 3, 8}},
	{"madd9", []int{0, 2, 3, 7}},
	{"m69", []int{0, 2, 3, 7, 9}},
	{"Blues", []int{0, 3, 5, 6, 7, 10}},
	{"Bass", []int{0}},
}

// chordAliases maps alternative spellings onto a name in chordTypes.
var chordAliases = map[string]string{
	"M":     "",
	"maj":   "",
	"min":   "m",
	"-":     "m",
	"maj7":  "M7",
	"m-7":   "m7",
	"-7":    "m7",
	"h7":    "m7b5",
	"dim7":  "o7",
	"aug":   "+",
	"#5":    "+",
	"aug7":  "+7",
	"7+":    "+7",
	"7#5":   "+7",
	"7aug":  "+7",
	"M7+":   "M7#5",
	"m#5":   "m+",
	"7sus":  "7sus4",
	"9sus":  "9sus4",
	"Msus2": "sus2",
	"Msus4": "sus4",
	"M13":   "13",
	"7#5#9": "7alt",
}

var pitchClasses = map[string]int{
	"C": 0, "C#": 1, "Db": 1,
	"D": 2, "D#": 3, "Eb": 3,
	"E": 4, "Fb": 4, "E#": 5,
	"F": 5, "F#": 6, "Gb": 6,
	"G": 7, "G#": 8, "Ab": 8,
	"A": 9, "A#": 10, "Bb": 10,
	"B": 11, "Cb": 11, "B#": 0,
}

var rootNames = [NumChordColumns]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func lookupChordType(name string) (chordType, bool) {
	if alias, ok := chordAliases[name]; ok {
		name = alias
	}
	for _, ct := range chordTypes {
		if ct.name == name {
			return ct, true
		}
	}
	return chordType{}, false
}

// splitChord splits a symbol such as "Bb7/D" into its root and quality. The
// bass note after a slash is dropped.
func splitChord(symbol string) (root, quality string, err error) {
	if i := strings.IndexByte(symbol, '/'); i >= 0 {
		symbol = symbol[:i]
	}
	if symbol == "" || symbol[0] < 'A' || symbol[0] > 'G' {
		return "", "", errors.Errorf("chord %q does not start with a root", symbol)
	}
	root = symbol[:1]
	if len(symbol) > 1 && (symbol[1] == '#' || symbol[1] == 'b') {
		root = symbol[:2]
	}
	return root, symbol[len(root):], nil
}

// ChordBits returns the pitch-class bits of a chord symbol such as "Dm7",
// "Bb7/D" or "NC". The chord type's bits rooted on C are rotated up by the
// root's distance from C.
func ChordBits(symbol string) ([]byte, error) {
	retVal := make([]byte, NumChordColumns)
	if symbol == NoChord {
		return retVal, nil
	}
	root, quality, err := splitChord(symbol)
	if err != nil {
		return nil, err
	}
	dist, ok := pitchClasses[root]
	if !ok {
		return nil, errors.Errorf("unknown root %q in chord %q", root, symbol)
	}
	ct, ok := lookupChordType(quality)
	if !ok {
		return nil, errors.Errorf("unknown chord type %q in chord %q", quality, symbol)
	}
	for _, iv := range ct.intervals {
		retVal[(iv+dist)%NumChordColumns] = 1
	}
	return retVal, nil
}

// ChordSymbol names the chord in bits. Chord types are tried in table order,
// each on every root from C upwards, so simpler qualities win: the bits of
// Am7 read as Am7 and not C6. Bits that match nothing, or are all zero, read
// as NoChord.
func ChordSymbol(bits []byte) string {
	var mask uint16
	for i := 0; i < NumChordColumns && i < len(bits); i++ {
		if bits[i] == 1 {
			mask |= 1 << uint(i)
		}
	}
	if mask == 0 {
		return NoChord
	}
	for _, ct := range chordTypes {
		for root := 0; root < NumChordColumns; root++ {
			if ct.mask(root) == mask {
				return rootNames[root] + ct.name
			}
		}
	}
	return NoChord
}

func (ct chordType) mask(root int) (retVal uint16) {
	for _, iv := range ct.intervals {
		retVal |= 1 << uint((iv+root)%NumChordColumns)
	}
	return
}

// ChordRows encodes symbols as one chord row per symbol.
func ChordRows(symbols ...string) ([]byte, error) {
	retVal := make([]byte, 0, len(symbols)*NumChordColumns)
	for _, s := range symbols {
		bits, err := ChordBits(s)
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, bits...)
	}
	return retVal, nil
}
