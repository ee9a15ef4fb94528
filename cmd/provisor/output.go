package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gorgonia/improv/melody"
	log "github.com/sirupsen/logrus"
)

// progress reports training as it goes, one line per epoch.
type progress struct {
	every int
	sum   float32
	count int
	layer int
	epoch int
}

func (p *progress) OnEpochStart(layer, epoch int) {
	p.report()
	p.layer, p.epoch = layer, epoch
	p.sum, p.count = 0, 0
}

func (p *progress) OnExampleProcessed(layer, epoch, example, total int, energy float32) {
	p.sum += energy
	p.count++
	if p.count == total {
		p.report()
	}
}

func (p *progress) report() {
	if p.count == 0 || p.every <= 0 || p.epoch%p.every != 0 {
		return
	}
	log.WithFields(log.Fields{
		"layer":  p.layer,
		"epoch":  p.epoch,
		"energy": p.sum / float32(p.count),
	}).Info("epoch")
	p.count = 0
}

var noteNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func noteName(midi int) string {
	if midi == melody.Rest {
		return "r"
	}
	return fmt.Sprintf("%s%d", noteNames[midi%12], midi/12-1)
}

// printMelody writes the notes of v, each under the chord it starts on.
func printMelody(w io.Writer, enc melody.Encoding, v *melody.Vessel) {
	var row int
	var buf strings.Builder
	for _, n := range enc.DecodeMelody(v.Melody) {
		chord := melody.NoChord
		if row < v.ChordRows() {
			chord = melody.ChordSymbol(v.ChordRow(row))
		}
		fmt.Fprintf(&buf, "%-4s %-5s x%d\n", noteName(n.MIDI), chord, n.Duration)
		row += n.Duration
	}
	fmt.Fprint(w, buf.String())
}

var shades = []rune(" .:*#")

// printHinton writes one line per time step, one shade per unit. Darker
// shades are likelier to be on.
func printHinton(w io.Writer, d [][]float32) {
	var buf strings.Builder
	for _, row := range d {
		for _, p := range row {
			i := int(p * float32(len(shades)))
			if i >= len(shades) {
				i = len(shades) - 1
			}
			if i < 0 {
				i = 0
			}
			buf.WriteRune(shades[i])
		}
		buf.WriteByte('\n')
	}
	fmt.Fprint(w, buf.String())
}
