// Command provisor learns a corpus of improvised melodies over jazz
// progressions, then improvises over a given progression.
package main

import (
	"context"
	"flag"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gorgonia/improv"
	"github.com/gorgonia/improv/encoding/field"
	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

var (
	encName = flag.String("encoding", "chromatic", "note encoding: chromatic, sequential or circles")
	rows    = flag.Int("rows", 4, "melody rows of a training window")
	layers  = flag.String("layers", "64,32", "comma separated hidden layer widths")
	extend  = flag.Int("extend", 0, "width of an extra layer stacked after learning, 0 for none")
	epochs  = flag.Int("epochs", 50, "training epochs per layer")
	songs   = flag.Int("songs", 8, "number of synthesised songs to learn from")
	seed    = flag.Int64("seed", 0, "random seed, 0 for a time based one")
	simple  = flag.Bool("simple", false, "sample every input unit on its own")
	chords  = flag.String("chords", "Dm7,G7,CM7,CM7,Dm7,G7,C,C", "progression to improvise over, one chord per row")
	step    = flag.Int("step", 0, "rows generated per window slide, 0 generates a single window")
	k       = flag.Int("k", -1, "receptive field clusters, negative to pick automatically, 0 for none")
	load    = flag.String("load", "", "load a saved brain instead of learning")
	out     = flag.String("out", ".", "output directory")
	every   = flag.Int("every", 10, "report every n epochs")
	hinton  = flag.Bool("hinton", false, "print the input probabilities after improvising")
	verbose = flag.Bool("v", false, "print the brain's log")
)

func parseWidths(s string) ([]int, error) {
	var retVal []int
	for _, f := range strings.Split(s, ",") {
		w, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, errors.Wrapf(err, "bad layer width %q", f)
		}
		retVal = append(retVal, w)
	}
	return retVal, nil
}

func config() (improv.Config, error) {
	enc, err := melody.ParseEncoding(*encName)
	if err != nil {
		return improv.Config{}, err
	}
	widths, err := parseWidths(*layers)
	if err != nil {
		return improv.Config{}, err
	}
	conf := improv.DefaultConfig(enc, *rows)
	conf.Name = "provisor"
	conf.LayerSizes = widths
	conf.Seed = *seed
	conf.Simple = *simple
	conf.Training.Epochs = *epochs
	conf.Training.Progress = &progress{every: *every}
	return conf, nil
}

func learn(ctx context.Context, b *improv.Brain) error {
	conf := b.Config()
	r := rand.New(rand.NewSource(*seed))
	vessels, err := corpus(r, conf.Encoding, *songs, conf.Rows)
	if err != nil {
		return err
	}
	log.WithField("windows", len(vessels)).Info("corpus ready")
	if err = b.Learn(ctx, vessels); err != nil {
		return err
	}
	if *extend > 0 {
		if _, err = b.Extend(ctx, *extend); err != nil {
			return err
		}
	}
	if err = b.Dump(filepath.Join(*out, "energy.csv")); err != nil {
		return err
	}
	return b.Plot(filepath.Join(*out, "energy.png"), conf.Name+" energy")
}

func improvise(b *improv.Brain) (*melody.Vessel, error) {
	progression, err := melody.ChordRows(strings.Split(*chords, ",")...)
	if err != nil {
		return nil, err
	}
	if *step <= 0 {
		rows := b.Config().Rows
		return b.Generate(melody.LoopChords(progression, rows))
	}
	return b.GenerateWindowed(progression, *step)
}

func drawFields(b *improv.Brain) error {
	f, err := os.Create(filepath.Join(*out, "fields.gif"))
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return b.DrawFields(field.NewEncoder(f), *k)
}

func run(ctx context.Context) error {
	if err := os.MkdirAll(*out, 0755); err != nil {
		return errors.WithStack(err)
	}
	conf, err := config()
	if err != nil {
		return err
	}
	b, err := improv.New(conf)
	if err != nil {
		return err
	}
	if *verbose {
		defer b.Log(os.Stderr)
	}

	if *load != "" {
		err = b.Load(*load)
	} else {
		err = learn(ctx, b)
	}
	if err != nil {
		return err
	}
	if err = b.Save(filepath.Join(*out, "brain.gob")); err != nil {
		return err
	}
	dot := b.Network().ToDot()
	if err = os.WriteFile(filepath.Join(*out, "network.dot"), []byte(dot), 0644); err != nil {
		return errors.WithStack(err)
	}
	if err = drawFields(b); err != nil {
		return err
	}

	v, err := improvise(b)
	if err != nil {
		return err
	}
	printMelody(os.Stdout, b.Config().Encoding, v)
	if *hinton {
		d, err := b.Hinton()
		if err != nil {
			return err
		}
		printHinton(os.Stdout, d)
	}
	return nil
}

func main() {
	flag.Parse()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx); err != nil {
		for _, e := range improv.Errors(err) {
			log.Error(e)
		}
		stop()
		os.Exit(1)
	}
}
