package improv

import (
	"fmt"

	"github.com/gorgonia/improv/cluster"
	"github.com/gorgonia/improv/encoding/field"
	"github.com/gorgonia/improv/melody"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// ReceptiveFields returns the receptive field of every feature detector of
// layer l. When k is positive the fields are clustered into k clusters; when
// it is negative cluster.SuggestK picks the count; zero leaves them
// unclustered.
//
// Fields of the first layer are laid out one time step per row: the melody
// row followed by its chord row. Fields of higher layers are square.
func (b *Brain) ReceptiveFields(l, k int) (field.Frame, *cluster.KMeans, error) {
	if l < 0 || l >= b.net.Depth() {
		return field.Frame{}, nil, errors.Errorf("no layer %d in a network of %d", l, b.net.Depth())
	}
	points := cluster.FromWeights(b.net.Weights(l))
	frame := field.Frame{
		Title:  fmt.Sprintf("%s layer %d", b.conf.Name, l),
		Fields: make([]field.Field, len(points)),
	}
	for i, p := range points {
		frame.Fields[i] = field.Field{Detector: p.ID, Values: p.Vector, Cluster: -1}
	}
	if l == 0 {
		frame.Rows = b.conf.Rows
		frame.Cols = b.conf.Encoding.Columns() + melody.NumChordColumns
		for i := range frame.Fields {
			frame.Fields[i].Values = b.timeMajor(frame.Fields[i].Values)
		}
	}
	if k == 0 {
		return frame, nil, nil
	}
	if k < 0 {
		k = cluster.SuggestK(len(points))
	}

	km, err := b.cluster(points, k)
	if err != nil {
		return field.Frame{}, nil, errors.WithMessagef(err, "layer %d", l)
	}
	for _, c := range km.Clusters() {
		for _, p := range c.Points {
			frame.Fields[p.ID].Cluster = c.ID
		}
	}
	b.logger.WithFields(log.Fields{
		"layer":      l,
		"k":          km.K(),
		"iterations": km.Iterations(),
		"swcss":      km.SWCSS(),
	}).Info("receptive fields clustered")
	return frame, km, nil
}

// cluster runs k-means on points. A run that empties a cluster is retried
// with one cluster less.
func (b *Brain) cluster(points []*cluster.DataPoint, k int) (*cluster.KMeans, error) {
	for {
		km, err := cluster.New(k, cluster.DefaultMaxIterations, points)
		if err != nil {
			return nil, err
		}
		err = km.Run()
		var degenerate cluster.DegenerateClusterError
		if k > 1 && errors.As(err, &degenerate) {
			b.logger.WithError(err).WithField("k", k).Warn("retrying with fewer clusters")
			k--
			continue
		}
		if err != nil {
			return nil, err
		}
		return km, nil
	}
}

// timeMajor reorders an input field from all melody rows then all chord rows
// into melody row, chord row pairs.
func (b *Brain) timeMajor(values []float32) []float32 {
	rows, cols := b.conf.Rows, b.conf.Encoding.Columns()
	mel := MakeIterator(values[:rows*cols], rows, cols)
	chords := MakeIterator(values[rows*cols:], rows, melody.NumChordColumns)
	retVal := make([]float32, 0, len(values))
	for i := 0; i < rows; i++ {
		retVal = append(retVal, mel[i]...)
		retVal = append(retVal, chords[i]...)
	}
	ReturnIterator(rows, mel)
	ReturnIterator(rows, chords)
	return retVal
}

// Hinton returns the probability of each input unit turning on given the
// first layer's current hidden state, one time step per row as in
// ReceptiveFields. After a generation it shows how sure the network was of
// the melody it wrote.
func (b *Brain) Hinton() ([][]float32, error) {
	d, err := b.net.Layer(0).HintonDiagram(1, b.conf.InputLength())
	if err != nil {
		return nil, errors.WithMessage(err, "hinton diagram")
	}
	values := b.timeMajor(d[0])
	cols := b.conf.Encoding.Columns() + melody.NumChordColumns
	retVal := make([][]float32, b.conf.Rows)
	for i := range retVal {
		retVal[i] = values[i*cols : (i+1)*cols : (i+1)*cols]
	}
	return retVal, nil
}

// DrawFields encodes one frame per layer into enc and flushes it. k is as in
// ReceptiveFields.
func (b *Brain) DrawFields(enc FieldEncoder, k int) error {
	for l := 0; l < b.net.Depth(); l++ {
		kl := k
		if w := b.net.Layer(l).NumHidden(); kl > w {
			kl = w
		}
		frame, _, err := b.ReceptiveFields(l, kl)
		if err != nil {
			return err
		}
		if err = enc.Encode(frame); err != nil {
			return errors.WithMessagef(err, "layer %d", l)
		}
	}
	return enc.Flush()
}
