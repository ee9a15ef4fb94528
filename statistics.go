package improv

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/gorgonia/improv/encoding/energy"
	"github.com/gorgonia/improv/layered"
	"github.com/pkg/errors"
)

// Statistics records training energy. It is a layered.Progress.
type Statistics struct {
	// Energy[l][e] is the mean energy of layer l over the examples of epoch e.
	Energy [][]float32
	count  int

	next layered.Progress
}

func makeStatistics(next layered.Progress) Statistics {
	return Statistics{
		Energy: make([][]float32, 0, 4),
		next:   next,
	}
}

func (s *Statistics) OnEpochStart(layer, epoch int) {
	for len(s.Energy) <= layer {
		s.Energy = append(s.Energy, nil)
	}
	if epoch == 0 {
		// a layer that trains again starts a new series
		s.Energy[layer] = s.Energy[layer][:0]
	}
	s.Energy[layer] = append(s.Energy[layer], 0)
	s.count = 0
	if s.next != nil {
		s.next.OnEpochStart(layer, epoch)
	}
}

func (s *Statistics) OnExampleProcessed(layer, epoch, example, total int, e float32) {
	series := s.Energy[layer]
	last := len(series) - 1
	s.count++
	series[last] += (e - series[last]) / float32(s.count)
	if s.next != nil {
		s.next.OnExampleProcessed(layer, epoch, example, total, e)
	}
}

// Series returns the energies as float64s, as the energy package plots them.
func (s *Statistics) Series() [][]float64 {
	retVal := make([][]float64, len(s.Energy))
	for l, series := range s.Energy {
		retVal[l] = make([]float64, len(series))
		for e, v := range series {
			retVal[l][e] = float64(v)
		}
	}
	return retVal
}

// Dump writes one CSV record per epoch, one column per layer. Layers that
// trained for fewer epochs leave their cells empty.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	w := csv.NewWriter(f)

	header := []string{"epoch"}
	var epochs int
	for l, series := range s.Energy {
		header = append(header, "layer "+strconv.Itoa(l))
		if len(series) > epochs {
			epochs = len(series)
		}
	}
	if err := w.Write(header); err != nil {
		return errors.WithStack(err)
	}
	records := make([][]string, 0, epochs)
	for e := 0; e < epochs; e++ {
		record := make([]string, len(header))
		record[0] = strconv.Itoa(e)
		for l, series := range s.Energy {
			if e < len(series) {
				record[l+1] = strconv.FormatFloat(float64(series[e]), 'f', 3, 32)
			}
		}
		records = append(records, record)
	}
	if err := w.WriteAll(records); err != nil {
		return errors.WithStack(err)
	}
	w.Flush()
	return errors.WithStack(w.Error())
}

// Plot saves a chart of the energies. The format follows the file extension.
func (s *Statistics) Plot(filename, title string) error {
	return energy.Save(filename, title, s.Series())
}
