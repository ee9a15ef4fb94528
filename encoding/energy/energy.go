// Package energy plots the energy of every layer over its training epochs.
package energy

import (
	"fmt"
	"image/color"
	"io"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// Size is the side of a saved chart.
const Size = 6 * vg.Inch

var colors = []color.RGBA{
	{R: 200, A: 255},
	{G: 160, A: 255},
	{B: 200, A: 255},
	{R: 200, G: 160, A: 255},
	{R: 200, B: 200, A: 255},
	{G: 160, B: 200, A: 255},
}

// Plot draws one line per layer. layers[i][e] is the energy of layer i after
// epoch e. Layers without epochs are skipped.
func Plot(title string, layers [][]float64) (*plot.Plot, error) {
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "epoch"
	p.Y.Label.Text = "energy"
	p.Legend.Top = true

	var lines int
	for i, energies := range layers {
		if len(energies) == 0 {
			continue
		}
		points := make(plotter.XYs, len(energies))
		for e, v := range energies {
			points[e] = plotter.XY{X: float64(e), Y: v}
		}
		line, scatter, err := plotter.NewLinePoints(points)
		if err != nil {
			return nil, errors.Wrapf(err, "layer %d", i)
		}
		c := colors[i%len(colors)]
		line.Color = c
		line.Width = vg.Points(1)
		scatter.Color = c
		scatter.Radius = vg.Points(1.5)
		scatter.Shape = draw.CircleGlyph{}
		p.Add(line, scatter)
		p.Legend.Add(fmt.Sprintf("layer %d", i), line)
		lines++
	}
	if lines == 0 {
		return nil, errors.New("no energies to plot")
	}
	return p, nil
}

// Write renders the chart as a PNG.
func Write(w io.Writer, title string, layers [][]float64) error {
	p, err := Plot(title, layers)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(Size, Size, "png")
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = wt.WriteTo(w)
	return errors.WithStack(err)
}

// Save renders the chart into a file. The format follows the file extension.
func Save(filename, title string, layers [][]float64) error {
	p, err := Plot(title, layers)
	if err != nil {
		return err
	}
	return errors.WithStack(p.Save(Size, Size, filename))
}
