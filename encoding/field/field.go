// Package field renders the receptive fields of a layer's feature detectors
// into an animated GIF, one frame per layer. Fields that belong to a cluster
// are tinted with the cluster's colour and drawn cluster by cluster.
package field

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/pkg/errors"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/math/fixed"
)

var regular *truetype.Font

const (
	dpi        = 72.0
	fontsize   = 10.0
	lineheight = 1.2
	border     = 3

	// Threshold is the level under which a thresholded unit is drawn black.
	// Units at or above it are drawn half grey.
	Threshold = 0.5
)

func init() {
	var err error
	if regular, err = truetype.Parse(gomono.TTF); err != nil {
		panic(err)
	}
}

// Field is the receptive field of one feature detector.
type Field struct {
	Detector int
	Values   []float32 // normalised to [0, 1]
	Cluster  int       // -1 when not clustered
}

// Frame is one image of the animation.
type Frame struct {
	Title  string
	Rows   int // layout of a single field. Non-positive Rows or Cols lay
	Cols   int // the field out as the smallest square that holds it
	Fields []Field
}

func (f Frame) layout() (rows, cols int) {
	if f.Rows > 0 && f.Cols > 0 {
		return f.Rows, f.Cols
	}
	side := int(math.Ceil(math.Sqrt(float64(len(f.Fields[0].Values)))))
	return side, side
}

// Encoder collects frames and writes them as an animated GIF on Flush.
type Encoder struct {
	Scale     int // pixels per unit
	Delay     int // per frame, in 100ths of a second
	Threshold bool

	io.Writer
	font.Drawer

	out *gif.GIF
}

// NewEncoder creates an encoder writing to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{
		Scale:  4,
		Delay:  200,
		Writer: w,
		Drawer: font.Drawer{
			Src: image.White,
			Face: truetype.NewFace(regular, &truetype.Options{
				Size:    fontsize,
				DPI:     dpi,
				Hinting: font.HintingFull,
			}),
		},
		out: &gif.GIF{},
	}
}

// Encode renders a frame.
func (enc *Encoder) Encode(f Frame) error {
	if len(f.Fields) == 0 {
		return errors.Errorf("frame %q has no fields", f.Title)
	}
	scale := enc.Scale
	if scale < 1 {
		scale = 1
	}
	fields := append([]Field(nil), f.Fields...)
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].Cluster < fields[j].Cluster })

	rows, cols := f.layout()
	tileW, tileH := cols*scale, rows*scale
	perRow := int(math.Ceil(math.Sqrt(float64(len(fields)))))
	gridRows := (len(fields) + perRow - 1) / perRow

	text := []string{f.Title}
	if sizes := clusterSizes(fields); len(sizes) > 0 {
		text = append(text, summary(sizes))
	}
	dy := int(math.Ceil(fontsize * lineheight * dpi / 72))
	header := len(text)*dy + border

	w := perRow*(tileW+border) + border
	for _, s := range text {
		if tw := font.MeasureString(enc.Face, s).Ceil() + 2*border; tw > w {
			w = tw
		}
	}
	h := header + gridRows*(tileH+border) + border

	im := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(im, im.Bounds(), image.Black, image.Point{}, draw.Src)
	enc.Dst = im
	y := 0
	for _, s := range text {
		y += dy
		enc.Dot = fixed.P(border, y)
		enc.DrawString(s)
	}

	for i, fl := range fields {
		x0 := border + (i%perRow)*(tileW+border)
		y0 := header + border + (i/perRow)*(tileH+border)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				idx := r*cols + c
				if idx >= len(fl.Values) {
					break
				}
				v := fl.Values[idx]
				if enc.Threshold {
					v = threshold(v)
				}
				cell := image.Rect(x0+c*scale, y0+r*scale, x0+(c+1)*scale, y0+(r+1)*scale)
				draw.Draw(im, cell, image.NewUniform(tint(v, fl.Cluster)), image.Point{}, draw.Src)
			}
		}
	}

	p := image.NewPaletted(im.Bounds(), palette.Plan9)
	draw.Draw(p, p.Bounds(), im, image.Point{}, draw.Src)
	enc.out.Image = append(enc.out.Image, p)
	enc.out.Delay = append(enc.out.Delay, enc.Delay)
	return nil
}

// Flush writes every encoded frame. The logical screen is as large as the
// largest frame.
func (enc *Encoder) Flush() error {
	if len(enc.out.Image) == 0 {
		return errors.New("no frames to write")
	}
	var w, h int
	for _, im := range enc.out.Image {
		if b := im.Bounds(); b.Dx() > w {
			w = b.Dx()
		}
		if b := im.Bounds(); b.Dy() > h {
			h = b.Dy()
		}
	}
	enc.out.Config = image.Config{Width: w, Height: h}
	return errors.WithStack(gif.EncodeAll(enc.Writer, enc.out))
}

func threshold(v float32) float32 {
	if v < Threshold {
		return 0
	}
	return 0.5
}

// tint colours a grey level for a cluster. Six patterns alternate so
// neighbouring clusters differ in more than one channel.
func tint(v float32, cluster int) color.RGBA {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	g := int(v*255 + 0.5)
	r, gr, b := g, g, g
	if cluster >= 0 {
		k := cluster
		switch k % 6 {
		case 0:
			r += 12*k + 10
		case 1:
			gr += 6*k + 10
			b -= 8*k + 10
		case 2:
			b += 8*k + 10
		case 3:
			r += 12*k + 10
			gr += 6*k + 10
		case 4:
			r += 12*k + 10
			b += 8*k + 10
		case 5:
			gr += 6*k + 10
		}
	}
	return color.RGBA{R: clamp(r), G: clamp(gr), B: clamp(b), A: 255}
}

func clamp(c int) uint8 {
	switch {
	case c < 0:
		return 0
	case c > 255:
		return 255
	}
	return uint8(c)
}

func clusterSizes(fields []Field) []int {
	var retVal []int
	for _, f := range fields {
		if f.Cluster < 0 {
			continue
		}
		for len(retVal) <= f.Cluster {
			retVal = append(retVal, 0)
		}
		retVal[f.Cluster]++
	}
	return retVal
}

// Median of sizes, halved down for an even count.
func Median(sizes []int) int {
	if len(sizes) == 0 {
		return 0
	}
	s := append([]int(nil), sizes...)
	sort.Ints(s)
	if len(s)%2 == 0 {
		return (s[len(s)/2] + s[len(s)/2-1]) / 2
	}
	return s[len(s)/2]
}

// summary lists cluster sizes and the layer width that would make every
// cluster the median size.
func summary(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, s := range sizes {
		parts[i] = fmt.Sprint(s)
	}
	m := Median(sizes)
	return fmt.Sprintf("clusters %s, median %d, suggested width %d", strings.Join(parts, " "), m, m*len(sizes))
}
