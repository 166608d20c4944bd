package plot

import (
	"image"
	"image/color"
	"math"

	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
)

// lineColor is used for the curve and its markers.
var lineColor = color.RGBA{0x1F, 0x77, 0xB4, 0xFF}

// Sample evaluates fn at points evenly spaced abscissae
// x_i = start + i*(end-start)/points for i in [0, points).
func Sample(fn function.Function, start, end float64, points int) (xs, ys []float64) {
	xs = make([]float64, points)
	ys = make([]float64, points)
	for i := range xs {
		xs[i] = start + float64(i)*(end-start)/float64(points)
		ys[i] = fn.At(xs[i])
	}
	return xs, ys
}

// Render draws the samples as a connected scatter plot of width x height
// pixels. Non-finite samples are dropped.
func Render(title string, xs, ys []float64, width, height int) (image.Image, error) {
	pts := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		if isFinite(xs[i]) && isFinite(ys[i]) {
			pts = append(pts, plotter.XY{X: xs[i], Y: ys[i]})
		}
	}
	if len(pts) == 0 {
		return nil, errors.NewPlotError("every sample is non-finite", errors.ErrEmptyPlot)
	}

	p := gonumplot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"
	p.Add(plotter.NewGrid())

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, errors.NewPlotError("cannot build plot", err)
	}
	line.Color = lineColor
	line.Width = vg.Points(1.5)
	points.Color = lineColor
	points.Shape = draw.CircleGlyph{}
	points.Radius = vg.Points(1.5)
	p.Add(line, points)

	// At the default 72 DPI one point is one pixel.
	c := vgimg.New(vg.Length(width), vg.Length(height))
	p.Draw(draw.New(c))
	return c.Image(), nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
