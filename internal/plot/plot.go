package plot

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"

	"github.com/Elenmith/TPLProgram/internal/errors"
	"github.com/Elenmith/TPLProgram/internal/function"
	"github.com/Elenmith/TPLProgram/internal/logging"
)

// Plotter renders fn over [start, end] and persists it at path, returning
// the path actually written.
type Plotter interface {
	Plot(ctx context.Context, fn function.Function, start, end float64, path string) (string, error)
}

// Default image geometry
const (
	DefaultWidth  = 400
	DefaultHeight = 300
	DefaultPoints = 100
)

// Compile-time interface check
var _ Plotter = (*PNGPlotter)(nil)

// PNGPlotter writes plots as PNG files.
type PNGPlotter struct {
	width  int
	height int
	points int
	logger *logging.Logger
}

// Option configures a PNGPlotter.
type Option func(*PNGPlotter)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(p *PNGPlotter) {
		if width > 0 {
			p.width = width
		}
		if height > 0 {
			p.height = height
		}
	}
}

// WithPoints sets how many samples are drawn.
func WithPoints(n int) Option {
	return func(p *PNGPlotter) {
		if n > 0 {
			p.points = n
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *logging.Logger) Option {
	return func(p *PNGPlotter) { p.logger = l }
}

// NewPNGPlotter creates a PNGPlotter, 400x300 with 100 samples by default.
func NewPNGPlotter(opts ...Option) *PNGPlotter {
	p := &PNGPlotter{
		width:  DefaultWidth,
		height: DefaultHeight,
		points: DefaultPoints,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.NopLogger()
	}
	return p
}

// Plot samples fn, renders the curve and saves it. A path without a ".png"
// extension gets one.
func (p *PNGPlotter) Plot(ctx context.Context, fn function.Function, start, end float64, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if fn.Eval == nil {
		return "", errors.NewValidationError("function has no evaluator").WithField("function").WithValue(fn.ID)
	}
	if !isFinite(start) || !isFinite(end) || end <= start {
		return "", errors.NewValidationError(fmt.Sprintf("cannot plot over [%v, %v]", start, end)).WithField("range")
	}

	path, err := NormalizeFileName(path)
	if err != nil {
		return "", err
	}

	xs, ys := Sample(fn, start, end, p.points)
	img, err := Render(fn.Name, xs, ys, p.width, p.height)
	if err != nil {
		var plotErr *errors.PlotError
		if errors.As(err, &plotErr) {
			plotErr.WithPath(path)
		}
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := Save(img, path); err != nil {
		return "", err
	}

	p.logger.Debug("plot saved",
		"function", fn.Name,
		"path", path,
		"points", p.points,
		"size", fmt.Sprintf("%dx%d", p.width, p.height))
	return path, nil
}

// Save encodes img as PNG at path. Failures are PlotErrors; permission and
// missing-directory failures are retryable with a different path.
func Save(img image.Image, path string) error {
	f, err := os.Create(path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrPermission):
			return errors.NewPlotError("you do not have permission to save the file here, try another location",
				errors.Join(errors.ErrPermissionDenied, err)).WithPath(path).WithRetryable(true)
		default:
			return errors.NewPlotError("cannot create plot file", err).WithPath(path).WithRetryable(true)
		}
	}

	if err := png.Encode(f, img); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return errors.NewPlotError("cannot encode plot", errors.Join(errors.ErrEncodeFailed, err)).WithPath(path)
	}
	if err := f.Close(); err != nil {
		return errors.NewPlotError("cannot write plot file", err).WithPath(path).WithRetryable(true)
	}
	return nil
}
