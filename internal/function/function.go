// Package function defines the integrands trapint can work with and the
// built-in catalogue of named functions.
//
// A Function is a plain value: a display name plus an evaluation closure.
// Functions must be pure so a single value can be evaluated from many
// goroutines at once.
package function

import (
	"math"
	"sort"
	"strings"

	"github.com/gobwas/glob"

	"github.com/Elenmith/TPLProgram/internal/errors"
)

// Function is a named, pure mapping y = f(x).
type Function struct {
	// ID is the stable catalogue key used on the command line and in config.
	ID string
	// Name is the human readable formula, e.g. "y = 2x^2 + 3".
	Name string
	// Eval evaluates the function at x. It must not retain state between calls.
	Eval func(x float64) float64
}

// New creates an ad-hoc Function that is not part of the catalogue.
func New(id, name string, eval func(float64) float64) Function {
	return Function{ID: id, Name: name, Eval: eval}
}

// At evaluates the function at x.
func (f Function) At(x float64) float64 {
	return f.Eval(x)
}

// String returns the formula.
func (f Function) String() string {
	return f.Name
}

// Default catalogue identifiers
const (
	LinearQuadratic = "linear-quadratic"
	Quadratic       = "quadratic"
	CubicMix        = "cubic-mix"
	Sine            = "sine"
	Exponential     = "exponential"
	Reciprocal      = "reciprocal"
)

// DefaultID is the function integrated when none is configured.
const DefaultID = Quadratic

var catalogue = map[string]Function{
	LinearQuadratic: {
		ID:   LinearQuadratic,
		Name: "y = 2x + 2x^2",
		Eval: func(x float64) float64 { return 2*x + 2*math.Pow(x, 2) },
	},
	Quadratic: {
		ID:   Quadratic,
		Name: "y = 2x^2 + 3",
		Eval: func(x float64) float64 { return 2*math.Pow(x, 2) + 3 },
	},
	CubicMix: {
		ID:   CubicMix,
		Name: "y = 3x^2 + 2x - 3",
		Eval: func(x float64) float64 { return 3*math.Pow(x, 2) + 2*x - 3 },
	},
	Sine: {
		ID:   Sine,
		Name: "y = sin(x)",
		Eval: math.Sin,
	},
	Exponential: {
		ID:   Exponential,
		Name: "y = e^x",
		Eval: math.Exp,
	},
	// Reciprocal is undefined at 0; integrating across it yields an
	// evaluation failure rather than a silent infinity.
	Reciprocal: {
		ID:   Reciprocal,
		Name: "y = 1/x",
		Eval: func(x float64) float64 { return 1 / x },
	},
}

// Lookup returns the catalogue function with the given ID.
// The match is case-insensitive.
func Lookup(id string) (Function, error) {
	fn, ok := catalogue[strings.ToLower(strings.TrimSpace(id))]
	if !ok {
		return Function{}, errors.NewNotFoundError("function", id).WithCause(errors.ErrFunctionNotFound)
	}
	return fn, nil
}

// All returns every catalogue function sorted by ID.
func All() []Function {
	out := make([]Function, 0, len(catalogue))
	for _, fn := range catalogue {
		out = append(out, fn)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// IDs returns the sorted catalogue identifiers.
func IDs() []string {
	all := All()
	ids := make([]string, len(all))
	for i, fn := range all {
		ids[i] = fn.ID
	}
	return ids
}

// Match returns the catalogue functions whose ID matches the glob pattern.
// An empty pattern matches everything.
func Match(pattern string) ([]Function, error) {
	if pattern == "" {
		return All(), nil
	}

	g, err := glob.Compile(strings.ToLower(pattern))
	if err != nil {
		return nil, errors.NewValidationError("invalid function pattern").
			WithField("match").
			WithValue(pattern).
			WithCause(err)
	}

	var out []Function
	for _, fn := range All() {
		if g.Match(fn.ID) {
			out = append(out, fn)
		}
	}
	return out, nil
}
