// Package optimize implements the sequential model-based optimization
// driver: hyperparameter spaces, surrogate models, the acquisition rule,
// stopping callbacks and the search loop itself. The driver minimizes an
// objective; callers hand it the negative of their maximization metric.
package optimize

import (
	"math"
	"math/rand"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// Dimension is one axis of a hyperparameter space. Dimensions work on an
// encoded float64 position internally; Decode turns a position back into
// the typed, rounded parameter value.
type Dimension interface {
	// Name is the hyperparameter name the dimension binds to.
	Name() string

	// Default returns the typed default value of this dimension.
	Default() interface{}

	// Bounds returns the inclusive encoded range.
	Bounds() (lo, hi float64)

	// Sample draws a random encoded position.
	Sample(rng *rand.Rand) float64

	// Decode converts an encoded position into the typed parameter value,
	// applying the dimension's rounding rule.
	Decode(pos float64) interface{}

	// Encode converts a typed value back to its encoded position.
	Encode(v interface{}) (float64, error)
}

// Real is a continuous dimension with a fixed rounding precision.
type Real struct {
	name string
	Low  float64
	High float64
	// Prec is the number of decimals kept when decoding; negative keeps
	// full precision.
	Prec int
	Def  float64
}

// NewReal builds a continuous dimension.
func NewReal(name string, low, high float64, prec int, def float64) Real {
	return Real{name: name, Low: low, High: high, Prec: prec, Def: def}
}

func (d Real) Name() string             { return d.name }
func (d Real) Default() interface{}     { return d.round(d.Def) }
func (d Real) Bounds() (float64, float64) { return d.Low, d.High }

func (d Real) Sample(rng *rand.Rand) float64 {
	return d.Low + rng.Float64()*(d.High-d.Low)
}

func (d Real) round(v float64) float64 {
	if d.Prec < 0 {
		return v
	}
	scale := math.Pow(10, float64(d.Prec))
	return math.Round(v*scale) / scale
}

func (d Real) Decode(pos float64) interface{} {
	return d.round(clamp(pos, d.Low, d.High))
}

func (d Real) Encode(v interface{}) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.NewValidationError(d.name, "expected a numeric value", v)
	}
	return clamp(f, d.Low, d.High), nil
}

// Integer is a discrete numeric dimension.
type Integer struct {
	name string
	Low  int
	High int
	Def  int
}

// NewInteger builds a discrete numeric dimension.
func NewInteger(name string, low, high, def int) Integer {
	return Integer{name: name, Low: low, High: high, Def: def}
}

func (d Integer) Name() string             { return d.name }
func (d Integer) Default() interface{}     { return d.Def }
func (d Integer) Bounds() (float64, float64) { return float64(d.Low), float64(d.High) }

func (d Integer) Sample(rng *rand.Rand) float64 {
	return float64(d.Low + rng.Intn(d.High-d.Low+1))
}

func (d Integer) Decode(pos float64) interface{} {
	v := int(math.Round(clamp(pos, float64(d.Low), float64(d.High))))
	return v
}

func (d Integer) Encode(v interface{}) (float64, error) {
	f, ok := toFloat(v)
	if !ok {
		return 0, errors.NewValidationError(d.name, "expected a numeric value", v)
	}
	return clamp(math.Round(f), float64(d.Low), float64(d.High)), nil
}

// Categorical is a dimension over an explicit value set, encoded by index.
type Categorical struct {
	name   string
	Values []interface{}
	Def    interface{}
}

// NewCategorical builds a dimension over an explicit value set.
func NewCategorical(name string, values []interface{}, def interface{}) Categorical {
	return Categorical{name: name, Values: values, Def: def}
}

func (d Categorical) Name() string         { return d.name }
func (d Categorical) Default() interface{} { return d.Def }

func (d Categorical) Bounds() (float64, float64) {
	return 0, float64(len(d.Values) - 1)
}

func (d Categorical) Sample(rng *rand.Rand) float64 {
	return float64(rng.Intn(len(d.Values)))
}

func (d Categorical) Decode(pos float64) interface{} {
	i := int(math.Round(clamp(pos, 0, float64(len(d.Values)-1))))
	return d.Values[i]
}

func (d Categorical) Encode(v interface{}) (float64, error) {
	for i, cand := range d.Values {
		if cand == v {
			return float64(i), nil
		}
	}
	return 0, errors.NewValidationError(d.name, "value not in category set", v)
}

// Space is an ordered set of dimensions. It is immutable once a search
// starts; Without returns a reduced copy rather than mutating.
type Space []Dimension

// Names returns the dimension names in order.
func (s Space) Names() []string {
	names := make([]string, len(s))
	for i, d := range s {
		names[i] = d.Name()
	}
	return names
}

// Has reports whether the space contains a dimension called name.
func (s Space) Has(name string) bool {
	for _, d := range s {
		if d.Name() == name {
			return true
		}
	}
	return false
}

// Without returns a copy of the space with the named dimensions removed.
// Used to drop parameters the caller has fixed via estimator overrides.
func (s Space) Without(names ...string) Space {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := make(Space, 0, len(s))
	for _, d := range s {
		if !drop[d.Name()] {
			out = append(out, d)
		}
	}
	return out
}

// Sample draws one random encoded point.
func (s Space) Sample(rng *rand.Rand) []float64 {
	x := make([]float64, len(s))
	for i, d := range s {
		x[i] = d.Sample(rng)
	}
	return x
}

// DefaultPoint returns the encoded position of the dimension defaults.
func (s Space) DefaultPoint() ([]float64, error) {
	x := make([]float64, len(s))
	for i, d := range s {
		pos, err := d.Encode(d.Default())
		if err != nil {
			return nil, err
		}
		x[i] = pos
	}
	return x, nil
}

// Decode turns an encoded point into a name -> typed value mapping with
// each dimension's rounding applied.
func (s Space) Decode(x []float64) map[string]interface{} {
	params := make(map[string]interface{}, len(s))
	for i, d := range s {
		params[d.Name()] = d.Decode(x[i])
	}
	return params
}

// Defaults returns the typed default parameter mapping.
func (s Space) Defaults() map[string]interface{} {
	params := make(map[string]interface{}, len(s))
	for _, d := range s {
		params[d.Name()] = d.Default()
	}
	return params
}

// Normalize maps an encoded point into the unit cube, used for the
// surrogate model and for distance-based stopping.
func (s Space) Normalize(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, d := range s {
		lo, hi := d.Bounds()
		if hi > lo {
			out[i] = (x[i] - lo) / (hi - lo)
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func toFloat(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	default:
		return 0, false
	}
}
