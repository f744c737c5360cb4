package model

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

type constEstimator struct {
	BaseEstimator
	Value float64
}

func (c *constEstimator) Fit(X, y mat.Matrix) error {
	rows, _ := y.Dims()
	var sum float64
	for i := 0; i < rows; i++ {
		sum += y.At(i, 0)
	}
	c.Value = sum / float64(rows)
	c.SetFitted()
	return nil
}

func (c *constEstimator) Predict(X mat.Matrix) (mat.Matrix, error) {
	rows, _ := X.Dims()
	out := mat.NewDense(rows, 1, nil)
	for i := 0; i < rows; i++ {
		out.Set(i, 0, c.Value)
	}
	return out, nil
}

func TestHandleState(t *testing.T) {
	assert.Equal(t, "unfitted", Unfitted.String())
	assert.Equal(t, "fitted", Fitted.String())

	assert.False(t, Unfitted.IsFitted())
	assert.False(t, Tuned.IsFitted())
	assert.True(t, Fitted.IsFitted())
	assert.True(t, Bagged.IsFitted())
	assert.True(t, Calibrated.IsFitted())
}

func TestBaseEstimatorFlag(t *testing.T) {
	var base BaseEstimator
	assert.False(t, base.IsFitted())
	base.SetFitted()
	assert.True(t, base.IsFitted())
	base.Reset()
	assert.False(t, base.IsFitted())
}

func TestDescriptorValidate(t *testing.T) {
	valid := Descriptor{
		Acronym:   "CONST",
		FullName:  "Constant estimator",
		Explainer: KernelExplainer,
		Make: func(params map[string]interface{}) (Estimator, error) {
			return &constEstimator{}, nil
		},
	}
	assert.NoError(t, valid.Validate())

	t.Run("missing acronym", func(t *testing.T) {
		d := valid
		d.Acronym = ""
		assert.Error(t, d.Validate())
	})

	t.Run("missing factory", func(t *testing.T) {
		d := valid
		d.Make = nil
		assert.Error(t, d.Validate())
	})

	t.Run("bad explainer", func(t *testing.T) {
		d := valid
		d.Explainer = "quantum"
		assert.Error(t, d.Validate())
	})
}

func TestDescriptorHasParam(t *testing.T) {
	d := Descriptor{Acronym: "X", Params: []string{"alpha", "beta"}}
	assert.True(t, d.HasParam("alpha"))
	assert.False(t, d.HasParam("gamma"))
}

func TestEstimatorName(t *testing.T) {
	assert.Equal(t, "constEstimator", EstimatorName(&constEstimator{}))
}

func TestPersistenceRoundTrip(t *testing.T) {
	X := mat.NewDense(3, 1, []float64{1, 2, 3})
	y := mat.NewDense(3, 1, []float64{2, 4, 6})
	est := &constEstimator{}
	require.NoError(t, est.Fit(X, y))

	var buf bytes.Buffer
	require.NoError(t, SaveEstimatorToWriter(est, &buf))

	restored := &constEstimator{}
	require.NoError(t, LoadEstimatorFromReader(restored, &buf))
	assert.Equal(t, est.Value, restored.Value)
	assert.True(t, restored.IsFitted())
}
