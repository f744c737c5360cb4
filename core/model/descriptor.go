package model

import (
	"reflect"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// ExplainerType tags which kind of explainer suits a model variant.
type ExplainerType string

const (
	// LinearExplainer is for linear models.
	LinearExplainer ExplainerType = "linear"
	// TreeExplainer is for tree-based models.
	TreeExplainer ExplainerType = "tree"
	// KernelExplainer is the fallback for all remaining models.
	KernelExplainer ExplainerType = "kernel"
)

// Factory constructs an unfitted estimator from a hyperparameter mapping.
// Unknown or ill-typed parameters must be rejected with a ValidationError.
type Factory func(params map[string]interface{}) (Estimator, error)

// Descriptor bundles a model variant's identity with its constructor.
// It is built once and passed by value; the estimator type itself is never
// annotated or mutated.
type Descriptor struct {
	// Acronym is the short name the variant is addressed by, e.g. "LR".
	Acronym string

	// FullName is the human-readable model name.
	FullName string

	// NeedsScaling marks variants that expect standardized features.
	NeedsScaling bool

	// Explainer selects the explainer family for this variant.
	Explainer ExplainerType

	// Params lists every legal constructor parameter name. Fixed parameter
	// overrides are validated against this list before a search starts.
	Params []string

	// Make constructs an unfitted estimator from hyperparameters.
	Make Factory
}

// Validate checks the descriptor is complete enough to drive a lifecycle.
func (d Descriptor) Validate() error {
	if d.Acronym == "" {
		return errors.NewValidationError("acronym", "must not be empty", d.Acronym)
	}
	if d.Make == nil {
		return errors.NewValidationError("make", "descriptor needs an estimator factory", nil)
	}
	switch d.Explainer {
	case LinearExplainer, TreeExplainer, KernelExplainer, "":
	default:
		return errors.NewValidationError(
			"type", "choose from: linear, tree or kernel", string(d.Explainer))
	}
	return nil
}

// HasParam reports whether name is a legal constructor parameter.
func (d Descriptor) HasParam(name string) bool {
	for _, p := range d.Params {
		if p == name {
			return true
		}
	}
	return false
}

// Name returns the full name when set, the acronym otherwise.
func (d Descriptor) Name() string {
	if d.FullName != "" {
		return d.FullName
	}
	return d.Acronym
}

// EstimatorName returns the concrete type name of an estimator, for error
// messages and the auto-naming convention of saved estimators.
func EstimatorName(est Estimator) string {
	if est == nil {
		return "nil"
	}
	t := reflect.TypeOf(est)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Name()
}
