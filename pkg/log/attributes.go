// Standard attribute keys for structured log records. Using the same keys
// everywhere keeps trial logs and lifecycle logs filterable in one pass.

package log

// Model and operation context.
const (
	// ModelNameKey identifies the model variant, e.g. "OLS", "LR".
	ModelNameKey = "model.name"

	// EstimatorKey identifies the concrete estimator type behind the model.
	EstimatorKey = "model.estimator"

	// OperationKey names the lifecycle operation: "optimize", "fit",
	// "bagging", "calibrate", "scoring".
	OperationKey = "ml.operation"
)

// Search context.
const (
	// CallKey is the 1-based trial index within an optimization run.
	CallKey = "bo.call"

	// ScoreKey is the primary-metric score of a trial.
	ScoreKey = "bo.score"

	// BestScoreKey is the running best primary-metric score.
	BestScoreKey = "bo.best_score"
)

// Performance.
const (
	// DurationKey records elapsed wall time of an operation.
	DurationKey = "perf.duration"

	// ErrAttrKey carries a structured error object.
	ErrAttrKey = "error"
)
