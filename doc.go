// Package atom drives the full model lifecycle: hyperparameter search
// with sequential model-based optimization, fitting on the full training
// split, bootstrap bagging for uncertainty estimates, optional
// probability calibration, and a results ledger with cached prediction
// accessors.
package atom
