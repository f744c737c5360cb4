package model

import (
	"encoding/gob"
	"io"
	"os"

	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// SaveEstimator serializes an estimator to a file with encoding/gob. Only
// exported fields survive the round trip, so concrete estimators keep their
// learned parameters in exported fields.
func SaveEstimator(est Estimator, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrap(err, "failed to create file")
	}
	defer file.Close()

	if err := SaveEstimatorToWriter(est, file); err != nil {
		return err
	}
	return nil
}

// LoadEstimator reads an estimator from a file into est, which must be a
// pointer to the same concrete type that was saved.
func LoadEstimator(est Estimator, filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return errors.Wrap(err, "failed to open file")
	}
	defer file.Close()

	return LoadEstimatorFromReader(est, file)
}

// SaveEstimatorToWriter serializes an estimator to w.
func SaveEstimatorToWriter(est Estimator, w io.Writer) error {
	encoder := gob.NewEncoder(w)
	if err := encoder.Encode(est); err != nil {
		return errors.Wrap(err, "failed to encode estimator")
	}
	return nil
}

// LoadEstimatorFromReader reads an estimator from r into est.
func LoadEstimatorFromReader(est Estimator, r io.Reader) error {
	decoder := gob.NewDecoder(r)
	if err := decoder.Decode(est); err != nil {
		return errors.Wrap(err, "failed to decode estimator")
	}
	return nil
}
