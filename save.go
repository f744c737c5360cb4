package atom

import (
	"path/filepath"
	"strings"

	"github.com/jaswinder9051998/ATOM/core/model"
	"github.com/jaswinder9051998/ATOM/pkg/errors"
)

// SaveEstimator serializes only the fitted estimator to a file. An
// empty filename, or one whose base name is exactly "auto" (extension
// aside), is replaced by the estimator's type name, so "auto.gob" for
// a fitted Ridge becomes "Ridge.gob". Names merely containing the
// token, like "automodel.gob", are kept as given.
func (m *Model) SaveEstimator(filename string) error {
	if m.handle == nil {
		return errors.NewNotFittedError(m.desc.Acronym, "SaveEstimator")
	}
	dir, base := filepath.Split(filename)
	ext := filepath.Ext(base)
	switch strings.TrimSuffix(base, ext) {
	case "", "auto":
		filename = dir + model.EstimatorName(m.handle) + ext
	}
	if err := model.SaveEstimator(m.handle, filename); err != nil {
		return err
	}
	m.cfg.Logger.Log(m.desc.Name()+" estimator saved successfully!", 1)
	return nil
}
