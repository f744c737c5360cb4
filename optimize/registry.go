package optimize

import "sync"

var (
	spacesMu sync.RWMutex
	spaces   = make(map[string]Space)
)

// RegisterSpace stores the default hyperparameter space for a model
// acronym. Estimator packages call this from init.
func RegisterSpace(acronym string, space Space) {
	spacesMu.Lock()
	defer spacesMu.Unlock()
	spaces[acronym] = space
}

// DefaultSpace returns the registered space for a model acronym.
func DefaultSpace(acronym string) (Space, bool) {
	spacesMu.RLock()
	defer spacesMu.RUnlock()
	s, ok := spaces[acronym]
	return s, ok
}
