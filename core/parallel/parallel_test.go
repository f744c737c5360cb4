package parallel

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParallelize(t *testing.T) {
	data := make([]int, 1000)
	var mu sync.Mutex
	Parallelize(len(data), func(start, end int) {
		mu.Lock()
		defer mu.Unlock()
		for i := start; i < end; i++ {
			data[i] = i
		}
	})
	for i, v := range data {
		require.Equal(t, i, v)
	}
}

func TestForEachRunsEveryIndex(t *testing.T) {
	var count int64
	err := ForEach(50, 4, func(i int) error {
		atomic.AddInt64(&count, 1)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), count)
}

func TestForEachReturnsFirstErrorByIndex(t *testing.T) {
	errA := assert.AnError
	err := ForEach(10, 4, func(i int) error {
		if i == 3 || i == 7 {
			return errA
		}
		return nil
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
}

func TestForEachSingleWorker(t *testing.T) {
	var order []int
	err := ForEach(5, 1, func(i int) error {
		order = append(order, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForEachClampsWorkers(t *testing.T) {
	err := ForEach(3, 0, func(i int) error { return nil })
	assert.NoError(t, err)
}
