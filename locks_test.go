package folio

import (
	"testing"

	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/assert"
)

func TestKeyedMutexReleasesKeys(t *testing.T) {
	k := newKeyedMutex()
	keys := [2]string{"a", "b"}
	var counts [2]int

	var wg conc.WaitGroup
	for i := range 50 {
		slot := i % 2
		wg.Go(func() {
			unlock := k.Lock(keys[slot])
			defer unlock()
			counts[slot]++
		})
	}
	wg.Wait()

	assert.Equal(t, [2]int{25, 25}, counts)
	assert.Equal(t, 0, k.size())
}
