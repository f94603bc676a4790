package bench_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/bflang/bfjit/internal/bench"
)

func TestMeasureRecordsEachRun(t *testing.T) {
	var m bench.Measured

	for i := 0; i < 3; i++ {
		m.Measure("run", func() { time.Sleep(time.Millisecond) })
	}

	assert.Len(t, m.Results, 3)
	assert.GreaterOrEqual(t, m.Total(), 3*time.Millisecond)
	assert.GreaterOrEqual(t, m.Average(), time.Millisecond)
}

func TestAverageOfEmptyIsZero(t *testing.T) {
	var m bench.Measured
	assert.Equal(t, time.Duration(0), m.Average())
}
