package verify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func eq(a, b float32) bool { return a == b }

func TestAllMatch(t *testing.T) {
	got := make([]float32, 1<<16)
	for i := range got {
		got[i] = 10
	}
	report := All(got, 10, eq, DefaultConfig())
	assert.True(t, report.OK())
	assert.Equal(t, 1<<16, report.Checked)
	assert.Empty(t, report.Indices)
}

func TestMismatchesAreSortedAndCapped(t *testing.T) {
	got := make([]float32, 10000)
	for _, i := range []int{9999, 5, 4096, 7000, 1, 8191, 3, 2, 4} {
		got[i] = 1
	}
	cfg := Config{NumWorkers: 4, MinChunkSize: 16, MaxReported: 5}
	report := All(got, 0, eq, cfg)

	assert.False(t, report.OK())
	assert.Equal(t, 9, report.Mismatches)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, report.Indices)
}

func TestEachIndexDependent(t *testing.T) {
	got := []int{0, 2, 4, 6, 9}
	report := Each(got, func(i int) int { return 2 * i }, func(a, b int) bool { return a == b }, DefaultConfig())
	assert.Equal(t, 1, report.Mismatches)
	assert.Equal(t, []int{4}, report.Indices)
}

func TestEmpty(t *testing.T) {
	report := All([]float32{}, 1, eq, Config{})
	assert.True(t, report.OK())
	assert.Zero(t, report.Checked)
}

func TestNegativeMaxReported(t *testing.T) {
	report := All([]int{1, 2}, 1, func(a, b int) bool { return a == b }, Config{NumWorkers: 1, MaxReported: -1})
	assert.Equal(t, 1, report.Mismatches)
	assert.Empty(t, report.Indices)
}

func TestMismatchInLastChunk(t *testing.T) {
	got := make([]float32, 1000)
	got[999] = 1
	report := All(got, 0, eq, Config{NumWorkers: 2, MinChunkSize: 1, MaxReported: 8})
	assert.Equal(t, 1000, report.Checked)
	assert.Equal(t, []int{999}, report.Indices)
}
