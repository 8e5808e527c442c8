package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_MapsToZeroOne(t *testing.T) {
	scores := Normalize([]float64{1, 3, 5})
	assert.Equal(t, []float64{0, 0.5, 1}, scores)
}

func TestNormalize_FallsBackToHalfWhenAllEqual(t *testing.T) {
	scores := Normalize([]float64{2, 2, 2})
	for _, s := range scores {
		assert.Equal(t, 0.5, s)
	}
}

func TestNormalize_EmptyInput(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}

func TestComputeStats(t *testing.T) {
	stats := ComputeStats([]float64{1, 2, 3, 4})
	assert.Equal(t, 1.0, stats.Min)
	assert.Equal(t, 4.0, stats.Max)
	assert.Equal(t, 2.5, stats.Avg)
	assert.Equal(t, 2.5, stats.Median)
}

func TestClassify_OffDomainWhenMaxBelowMinRelevance(t *testing.T) {
	c := Classify([]float64{0.1, 0.2, 0.25})
	assert.Equal(t, 0.1, c.Level)
	assert.Equal(t, offDomainMessage, c.Message)
}

func TestClassify_MediumWhenAvgBelowMinRelevance(t *testing.T) {
	c := Classify([]float64{0.35, 0.1, 0.1})
	assert.Equal(t, 0.4, c.Level)
	assert.Equal(t, mediumMessage, c.Message)
}

func TestClassify_GoodWhenAvgBelowHighConfidence(t *testing.T) {
	c := Classify([]float64{0.6, 0.5, 0.5})
	assert.Equal(t, 0.7, c.Level)
	assert.Equal(t, goodMessage, c.Message)
}

func TestClassify_HighWhenAvgAtOrAboveHighConfidence(t *testing.T) {
	c := Classify([]float64{0.9, 0.85, 0.95})
	assert.Equal(t, 0.9, c.Level)
	assert.Equal(t, highMessage, c.Message)
}

func TestClassify_EmptyScores(t *testing.T) {
	c := Classify(nil)
	assert.Equal(t, 0.1, c.Level)
}
