package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampTopK(t *testing.T) {
	cases := []struct {
		name string
		in   int
		want int
	}{
		{"zero clamps to one, per spec.md §8", 0, 1},
		{"negative clamps to one", -5, 1},
		{"within range is unchanged", 10, 10},
		{"above range clamps to one hundred", 500, 100},
		{"at upper bound is unchanged", 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, clampTopK(tc.in))
		})
	}
}
