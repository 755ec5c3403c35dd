package stamp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCoverage_SetAcrossWords(t *testing.T) {
	c := NewCoverage(130)
	for _, i := range []int{0, 63, 64, 129} {
		c.Set(i)
	}

	assert.Equal(t, 130, c.Len())
	assert.Equal(t, 4, c.Count())
	assert.True(t, c.Has(64))
	assert.False(t, c.Has(65))
	assert.Equal(t, []int{0, 63, 64, 129}, c.Indices())
}

func TestCoverage_OrIsUnion(t *testing.T) {
	a := NewCoverage(70)
	b := NewCoverage(70)
	a.Set(1)
	a.Set(68)
	b.Set(1)
	b.Set(2)

	assert.Equal(t, 1, a.CountNew(b))

	a.Or(b)
	assert.Equal(t, 3, a.Count())
	assert.Equal(t, 0, a.CountNew(b))
	assert.Equal(t, 2, b.Count(), "Or must not modify its argument")
}

func TestCoverage_CloneIsIndependent(t *testing.T) {
	a := NewCoverage(8)
	a.Set(3)
	b := a.Clone()
	b.Set(4)

	assert.Equal(t, 1, a.Count())
	assert.Equal(t, 2, b.Count())
}

func TestCoverage_Empty(t *testing.T) {
	c := NewCoverage(0)
	assert.Equal(t, 0, c.Count())
	assert.Empty(t, c.Indices())
	c.Or(NewCoverage(0))
	assert.Equal(t, 0, c.CountNew(NewCoverage(0)))
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1},
		{"scaled", []float64{2, 0}, []float64{5, 0}, 1},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0},
		{"empty", nil, []float64{1}, 0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}
