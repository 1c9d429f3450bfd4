package facematch

import (
	"math"
	"testing"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestEuclideanDistance(t *testing.T) {
	tests := []struct {
		name     string
		a        []float64
		b        []float64
		expected float64
	}{
		{"identical vectors", []float64{1, 2, 3}, []float64{1, 2, 3}, 0},
		{"unit apart", []float64{0, 0}, []float64{1, 0}, 1},
		{"pythagorean", []float64{0, 0}, []float64{3, 4}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, euclideanDistance(tt.a, tt.b), 1e-9)
		})
	}
}

func TestEuclideanDistance_DimensionMismatch(t *testing.T) {
	assert.True(t, math.IsInf(euclideanDistance([]float64{1, 2}, []float64{1, 2, 3}), 1))
	assert.True(t, math.IsInf(euclideanDistance(nil, nil), 1))
}

func TestBestMatch(t *testing.T) {
	closeID := uuid.New()
	farID := uuid.New()
	known := map[uuid.UUID]roster.Embedding{
		closeID: {0.1, 0.1},
		farID:   {5, 5},
	}

	studentID, distance, matched := bestMatch(known, []float64{0, 0}, 0.5)

	assert.True(t, matched)
	assert.Equal(t, closeID, studentID)
	assert.InDelta(t, math.Sqrt(0.02), distance, 1e-9)
}

func TestBestMatch_NothingWithinTolerance(t *testing.T) {
	known := map[uuid.UUID]roster.Embedding{
		uuid.New(): {5, 5},
	}

	studentID, _, matched := bestMatch(known, []float64{0, 0}, 0.5)

	assert.False(t, matched)
	assert.Equal(t, uuid.Nil, studentID)
}

func TestBestMatch_EmptyKnownSet(t *testing.T) {
	studentID, distance, matched := bestMatch(nil, []float64{0, 0}, 0.5)

	assert.False(t, matched)
	assert.Equal(t, uuid.Nil, studentID)
	assert.True(t, math.IsInf(distance, 1))
}

func TestBestMatch_PrefersClosestCandidate(t *testing.T) {
	closer := uuid.New()
	further := uuid.New()
	known := map[uuid.UUID]roster.Embedding{
		further: {0.4, 0},
		closer:  {0.1, 0},
	}

	studentID, _, matched := bestMatch(known, []float64{0, 0}, 0.5)

	assert.True(t, matched)
	assert.Equal(t, closer, studentID)
}
