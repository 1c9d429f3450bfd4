package facematch

import (
	"math"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
)

// euclideanDistance computes the distance between two encodings.
// Returns +Inf when the vectors have different dimensions.
func euclideanDistance(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return math.Inf(1)
	}
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}

// bestMatch finds the known embedding closest to the probe within tolerance.
// Returns the matched student ID, the distance between the embeddings, and
// whether any candidate fell inside the tolerance.
func bestMatch(known map[uuid.UUID]roster.Embedding, probe []float64, tolerance float64) (uuid.UUID, float64, bool) {
	bestID := uuid.Nil
	bestDistance := math.Inf(1)

	for studentID, embedding := range known {
		distance := euclideanDistance(embedding, probe)
		if distance < bestDistance {
			bestDistance = distance
			bestID = studentID
		}
	}

	if bestID == uuid.Nil || bestDistance > tolerance {
		return uuid.Nil, bestDistance, false
	}
	return bestID, bestDistance, true
}
