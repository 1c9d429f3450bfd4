package attendance

import (
	"context"

	"github.com/attendance/backend/internal/domain/roster"
	"github.com/google/uuid"
)

// FaceMatch is one detected face. Matched faces carry the resolved student
// and the embedding distance that accepted them; unmatched faces carry
// neither.
type FaceMatch struct {
	StudentID uuid.UUID
	Matched   bool
	Distance  float64
}

// FaceGateway abstracts the face-encoder sidecar. DetectAndMatch returns one
// entry per detected face; a face that matches nobody is returned unmatched,
// not dropped. ExtractEmbedding returns shared.ErrNoFaceDetected when the
// image yields no detectable face.
type FaceGateway interface {
	ExtractEmbedding(ctx context.Context, image []byte) (roster.Embedding, error)
	DetectAndMatch(ctx context.Context, image []byte, known map[uuid.UUID]roster.Embedding) ([]FaceMatch, error)
}
