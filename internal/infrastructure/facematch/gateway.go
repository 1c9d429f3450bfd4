package facematch

import (
	"context"

	attendanceapp "github.com/attendance/backend/internal/application/attendance"
	"github.com/attendance/backend/internal/domain/roster"
	"github.com/attendance/backend/internal/domain/shared"
	"github.com/attendance/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Encoder produces face encodings for an image
type Encoder interface {
	Encode(ctx context.Context, image []byte) ([][]float64, error)
}

// Gateway implements the application's face gateway on top of the encoder
// sidecar and the Euclidean-distance matcher.
type Gateway struct {
	encoder   Encoder
	tolerance float64
	logger    *zap.Logger
}

// NewGateway creates a face gateway with the configured match tolerance
func NewGateway(encoder Encoder, cfg config.FaceConfig, logger *zap.Logger) *Gateway {
	return &Gateway{
		encoder:   encoder,
		tolerance: cfg.MatchTolerance,
		logger:    logger,
	}
}

// ExtractEmbedding encodes an enrollment photo and returns the first face found
func (g *Gateway) ExtractEmbedding(ctx context.Context, image []byte) (roster.Embedding, error) {
	encodings, err := g.encoder.Encode(ctx, image)
	if err != nil {
		g.logger.Error("Face encoder call failed", zap.Error(err))
		return nil, shared.NewDomainError("ENCODER_UNAVAILABLE", "Face encoder is unavailable")
	}
	if len(encodings) == 0 {
		return nil, shared.ErrNoFaceDetected
	}
	if len(encodings) > 1 {
		g.logger.Warn("Enrollment photo contains multiple faces, using the first",
			zap.Int("faces", len(encodings)))
	}
	return roster.Embedding(encodings[0]), nil
}

// DetectAndMatch encodes a classroom photo and resolves each detected face
// against the known embeddings. Unmatched faces are returned, not dropped.
func (g *Gateway) DetectAndMatch(ctx context.Context, image []byte, known map[uuid.UUID]roster.Embedding) ([]attendanceapp.FaceMatch, error) {
	encodings, err := g.encoder.Encode(ctx, image)
	if err != nil {
		g.logger.Error("Face encoder call failed", zap.Error(err))
		return nil, shared.NewDomainError("ENCODER_UNAVAILABLE", "Face encoder is unavailable")
	}

	matches := make([]attendanceapp.FaceMatch, 0, len(encodings))
	for _, encoding := range encodings {
		studentID, distance, matched := bestMatch(known, encoding, g.tolerance)
		matches = append(matches, attendanceapp.FaceMatch{
			StudentID: studentID,
			Matched:   matched,
			Distance:  distance,
		})
	}

	g.logger.Debug("Classroom photo matched",
		zap.Int("faces", len(encodings)),
		zap.Int("known", len(known)))

	return matches, nil
}

var _ attendanceapp.FaceGateway = (*Gateway)(nil)
