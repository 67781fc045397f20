// Package speech scores spoken answers by transcribing an audio clip and
// comparing the transcript to the expected answer with embeddings.
package speech

import (
	"context"
	"math"
)

// Transcriber converts an audio file into text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, lang string) (string, error)
}

// Embedder maps texts to vectors for similarity comparison.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// CosineSimilarity returns the cosine of the angle between two vectors.
// Mismatched lengths and zero vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
