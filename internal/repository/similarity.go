package repository

import (
	"math"
	"sort"

	"nbs-ytbot/internal/models"
)

// CosineSimilarity returns the cosine of the angle between a and b, or 0 when
// the vectors differ in length or either has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rankChunks scores candidates against query and keeps the best topK above minScore.
func rankChunks(query []float32, candidates []models.Chunk, topK int, minScore float64) []models.ScoredChunk {
	scored := make([]models.ScoredChunk, 0, len(candidates))
	for _, c := range candidates {
		score := CosineSimilarity(query, c.Embedding)
		if score < minScore {
			continue
		}
		scored = append(scored, models.ScoredChunk{Chunk: c, Score: score})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		if scored[i].VideoID != scored[j].VideoID {
			return scored[i].VideoID < scored[j].VideoID
		}
		return scored[i].Index < scored[j].Index
	})

	if topK > 0 && len(scored) > topK {
		scored = scored[:topK]
	}
	return scored
}
