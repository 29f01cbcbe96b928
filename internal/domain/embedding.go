package domain

// Embedding is the vector representation of the user input. A degenerate
// service response may leave it empty; that is not an error anywhere in the
// pipeline, the style mapping falls back to its defaults instead.
type Embedding []float64

type EmbeddingStats struct {
	Avg   float64
	Min   float64
	Max   float64
	Range float64
}

// Stats summarizes the vector. Zero value for an empty embedding.
func (e Embedding) Stats() EmbeddingStats {
	if len(e) == 0 {
		return EmbeddingStats{}
	}

	stats := EmbeddingStats{Min: e[0], Max: e[0]}
	var sum float64
	for _, v := range e {
		sum += v
		if v < stats.Min {
			stats.Min = v
		}
		if v > stats.Max {
			stats.Max = v
		}
	}
	stats.Avg = sum / float64(len(e))
	stats.Range = stats.Max - stats.Min
	return stats
}
