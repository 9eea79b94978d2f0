package grading

import "github.com/shulehub/matokeo-api/internal/models"

// ComposeScore combines the available paper scores for one subject into a
// single composite on the 0-100 scale. Each paper contributes
// (raw/max) * weight, where weights have been normalized to sum to 100.
// Papers without a score contribute nothing; the remaining weights are not
// renormalized around them. Papers with a zero maximum are skipped rather
// than divided by.
func ComposeScore(papers []models.Paper, scores map[uint]float64) float64 {
	weights := normalizedWeights(papers)

	var total float64
	for i, paper := range papers {
		raw, ok := scores[paper.ID]
		if !ok {
			continue
		}
		if paper.MaxScore <= 0 {
			continue
		}
		total += (raw / paper.MaxScore) * weights[i]
	}

	return clampScore(total)
}

// SingleScore is the composite for a subject examined without papers: the
// raw score itself, clamped to the 0-100 scale.
func SingleScore(raw float64) float64 {
	return clampScore(raw)
}

// normalizedWeights rescales paper weights proportionally so they sum to 100.
// A scale-invariant composite falls out of this: multiplying every weight by
// a constant leaves the normalized weights unchanged.
func normalizedWeights(papers []models.Paper) []float64 {
	weights := make([]float64, len(papers))

	var sum float64
	for _, paper := range papers {
		if paper.WeightPct > 0 {
			sum += paper.WeightPct
		}
	}
	if sum <= 0 {
		return weights
	}

	for i, paper := range papers {
		if paper.WeightPct > 0 {
			weights[i] = paper.WeightPct / sum * 100
		}
	}

	return weights
}

func clampScore(value float64) float64 {
	switch {
	case value < 0:
		return 0
	case value > 100:
		return 100
	default:
		return value
	}
}
