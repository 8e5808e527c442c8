package search

import "sort"

// Confidence thresholds, per spec.md §4.7 step 6.
const (
	minRelevance    = 0.3
	highConfidence  = 0.7
)

// Stats summarizes a set of scores, carried on every Response.
type Stats struct {
	Min    float64
	Max    float64
	Avg    float64
	Median float64
}

// Confidence is the calibrated outcome of classifying a result set's
// top scores, per spec.md §4.7 step 6 and §6's fixed message table.
type Confidence struct {
	Level   float64
	Message string
	Stats   Stats
}

// Normalize maps raw scores into [0,1] via (s-min)/(max-min), falling
// back to 0.5 for every score when max == min, per spec.md §4.7 step 5.
func Normalize(scores []float64) []float64 {
	if len(scores) == 0 {
		return scores
	}
	min, max := scores[0], scores[0]
	for _, s := range scores {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	out := make([]float64, len(scores))
	if max == min {
		for i := range out {
			out[i] = 0.5
		}
		return out
	}
	for i, s := range scores {
		out[i] = (s - min) / (max - min)
	}
	return out
}

// ComputeStats computes min/max/avg/median over scores.
func ComputeStats(scores []float64) Stats {
	if len(scores) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), scores...)
	sort.Float64s(sorted)

	var sum float64
	for _, s := range scores {
		sum += s
	}

	n := len(sorted)
	var median float64
	if n%2 == 1 {
		median = sorted[n/2]
	} else {
		median = (sorted[n/2-1] + sorted[n/2]) / 2
	}

	return Stats{
		Min:    sorted[0],
		Max:    sorted[n-1],
		Avg:    sum / float64(n),
		Median: median,
	}
}

// Classify applies spec.md §4.7 step 6's decision table, strictly in
// order: off-domain, medium, good, high.
func Classify(scores []float64) Confidence {
	if len(scores) == 0 {
		return Confidence{Level: 0.1, Message: offDomainMessage}
	}
	stats := ComputeStats(scores)

	switch {
	case stats.Max < minRelevance:
		return Confidence{Level: 0.1, Message: offDomainMessage, Stats: stats}
	case stats.Avg < minRelevance:
		return Confidence{Level: 0.4, Message: mediumMessage, Stats: stats}
	case stats.Avg < highConfidence:
		return Confidence{Level: 0.7, Message: goodMessage, Stats: stats}
	default:
		return Confidence{Level: 0.9, Message: highMessage, Stats: stats}
	}
}

// Fixed French confidence messages, per spec.md §6 (wording is part of
// the contract).
const (
	offDomainMessage = "Requête probablement hors du domaine de connaissances"
	mediumMessage    = "Pertinence moyenne: résultats disponibles mais peu spécifiques"
	goodMessage      = "Bonne pertinence: résultats généralement pertinents"
	highMessage      = "Haute pertinence: résultats fiables trouvés"
)
