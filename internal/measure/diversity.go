package measure

// DiversityAnalysis maps how many distinct answers a sample set produced
// onto a qualitative uncertainty level.
type DiversityAnalysis struct {
	UniqueCount    int
	TotalCount     int
	Ratio          float64
	Level          string
	Recommendation string
}

const (
	// Inclusive lower bounds for the qualitative levels.
	highDiversity   = 0.8
	mediumDiversity = 0.4
)

const (
	recommendHigh   = "The model is highly uncertain. Consider reformulating the question or providing more context."
	recommendMedium = "The model shows some uncertainty. You may want to verify the response or ask for clarification."
	recommendLow    = "The model appears confident in its response."
)

// analyzeDiversity counts distinct answers by exact string equality (no
// trimming, no semantic normalization). texts must be non-empty; the
// caller short-circuits the all-failed case before reaching here.
func analyzeDiversity(texts []string) DiversityAnalysis {
	seen := make(map[string]struct{}, len(texts))
	for _, t := range texts {
		seen[t] = struct{}{}
	}

	ratio := float64(len(seen)) / float64(len(texts))

	var level, recommendation string
	switch {
	case ratio >= highDiversity:
		level = "high"
		recommendation = recommendHigh
	case ratio >= mediumDiversity:
		level = "medium"
		recommendation = recommendMedium
	default:
		level = "low"
		recommendation = recommendLow
	}

	return DiversityAnalysis{
		UniqueCount:    len(seen),
		TotalCount:     len(texts),
		Ratio:          ratio,
		Level:          level,
		Recommendation: recommendation,
	}
}
