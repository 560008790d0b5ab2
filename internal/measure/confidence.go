package measure

import "math"

// meanConfidence converts every token log-probability to a linear
// probability and averages across all tokens of all sample sets, a flat
// mean rather than a mean of per-sample means. Returns 0 when there are no
// tokens at all.
//
// Token log-probabilities are base-2, so the conversion is 2^lp. A
// provider emitting natural-log probabilities would need math.Exp here;
// the two produce different confidence magnitudes.
func meanConfidence(logprobSets [][]float64) float64 {
	var total float64
	var tokens int
	for _, set := range logprobSets {
		for _, lp := range set {
			total += math.Exp2(lp)
			tokens++
		}
	}
	if tokens == 0 {
		return 0.0
	}
	return total / float64(tokens)
}

// meanLogprob is the same flat aggregation as meanConfidence but in log
// space, with no exponentiation. Returns 0 when there are no tokens.
func meanLogprob(logprobSets [][]float64) float64 {
	var total float64
	var tokens int
	for _, set := range logprobSets {
		for _, lp := range set {
			total += lp
			tokens++
		}
	}
	if tokens == 0 {
		return 0.0
	}
	return total / float64(tokens)
}
