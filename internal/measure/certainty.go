package measure

import (
	"context"
	"math"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/provider"
)

// DefaultPhrases is the canonical set of hedging phrases whose
// log-probabilities are compared against the sampled answers.
var DefaultPhrases = []string{"I'm not sure", "I'm insecure", "I need help"}

// phraseMaxTokens caps the deterministic continuation requested for each
// reference phrase.
const phraseMaxTokens = 10

// evaluateCertainty compares the mean log-probability of the hedging
// phrases against the mean log-probability of the valid answer samples.
//
// The answer mean is a flat mean over all tokens of all valid samples. The
// phrase mean is a two-level mean: each phrase's log-probability is
// averaged over its own tokens first, then the per-phrase means are
// averaged unweighted. A failed phrase request contributes 0.0 and stays
// in the mean, which biases it toward zero.
//
// The verdict ratio > threshold is a heuristic signal, not a calibrated
// probability: because log-probabilities are at most zero, a confidently
// predicted answer (mean near zero) inflates the ratio.
func (m *Measurer) evaluateCertainty(ctx context.Context, valid []Sample, phrases []string, threshold float64) *CertaintyResult {
	answerMean := meanLogprob(validLogprobs(valid))

	phraseLogprobs := make(map[string]float64, len(phrases))
	var phraseTotal float64
	for _, phrase := range phrases {
		mean := 0.0
		resp, err := m.client.Complete(ctx, provider.CompletionRequest{
			UserPrompt:  "Complete this sentence: " + phrase,
			Temperature: 0,
			MaxTokens:   phraseMaxTokens,
			Logprobs:    true,
		})
		if err == nil {
			mean = meanLogprob([][]float64{resp.TokenLogprobs})
		}
		phraseLogprobs[phrase] = mean
		phraseTotal += mean
	}

	var phraseMean float64
	if len(phrases) > 0 {
		phraseMean = phraseTotal / float64(len(phrases))
	}

	// A zero answer mean is itself anomalous; the fallback values below
	// only guard the division.
	var ratio float64
	switch {
	case answerMean != 0:
		ratio = phraseMean / answerMean
	case phraseMean > 0:
		ratio = math.Inf(1)
	default:
		ratio = 0.0
	}

	return &CertaintyResult{
		AnswerMeanLogprob: answerMean,
		PhraseMeanLogprob: phraseMean,
		PhraseLogprobs:    phraseLogprobs,
		Ratio:             ratio,
		Threshold:         threshold,
		IsUncertain:       ratio > threshold,
	}
}
