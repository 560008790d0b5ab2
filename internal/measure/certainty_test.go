package measure

import (
	"context"
	"math"
	"testing"
)

func validAt(lp float64, samples, tokensEach int) []Sample {
	set := make([]Sample, samples)
	for i := range set {
		set[i] = Sample{Text: "answer", TokenLogprobs: tokens(lp, tokensEach)}
	}
	return set
}

func TestEvaluateCertaintyConfidentAnswerStillFlagged(t *testing.T) {
	// Highly confident answers (-0.05/token) against less plausible
	// hedging phrases (-2.0/token) produce a large ratio, which the
	// documented formula flags as uncertain. Counter-intuitive, but it is
	// the decision polarity this measurement is defined with.
	client := &stubClient{phraseLogprob: -2.0}
	m := New(client)

	cert := m.evaluateCertainty(context.Background(), validAt(-0.05, 5, 5), DefaultPhrases, 1.0)

	if math.Abs(cert.Ratio-40.0) > 0.1 {
		t.Errorf("expected ratio ≈ 40.0, got %f", cert.Ratio)
	}
	if !cert.IsUncertain {
		t.Error("expected ratio 40 > threshold 1.0 to flag uncertain")
	}
	if math.Abs(cert.AnswerMeanLogprob-(-0.05)) > 1e-9 {
		t.Errorf("unexpected answer mean: %f", cert.AnswerMeanLogprob)
	}
	if math.Abs(cert.PhraseMeanLogprob-(-2.0)) > 1e-9 {
		t.Errorf("unexpected phrase mean: %f", cert.PhraseMeanLogprob)
	}
}

func TestEvaluateCertaintyThresholdSensitivity(t *testing.T) {
	client := &stubClient{phraseLogprob: -2.0}
	m := New(client)
	answers := validAt(-1.8, 5, 5)

	low := m.evaluateCertainty(context.Background(), answers, DefaultPhrases, 1.0)
	if math.Abs(low.Ratio-1.111) > 0.001 {
		t.Errorf("expected ratio ≈ 1.111, got %f", low.Ratio)
	}
	if !low.IsUncertain {
		t.Error("expected uncertain at threshold 1.0")
	}

	high := m.evaluateCertainty(context.Background(), answers, DefaultPhrases, 1.2)
	if high.IsUncertain {
		t.Error("expected confident at threshold 1.2")
	}
}

func TestEvaluateCertaintyZeroAnswerMean(t *testing.T) {
	// All answer tokens at logprob exactly 0.0 is anomalous; the ratio
	// degenerates instead of dividing by zero.
	client := &stubClient{phraseLogprob: -2.0}
	m := New(client)

	cert := m.evaluateCertainty(context.Background(), validAt(0.0, 3, 4), DefaultPhrases, 1.0)
	if cert.Ratio != 0.0 {
		t.Errorf("expected ratio 0.0 for negative phrase mean, got %f", cert.Ratio)
	}
	if cert.IsUncertain {
		t.Error("expected confident verdict for ratio 0.0")
	}

	// A positive phrase mean should not occur with valid logprobs but must
	// not panic.
	client = &stubClient{phraseLogprob: 0.5}
	m = New(client)
	cert = m.evaluateCertainty(context.Background(), validAt(0.0, 3, 4), DefaultPhrases, 1.0)
	if !math.IsInf(cert.Ratio, 1) {
		t.Errorf("expected +Inf ratio, got %f", cert.Ratio)
	}
	if !cert.IsUncertain {
		t.Error("expected +Inf > threshold to flag uncertain")
	}
}

func TestEvaluateCertaintyFailedPhrasesDefaultToZero(t *testing.T) {
	client := &stubClient{failPhrases: true}
	m := New(client)

	cert := m.evaluateCertainty(context.Background(), validAt(-1.0, 3, 4), DefaultPhrases, 1.0)

	if cert.PhraseMeanLogprob != 0.0 {
		t.Errorf("expected phrase mean 0.0 when all phrase requests fail, got %f", cert.PhraseMeanLogprob)
	}
	if cert.Ratio != 0.0 {
		t.Errorf("expected ratio 0.0, got %f", cert.Ratio)
	}
	for phrase, lp := range cert.PhraseLogprobs {
		if lp != 0.0 {
			t.Errorf("phrase %q: expected 0.0 contribution, got %f", phrase, lp)
		}
	}
	if len(cert.PhraseLogprobs) != len(DefaultPhrases) {
		t.Errorf("expected every phrase recorded, got %d entries", len(cert.PhraseLogprobs))
	}
}

func TestEvaluateCertaintyTwoLevelPhraseMean(t *testing.T) {
	// The phrase mean averages per-phrase means, not all phrase tokens.
	// With equal per-phrase token counts the two coincide, so vary the
	// phrase list length instead: a single phrase must carry full weight.
	client := &stubClient{phraseLogprob: -3.0}
	m := New(client)

	cert := m.evaluateCertainty(context.Background(), validAt(-1.0, 2, 2), []string{"I'm not sure"}, 1.0)

	if math.Abs(cert.PhraseMeanLogprob-(-3.0)) > 1e-9 {
		t.Errorf("expected phrase mean -3.0, got %f", cert.PhraseMeanLogprob)
	}
	if math.Abs(cert.Ratio-3.0) > 1e-9 {
		t.Errorf("expected ratio 3.0, got %f", cert.Ratio)
	}
}
