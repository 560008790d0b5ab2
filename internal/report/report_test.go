package report

import (
	"math"
	"strings"
	"testing"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/measure"
)

func sampleResult() *measure.Result {
	return &measure.Result{
		Prompt:     "What is the capital of France?",
		NumSamples: 3,
		Samples: []measure.Sample{
			{Text: "Paris", TokenLogprobs: []float64{-0.05, -0.1}},
			{Err: "connection reset"},
			{Text: "Paris", TokenLogprobs: []float64{-0.07}},
		},
		Analysis: measure.Analysis{
			UniqueResponses: 1,
			TotalSamples:    2,
			Diversity:       0.5,
			TokenConfidence: 0.95,
			Level:           "medium",
			Recommendation:  "The model shows some uncertainty.",
			Certainty: &measure.CertaintyResult{
				AnswerMeanLogprob: -0.073,
				PhraseMeanLogprob: -2.0,
				PhraseLogprobs:    map[string]float64{"I'm not sure": -2.0},
				Ratio:             27.27,
				Threshold:         1.0,
				IsUncertain:       true,
			},
		},
		Response:    "I'm unsure about the question. Could you please provide more information or clarify your question?",
		IsUncertain: true,
	}
}

func TestFormatTerminalContainsPromptAndLevel(t *testing.T) {
	out := FormatTerminal(sampleResult())

	if !strings.Contains(out, "What is the capital of France?") {
		t.Error("expected literal prompt text in output")
	}
	if !strings.Contains(out, "MEDIUM") {
		t.Error("expected uppercase level in output")
	}
	if !strings.Contains(out, "UNCERTAIN") {
		t.Error("expected verdict in output")
	}
	if !strings.Contains(out, "connection reset") {
		t.Error("expected failed sample to be reported")
	}
}

func TestFormatTerminalOmitsRatioWhenNotComputed(t *testing.T) {
	result := &measure.Result{
		Prompt:     "anything",
		NumSamples: 3,
		Samples:    []measure.Sample{{Err: "boom"}, {Err: "boom"}, {Err: "boom"}},
		Analysis:   measure.Analysis{Err: "no valid responses received", Level: "unknown"},
	}

	out := FormatTerminal(result)

	if strings.Contains(out, "CERTAINTY RATIO") {
		t.Error("expected no ratio section for error analysis")
	}
	if !strings.Contains(out, "no valid responses received") {
		t.Error("expected error message in output")
	}
	if !strings.Contains(out, "UNKNOWN") {
		t.Error("expected uppercase unknown level")
	}
}

func TestFormatTerminalTruncatesSamples(t *testing.T) {
	result := sampleResult()
	long := strings.Repeat("x", 500)
	result.Samples[0].Text = long

	out := FormatTerminal(result)

	if strings.Contains(out, long) {
		t.Error("expected long sample text to be truncated")
	}
	if !strings.Contains(out, strings.Repeat("x", 200)+"...") {
		t.Error("expected truncation marker")
	}
}

func TestFormatJSON(t *testing.T) {
	out := FormatJSON(sampleResult())

	for _, want := range []string{
		`"uncertainty_level": "medium"`,
		`"is_uncertain": true`,
		`"unique_responses": 1`,
		`"What is the capital of France?"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in JSON output:\n%s", want, out)
		}
	}
}

func TestFormatJSONInfRatio(t *testing.T) {
	result := sampleResult()
	result.Analysis.Certainty.Ratio = math.Inf(1)

	out := FormatJSON(result)

	if !strings.Contains(out, `"uncertainty_ratio": "+inf"`) {
		t.Errorf("expected +inf ratio encoding:\n%s", out)
	}
	if strings.Contains(out, "error") {
		t.Errorf("expected marshal to succeed:\n%s", out)
	}
}

func TestFormatMarkdown(t *testing.T) {
	out := FormatMarkdown(sampleResult())

	if !strings.Contains(out, "What is the capital of France?") {
		t.Error("expected prompt in markdown")
	}
	if !strings.Contains(out, "MEDIUM") {
		t.Error("expected uppercase level in markdown")
	}
	if !strings.Contains(out, "| Certainty ratio |") {
		t.Error("expected ratio row in markdown table")
	}
}
