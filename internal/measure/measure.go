// Package measure estimates how confident an LLM is in its answer to a
// prompt. It samples the model several times, compares the sampled answers
// against each other (diversity), aggregates per-token log-probabilities
// into a confidence score, and compares the answer log-probability against
// a fixed set of hedging phrases (certainty ratio) to reach a binary
// uncertain/confident verdict.
package measure

import (
	"context"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/provider"
)

// Sample is the outcome of one completion attempt. A failed attempt has
// Err set and carries no text or logprobs.
type Sample struct {
	Text          string
	TokenLogprobs []float64
	Err           string
}

// Failed reports whether the provider call behind this sample failed.
func (s Sample) Failed() bool {
	return s.Err != ""
}

// ProgressFunc is called once per completed or failed sampling request.
type ProgressFunc func(done, total int, failed bool)

// Options configures a measurement run. Zero values are replaced with
// defaults.
type Options struct {
	Samples     int     // number of completions to request (default 5)
	Temperature float64 // sampling temperature (default 0.7)
	MaxTokens   int     // per-sample token budget (default 500)
	Threshold   float64 // certainty-ratio threshold (default 1.0)
	Phrases     []string
	Concurrency int // provider calls in flight (default 1, sequential)
	Progress    ProgressFunc
}

func (o Options) withDefaults() Options {
	if o.Samples < 1 {
		o.Samples = 5
	}
	if o.Temperature <= 0 {
		o.Temperature = 0.7
	}
	if o.MaxTokens < 1 {
		o.MaxTokens = 500
	}
	if o.Threshold == 0 {
		o.Threshold = 1.0
	}
	if len(o.Phrases) == 0 {
		o.Phrases = DefaultPhrases
	}
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	return o
}

// CertaintyResult holds the certainty-ratio evaluation. Ratio is the mean
// log-probability of the hedging phrases over the mean log-probability of
// the sampled answers; it is not bounded in [0,1] and can be negative.
type CertaintyResult struct {
	AnswerMeanLogprob float64
	PhraseMeanLogprob float64
	PhraseLogprobs    map[string]float64
	Ratio             float64
	Threshold         float64
	IsUncertain       bool
}

// Analysis is the derived uncertainty analysis for one measurement. When
// every sample failed, Err is set, Level is "unknown" and Certainty is nil;
// no other field is populated.
type Analysis struct {
	Err             string
	UniqueResponses int
	TotalSamples    int
	Diversity       float64
	TokenConfidence float64
	Level           string
	Recommendation  string
	Certainty       *CertaintyResult
}

// Failed reports whether the analysis degenerated to the error state.
func (a Analysis) Failed() bool {
	return a.Err != ""
}

// Result is the full outcome of one measurement: the raw samples in request
// order, the derived analysis, and the response chosen for the caller
// (first valid answer when confident, a clarification request when not).
type Result struct {
	Prompt      string
	NumSamples  int
	Samples     []Sample
	Analysis    Analysis
	Response    string
	IsUncertain bool
}

// Measurer runs uncertainty measurements against a single provider client.
type Measurer struct {
	client provider.LLMClient
}

// New creates a Measurer bound to the given provider client.
func New(client provider.LLMClient) *Measurer {
	return &Measurer{client: client}
}

// Measure samples the model Options.Samples times for prompt and derives
// the uncertainty analysis. Provider failures never surface as errors:
// individual failed samples are recorded and excluded from statistics, and
// a run where every sample failed yields an error-state Analysis.
func (m *Measurer) Measure(ctx context.Context, prompt string, opts Options) *Result {
	opts = opts.withDefaults()

	samples := m.sampleAll(ctx, prompt, opts)

	valid := validSamples(samples)
	if len(valid) == 0 {
		return &Result{
			Prompt:     prompt,
			NumSamples: opts.Samples,
			Samples:    samples,
			Analysis: Analysis{
				Err:   "no valid responses received",
				Level: "unknown",
			},
		}
	}

	div := analyzeDiversity(validTexts(valid))
	confidence := meanConfidence(validLogprobs(valid))
	certainty := m.evaluateCertainty(ctx, valid, opts.Phrases, opts.Threshold)

	response := valid[0].Text
	if certainty.IsUncertain {
		response = m.generateClarification(ctx, prompt, valid)
	}

	return &Result{
		Prompt:     prompt,
		NumSamples: opts.Samples,
		Samples:    samples,
		Analysis: Analysis{
			UniqueResponses: div.UniqueCount,
			TotalSamples:    div.TotalCount,
			Diversity:       div.Ratio,
			TokenConfidence: confidence,
			Level:           div.Level,
			Recommendation:  div.Recommendation,
			Certainty:       certainty,
		},
		Response:    response,
		IsUncertain: certainty.IsUncertain,
	}
}

func validSamples(samples []Sample) []Sample {
	var valid []Sample
	for _, s := range samples {
		if !s.Failed() {
			valid = append(valid, s)
		}
	}
	return valid
}

func validTexts(valid []Sample) []string {
	texts := make([]string, len(valid))
	for i, s := range valid {
		texts[i] = s.Text
	}
	return texts
}

func validLogprobs(valid []Sample) [][]float64 {
	var sets [][]float64
	for _, s := range valid {
		if len(s.TokenLogprobs) > 0 {
			sets = append(sets, s.TokenLogprobs)
		}
	}
	return sets
}
