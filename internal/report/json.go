package report

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/measure"
)

// FormatJSON produces machine-readable JSON for a measurement.
func FormatJSON(result *measure.Result) string {
	analysis := result.Analysis

	report := map[string]any{
		"timestamp":   time.Now().Format(time.RFC3339),
		"prompt":      result.Prompt,
		"num_samples": result.NumSamples,
	}

	if analysis.Failed() {
		report["analysis"] = map[string]any{
			"error":             analysis.Err,
			"uncertainty_level": analysis.Level,
		}
	} else {
		a := map[string]any{
			"unique_responses":         analysis.UniqueResponses,
			"total_samples":            analysis.TotalSamples,
			"response_diversity":       round3(analysis.Diversity),
			"average_token_confidence": round3(analysis.TokenConfidence),
			"uncertainty_level":        analysis.Level,
			"recommendation":           analysis.Recommendation,
		}
		if cert := analysis.Certainty; cert != nil {
			a["answer_mean_logprob"] = round3(cert.AnswerMeanLogprob)
			a["phrase_mean_logprob"] = round3(cert.PhraseMeanLogprob)
			a["phrase_logprobs"] = cert.PhraseLogprobs
			a["uncertainty_ratio"] = jsonRatio(cert.Ratio)
			a["threshold"] = cert.Threshold
			a["is_uncertain"] = cert.IsUncertain
		}
		report["analysis"] = a
		report["response"] = result.Response
		report["is_uncertain"] = result.IsUncertain
	}

	var samples []map[string]any
	for _, s := range result.Samples {
		entry := map[string]any{}
		if s.Failed() {
			entry["error"] = s.Err
		} else {
			entry["text"] = s.Text
			entry["tokens"] = len(s.TokenLogprobs)
		}
		samples = append(samples, entry)
	}
	report["samples"] = samples

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error": "failed to marshal report: %s"}`, err)
	}
	return string(data)
}

// jsonRatio keeps the ratio JSON-encodable; +Inf is not a valid JSON number.
func jsonRatio(ratio float64) any {
	if math.IsInf(ratio, 1) {
		return "+inf"
	}
	return round3(ratio)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
