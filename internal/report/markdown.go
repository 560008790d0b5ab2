package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/measure"
)

// FormatMarkdown produces markdown suitable for PR comments or issue
// threads.
func FormatMarkdown(result *measure.Result) string {
	var b strings.Builder

	analysis := result.Analysis

	if analysis.Failed() {
		fmt.Fprintf(&b, "## uncertainty: ❌ %s\n\n", analysis.Err)
		fmt.Fprintf(&b, "**Prompt:** %s\n\n", result.Prompt)
		fmt.Fprintf(&b, "**Level:** %s\n", strings.ToUpper(analysis.Level))
		return b.String()
	}

	status := "✅ Confident"
	if result.IsUncertain {
		status = "⚠️ Uncertain"
	}
	fmt.Fprintf(&b, "## uncertainty: %s (%s)\n\n", status, strings.ToUpper(analysis.Level))

	fmt.Fprintf(&b, "**Prompt:** %s\n\n", result.Prompt)

	b.WriteString("| Metric | Value |\n")
	b.WriteString("|--------|-------|\n")
	fmt.Fprintf(&b, "| Diversity | %.3f (%d/%d unique) |\n",
		analysis.Diversity, analysis.UniqueResponses, analysis.TotalSamples)
	fmt.Fprintf(&b, "| Token confidence | %.3f |\n", analysis.TokenConfidence)
	if cert := analysis.Certainty; cert != nil {
		fmt.Fprintf(&b, "| Answer mean logprob | %.4f |\n", cert.AnswerMeanLogprob)
		fmt.Fprintf(&b, "| Phrase mean logprob | %.4f |\n", cert.PhraseMeanLogprob)
		fmt.Fprintf(&b, "| Certainty ratio | %s |\n", formatRatio(cert.Ratio))
		fmt.Fprintf(&b, "| Threshold | %.2f |\n", cert.Threshold)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "> %s\n\n", analysis.Recommendation)

	fmt.Fprintf(&b, "**Response:** %s\n\n", result.Response)

	b.WriteString("<details><summary>Samples</summary>\n\n")
	for i, s := range result.Samples {
		if s.Failed() {
			fmt.Fprintf(&b, "%d. *failed: %s*\n", i+1, s.Err)
			continue
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, truncate(s.Text, sampleDisplayChars))
	}
	b.WriteString("\n</details>\n")

	return b.String()
}

// FormatTranscript produces a detailed markdown record of a measurement,
// including per-phrase log-probabilities, useful for manual review.
func FormatTranscript(result *measure.Result) string {
	var b strings.Builder
	b.WriteString("# Measurement Transcript\n\n")
	fmt.Fprintf(&b, "**Prompt:** %s\n\n", result.Prompt)

	for i, s := range result.Samples {
		fmt.Fprintf(&b, "## Sample %d\n\n", i+1)
		if s.Failed() {
			fmt.Fprintf(&b, "ERROR\n\n```\n%s\n```\n\n", s.Err)
			continue
		}
		fmt.Fprintf(&b, "- **Tokens with logprobs:** %d\n\n", len(s.TokenLogprobs))
		fmt.Fprintf(&b, "```\n%s\n```\n\n", s.Text)
	}

	if cert := result.Analysis.Certainty; cert != nil {
		b.WriteString("## Reference Phrases\n\n")

		phrases := make([]string, 0, len(cert.PhraseLogprobs))
		for p := range cert.PhraseLogprobs {
			phrases = append(phrases, p)
		}
		sort.Strings(phrases)
		for _, p := range phrases {
			fmt.Fprintf(&b, "- %q: %.4f\n", p, cert.PhraseLogprobs[p])
		}
		b.WriteString("\n")
	}

	return b.String()
}
