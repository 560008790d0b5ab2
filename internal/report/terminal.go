package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/measure"
)

// Muted 256-color palette
const (
	bold  = "\033[1m"
	reset = "\033[0m"

	// Muted tones via 256-color
	rose  = "\033[38;5;174m" // soft red/pink
	amber = "\033[38;5;179m" // warm yellow
	sage  = "\033[38;5;108m" // muted green
	slate = "\033[38;5;110m" // muted blue
	stone = "\033[38;5;245m" // medium gray
	chalk = "\033[38;5;188m" // off-white
)

const ruler = "────────────────────────────────────────────────────────"

const sampleDisplayChars = 200

func sectionHeader(title string) string {
	return fmt.Sprintf("\n  %s%s%s\n  %s%s%s\n", bold+chalk, strings.ToUpper(title), reset, stone, ruler, reset)
}

// FormatTerminal produces human-readable terminal output for a measurement.
// It never mutates the result it renders.
func FormatTerminal(result *measure.Result) string {
	var b strings.Builder

	// Header
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("  %s%suncertainty measurement%s\n", bold, chalk, reset))
	b.WriteString(fmt.Sprintf("  %s%s%s\n", stone, ruler, reset))

	fmt.Fprintf(&b, "  %sprompt%s   %s\n", stone, reset, result.Prompt)
	fmt.Fprintf(&b, "  %ssamples%s  %d\n", stone, reset, result.NumSamples)

	analysis := result.Analysis

	// ── Analysis ────────────────────────────────────────────
	b.WriteString(sectionHeader("Uncertainty Analysis"))

	if analysis.Failed() {
		fmt.Fprintf(&b, "  %s✘  %s%s\n", rose, analysis.Err, reset)
		fmt.Fprintf(&b, "  %slevel%s    %s\n", stone, reset, levelColored(analysis.Level))
		return b.String()
	}

	fmt.Fprintf(&b, "  %slevel%s        %s\n", stone, reset, levelColored(analysis.Level))
	fmt.Fprintf(&b, "  %sdiversity%s    %s  %.3f  %s(%d/%d unique)%s\n",
		stone, reset,
		colorBar(analysis.Diversity), analysis.Diversity,
		stone, analysis.UniqueResponses, analysis.TotalSamples, reset)
	fmt.Fprintf(&b, "  %sconfidence%s   %s  %.3f\n",
		stone, reset, colorBar(analysis.TokenConfidence), analysis.TokenConfidence)
	fmt.Fprintf(&b, "\n  %s%s%s\n", stone, analysis.Recommendation, reset)

	// ── Certainty Ratio ─────────────────────────────────────
	if cert := analysis.Certainty; cert != nil {
		b.WriteString(sectionHeader("Certainty Ratio"))

		fmt.Fprintf(&b, "  %sanswer mean logprob%s  %.4f\n", stone, reset, cert.AnswerMeanLogprob)
		fmt.Fprintf(&b, "  %sphrase mean logprob%s  %.4f\n", stone, reset, cert.PhraseMeanLogprob)

		phrases := make([]string, 0, len(cert.PhraseLogprobs))
		for p := range cert.PhraseLogprobs {
			phrases = append(phrases, p)
		}
		sort.Strings(phrases)
		for _, p := range phrases {
			fmt.Fprintf(&b, "    %s%-16q%s %.4f\n", stone, p, reset, cert.PhraseLogprobs[p])
		}

		fmt.Fprintf(&b, "  %sratio%s                %s\n", stone, reset, formatRatio(cert.Ratio))
		fmt.Fprintf(&b, "  %sthreshold%s            %.2f\n", stone, reset, cert.Threshold)

		if cert.IsUncertain {
			fmt.Fprintf(&b, "  %sverdict%s              %sUNCERTAIN%s\n", stone, reset, amber, reset)
		} else {
			fmt.Fprintf(&b, "  %sverdict%s              %sCONFIDENT%s\n", stone, reset, sage, reset)
		}
	}

	// ── Response ────────────────────────────────────────────
	b.WriteString(sectionHeader("Response"))
	fmt.Fprintf(&b, "  %s\n", truncate(result.Response, sampleDisplayChars))

	// ── Samples ─────────────────────────────────────────────
	b.WriteString(sectionHeader("Individual Samples"))
	for i, s := range result.Samples {
		if s.Failed() {
			fmt.Fprintf(&b, "  %s%2d%s  %s✘ %s%s\n", stone, i+1, reset, rose, s.Err, reset)
			continue
		}
		fmt.Fprintf(&b, "  %s%2d%s  %s\n", stone, i+1, reset, truncate(s.Text, sampleDisplayChars))
	}

	b.WriteString("\n")
	return b.String()
}

func levelColored(level string) string {
	var color string
	switch level {
	case "low":
		color = sage
	case "medium":
		color = amber
	case "high":
		color = rose
	default:
		color = slate
	}
	return color + strings.ToUpper(level) + reset
}

func formatRatio(ratio float64) string {
	if math.IsInf(ratio, 1) {
		return "+inf"
	}
	return fmt.Sprintf("%.4f", ratio)
}

// colorBar renders a progress bar with muted color based on the score.
// Scores outside [0,1] are clamped for display.
func colorBar(score float64) string {
	width := 16
	filled := int(score * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	var color string
	if score >= 0.7 {
		color = sage
	} else if score >= 0.5 {
		color = amber
	} else {
		color = rose
	}

	return color + strings.Repeat("█", filled) + stone + strings.Repeat("░", width-filled) + reset
}

func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}
