package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/config"
	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/measure"
	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/provider"
	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/report"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

func main() {
	// API keys may live in a local .env; absence is fine.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:     "uncertainty",
		Short:   "Measure how confident an LLM is in its answers by multi-sample logprob analysis",
		Version: version,
	}

	var (
		flagFormat     string
		flagConfig     string
		flagOutput     string
		flagNoPager    bool
		flagTranscript string

		flagProvider  string
		flagModel     string
		flagBaseURL   string
		flagAPIKeyEnv string

		flagSamples     int
		flagTemperature float64
		flagMaxTokens   int
		flagThreshold   float64
		flagConcurrency int
	)

	measureCmd := &cobra.Command{
		Use:   "measure <prompt>",
		Short: "Sample the model repeatedly and report an uncertainty analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prompt := args[0]

			cfg, err := config.Load(flagConfig, ".")
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			providerCfg := resolveProviderConfig(cfg, flagProvider, flagModel, flagBaseURL, flagAPIKeyEnv)

			client, err := provider.NewClient(providerCfg)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Failed to initialize API client: %v\n", err)
				fmt.Fprintln(os.Stderr, "Set the appropriate API key env var (e.g. OPENAI_API_KEY, ANTHROPIC_API_KEY).")
				os.Exit(1)
			}

			opts := resolveMeasureOptions(cfg, flagSamples, flagTemperature, flagMaxTokens, flagThreshold, flagConcurrency)
			opts.Progress = func(done, total int, failed bool) {
				mark := "✓"
				if failed {
					mark = "✗"
				}
				fmt.Fprintf(os.Stderr, "  [%d/%d] %s sample\n", done, total, mark)
			}

			fmt.Fprintf(os.Stderr, "Measuring uncertainty with %d samples...\n", opts.Samples)

			result := measure.New(client).Measure(context.Background(), prompt, opts)

			output := formatResult(result, flagFormat)
			if err := writeOutput(output, flagOutput, flagFormat, flagNoPager); err != nil {
				return err
			}

			if flagTranscript != "" {
				transcript := report.FormatTranscript(result)
				if err := os.WriteFile(flagTranscript, []byte(transcript), 0644); err != nil {
					return fmt.Errorf("write transcript: %w", err)
				}
				fmt.Fprintf(os.Stderr, "Transcript written to %s\n", flagTranscript)
			}

			return nil
		},
	}
	measureCmd.Flags().StringVar(&flagFormat, "format", "terminal", "Output format: terminal, json, markdown")
	measureCmd.Flags().StringVar(&flagConfig, "config", "", "Path to uncertainty.yaml config")
	measureCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "Write report to file")
	measureCmd.Flags().BoolVar(&flagNoPager, "no-pager", false, "Disable automatic paging")
	measureCmd.Flags().StringVar(&flagTranscript, "transcript", "", "Write full sample transcript to file (markdown)")
	measureCmd.Flags().StringVar(&flagProvider, "provider", "openai", "LLM provider: openai, openai-compatible, anthropic")
	measureCmd.Flags().StringVar(&flagModel, "model", "", "Model to sample")
	measureCmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Base URL for openai-compatible provider")
	measureCmd.Flags().StringVar(&flagAPIKeyEnv, "api-key-env", "", "Environment variable name for API key")
	measureCmd.Flags().IntVar(&flagSamples, "samples", 5, "Number of samples to request")
	measureCmd.Flags().Float64Var(&flagTemperature, "temperature", 0.7, "Sampling temperature")
	measureCmd.Flags().IntVar(&flagMaxTokens, "max-tokens", 500, "Token budget per sample")
	measureCmd.Flags().Float64Var(&flagThreshold, "threshold", 1.0, "Certainty-ratio threshold for the uncertain verdict")
	measureCmd.Flags().IntVar(&flagConcurrency, "concurrency", 1, "Max concurrent API calls")

	root.AddCommand(measureCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func formatResult(result *measure.Result, format string) string {
	switch format {
	case "json":
		return report.FormatJSON(result)
	case "markdown":
		return report.FormatMarkdown(result)
	default:
		return report.FormatTerminal(result)
	}
}

func writeOutput(output, path, format string, noPager bool) error {
	// Write to file
	if path != "" {
		if err := os.WriteFile(path, []byte(output), 0644); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "Report written to %s\n", path)
		return nil
	}

	// Use pager for terminal format when stdout is a TTY
	if format == "terminal" && !noPager && isTerminal() {
		return outputWithPager(output)
	}

	fmt.Print(output)
	return nil
}

// isTerminal returns true if stdout is connected to a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// outputWithPager pipes output through a pager (less -R by default).
func outputWithPager(output string) error {
	pager := os.Getenv("PAGER")
	if pager == "" {
		pager = "less"
	}

	// Build args: for less, -R preserves ANSI colors,
	// -X leaves output on screen after quit
	var args []string
	if pager == "less" {
		args = []string{"-R", "-X"}
	}

	cmd := exec.Command(pager, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		// Fall back to direct output
		fmt.Print(output)
		return nil
	}

	if err := cmd.Start(); err != nil {
		// Pager not available, fall back to direct output
		fmt.Print(output)
		return nil
	}

	io.WriteString(stdin, output)
	stdin.Close()

	// Ignore pager exit errors (e.g. user quits with 'q')
	cmd.Wait()
	return nil
}

func resolveProviderConfig(cfg map[string]any, flagProvider, flagModel, flagBaseURL, flagAPIKeyEnv string) provider.Config {
	providerCfg := config.Section(cfg, "provider")

	p := provider.Config{
		Provider: flagProvider,
		Model:    flagModel,
		BaseURL:  flagBaseURL,
	}

	// Fill from config file if flags not set
	if p.Model == "" {
		p.Model = config.String(providerCfg, "model", "")
	}
	if p.Provider == "openai" {
		p.Provider = config.String(providerCfg, "provider", p.Provider)
	}
	if p.BaseURL == "" {
		p.BaseURL = config.String(providerCfg, "base_url", "")
	}
	if flagAPIKeyEnv != "" {
		p.APIKeyEnv = flagAPIKeyEnv
	} else {
		p.APIKeyEnv = config.String(providerCfg, "api_key_env", "")
	}

	return p
}

func resolveMeasureOptions(cfg map[string]any, samples int, temperature float64, maxTokens int, threshold float64, concurrency int) measure.Options {
	measureCfg := config.Section(cfg, "measure")

	opts := measure.Options{
		Samples:     samples,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		Threshold:   threshold,
		Concurrency: concurrency,
	}

	if opts.Samples == 5 {
		opts.Samples = config.Int(measureCfg, "samples", opts.Samples)
	}
	if opts.Temperature == 0.7 {
		opts.Temperature = config.Float(measureCfg, "temperature", opts.Temperature)
	}
	if opts.MaxTokens == 500 {
		opts.MaxTokens = config.Int(measureCfg, "max_tokens", opts.MaxTokens)
	}
	if opts.Threshold == 1.0 {
		opts.Threshold = config.Float(measureCfg, "threshold", opts.Threshold)
	}

	opts.Phrases = config.Strings(cfg, "phrases")

	return opts
}
