package measure

import (
	"context"
	"sync"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/provider"
)

// sampleAll issues opts.Samples independent completion requests for prompt
// with logprobs enabled. The returned slice always has length opts.Samples
// in request order; a failed request becomes a failure entry and never
// aborts the rest of the batch. Requests fan out over at most
// opts.Concurrency goroutines, writing results by index so ordering is
// preserved regardless of completion order.
func (m *Measurer) sampleAll(ctx context.Context, prompt string, opts Options) []Sample {
	samples := make([]Sample, opts.Samples)

	sem := make(chan struct{}, opts.Concurrency)
	var mu sync.Mutex
	done := 0

	var wg sync.WaitGroup
	for i := 0; i < opts.Samples; i++ {
		wg.Add(1)
		sem <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()

			resp, err := m.client.Complete(ctx, provider.CompletionRequest{
				UserPrompt:  prompt,
				Temperature: opts.Temperature,
				MaxTokens:   opts.MaxTokens,
				Logprobs:    true,
			})
			if err != nil {
				samples[i] = Sample{Err: err.Error()}
			} else {
				samples[i] = Sample{Text: resp.Text, TokenLogprobs: resp.TokenLogprobs}
			}

			mu.Lock()
			done++
			if opts.Progress != nil {
				opts.Progress(done, opts.Samples, samples[i].Failed())
			}
			mu.Unlock()
		}(i)
	}

	wg.Wait()
	return samples
}
