package measure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Celeriter24/uncertainty-aware-reasoning/internal/provider"
)

const (
	snippetMaxChars       = 200
	clarificationTemp     = 0.3
	clarificationTokens   = 60
	genericClarification  = "I'm unsure about this question. Could you please provide more information or clarify your question?"
	clarificationTemplate = "I'm unsure about %s. Could you please provide more information or clarify your question?"
)

// generateClarification asks the model to complete "I'm unsure about ..."
// given the original prompt and a snippet of the first valid answer, and
// wraps the completion as a clarification request. It never fails: any
// provider error yields the generic fallback string.
func (m *Measurer) generateClarification(ctx context.Context, prompt string, valid []Sample) string {
	snippet := valid[0].Text
	if len(snippet) > snippetMaxChars {
		snippet = snippet[:snippetMaxChars]
	}

	userPrompt := fmt.Sprintf(
		"Question: %s\n\nDraft answer: %s\n\nComplete this sentence describing what is unclear about the question, in a few words: I'm unsure about",
		prompt, snippet)

	resp, err := m.client.Complete(ctx, provider.CompletionRequest{
		UserPrompt:  userPrompt,
		Temperature: clarificationTemp,
		MaxTokens:   clarificationTokens,
	})
	if err != nil {
		return genericClarification
	}

	completion := strings.TrimSpace(resp.Text)
	completion = strings.TrimSuffix(completion, ".")
	if completion == "" {
		return genericClarification
	}

	return fmt.Sprintf(clarificationTemplate, completion)
}
