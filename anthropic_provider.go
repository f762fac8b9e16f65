package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/charmbracelet/log"
)

// AnthropicProvider implements AIProvider for Anthropic's Claude API.
type AnthropicProvider struct {
	client *anthropic.Client
}

// NewAnthropicProvider creates a new Anthropic AI provider.
func NewAnthropicProvider(apiKey string) *AnthropicProvider {
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
	)

	return &AnthropicProvider{
		client: &client,
	}
}

// RecommendCategory implements AIProvider interface.
func (p *AnthropicProvider) RecommendCategory(
	ctx context.Context,
	record incomeInput,
	categories []string,
) (*CategoryRecommendation, error) {
	prompt := buildCategoryPrompt(record, categories)

	log.Debug("sending categorization request to Anthropic", "source", record.Source)

	response, err := p.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     "claude-3-haiku-20240307",
		MaxTokens: anthropicMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		log.Error("failed to call Anthropic API", "error", err)
		return nil, fmt.Errorf("failed to call Anthropic API: %w", err)
	}

	var responseText string
	if len(response.Content) > 0 {
		responseText = response.Content[0].Text
	}

	if responseText == "" {
		return nil, errors.New("empty response from Anthropic API")
	}

	recommendation, err := parseCategoryResponse(responseText, categories)
	if err != nil {
		log.Error("failed to parse Anthropic response", "error", err, "response", responseText)
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	log.Debug("received categorization recommendation",
		"category", recommendation.Category,
		"confidence", recommendation.Confidence)
	return recommendation, nil
}

// buildCategoryPrompt constructs the prompt for category recommendation.
func buildCategoryPrompt(record incomeInput, categories []string) string {
	return fmt.Sprintf(`You are a personal finance assistant that labels income.
Please suggest a category for the following income record.

%s

%s
Please respond with ONLY a JSON object in this exact format:
{
  "category": "<category name>",
  "confidence": <number between 0-100>,
  "reasoning": "<brief explanation>"
}

Guidelines:
- Reuse an existing category when one fits, spelled exactly as listed
- Otherwise propose a short new category such as "Salary", "Freelance", "Dividends" or "Rental"
- Confidence should reflect how certain you are (100 = very certain, 50 = moderate, 0 = just guessing)
- Keep reasoning brief (1-2 sentences max)`, formatIncomeForAI(record), formatCategoriesForAI(categories))
}

// parseCategoryResponse extracts the recommendation from the model output.
// A category matching an existing one case-insensitively takes its spelling.
func parseCategoryResponse(response string, categories []string) (*CategoryRecommendation, error) {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON found in response: %s", response)
	}

	var result struct {
		Category   string  `json:"category"`
		Confidence float64 `json:"confidence"`
		Reasoning  string  `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	category := strings.TrimSpace(result.Category)
	if category == "" {
		return nil, errors.New("response did not name a category")
	}

	isNew := true
	for _, c := range categories {
		if strings.EqualFold(c, category) {
			category, isNew = c, false
			break
		}
	}

	// Clamp confidence to 0-100 range
	confidence := min(max(result.Confidence, 0), maxConfidenceScore)

	return &CategoryRecommendation{
		Category:   category,
		IsNew:      isNew,
		Confidence: confidence,
		Reasoning:  result.Reasoning,
	}, nil
}
