package main

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/Rshep3087/findash/api"
)

// AIProvider defines the interface for AI-powered category recommendations.
type AIProvider interface {
	// RecommendCategory suggests a category for an income record that has
	// none yet, preferring one of the known categories.
	RecommendCategory(
		ctx context.Context,
		record incomeInput,
		categories []string,
	) (*CategoryRecommendation, error)
}

// CategoryRecommendation represents an AI recommendation for an income category.
type CategoryRecommendation struct {
	Category   string  `json:"category"`
	IsNew      bool    `json:"is_new"`
	Confidence float64 `json:"confidence"` // 0-100 confidence score
	Reasoning  string  `json:"reasoning"`
}

var errAIDisabled = errors.New("category suggestions need an Anthropic API key (anthropic_api_key)")

// AIRecommender manages AI-powered category recommendations.
type AIRecommender struct {
	provider AIProvider
	enabled  bool
}

// NewAIRecommender creates a new AI recommender with the given provider.
func NewAIRecommender(provider AIProvider) *AIRecommender {
	return &AIRecommender{
		provider: provider,
		enabled:  provider != nil,
	}
}

// IsEnabled returns true if AI recommendations are available.
func (r *AIRecommender) IsEnabled() bool {
	return r != nil && r.enabled
}

// Suggest asks the provider for a category for record.
func (r *AIRecommender) Suggest(
	ctx context.Context,
	record incomeInput,
	categories []string,
) (*CategoryRecommendation, error) {
	if !r.IsEnabled() {
		return nil, errAIDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, aiRecommendationTimeout)
	defer cancel()

	recommendation, err := r.provider.RecommendCategory(ctx, record, categories)
	if err != nil {
		log.Error("AIRecommender recommendation failed", "error", err, "source", record.Source)
		return nil, err
	}

	log.Debug("AIRecommender recommendation succeeded",
		"source", record.Source,
		"category", recommendation.Category,
		"confidence", recommendation.Confidence)
	return recommendation, nil
}

// distinctCategories lists the categories already used, in first-seen order.
func distinctCategories(records []api.IncomeRecord) []string {
	var categories []string
	for _, r := range records {
		c := strings.TrimSpace(r.Category)
		if c == "" {
			continue
		}
		if !slices.ContainsFunc(categories, func(s string) bool { return strings.EqualFold(s, c) }) {
			categories = append(categories, c)
		}
	}
	return categories
}

// formatIncomeForAI formats income data for AI analysis.
func formatIncomeForAI(record incomeInput) string {
	return fmt.Sprintf(`Income Details:
- Source: %s
- Amount: %s
- Date: %s
- Notes: %s`,
		record.Source,
		record.Amount,
		record.Date,
		record.Notes,
	)
}

// formatCategoriesForAI formats the existing categories for AI analysis.
func formatCategoriesForAI(categories []string) string {
	if len(categories) == 0 {
		return "Existing Categories: none yet\n"
	}

	var sb strings.Builder
	sb.WriteString("Existing Categories:\n")
	for _, c := range categories {
		fmt.Fprintf(&sb, "- %s\n", c)
	}
	return sb.String()
}
