package services

import (
	"context"
	"fmt"
	"strings"

	"quote-service/internal/ai/gemini"
	"quote-service/internal/models"
)

// SummaryService generates the optional executive summary for a finished
// quote using Gemini. It implements Summarizer; when no clients are
// configured the orchestrator simply runs without one.
type SummaryService struct {
	selector *gemini.GeminiClientSelector
}

func NewSummaryService(selector *gemini.GeminiClientSelector) *SummaryService {
	return &SummaryService{selector: selector}
}

func (s *SummaryService) Summarize(ctx context.Context, quote *models.Quote) (string, error) {
	if s.selector == nil || s.selector.GetClientCount() == 0 {
		return "", fmt.Errorf("no Gemini clients configured")
	}
	return gemini.SendTextWithRetry(ctx, buildSummaryPrompt(quote), s.selector)
}

func buildSummaryPrompt(quote *models.Quote) string {
	var b strings.Builder

	b.WriteString("You are an agricultural insurance underwriter assistant. ")
	b.WriteString("Write a concise executive summary (3-5 sentences, plain prose, no markdown) ")
	b.WriteString("of this drought index insurance quote for a smallholder farmer and their insurer.\n\n")

	fmt.Fprintf(&b, "Crop: %s\n", quote.Crop)
	fmt.Fprintf(&b, "Agro-ecological zone: %s\n", quote.ZoneName)
	fmt.Fprintf(&b, "Target season: %d\n", quote.TargetYear)
	fmt.Fprintf(&b, "Premium rate: %.2f%%\n", quote.Actuarial.PremiumRate*100)
	fmt.Fprintf(&b, "Sum insured: %.2f USD\n", quote.Actuarial.SumInsuredUSD)
	fmt.Fprintf(&b, "Gross premium: %.2f USD\n", quote.Actuarial.GrossPremiumUSD)
	fmt.Fprintf(&b, "Historical years analyzed: %d\n", quote.Actuarial.HistoricalYearsAnalyzed)
	fmt.Fprintf(&b, "Average historical drought impact: %.1f%%\n", quote.Actuarial.AverageImpactPercent)
	fmt.Fprintf(&b, "Worst year: %d (%.1f%% impact)\n", quote.Summary.WorstYear, quote.Summary.MaxImpactPercent)
	fmt.Fprintf(&b, "Payout frequency: %.0f%% of years\n", quote.Summary.PayoutFrequency*100)
	fmt.Fprintf(&b, "Historical loss ratio: %.2f\n", quote.Summary.OverallLossRatio)
	fmt.Fprintf(&b, "Meets 20-year actuarial standard: %v\n", quote.Actuarial.MeetsActuarialStandard)

	if len(quote.YearsSkipped) > 0 {
		fmt.Fprintf(&b, "Seasons without detectable planting: %d\n", len(quote.YearsSkipped))
	}

	b.WriteString("\nExplain the risk level in terms a farmer can follow, mention the dominant ")
	b.WriteString("drought pattern if impacts are high, and note any data caveats.")
	return b.String()
}
