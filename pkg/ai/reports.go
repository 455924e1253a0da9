package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/craftloom/storefront/pkg/report"
)

// ReportResponse wraps an AI-generated report alongside the raw numbers
// it was derived from, so the dashboard still renders when AI is off.
type ReportResponse struct {
	Status      string     `json:"status"`
	Data        ReportData `json:"data"`
	GeneratedAt time.Time  `json:"generated_at"`
	AIEnabled   bool       `json:"ai_enabled"`
}

type ReportData struct {
	RawData    interface{} `json:"raw_data"`
	AIInsights string      `json:"ai_insights,omitempty"`
	Summary    string      `json:"summary"`
	Error      string      `json:"error,omitempty"`
}

// GenerateSalesSummary produces an AI narrative over the dashboard counters.
func GenerateSalesSummary(ctx context.Context, exporter *report.Exporter) (*ReportResponse, error) {
	stats, err := exporter.Summary(ctx)
	if err != nil {
		return &ReportResponse{
			Status:      "error",
			Data:        ReportData{Error: "Failed to fetch summary data: " + err.Error()},
			GeneratedAt: time.Now(),
			AIEnabled:   IsEnabled(),
		}, err
	}

	response := &ReportResponse{
		Status:      "success",
		GeneratedAt: time.Now(),
		AIEnabled:   IsEnabled(),
		Data: ReportData{
			RawData: stats,
			Summary: "Storefront summary retrieved successfully",
		},
	}

	if IsEnabled() {
		insights, err := generateCompletion(ctx, SalesSummarySystemPrompt, formatSummaryPrompt(stats))
		if err != nil {
			response.Data.Error = "AI analysis failed: " + err.Error()
		} else {
			response.Data.AIInsights = insights
			response.Data.Summary = "AI-generated storefront insights and recommendations"
		}
	} else {
		response.Data.Summary = "Raw summary data (AI insights unavailable)"
	}

	return response, nil
}

func formatSummaryPrompt(stats report.Summary) string {
	jsonData, _ := json.MarshalIndent(stats, "", "  ")
	return fmt.Sprintf(`Analyze the following marketplace summary and provide business insights:

%s

Please provide:
1. Key highlights of catalog and order activity
2. Areas of concern or opportunity
3. Specific recommendations for marketplace growth
4. Actionable next steps for the operations team`, string(jsonData))
}
