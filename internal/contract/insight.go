package contract

import (
	"time"

	"github.com/averyhollis/fabline/internal/insight"
)

type InsightRequest struct {
	Now                *time.Time
	SplitByProductType bool
	HorizonWeeks       int
}

func NewInsightRequest() InsightRequest {
	return InsightRequest{
		HorizonWeeks: 6,
	}
}

type InsightResponse struct {
	GeneratedAt time.Time
	Insights    insight.ScheduleInsights
	Warnings    []string
}
