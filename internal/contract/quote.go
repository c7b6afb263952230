package contract

import (
	"time"

	"github.com/averyhollis/fabline/internal/domain"
	"github.com/averyhollis/fabline/internal/quote"
)

type QuoteRequest struct {
	Name        string
	ProductType string
	DollarValue float64
	ItemCount   int
	ItemValues  []float64
	Skipped     []domain.Department
	// TargetDate is the promised delivery date. Feasibility checks require
	// it; plain estimates ignore it.
	TargetDate *time.Time
	Now        *time.Time
	// DollarsPerPoint and BigRockThreshold override the configured
	// conversion when non-zero.
	DollarsPerPoint  float64
	BigRockThreshold float64
}

func NewQuoteRequest(dollars float64) QuoteRequest {
	return QuoteRequest{
		DollarValue: dollars,
		ItemCount:   1,
	}
}

type QuoteResponse struct {
	GeneratedAt time.Time
	Estimate    quote.Estimate
}

type FeasibilityResponse struct {
	GeneratedAt time.Time
	Check       quote.FeasibilityCheck
}

type QuoteErrorCode string

const (
	QuoteErrInvalidRequest QuoteErrorCode = "INVALID_REQUEST"
	QuoteErrInvalidTarget  QuoteErrorCode = "INVALID_TARGET"
	QuoteErrInternal       QuoteErrorCode = "INTERNAL_ERROR"
)

type QuoteError struct {
	Code    QuoteErrorCode
	Message string
}

func (e *QuoteError) Error() string {
	return string(e.Code) + ": " + e.Message
}
