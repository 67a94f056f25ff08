package engine

import "github.com/juandiazx/hackupc-2025/internal/snapshot"

// ExpenseDetail is one classified transaction in the response. Amount is
// rounded to cents; Date echoes the raw dataset cell.
type ExpenseDetail struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Want        bool    `json:"want"`
}

// ClassificationResult is the classify-expenses response body. Percentages
// are over all dataset rows, so rows the pipeline could not score leave the
// two shares summing below 100.
type ClassificationResult struct {
	WantsPercentage float64         `json:"wants_percentage"`
	NeedsPercentage float64         `json:"needs_percentage"`
	Expenses        []ExpenseDetail `json:"expenses"`
}

// ForecastResult is the predict-expenses response body. A month with no
// transactions yet yields an empty series and a zero prediction.
type ForecastResult struct {
	ExpensesPerDayCurrentMonth []snapshot.DayTotal `json:"expensesPerDayCurrentMonth"`
	FinalMonthPrediction       float64             `json:"finalMonthPrediction"`
}
