package models

import "github.com/shopspring/decimal"

type InvestmentPlan struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	ROI       string          `json:"roi"`
	Duration  string          `json:"duration"`
	MinAmount decimal.Decimal `json:"min_amount"`
	MaxAmount decimal.Decimal `json:"max_amount"`
	Risk      string          `json:"risk"`
}
