package services

import (
	"nexusinvest/internal/models"

	"github.com/shopspring/decimal"
)

// PlanService serves the static investment plan catalog.
type PlanService struct {
	plans []models.InvestmentPlan
}

func NewPlanService() *PlanService {
	return &PlanService{
		plans: []models.InvestmentPlan{
			{
				ID:        "plan_1",
				Name:      "Starter Yield",
				ROI:       "8% - 12%",
				Duration:  "3 Months",
				MinAmount: decimal.NewFromInt(500),
				MaxAmount: decimal.NewFromInt(5000),
				Risk:      "Low",
			},
			{
				ID:        "plan_2",
				Name:      "Growth Alpha",
				ROI:       "15% - 22%",
				Duration:  "6 Months",
				MinAmount: decimal.NewFromInt(5000),
				MaxAmount: decimal.NewFromInt(25000),
				Risk:      "Medium",
			},
			{
				ID:        "plan_3",
				Name:      "Whale Strategy",
				ROI:       "25% - 35%",
				Duration:  "12 Months",
				MinAmount: decimal.NewFromInt(25000),
				MaxAmount: decimal.NewFromInt(1000000),
				Risk:      "High",
			},
		},
	}
}

func (s *PlanService) GetPlans() []models.InvestmentPlan {
	return s.plans
}

func (s *PlanService) FindPlan(planID string) (*models.InvestmentPlan, bool) {
	for i := range s.plans {
		if s.plans[i].ID == planID {
			return &s.plans[i], true
		}
	}
	return nil, false
}
