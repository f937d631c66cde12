package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Email             string          `json:"email"`
	PasswordHash      string          `json:"-"`
	Balance           decimal.Decimal `json:"balance"`
	ActiveInvestments decimal.Decimal `json:"active_investments"`
	TotalProfit       decimal.Decimal `json:"total_profit"`
	Avatar            string          `json:"avatar"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token,omitempty"`
}
