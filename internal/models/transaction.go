package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          string          `json:"type"`
	Amount        decimal.Decimal `json:"amount"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	Description   string          `json:"description"`
	WalletAddress *string         `json:"wallet_address,omitempty"`
	ProofImage    *string         `json:"proof_image,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeInvestment TransactionType = "investment"
	TransactionTypeProfit     TransactionType = "profit"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

type WithdrawRequest struct {
	UserID        string          `json:"user_id"`
	Amount        decimal.Decimal `json:"amount"`
	WalletAddress string          `json:"wallet_address"`
}

type SubscribeRequest struct {
	UserID string          `json:"user_id"`
	PlanID string          `json:"plan_id"`
	Amount decimal.Decimal `json:"amount"`
}

type DepositResponse struct {
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}
