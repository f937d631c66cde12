package services

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"nexusinvest/internal/models"
	"nexusinvest/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// LedgerService orchestrates every balance-affecting operation. Each
// operation validates its input before the first mutating statement, so a
// business-rule rejection never leaves partial state behind.
type LedgerService struct {
	db       *sql.DB
	logger   zerolog.Logger
	evidence *storage.EvidenceStore
}

func NewLedgerService(db *sql.DB, logger zerolog.Logger, evidence *storage.EvidenceStore) *LedgerService {
	return &LedgerService{
		db:       db,
		logger:   logger,
		evidence: evidence,
	}
}

// RequestDeposit records a pending deposit with its proof of payment. The
// evidence blob is persisted before the ledger row that references it; the
// user's balance is not touched until an external reviewer approves the
// deposit. Returns the new transaction id.
func (s *LedgerService) RequestDeposit(userID string, amount decimal.Decimal, method string, proof io.Reader, ext string) (string, error) {
	if userID == "" || !amount.IsPositive() {
		return "", fmt.Errorf("%w: invalid deposit parameters", ErrInvalidRequest)
	}
	if proof == nil {
		return "", fmt.Errorf("%w: proof of payment is required", ErrInvalidRequest)
	}
	if !storage.AllowedExtension(ext) {
		return "", fmt.Errorf("%w: invalid file format, allowed: jpg, jpeg, png, pdf", ErrInvalidRequest)
	}
	if method == "" {
		method = "UNSPECIFIED"
	}

	txID, err := newID("tx_")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	name, err := s.evidence.Save(txID, ext, proof)
	if errors.Is(err, storage.ErrEmptyEvidence) {
		return "", fmt.Errorf("%w: proof of payment is required", ErrInvalidRequest)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error saving deposit evidence")
		return "", fmt.Errorf("%w: failed to save proof of payment", ErrStorageFailure)
	}

	description := strings.ToUpper(method) + " Payment Deposit Request"
	_, err = s.db.Exec(
		"INSERT INTO transactions (id, user_id, type, amount, date, status, description, proof_image) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		txID, userID, string(models.TransactionTypeDeposit), amount,
		time.Now().Format("2006-01-02"), string(models.TransactionStatusPending),
		description, "uploads/"+name,
	)
	if err != nil {
		// No row may reference a blob and no blob should outlive a failed row.
		if rerr := s.evidence.Remove(name); rerr != nil {
			s.logger.Warn().Err(rerr).Str("file", name).Msg("Failed to remove orphaned evidence")
		}
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error recording deposit")
		return "", fmt.Errorf("%w: failed to record deposit", ErrStorageFailure)
	}

	s.logger.Info().
		Str("transaction_id", txID).
		Str("user_id", userID).
		Str("amount", amount.String()).
		Msg("Deposit request recorded")

	return txID, nil
}

// RequestWithdrawal records a pending withdrawal. The balance check is a
// plain read: nothing is deducted until an external reviewer approves the
// request, so no row lock is needed here.
func (s *LedgerService) RequestWithdrawal(userID string, amount decimal.Decimal, walletAddress string) error {
	if userID == "" || !amount.IsPositive() || walletAddress == "" {
		return fmt.Errorf("%w: invalid withdrawal request", ErrInvalidRequest)
	}

	var balance decimal.Decimal
	err := s.db.QueryRow("SELECT balance FROM users WHERE id = ?", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return fmt.Errorf("%w: unknown user", ErrInvalidRequest)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching balance")
		return fmt.Errorf("%w: failed to check balance", ErrStorageFailure)
	}

	if balance.LessThan(amount) {
		return ErrInsufficientFunds
	}

	txID, err := newID("tx_")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	_, err = s.db.Exec(
		"INSERT INTO transactions (id, user_id, type, amount, date, status, description, wallet_address) VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
		txID, userID, string(models.TransactionTypeWithdrawal), amount.Neg(),
		time.Now().Format("2006-01-02"), string(models.TransactionStatusPending),
		"Crypto Withdrawal Request", walletAddress,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error recording withdrawal")
		return fmt.Errorf("%w: failed to record withdrawal", ErrStorageFailure)
	}

	s.logger.Info().
		Str("transaction_id", txID).
		Str("user_id", userID).
		Str("amount", amount.String()).
		Msg("Withdrawal request recorded")

	return nil
}

// Subscribe commits part of the balance to an investment plan. This is the
// one path that mutates the balance synchronously: the user row is locked
// for the whole read-check-mutate-insert sequence, and everything rolls back
// together on failure. Returns the post-mutation user snapshot.
func (s *LedgerService) Subscribe(userID, planID string, amount decimal.Decimal) (*models.User, error) {
	if userID == "" || planID == "" || !amount.IsPositive() {
		return nil, fmt.Errorf("%w: invalid subscription parameters", ErrInvalidRequest)
	}

	tx, err := s.db.Begin()
	if err != nil {
		s.logger.Error().Err(err).Msg("Error starting subscription transaction")
		return nil, fmt.Errorf("%w: failed to start transaction", ErrStorageFailure)
	}
	defer tx.Rollback()

	var balance decimal.Decimal
	err = tx.QueryRow("SELECT balance FROM users WHERE id = ? FOR UPDATE", userID).Scan(&balance)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: unknown user", ErrInvalidRequest)
	}
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error locking user row")
		return nil, fmt.Errorf("%w: failed to check balance", ErrStorageFailure)
	}

	if balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	_, err = tx.Exec(
		"UPDATE users SET balance = balance - ?, active_investments = active_investments + ? WHERE id = ?",
		amount, amount, userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error updating balance for subscription")
		return nil, fmt.Errorf("%w: failed to update balance", ErrStorageFailure)
	}

	txID, err := newID("tx_")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageFailure, err)
	}

	_, err = tx.Exec(
		"INSERT INTO transactions (id, user_id, type, amount, date, status, description) VALUES (?, ?, ?, ?, ?, ?, ?)",
		txID, userID, string(models.TransactionTypeInvestment), amount.Neg(),
		time.Now().Format("2006-01-02"), string(models.TransactionStatusCompleted),
		"Investment Subscription: "+planID,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error recording investment")
		return nil, fmt.Errorf("%w: failed to record investment", ErrStorageFailure)
	}

	// Snapshot inside the transaction so the caller sees exactly the state
	// this subscription produced.
	var user models.User
	err = tx.QueryRow(
		"SELECT id, name, email, balance, active_investments, total_profit, avatar, created_at, updated_at FROM users WHERE id = ?",
		userID,
	).Scan(
		&user.ID, &user.Name, &user.Email, &user.Balance,
		&user.ActiveInvestments, &user.TotalProfit, &user.Avatar,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error reading user snapshot")
		return nil, fmt.Errorf("%w: failed to read user snapshot", ErrStorageFailure)
	}

	if err = tx.Commit(); err != nil {
		s.logger.Error().Err(err).Msg("Error committing subscription")
		return nil, fmt.Errorf("%w: failed to commit subscription", ErrStorageFailure)
	}

	s.logger.Info().
		Str("transaction_id", txID).
		Str("user_id", userID).
		Str("plan_id", planID).
		Str("amount", amount.String()).
		Msg("Investment subscription completed")

	return &user, nil
}

// ListTransactions returns the user's full history, most recent first, ties
// broken by insertion order.
func (s *LedgerService) ListTransactions(userID string) ([]*models.Transaction, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidRequest)
	}

	rows, err := s.db.Query(
		`SELECT id, user_id, type, amount, date, status, description, wallet_address, proof_image, created_at
		 FROM transactions
		 WHERE user_id = ?
		 ORDER BY date DESC, seq DESC`,
		userID,
	)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID).Msg("Error fetching transactions")
		return nil, fmt.Errorf("%w: failed to fetch transactions", ErrStorageFailure)
	}
	defer rows.Close()

	var transactions []*models.Transaction
	for rows.Next() {
		var t models.Transaction
		var date time.Time
		var description, walletAddress, proofImage sql.NullString

		err := rows.Scan(
			&t.ID, &t.UserID, &t.Type, &t.Amount, &date, &t.Status,
			&description, &walletAddress, &proofImage, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: error scanning transaction", ErrStorageFailure)
		}

		t.Date = date.Format("2006-01-02")
		t.Description = description.String
		if walletAddress.Valid {
			t.WalletAddress = &walletAddress.String
		}
		if proofImage.Valid {
			t.ProofImage = &proofImage.String
		}

		transactions = append(transactions, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to fetch transactions", ErrStorageFailure)
	}

	return transactions, nil
}
