package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"path/filepath"
	"strings"

	"nexusinvest/internal/middleware"
	"nexusinvest/internal/models"
	"nexusinvest/internal/services"
	"nexusinvest/internal/storage"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const maxUploadBytes = 10 << 20 // 10 MiB proof uploads

type LedgerHandler struct {
	ledgerService *services.LedgerService
	logger        zerolog.Logger
}

func NewLedgerHandler(db *sql.DB, logger zerolog.Logger, evidence *storage.EvidenceStore) *LedgerHandler {
	return &LedgerHandler{
		ledgerService: services.NewLedgerService(db, logger, evidence),
		logger:        logger,
	}
}

// Deposit accepts a multipart form: user_id, amount, method and the
// proof_image file.
func (h *LedgerHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid multipart request")
		return
	}

	userID, ok := h.authorizedUser(w, r, r.FormValue("user_id"))
	if !ok {
		return
	}

	amount, err := decimal.NewFromString(r.FormValue("amount"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid deposit amount")
		return
	}

	file, header, err := r.FormFile("proof_image")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Proof of payment is required")
		return
	}
	defer file.Close()

	ext := strings.TrimPrefix(filepath.Ext(header.Filename), ".")

	txID, err := h.ledgerService.RequestDeposit(userID, amount, r.FormValue("method"), file, ext)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("Deposit request failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusCreated, models.DepositResponse{
		TransactionID: txID,
		Message:       "Deposit recorded. Verification in progress.",
	})
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req models.WithdrawRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	userID, ok := h.authorizedUser(w, r, req.UserID)
	if !ok {
		return
	}

	if err := h.ledgerService.RequestWithdrawal(userID, req.Amount, req.WalletAddress); err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Msg("Withdrawal request failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"message": "Withdrawal request submitted for review",
	})
}

func (h *LedgerHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req models.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	userID, ok := h.authorizedUser(w, r, req.UserID)
	if !ok {
		return
	}

	user, err := h.ledgerService.Subscribe(userID, req.PlanID, req.Amount)
	if err != nil {
		h.logger.Warn().Err(err).Str("user_id", userID).Str("plan_id", req.PlanID).Msg("Subscription failed")
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

func (h *LedgerHandler) GetTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return
	}

	transactions, err := h.ledgerService.ListTransactions(userID)
	if err != nil {
		h.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to fetch transactions")
		respondWithServiceError(w, err)
		return
	}

	if transactions == nil {
		transactions = []*models.Transaction{}
	}
	respondWithJSON(w, http.StatusOK, transactions)
}

// authorizedUser resolves the authenticated subject and rejects requests
// whose payload names a different account.
func (h *LedgerHandler) authorizedUser(w http.ResponseWriter, r *http.Request, requested string) (string, bool) {
	currentUserID, ok := middleware.GetUserID(r)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "unauthorized", "User not authenticated")
		return "", false
	}
	if requested != "" && requested != currentUserID {
		respondWithError(w, http.StatusForbidden, "forbidden", "You can only act on your own account")
		return "", false
	}
	return currentUserID, true
}
