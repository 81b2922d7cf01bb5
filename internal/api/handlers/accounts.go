package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/akashpatki/rupeelog/internal/api/middleware"
	bq "github.com/akashpatki/rupeelog/internal/bigquery"
)

// AccountsHandler handles account setup endpoints. Each successful call
// produces one setup event that shows up in the activity feed.
type AccountsHandler struct {
	writer bq.AccountWriter
	log    zerolog.Logger
}

// NewAccountsHandler creates a new accounts handler.
func NewAccountsHandler(writer bq.AccountWriter, log zerolog.Logger) *AccountsHandler {
	return &AccountsHandler{writer: writer, log: log}
}

// CreateBankAccount handles POST /api/accounts/bank
func (h *AccountsHandler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req struct {
		BankName       string           `json:"bank_name"`
		AccountNumber  string           `json:"account_number"`
		OpeningBalance *decimal.Decimal `json:"opening_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.BankName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "bank_name is required")
		return
	}
	if req.OpeningBalance != nil && req.OpeningBalance.IsNegative() {
		middleware.WriteError(w, http.StatusBadRequest, "opening_balance must not be negative")
		return
	}

	row := &bq.BankAccountRow{
		BankAccountID: uuid.New().String(),
		UserID:        ownerID,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		CreatedTS:     time.Now().UTC(),
	}
	if req.OpeningBalance != nil {
		row.OpeningBalance = req.OpeningBalance.Rat()
	}

	if err := h.writer.InsertBankAccount(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert bank account")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create bank account")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"bank_account_id": row.BankAccountID,
	})
}

// CreateCreditCard handles POST /api/accounts/credit-card
func (h *AccountsHandler) CreateCreditCard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req struct {
		CardName    string           `json:"card_name"`
		CreditLimit *decimal.Decimal `json:"credit_limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.CardName == "" {
		middleware.WriteError(w, http.StatusBadRequest, "card_name is required")
		return
	}
	if req.CreditLimit != nil && req.CreditLimit.IsNegative() {
		middleware.WriteError(w, http.StatusBadRequest, "credit_limit must not be negative")
		return
	}

	row := &bq.CreditCardRow{
		CreditCardID: uuid.New().String(),
		UserID:       ownerID,
		CardName:     req.CardName,
		CreatedTS:    time.Now().UTC(),
	}
	if req.CreditLimit != nil {
		row.CreditLimit = req.CreditLimit.Rat()
	}

	if err := h.writer.InsertCreditCard(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert credit card")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to create credit card")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"credit_card_id": row.CreditCardID,
	})
}

// SetCashBalance handles POST /api/accounts/cash
func (h *AccountsHandler) SetCashBalance(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req struct {
		Balance       decimal.Decimal `json:"balance"`
		EffectiveDate string          `json:"effective_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Balance.IsNegative() {
		middleware.WriteError(w, http.StatusBadRequest, "balance must not be negative")
		return
	}

	row := &bq.CashBalanceRow{
		CashEventID: uuid.New().String(),
		UserID:      ownerID,
		Balance:     req.Balance.Rat(),
		CreatedTS:   time.Now().UTC(),
	}
	if req.EffectiveDate != "" {
		d, err := civil.ParseDate(req.EffectiveDate)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "invalid effective_date, want YYYY-MM-DD")
			return
		}
		row.EffectiveDate = bigquery.NullDate{Date: d, Valid: true}
	}

	if err := h.writer.InsertCashBalanceEvent(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert cash balance event")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to set cash balance")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"cash_event_id": row.CashEventID,
	})
}
