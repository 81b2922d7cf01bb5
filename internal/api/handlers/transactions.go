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

// TransactionsHandler handles income and expense writes.
type TransactionsHandler struct {
	writer bq.TransactionWriter
	log    zerolog.Logger
}

// NewTransactionsHandler creates a new transactions handler.
func NewTransactionsHandler(writer bq.TransactionWriter, log zerolog.Logger) *TransactionsHandler {
	return &TransactionsHandler{writer: writer, log: log}
}

// AddIncome handles POST /api/transactions/income
func (h *TransactionsHandler) AddIncome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		Source        string          `json:"source"`
		Date          string          `json:"date"`
		BankAccountID string          `json:"bank_account_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Source == "" {
		middleware.WriteError(w, http.StatusBadRequest, "source is required")
		return
	}
	date, err := civil.ParseDate(req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}

	row := &bq.IncomeRow{
		IncomeID:   uuid.New().String(),
		UserID:     ownerID,
		Amount:     req.Amount.Rat(),
		Source:     req.Source,
		IncomeDate: date,
		CreatedTS:  time.Now().UTC(),
	}
	if req.BankAccountID != "" {
		row.BankAccountID = bigquery.NullString{StringVal: req.BankAccountID, Valid: true}
	}

	if err := h.writer.InsertIncome(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert income")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add income")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"income_id": row.IncomeID,
	})
}

// AddExpense handles POST /api/transactions/expense
func (h *TransactionsHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	var req struct {
		Amount        decimal.Decimal `json:"amount"`
		Description   string          `json:"description"`
		Category      string          `json:"category"`
		Date          string          `json:"date"`
		PaymentMethod string          `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if !req.Amount.IsPositive() {
		middleware.WriteError(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Description == "" {
		middleware.WriteError(w, http.StatusBadRequest, "description is required")
		return
	}
	date, err := civil.ParseDate(req.Date)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "invalid date, want YYYY-MM-DD")
		return
	}
	switch req.PaymentMethod {
	case "", "cash", "bank", "credit_card":
	default:
		middleware.WriteError(w, http.StatusBadRequest, "payment_method must be cash, bank or credit_card")
		return
	}

	row := &bq.ExpenseRow{
		ExpenseID:   uuid.New().String(),
		UserID:      ownerID,
		Amount:      req.Amount.Rat(),
		Description: req.Description,
		ExpenseDate: date,
		CreatedTS:   time.Now().UTC(),
	}
	if req.Category != "" {
		row.Category = bigquery.NullString{StringVal: req.Category, Valid: true}
	}
	if req.PaymentMethod != "" {
		row.PaymentMethod = bigquery.NullString{StringVal: req.PaymentMethod, Valid: true}
	}

	if err := h.writer.InsertExpense(ctx, row); err != nil {
		h.log.Error().Err(err).Msg("Failed to insert expense")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to add expense")
		return
	}

	middleware.WriteJSON(w, http.StatusCreated, map[string]string{
		"expense_id": row.ExpenseID,
	})
}
