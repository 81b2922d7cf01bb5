package bigquery

import (
	"context"
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
)

// SourceFilter narrows the income/expense listers to a date range.
// The aggregator re-applies all filters in memory, so pushing the range
// into SQL is an optimization, not the source of truth.
type SourceFilter struct {
	// StartDate and EndDate bound the business date, inclusive. Zero
	// values mean unbounded.
	StartDate time.Time
	EndDate   time.Time
}

// ActivityRepository provides the read side of the activity feed: the
// five raw sources for one owner. Every lister is scoped by user id;
// cross-user rows must never be returned.
type ActivityRepository interface {
	// ListBankAccountEvents retrieves bank account registrations for a user.
	ListBankAccountEvents(ctx context.Context, userID string) ([]*BankAccountRow, error)

	// ListCreditCardEvents retrieves credit card registrations for a user.
	ListCreditCardEvents(ctx context.Context, userID string) ([]*CreditCardRow, error)

	// ListCashBalanceEvents retrieves cash balance settings for a user.
	ListCashBalanceEvents(ctx context.Context, userID string) ([]*CashBalanceRow, error)

	// ListIncome retrieves income rows for a user, optionally bounded by date.
	ListIncome(ctx context.Context, userID string, filter SourceFilter) ([]*IncomeRow, error)

	// ListExpenses retrieves expense rows for a user, optionally bounded by date.
	ListExpenses(ctx context.Context, userID string, filter SourceFilter) ([]*ExpenseRow, error)
}

// AccountWriter provides the write side for account setup events.
type AccountWriter interface {
	// InsertBankAccount inserts a bank account registration row.
	InsertBankAccount(ctx context.Context, row *BankAccountRow) error

	// InsertCreditCard inserts a credit card registration row.
	InsertCreditCard(ctx context.Context, row *CreditCardRow) error

	// InsertCashBalanceEvent inserts a cash balance setting row.
	InsertCashBalanceEvent(ctx context.Context, row *CashBalanceRow) error
}

// TransactionWriter provides the write side for income and expense rows.
type TransactionWriter interface {
	// InsertIncome inserts a single income row.
	InsertIncome(ctx context.Context, row *IncomeRow) error

	// InsertExpense inserts a single expense row.
	InsertExpense(ctx context.Context, row *ExpenseRow) error
}

// BankAccountRow represents a bank account registration in BigQuery.
// Creating one is a setup event in the activity feed.
type BankAccountRow struct {
	BankAccountID string `bigquery:"bank_account_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	BankName      string `bigquery:"bank_name"`      // REQUIRED
	AccountNumber string `bigquery:"account_number"` // NULLABLE

	OpeningBalance *big.Rat `bigquery:"opening_balance"` // NULLABLE NUMERIC

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED (default CURRENT_TIMESTAMP)
}

// CreditCardRow represents a credit card registration in BigQuery.
type CreditCardRow struct {
	CreditCardID string `bigquery:"credit_card_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	CardName    string   `bigquery:"card_name"`    // REQUIRED
	CreditLimit *big.Rat `bigquery:"credit_limit"` // NULLABLE NUMERIC

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// CashBalanceRow represents one cash balance setting in BigQuery. Each
// adjustment is a new row; the latest row is the current balance.
type CashBalanceRow struct {
	CashEventID string `bigquery:"cash_event_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	Balance *big.Rat `bigquery:"balance"` // REQUIRED NUMERIC

	EffectiveDate bigquery.NullDate `bigquery:"effective_date"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// IncomeRow represents an income entry in BigQuery.
type IncomeRow struct {
	IncomeID string `bigquery:"income_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC, non-negative

	Source     string     `bigquery:"source"`      // REQUIRED ("Salary", "Freelance", ...)
	IncomeDate civil.Date `bigquery:"income_date"` // REQUIRED

	BankAccountID bigquery.NullString `bigquery:"bank_account_id"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// ExpenseRow represents an expense entry in BigQuery.
type ExpenseRow struct {
	ExpenseID string `bigquery:"expense_id"` // REQUIRED

	UserID string `bigquery:"user_id"` // REQUIRED

	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC, non-negative

	Description string              `bigquery:"description"`  // REQUIRED
	Category    bigquery.NullString `bigquery:"category"`     // NULLABLE
	ExpenseDate civil.Date          `bigquery:"expense_date"` // REQUIRED

	PaymentMethod bigquery.NullString `bigquery:"payment_method"` // NULLABLE ("cash", "bank", "credit_card")

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}
