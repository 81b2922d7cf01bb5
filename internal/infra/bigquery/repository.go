package bigquery

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/bigquery"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
)

const (
	defaultProjectID = "rupeelog-470815"
	datasetID        = "rupeelog"

	bankAccountsTable = "bank_accounts"
	creditCardsTable  = "credit_cards"
	cashBalancesTable = "cash_balance_events"
	incomeTable       = "income"
	expensesTable     = "expenses"

	dateFormat = "2006-01-02"
)

// projectID resolves the GCP project, preferring the standard env var
// so local runs against a sandbox project need no code change.
func projectID() string {
	if p := os.Getenv("GOOGLE_CLOUD_PROJECT"); p != "" {
		return p
	}
	return defaultProjectID
}

// BigQueryActivityRepository is the concrete implementation of the
// activity source listers and writers backed by BigQuery. It holds a
// shared client to avoid creating a new connection per operation.
type BigQueryActivityRepository struct {
	client *bigquery.Client
}

// NewBigQueryActivityRepository creates a repository with a shared
// BigQuery client.
func NewBigQueryActivityRepository(ctx context.Context) (*BigQueryActivityRepository, error) {
	client, err := bigquery.NewClient(ctx, projectID())
	if err != nil {
		return nil, fmt.Errorf("NewBigQueryActivityRepository: creating client: %w", err)
	}
	return &BigQueryActivityRepository{client: client}, nil
}

// Close closes the BigQuery client connection.
func (r *BigQueryActivityRepository) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

// ListBankAccountEvents delegates to ListBankAccountEventsWithClient.
func (r *BigQueryActivityRepository) ListBankAccountEvents(ctx context.Context, userID string) ([]*bq.BankAccountRow, error) {
	return ListBankAccountEventsWithClient(ctx, r.client, userID)
}

// ListCreditCardEvents delegates to ListCreditCardEventsWithClient.
func (r *BigQueryActivityRepository) ListCreditCardEvents(ctx context.Context, userID string) ([]*bq.CreditCardRow, error) {
	return ListCreditCardEventsWithClient(ctx, r.client, userID)
}

// ListCashBalanceEvents delegates to ListCashBalanceEventsWithClient.
func (r *BigQueryActivityRepository) ListCashBalanceEvents(ctx context.Context, userID string) ([]*bq.CashBalanceRow, error) {
	return ListCashBalanceEventsWithClient(ctx, r.client, userID)
}

// ListIncome delegates to ListIncomeWithClient.
func (r *BigQueryActivityRepository) ListIncome(ctx context.Context, userID string, filter bq.SourceFilter) ([]*bq.IncomeRow, error) {
	return ListIncomeWithClient(ctx, r.client, userID, filter)
}

// ListExpenses delegates to ListExpensesWithClient.
func (r *BigQueryActivityRepository) ListExpenses(ctx context.Context, userID string, filter bq.SourceFilter) ([]*bq.ExpenseRow, error) {
	return ListExpensesWithClient(ctx, r.client, userID, filter)
}

// InsertBankAccount delegates to InsertBankAccountWithClient.
func (r *BigQueryActivityRepository) InsertBankAccount(ctx context.Context, row *bq.BankAccountRow) error {
	return InsertBankAccountWithClient(ctx, r.client, row)
}

// InsertCreditCard delegates to InsertCreditCardWithClient.
func (r *BigQueryActivityRepository) InsertCreditCard(ctx context.Context, row *bq.CreditCardRow) error {
	return InsertCreditCardWithClient(ctx, r.client, row)
}

// InsertCashBalanceEvent delegates to InsertCashBalanceEventWithClient.
func (r *BigQueryActivityRepository) InsertCashBalanceEvent(ctx context.Context, row *bq.CashBalanceRow) error {
	return InsertCashBalanceEventWithClient(ctx, r.client, row)
}

// InsertIncome delegates to InsertIncomeWithClient.
func (r *BigQueryActivityRepository) InsertIncome(ctx context.Context, row *bq.IncomeRow) error {
	return InsertIncomeWithClient(ctx, r.client, row)
}

// InsertExpense delegates to InsertExpenseWithClient.
func (r *BigQueryActivityRepository) InsertExpense(ctx context.Context, row *bq.ExpenseRow) error {
	return InsertExpenseWithClient(ctx, r.client, row)
}

// Interface checks.
var (
	_ bq.ActivityRepository = (*BigQueryActivityRepository)(nil)
	_ bq.AccountWriter      = (*BigQueryActivityRepository)(nil)
	_ bq.TransactionWriter  = (*BigQueryActivityRepository)(nil)
)
