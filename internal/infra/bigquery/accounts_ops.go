package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
)

// InsertBankAccountWithClient inserts a bank account registration row.
func InsertBankAccountWithClient(ctx context.Context, client *bigquery.Client, row *bq.BankAccountRow) error {
	table := client.DatasetInProject(projectID(), datasetID).Table(bankAccountsTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertBankAccount: inserting row: %w", err)
	}
	return nil
}

// InsertCreditCardWithClient inserts a credit card registration row.
func InsertCreditCardWithClient(ctx context.Context, client *bigquery.Client, row *bq.CreditCardRow) error {
	table := client.DatasetInProject(projectID(), datasetID).Table(creditCardsTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertCreditCard: inserting row: %w", err)
	}
	return nil
}

// InsertCashBalanceEventWithClient inserts a cash balance setting row.
// Each setting is a new row; history is never rewritten.
func InsertCashBalanceEventWithClient(ctx context.Context, client *bigquery.Client, row *bq.CashBalanceRow) error {
	table := client.DatasetInProject(projectID(), datasetID).Table(cashBalancesTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertCashBalanceEvent: inserting row: %w", err)
	}
	return nil
}

// ListBankAccountEventsWithClient retrieves every bank account
// registration for a user, oldest first.
func ListBankAccountEventsWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*bq.BankAccountRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			bank_account_id,
			user_id,
			bank_name,
			account_number,
			opening_balance,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY created_ts, bank_account_id
	`, datasetID, bankAccountsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListBankAccountEvents: query read: %w", err)
	}

	var rows []*bq.BankAccountRow
	for {
		var r bq.BankAccountRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListBankAccountEvents: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// ListCreditCardEventsWithClient retrieves every credit card
// registration for a user, oldest first.
func ListCreditCardEventsWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*bq.CreditCardRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			credit_card_id,
			user_id,
			card_name,
			credit_limit,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY created_ts, credit_card_id
	`, datasetID, creditCardsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCreditCardEvents: query read: %w", err)
	}

	var rows []*bq.CreditCardRow
	for {
		var r bq.CreditCardRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCreditCardEvents: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// ListCashBalanceEventsWithClient retrieves every cash balance setting
// for a user, oldest first.
func ListCashBalanceEventsWithClient(ctx context.Context, client *bigquery.Client, userID string) ([]*bq.CashBalanceRow, error) {
	q := client.Query(fmt.Sprintf(`
		SELECT
			cash_event_id,
			user_id,
			balance,
			effective_date,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
		ORDER BY created_ts, cash_event_id
	`, datasetID, cashBalancesTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCashBalanceEvents: query read: %w", err)
	}

	var rows []*bq.CashBalanceRow
	for {
		var r bq.CashBalanceRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCashBalanceEvents: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}
