package bigquery

import (
	"context"
	"fmt"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
)

// InsertIncomeWithClient inserts a single income row.
func InsertIncomeWithClient(ctx context.Context, client *bigquery.Client, row *bq.IncomeRow) error {
	table := client.DatasetInProject(projectID(), datasetID).Table(incomeTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertIncome: inserting row: %w", err)
	}
	return nil
}

// InsertExpenseWithClient inserts a single expense row.
func InsertExpenseWithClient(ctx context.Context, client *bigquery.Client, row *bq.ExpenseRow) error {
	table := client.DatasetInProject(projectID(), datasetID).Table(expensesTable)
	if err := table.Inserter().Put(ctx, row); err != nil {
		return fmt.Errorf("InsertExpense: inserting row: %w", err)
	}
	return nil
}

// ListIncomeWithClient retrieves income rows for a user, optionally
// bounded by business date. The bounds are an optimization; the
// aggregator re-applies all filters over the normalized records.
func ListIncomeWithClient(ctx context.Context, client *bigquery.Client, userID string, filter bq.SourceFilter) ([]*bq.IncomeRow, error) {
	query := fmt.Sprintf(`
		SELECT
			income_id,
			user_id,
			amount,
			source,
			income_date,
			bank_account_id,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
	`, datasetID, incomeTable)
	params := []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	if !filter.StartDate.IsZero() {
		query += " AND income_date >= @start_date"
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: filter.StartDate.Format(dateFormat)})
	}
	if !filter.EndDate.IsZero() {
		query += " AND income_date <= @end_date"
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: filter.EndDate.Format(dateFormat)})
	}
	query += " ORDER BY income_date, created_ts, income_id"

	q := client.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListIncome: query read: %w", err)
	}

	var rows []*bq.IncomeRow
	for {
		var r bq.IncomeRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListIncome: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}

// ListExpensesWithClient retrieves expense rows for a user, optionally
// bounded by business date.
func ListExpensesWithClient(ctx context.Context, client *bigquery.Client, userID string, filter bq.SourceFilter) ([]*bq.ExpenseRow, error) {
	query := fmt.Sprintf(`
		SELECT
			expense_id,
			user_id,
			amount,
			description,
			category,
			expense_date,
			payment_method,
			created_ts
		FROM %s.%s
		WHERE user_id = @user_id
	`, datasetID, expensesTable)
	params := []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	if !filter.StartDate.IsZero() {
		query += " AND expense_date >= @start_date"
		params = append(params, bigquery.QueryParameter{Name: "start_date", Value: filter.StartDate.Format(dateFormat)})
	}
	if !filter.EndDate.IsZero() {
		query += " AND expense_date <= @end_date"
		params = append(params, bigquery.QueryParameter{Name: "end_date", Value: filter.EndDate.Format(dateFormat)})
	}
	query += " ORDER BY expense_date, created_ts, expense_id"

	q := client.Query(query)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListExpenses: query read: %w", err)
	}

	var rows []*bq.ExpenseRow
	for {
		var r bq.ExpenseRow
		err := it.Next(&r)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListExpenses: iter next: %w", err)
		}
		rows = append(rows, &r)
	}
	return rows, nil
}
