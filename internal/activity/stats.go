package activity

import (
	"github.com/shopspring/decimal"

	"github.com/akashpatki/rupeelog/internal/domain"
)

// ComputeStatistics derives the totals for exactly the record set it is
// given; it knows nothing about filters, so callers must pass the view
// whose statistics they want. Setup records count toward the
// transaction total but never toward the money sums, even when they
// carry an amount. Absent amounts contribute zero to sums and one to
// the count.
func ComputeStatistics(records []domain.ActivityRecord) domain.Statistics {
	stats := domain.Statistics{
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		NetBalance:    decimal.Zero,
	}

	for i := range records {
		rec := &records[i]
		stats.TotalTransactions++

		switch rec.Type {
		case domain.ActivityIncome:
			stats.TotalIncome = stats.TotalIncome.Add(rec.AmountOrZero())
		case domain.ActivityExpense:
			stats.TotalExpenses = stats.TotalExpenses.Add(rec.AmountOrZero())
		}
	}

	stats.NetBalance = stats.TotalIncome.Sub(stats.TotalExpenses)
	return stats
}

// SummarizeByType rolls a record set up into one row per activity type
// present, in the fixed order income, expense, setup. Setup rows report
// a zero total regardless of stored amounts.
func SummarizeByType(records []domain.ActivityRecord) []domain.TypeTotal {
	totals := map[domain.ActivityType]*domain.TypeTotal{}

	for i := range records {
		rec := &records[i]
		row, ok := totals[rec.Type]
		if !ok {
			row = &domain.TypeTotal{Type: rec.Type, Total: decimal.Zero}
			totals[rec.Type] = row
		}
		row.Count++
		if rec.Type == domain.ActivityIncome || rec.Type == domain.ActivityExpense {
			row.Total = row.Total.Add(rec.AmountOrZero())
		}
	}

	out := make([]domain.TypeTotal, 0, len(totals))
	for _, t := range []domain.ActivityType{domain.ActivityIncome, domain.ActivityExpense, domain.ActivitySetup} {
		if row, ok := totals[t]; ok {
			out = append(out, *row)
		}
	}
	return out
}
