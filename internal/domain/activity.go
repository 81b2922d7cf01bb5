package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActivityType classifies a record in the unified activity feed.
type ActivityType string

const (
	ActivityIncome  ActivityType = "income"
	ActivityExpense ActivityType = "expense"
	ActivitySetup   ActivityType = "setup"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityIncome, ActivityExpense, ActivitySetup:
		return true
	}
	return false
}

// SetupSubtype distinguishes the non-transactional setup events.
// Empty for income and expense records.
type SetupSubtype string

const (
	SubtypeNone            SetupSubtype = ""
	SubtypeBankAdded       SetupSubtype = "bank_added"
	SubtypeCreditCardAdded SetupSubtype = "credit_card_added"
	SubtypeCashBalanceSet  SetupSubtype = "cash_balance_set"
)

// SourceType identifies which of the five raw sources a record came from.
// Source ids are only unique within their own table, so record identity
// is the (source, id) pair.
type SourceType string

const (
	SourceBankAccount SourceType = "bank_account"
	SourceCreditCard  SourceType = "credit_card"
	SourceCashBalance SourceType = "cash_balance"
	SourceIncome      SourceType = "income"
	SourceExpense     SourceType = "expense"
)

// RecordID is the identity of an activity record: source table plus the
// row id within that table.
type RecordID struct {
	Source SourceType `json:"source"`
	ID     string     `json:"id"`
}

func (r RecordID) String() string {
	return string(r.Source) + ":" + r.ID
}

// ActivityRecord is the canonical unified representation of any financial
// or setup event shown in the activity feed. Records are immutable once
// constructed; the aggregator produces new ordered views and never edits
// them in place.
type ActivityRecord struct {
	ID      RecordID     `json:"id"`
	Type    ActivityType `json:"activity_type"`
	Subtype SetupSubtype `json:"subtype,omitempty"`

	// Amount is nil for setup events that carry no value (e.g. a card
	// registration). A nil amount contributes zero to statistics but
	// still counts as a transaction.
	Amount *decimal.Decimal `json:"amount,omitempty"`

	Description string `json:"description"`
	AccountInfo string `json:"account_info"`

	// ActivityDate is the business date used for ordering and filtering.
	// The adapter falls back to CreatedAt when the source has no
	// dedicated date, so it is always set for well-formed records.
	ActivityDate time.Time `json:"activity_date"`
	CreatedAt    time.Time `json:"created_at"`

	OwnerID string `json:"owner_id"`

	// InvalidDate marks a record whose date failed to resolve even after
	// the CreatedAt fallback. Such records sort older than all valid
	// dates and are excluded from the feed by the service.
	InvalidDate bool `json:"-"`
}

// AmountOrZero returns the record amount, treating nil as zero.
func (r *ActivityRecord) AmountOrZero() decimal.Decimal {
	if r.Amount == nil {
		return decimal.Zero
	}
	return *r.Amount
}

// Statistics are the derived totals over one filtered view of the feed.
// They are recomputed for every view and never persisted.
type Statistics struct {
	TotalIncome       decimal.Decimal `json:"total_income"`
	TotalExpenses     decimal.Decimal `json:"total_expenses"`
	NetBalance        decimal.Decimal `json:"net_balance"`
	TotalTransactions int             `json:"total_transactions"`
}

// TypeTotal is one row of the monthly summary: the aggregate for a
// single activity type. Setup events report a count but a zero total,
// since they never contribute to money sums.
type TypeTotal struct {
	Type  ActivityType    `json:"type"`
	Total decimal.Decimal `json:"total"`
	Count int             `json:"count"`
}
