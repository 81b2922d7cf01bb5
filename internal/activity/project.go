package activity

import (
	"github.com/akashpatki/rupeelog/internal/domain"
)

// DisplayRow is the read model one feed entry projects to.
type DisplayRow struct {
	Date        string `json:"date"`
	Action      string `json:"action"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	Details     string `json:"details"`
}

// DefaultCurrency prefixes formatted amounts.
const DefaultCurrency = "₹"

const displayDateFormat = "02 Jan 2006"

// amountPlaceholder renders in place of an absent amount. Never "0.00":
// a missing value is not a zero value.
const amountPlaceholder = "-"

type displayKey struct {
	t domain.ActivityType
	s domain.SetupSubtype
}

type displayMeta struct {
	action string
	label  string
}

// displayTable keys the action/type labels on the (type, subtype) pair.
// Unrecognized combinations fall through to the Other/System default;
// the projection never fails on unknown input.
var displayTable = map[displayKey]displayMeta{
	{domain.ActivityIncome, domain.SubtypeNone}:           {"Income Received", "Income"},
	{domain.ActivityExpense, domain.SubtypeNone}:          {"Expense Added", "Expense"},
	{domain.ActivitySetup, domain.SubtypeBankAdded}:       {"Bank Account Added", "Setup"},
	{domain.ActivitySetup, domain.SubtypeCreditCardAdded}: {"Credit Card Added", "Setup"},
	{domain.ActivitySetup, domain.SubtypeCashBalanceSet}:  {"Cash Balance Set", "Setup"},
}

var displayDefault = displayMeta{action: "Other", label: "System"}

// Project maps one canonical record to its display row.
func Project(rec domain.ActivityRecord) DisplayRow {
	meta, ok := displayTable[displayKey{rec.Type, rec.Subtype}]
	if !ok {
		meta = displayDefault
	}

	return DisplayRow{
		Date:        rec.ActivityDate.Format(displayDateFormat),
		Action:      meta.action,
		Type:        meta.label,
		Description: rec.Description,
		Amount:      FormatAmount(rec, DefaultCurrency),
		Details:     rec.AccountInfo,
	}
}

// ProjectAll maps a record set to display rows, preserving order.
func ProjectAll(records []domain.ActivityRecord) []DisplayRow {
	rows := make([]DisplayRow, len(records))
	for i := range records {
		rows[i] = Project(records[i])
	}
	return rows
}

// FormatAmount renders a record amount as fixed two-decimal currency.
// Income carries a leading +, expenses a leading -, setup events no
// sign. The stored amount is unsigned; direction comes from the type.
func FormatAmount(rec domain.ActivityRecord, currency string) string {
	if rec.Amount == nil {
		return amountPlaceholder
	}

	value := currency + rec.Amount.StringFixed(2)
	switch rec.Type {
	case domain.ActivityIncome:
		return "+" + value
	case domain.ActivityExpense:
		return "-" + value
	default:
		return value
	}
}
