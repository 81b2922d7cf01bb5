package activity

import (
	"math/big"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
	"github.com/akashpatki/rupeelog/internal/domain"
)

// Sources bundles the raw rows of the five activity sources for one
// owner, in the fixed order they are merged: bank accounts, credit
// cards, cash balance events, income, expenses. That order is the
// deterministic tiebreak when date and creation time both collide.
type Sources struct {
	BankAccounts []*bq.BankAccountRow
	CreditCards  []*bq.CreditCardRow
	CashBalances []*bq.CashBalanceRow
	Income       []*bq.IncomeRow
	Expenses     []*bq.ExpenseRow
}

// Normalize converts raw source rows into canonical activity records.
// Malformed rows are excluded with a logged diagnostic and never abort
// normalization; repairable defects (a missing amount, a missing label)
// are repaired instead of dropped.
func Normalize(src Sources, log zerolog.Logger) []domain.ActivityRecord {
	out := make([]domain.ActivityRecord, 0,
		len(src.BankAccounts)+len(src.CreditCards)+len(src.CashBalances)+len(src.Income)+len(src.Expenses))

	for _, row := range src.BankAccounts {
		rec, err := NormalizeBankAccount(row)
		if err != nil {
			log.Warn().Err(err).Msg("Excluding malformed bank account row")
			continue
		}
		out = append(out, rec)
	}
	for _, row := range src.CreditCards {
		rec, err := NormalizeCreditCard(row)
		if err != nil {
			log.Warn().Err(err).Msg("Excluding malformed credit card row")
			continue
		}
		out = append(out, rec)
	}
	for _, row := range src.CashBalances {
		rec, err := NormalizeCashBalance(row)
		if err != nil {
			log.Warn().Err(err).Msg("Excluding malformed cash balance row")
			continue
		}
		out = append(out, rec)
	}
	for _, row := range src.Income {
		rec, err := NormalizeIncome(row)
		if err != nil {
			log.Warn().Err(err).Msg("Excluding malformed income row")
			continue
		}
		out = append(out, rec)
	}
	for _, row := range src.Expenses {
		rec, err := NormalizeExpense(row)
		if err != nil {
			log.Warn().Err(err).Msg("Excluding malformed expense row")
			continue
		}
		out = append(out, rec)
	}

	return out
}

// NormalizeBankAccount maps a bank account registration to a setup record.
// The business date of a registration is its creation time.
func NormalizeBankAccount(row *bq.BankAccountRow) (domain.ActivityRecord, error) {
	if err := requireIdentity(domain.SourceBankAccount, row.BankAccountID, row.UserID); err != nil {
		return domain.ActivityRecord{}, err
	}

	account := row.BankName
	if account == "" {
		account = accountConfigLabel
	}

	rec := domain.ActivityRecord{
		ID:          domain.RecordID{Source: domain.SourceBankAccount, ID: row.BankAccountID},
		Type:        domain.ActivitySetup,
		Subtype:     domain.SubtypeBankAdded,
		Amount:      ratAmount(row.OpeningBalance),
		Description: "Bank account added",
		AccountInfo: account,
		OwnerID:     row.UserID,
		CreatedAt:   row.CreatedTS,
	}
	resolveDate(&rec, time.Time{}, row.CreatedTS)
	return rec, nil
}

// NormalizeCreditCard maps a credit card registration to a setup record.
// Card registrations carry no amount; the credit limit is not a balance.
func NormalizeCreditCard(row *bq.CreditCardRow) (domain.ActivityRecord, error) {
	if err := requireIdentity(domain.SourceCreditCard, row.CreditCardID, row.UserID); err != nil {
		return domain.ActivityRecord{}, err
	}

	account := row.CardName
	if account == "" {
		account = accountConfigLabel
	}

	rec := domain.ActivityRecord{
		ID:          domain.RecordID{Source: domain.SourceCreditCard, ID: row.CreditCardID},
		Type:        domain.ActivitySetup,
		Subtype:     domain.SubtypeCreditCardAdded,
		Description: "Credit card added",
		AccountInfo: account,
		OwnerID:     row.UserID,
		CreatedAt:   row.CreatedTS,
	}
	resolveDate(&rec, time.Time{}, row.CreatedTS)
	return rec, nil
}

// NormalizeCashBalance maps a cash balance setting to a setup record,
// dated by its effective date when one was given.
func NormalizeCashBalance(row *bq.CashBalanceRow) (domain.ActivityRecord, error) {
	if err := requireIdentity(domain.SourceCashBalance, row.CashEventID, row.UserID); err != nil {
		return domain.ActivityRecord{}, err
	}

	var business time.Time
	if row.EffectiveDate.Valid {
		business = civilToTime(row.EffectiveDate.Date)
	}

	rec := domain.ActivityRecord{
		ID:          domain.RecordID{Source: domain.SourceCashBalance, ID: row.CashEventID},
		Type:        domain.ActivitySetup,
		Subtype:     domain.SubtypeCashBalanceSet,
		Amount:      ratAmount(row.Balance),
		Description: "Cash balance set",
		AccountInfo: "Cash",
		OwnerID:     row.UserID,
		CreatedAt:   row.CreatedTS,
	}
	resolveDate(&rec, business, row.CreatedTS)
	return rec, nil
}

// NormalizeIncome maps an income row to an income record. A missing
// amount is repaired to an absent amount rather than a counted zero.
func NormalizeIncome(row *bq.IncomeRow) (domain.ActivityRecord, error) {
	if err := requireIdentity(domain.SourceIncome, row.IncomeID, row.UserID); err != nil {
		return domain.ActivityRecord{}, err
	}

	desc := row.Source
	if desc == "" {
		desc = "Income"
	}
	account := "Cash"
	if row.BankAccountID.Valid {
		account = "Bank"
	}

	rec := domain.ActivityRecord{
		ID:          domain.RecordID{Source: domain.SourceIncome, ID: row.IncomeID},
		Type:        domain.ActivityIncome,
		Amount:      ratAmount(row.Amount),
		Description: desc,
		AccountInfo: account,
		OwnerID:     row.UserID,
		CreatedAt:   row.CreatedTS,
	}
	resolveDate(&rec, civilToTime(row.IncomeDate), row.CreatedTS)
	return rec, nil
}

// NormalizeExpense maps an expense row to an expense record.
func NormalizeExpense(row *bq.ExpenseRow) (domain.ActivityRecord, error) {
	if err := requireIdentity(domain.SourceExpense, row.ExpenseID, row.UserID); err != nil {
		return domain.ActivityRecord{}, err
	}

	desc := row.Description
	if desc == "" {
		desc = "Expense"
	}

	rec := domain.ActivityRecord{
		ID:          domain.RecordID{Source: domain.SourceExpense, ID: row.ExpenseID},
		Type:        domain.ActivityExpense,
		Amount:      ratAmount(row.Amount),
		Description: desc,
		AccountInfo: paymentMethodLabel(row.PaymentMethod.StringVal),
		OwnerID:     row.UserID,
		CreatedAt:   row.CreatedTS,
	}
	resolveDate(&rec, civilToTime(row.ExpenseDate), row.CreatedTS)
	return rec, nil
}

const accountConfigLabel = "Account Configuration"

// requireIdentity rejects rows that cannot be identified or scoped.
// These are the only unrepairable defects.
func requireIdentity(source domain.SourceType, id, userID string) error {
	if id == "" {
		return &domain.MalformedRecordError{Source: source, SourceID: id, Reason: "missing row id"}
	}
	if userID == "" {
		return &domain.MalformedRecordError{Source: source, SourceID: id, Reason: "missing user id"}
	}
	return nil
}

// resolveDate sets the record's activity date from the business date,
// falling back to the creation timestamp. A record with neither keeps a
// zero date and is flagged so the caller can exclude it.
func resolveDate(rec *domain.ActivityRecord, business, created time.Time) {
	switch {
	case !business.IsZero():
		rec.ActivityDate = business
	case !created.IsZero():
		rec.ActivityDate = created
	default:
		rec.InvalidDate = true
	}
}

// civilToTime converts a civil date to a UTC midnight timestamp.
// Invalid dates (including the zero value) map to the zero time so the
// CreatedAt fallback kicks in.
func civilToTime(d civil.Date) time.Time {
	if !d.IsValid() {
		return time.Time{}
	}
	return d.In(time.UTC)
}

// ratAmount converts a nullable BigQuery NUMERIC into a nullable
// two-decimal amount.
func ratAmount(r *big.Rat) *decimal.Decimal {
	if r == nil {
		return nil
	}
	d := decimal.NewFromBigRat(r, 2)
	return &d
}

func paymentMethodLabel(method string) string {
	switch method {
	case "bank":
		return "Bank"
	case "credit_card":
		return "Credit Card"
	case "cash", "":
		return "Cash"
	default:
		return "Cash"
	}
}
