package activity

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
	"github.com/akashpatki/rupeelog/internal/domain"
)

func rat(v float64) *big.Rat {
	r := new(big.Rat)
	r.SetFloat64(v)
	return r
}

func TestNormalizeBankAccount(t *testing.T) {
	created := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	rec, err := NormalizeBankAccount(&bq.BankAccountRow{
		BankAccountID:  "ba-1",
		UserID:         "u-1",
		BankName:       "HDFC",
		OpeningBalance: rat(10000),
		CreatedTS:      created,
	})
	if err != nil {
		t.Fatalf("NormalizeBankAccount failed: %v", err)
	}

	if rec.Type != domain.ActivitySetup || rec.Subtype != domain.SubtypeBankAdded {
		t.Errorf("got type=%s subtype=%s, want setup/bank_added", rec.Type, rec.Subtype)
	}
	if rec.AccountInfo != "HDFC" {
		t.Errorf("AccountInfo = %q, want HDFC", rec.AccountInfo)
	}
	if rec.Amount == nil || rec.Amount.StringFixed(2) != "10000.00" {
		t.Errorf("Amount = %v, want 10000.00", rec.Amount)
	}
	if !rec.ActivityDate.Equal(created) {
		t.Errorf("ActivityDate = %v, want creation time %v", rec.ActivityDate, created)
	}
	if rec.ID.Source != domain.SourceBankAccount || rec.ID.ID != "ba-1" {
		t.Errorf("ID = %v, want bank_account:ba-1", rec.ID)
	}
}

func TestNormalizeCreditCard_NoAmount(t *testing.T) {
	rec, err := NormalizeCreditCard(&bq.CreditCardRow{
		CreditCardID: "cc-1",
		UserID:       "u-1",
		CardName:     "Amazon Pay ICICI",
		CreditLimit:  rat(50000),
		CreatedTS:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("NormalizeCreditCard failed: %v", err)
	}
	if rec.Amount != nil {
		t.Errorf("card registration should carry no amount, got %v", rec.Amount)
	}
	if rec.Subtype != domain.SubtypeCreditCardAdded {
		t.Errorf("Subtype = %s, want credit_card_added", rec.Subtype)
	}
}

func TestNormalizeCreditCard_MissingNameRepaired(t *testing.T) {
	rec, err := NormalizeCreditCard(&bq.CreditCardRow{
		CreditCardID: "cc-2",
		UserID:       "u-1",
		CreatedTS:    time.Now(),
	})
	if err != nil {
		t.Fatalf("NormalizeCreditCard failed: %v", err)
	}
	if rec.AccountInfo != "Account Configuration" {
		t.Errorf("AccountInfo = %q, want Account Configuration fallback", rec.AccountInfo)
	}
}

func TestNormalizeCashBalance_EffectiveDatePreferred(t *testing.T) {
	created := time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)
	rec, err := NormalizeCashBalance(&bq.CashBalanceRow{
		CashEventID:   "cash-1",
		UserID:        "u-1",
		Balance:       rat(2500),
		EffectiveDate: bigquery.NullDate{Date: civil.Date{Year: 2025, Month: 3, Day: 1}, Valid: true},
		CreatedTS:     created,
	})
	if err != nil {
		t.Fatalf("NormalizeCashBalance failed: %v", err)
	}
	want := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !rec.ActivityDate.Equal(want) {
		t.Errorf("ActivityDate = %v, want effective date %v", rec.ActivityDate, want)
	}
	if rec.AccountInfo != "Cash" {
		t.Errorf("AccountInfo = %q, want Cash", rec.AccountInfo)
	}
}

func TestNormalizeIncome_DateFallback(t *testing.T) {
	created := time.Date(2025, 7, 15, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		row      *bq.IncomeRow
		wantDate time.Time
		invalid  bool
	}{
		{
			name: "business date used when present",
			row: &bq.IncomeRow{
				IncomeID: "in-1", UserID: "u-1", Amount: rat(3000),
				Source: "Salary", IncomeDate: civil.Date{Year: 2025, Month: 7, Day: 15},
				CreatedTS: created,
			},
			wantDate: time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "falls back to creation time",
			row: &bq.IncomeRow{
				IncomeID: "in-2", UserID: "u-1", Amount: rat(3000),
				Source: "Salary", CreatedTS: created,
			},
			wantDate: created,
		},
		{
			name: "no date at all is flagged",
			row: &bq.IncomeRow{
				IncomeID: "in-3", UserID: "u-1", Amount: rat(3000), Source: "Salary",
			},
			invalid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := NormalizeIncome(tt.row)
			if err != nil {
				t.Fatalf("NormalizeIncome failed: %v", err)
			}
			if rec.InvalidDate != tt.invalid {
				t.Fatalf("InvalidDate = %v, want %v", rec.InvalidDate, tt.invalid)
			}
			if !tt.invalid && !rec.ActivityDate.Equal(tt.wantDate) {
				t.Errorf("ActivityDate = %v, want %v", rec.ActivityDate, tt.wantDate)
			}
		})
	}
}

func TestNormalizeIncome_MissingAmountKeptAsAbsent(t *testing.T) {
	rec, err := NormalizeIncome(&bq.IncomeRow{
		IncomeID: "in-4", UserID: "u-1", Source: "Refund",
		IncomeDate: civil.Date{Year: 2025, Month: 7, Day: 1},
		CreatedTS:  time.Now(),
	})
	if err != nil {
		t.Fatalf("NormalizeIncome failed: %v", err)
	}
	if rec.Amount != nil {
		t.Errorf("missing amount should stay absent, got %v", rec.Amount)
	}
}

func TestNormalizeExpense_PaymentMethodLabels(t *testing.T) {
	tests := []struct {
		method string
		want   string
	}{
		{"bank", "Bank"},
		{"credit_card", "Credit Card"},
		{"cash", "Cash"},
		{"", "Cash"},
		{"upi", "Cash"},
	}

	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			rec, err := NormalizeExpense(&bq.ExpenseRow{
				ExpenseID: "ex-1", UserID: "u-1", Amount: rat(100),
				Description: "Groceries",
				ExpenseDate: civil.Date{Year: 2025, Month: 7, Day: 15},
				PaymentMethod: bigquery.NullString{
					StringVal: tt.method, Valid: tt.method != "",
				},
				CreatedTS: time.Now(),
			})
			if err != nil {
				t.Fatalf("NormalizeExpense failed: %v", err)
			}
			if rec.AccountInfo != tt.want {
				t.Errorf("AccountInfo = %q, want %q", rec.AccountInfo, tt.want)
			}
		})
	}
}

func TestNormalize_ExcludesUnidentifiableRows(t *testing.T) {
	src := Sources{
		BankAccounts: []*bq.BankAccountRow{
			{BankAccountID: "ba-1", UserID: "u-1", BankName: "SBI", CreatedTS: time.Now()},
			{BankAccountID: "", UserID: "u-1", BankName: "broken", CreatedTS: time.Now()},
		},
		Income: []*bq.IncomeRow{
			{IncomeID: "in-1", UserID: "", Amount: rat(10), CreatedTS: time.Now()},
		},
	}

	records := Normalize(src, zerolog.Nop())
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1 (malformed rows excluded)", len(records))
	}
	if records[0].ID.ID != "ba-1" {
		t.Errorf("surviving record = %v, want ba-1", records[0].ID)
	}
}

func TestRequireIdentity_ErrorType(t *testing.T) {
	err := requireIdentity(domain.SourceIncome, "in-9", "")
	var malformed *domain.MalformedRecordError
	if !errors.As(err, &malformed) {
		t.Fatalf("error %v is not a MalformedRecordError", err)
	}
	if malformed.Source != domain.SourceIncome {
		t.Errorf("Source = %s, want income", malformed.Source)
	}
}
