package activity

import (
	"reflect"
	"testing"

	"github.com/akashpatki/rupeelog/internal/domain"
)

func TestPaginate_SecondPageOfTwo(t *testing.T) {
	// Two records already sorted newest first; page 2 with size 1 is the
	// older one.
	records := []domain.ActivityRecord{
		record("newer", domain.ActivityIncome, day(2025, 7, 20), day(2025, 7, 20), amt(1)),
		record("older", domain.ActivityIncome, day(2025, 7, 10), day(2025, 7, 10), amt(1)),
	}

	pg := Paginate(records, 2, 1)
	if !reflect.DeepEqual(ids(pg.Items), []string{"older"}) {
		t.Errorf("items = %v, want [older]", ids(pg.Items))
	}
	if pg.TotalCount != 2 || pg.Page != 2 || pg.PageSize != 1 {
		t.Errorf("page meta = %+v, want total=2 page=2 size=1", pg)
	}
}

func TestPaginate_PastTheEnd(t *testing.T) {
	records := []domain.ActivityRecord{
		record("a", domain.ActivityIncome, day(2025, 7, 1), day(2025, 7, 1), amt(1)),
		record("b", domain.ActivityIncome, day(2025, 7, 2), day(2025, 7, 2), amt(1)),
		record("c", domain.ActivityIncome, day(2025, 7, 3), day(2025, 7, 3), amt(1)),
	}

	pg := Paginate(records, 5, 10)
	if len(pg.Items) != 0 {
		t.Errorf("items = %v, want empty", ids(pg.Items))
	}
	if pg.TotalCount != 3 {
		t.Errorf("TotalCount = %d, want 3", pg.TotalCount)
	}
	if pg.Items == nil {
		t.Error("items must be an empty slice, not nil")
	}
}

func TestPaginate_Completeness(t *testing.T) {
	var records []domain.ActivityRecord
	for d := 25; d >= 1; d-- {
		records = append(records, record(
			string(rune('a'+d-1)), domain.ActivityExpense, day(2025, 7, d), day(2025, 7, d), amt(1)))
	}

	const pageSize = 4
	var collected []string
	for page := 1; ; page++ {
		pg := Paginate(records, page, pageSize)
		if len(pg.Items) == 0 {
			break
		}
		collected = append(collected, ids(pg.Items)...)
	}

	if !reflect.DeepEqual(collected, ids(records)) {
		t.Errorf("concatenated pages differ from full set:\n got %v\nwant %v", collected, ids(records))
	}
}

func TestPaginate_Clamping(t *testing.T) {
	records := []domain.ActivityRecord{
		record("a", domain.ActivityIncome, day(2025, 7, 1), day(2025, 7, 1), amt(1)),
	}

	tests := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"zero page", 0, 10, 1, 10},
		{"negative page", -3, 10, 1, 10},
		{"zero size", 1, 0, 1, DefaultPageSize},
		{"oversized", 1, 5000, 1, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pg := Paginate(records, tt.page, tt.size)
			if pg.Page != tt.wantPage || pg.PageSize != tt.wantPageSize {
				t.Errorf("got page=%d size=%d, want page=%d size=%d",
					pg.Page, pg.PageSize, tt.wantPage, tt.wantPageSize)
			}
		})
	}
}
