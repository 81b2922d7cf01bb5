package activity

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/akashpatki/rupeelog/internal/domain"
)

// exportHeader is the fixed column order of the tabular export.
var exportHeader = []string{"date", "type", "description", "amount", "account"}

const exportDateFormat = "2006-01-02"

// ExportCSV serializes a record set to CSV: one row per record in the
// order given, no pagination. The caller passes the already filtered,
// already ordered view; the export reflects exactly that set. Absent
// amounts export as an empty cell.
func ExportCSV(records []domain.ActivityRecord) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("ExportCSV: writing header: %w", err)
	}

	for i := range records {
		rec := &records[i]

		amount := ""
		if rec.Amount != nil {
			amount = rec.Amount.StringFixed(2)
		}

		row := []string{
			rec.ActivityDate.Format(exportDateFormat),
			string(rec.Type),
			rec.Description,
			amount,
			rec.AccountInfo,
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("ExportCSV: writing record %s: %w", rec.ID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("ExportCSV: flush: %w", err)
	}
	return buf.Bytes(), nil
}
