package activity

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	bq "github.com/akashpatki/rupeelog/internal/bigquery"
	"github.com/akashpatki/rupeelog/internal/domain"
)

// Service orchestrates one activity request: fetch the five raw sources
// for an owner, normalize, enforce scoping, aggregate, and derive the
// requested view. It holds no per-request state; records are rebuilt
// from storage on every call and discarded with the response.
type Service struct {
	repo bq.ActivityRepository
	log  zerolog.Logger
}

// NewService creates an activity service over the given repository.
func NewService(repo bq.ActivityRepository, log zerolog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// FeedResult is the payload of one feed request. Statistics always
// cover the whole filtered view, not just the returned page; the server
// is the only authority for them.
type FeedResult struct {
	Activities []DisplayRow      `json:"activities"`
	Statistics domain.Statistics `json:"statistics"`
	Page       int               `json:"page"`
	PageSize   int               `json:"page_size"`
	TotalCount int               `json:"total_count"`
}

// Feed returns one page of the owner's filtered activity feed together
// with the statistics of the full filtered view.
func (s *Service) Feed(ctx context.Context, ownerID string, f Filter, page, pageSize int) (*FeedResult, error) {
	filtered, err := s.loadFiltered(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}

	pg := Paginate(filtered, page, pageSize)

	return &FeedResult{
		Activities: ProjectAll(pg.Items),
		Statistics: ComputeStatistics(filtered),
		Page:       pg.Page,
		PageSize:   pg.PageSize,
		TotalCount: pg.TotalCount,
	}, nil
}

// Export serializes the owner's full filtered feed to CSV. No
// pagination: every matching record is in the result.
func (s *Service) Export(ctx context.Context, ownerID string, f Filter) ([]byte, error) {
	filtered, err := s.loadFiltered(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	return ExportCSV(filtered)
}

// MonthlySummary returns per-type totals for one calendar month. It is
// the month/year filter followed by the per-type rollup, nothing more.
func (s *Service) MonthlySummary(ctx context.Context, ownerID string, month, year int) ([]domain.TypeTotal, error) {
	filtered, err := s.loadFiltered(ctx, ownerID, Filter{Month: month, Year: year})
	if err != nil {
		return nil, err
	}
	return SummarizeByType(filtered), nil
}

// loadFiltered runs the full read path: fetch, normalize, scope check,
// aggregate. Either the complete merged view comes back or an error
// does; a partially merged view is never returned.
func (s *Service) loadFiltered(ctx context.Context, ownerID string, f Filter) ([]domain.ActivityRecord, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	records, err := s.load(ctx, ownerID, f)
	if err != nil {
		return nil, err
	}
	return Aggregate(records, f)
}

func (s *Service) load(ctx context.Context, ownerID string, f Filter) ([]domain.ActivityRecord, error) {
	start, end, err := f.DateRange()
	if err != nil {
		return nil, err
	}
	// The range is pushed into the income/expense queries as an
	// optimization; the aggregator re-applies every filter in memory.
	srcFilter := bq.SourceFilter{StartDate: start, EndDate: end}

	var src Sources

	if src.BankAccounts, err = s.repo.ListBankAccountEvents(ctx, ownerID); err != nil {
		return nil, upstream("list bank account events", err)
	}
	if src.CreditCards, err = s.repo.ListCreditCardEvents(ctx, ownerID); err != nil {
		return nil, upstream("list credit card events", err)
	}
	if src.CashBalances, err = s.repo.ListCashBalanceEvents(ctx, ownerID); err != nil {
		return nil, upstream("list cash balance events", err)
	}
	if src.Income, err = s.repo.ListIncome(ctx, ownerID, srcFilter); err != nil {
		return nil, upstream("list income", err)
	}
	if src.Expenses, err = s.repo.ListExpenses(ctx, ownerID, srcFilter); err != nil {
		return nil, upstream("list expenses", err)
	}

	records := Normalize(src, s.log)

	out := records[:0:len(records)]
	for _, rec := range records {
		// Listers are scoped by owner already; a mismatch here means a
		// storage bug and must abort rather than leak into the view.
		if rec.OwnerID != ownerID {
			return nil, fmt.Errorf("%w: record %s belongs to another user", domain.ErrScopeViolation, rec.ID)
		}
		if rec.InvalidDate {
			s.log.Warn().Str("record_id", rec.ID.String()).Msg("Excluding record with unresolvable date")
			continue
		}
		out = append(out, rec)
	}

	return out, nil
}

// upstream wraps a storage failure so handlers can classify it without
// losing the underlying detail.
func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrUpstream, op, err)
}
