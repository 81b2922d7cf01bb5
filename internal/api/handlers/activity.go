package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/akashpatki/rupeelog/internal/activity"
	"github.com/akashpatki/rupeelog/internal/api/middleware"
	"github.com/akashpatki/rupeelog/internal/domain"
)

// ActivityHandler serves the unified activity feed.
type ActivityHandler struct {
	svc *activity.Service
	log zerolog.Logger
}

// NewActivityHandler creates a new activity handler.
func NewActivityHandler(svc *activity.Service, log zerolog.Logger) *ActivityHandler {
	return &ActivityHandler{svc: svc, log: log}
}

// Feed handles GET /api/activity
//
// Query parameters: type, from_date, to_date, month, year, page, limit
// and export. With export=true the full filtered feed is returned as a
// CSV attachment and pagination parameters are ignored.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	filter, err := parseFilter(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.URL.Query()

	if query.Get("export") == "true" {
		data, err := h.svc.Export(ctx, ownerID, filter)
		if err != nil {
			h.writeServiceError(w, err, "Failed to export activity")
			return
		}

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", "activity-"+time.Now().Format("2006-01-02")+".csv"))
		w.WriteHeader(http.StatusOK)
		w.Write(data)
		return
	}

	page := intParam(query.Get("page"), 1)
	limit := intParam(query.Get("limit"), activity.DefaultPageSize)

	result, err := h.svc.Feed(ctx, ownerID, filter, page, limit)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load activity")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, result)
}

// MonthlySummary handles GET /api/monthly-summary
func (h *ActivityHandler) MonthlySummary(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok := middleware.OwnerFromContext(ctx)
	if !ok {
		middleware.WriteError(w, http.StatusUnauthorized, "Missing user identity")
		return
	}

	query := r.URL.Query()
	month, err := strconv.Atoi(query.Get("month"))
	if err != nil || month < 1 {
		middleware.WriteError(w, http.StatusBadRequest, "month is required and must be a positive number")
		return
	}
	year, err := strconv.Atoi(query.Get("year"))
	if err != nil || year < 1 {
		middleware.WriteError(w, http.StatusBadRequest, "year is required and must be a positive number")
		return
	}

	totals, err := h.svc.MonthlySummary(ctx, ownerID, month, year)
	if err != nil {
		h.writeServiceError(w, err, "Failed to load monthly summary")
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"month":   month,
		"year":    year,
		"summary": totals,
	})
}

func (h *ActivityHandler) writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrInvalidFilter):
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUpstream):
		h.log.Error().Err(err).Msg("Upstream storage failure")
		middleware.WriteError(w, http.StatusBadGateway, "Activity storage is unavailable")
	default:
		h.log.Error().Err(err).Msg(fallback)
		middleware.WriteError(w, http.StatusInternalServerError, fallback)
	}
}

// parseFilter builds the activity filter from query parameters. Values
// that fail to parse are rejected here; semantic validation (month
// range, month/year pairing) happens in the service.
func parseFilter(r *http.Request) (activity.Filter, error) {
	query := r.URL.Query()
	var filter activity.Filter

	filter.Type = domain.ActivityType(query.Get("type"))

	if v := query.Get("from_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid from_date %q, want YYYY-MM-DD", v)
		}
		filter.From = &t
	}
	if v := query.Get("to_date"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid to_date %q, want YYYY-MM-DD", v)
		}
		filter.To = &t
	}
	if v := query.Get("month"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid month %q", v)
		}
		filter.Month = n
	}
	if v := query.Get("year"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return activity.Filter{}, fmt.Errorf("invalid year %q", v)
		}
		filter.Year = n
	}

	return filter, nil
}

func intParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	return fallback
}
