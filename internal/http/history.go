package httpx

import (
	"context"
	"net/http"
	"strconv"

	"github.com/bandhitl/bank-loan-optimizer/internal/history"
)

// RunLister is the slice of the history store the handler needs.
type RunLister interface {
	RecentRuns(ctx context.Context, limit int) ([]history.Run, error)
}

type HistoryHandler struct {
	// Runs is nil when the service runs without a database.
	Runs RunLister
}

func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	if h.Runs == nil {
		WriteError(w, http.StatusNotFound, "history disabled")
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > 200 {
			WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	runs, err := h.Runs.RecentRuns(r.Context(), limit)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "failed to load history")
		return
	}

	out := make([]map[string]any, 0, len(runs))
	for _, run := range runs {
		out = append(out, map[string]any{
			"id":                run.ID.String(),
			"created_at":        run.CreatedAt,
			"principal":         run.Principal,
			"total_days":        run.TotalDays,
			"start_date":        run.StartDate,
			"month_end":         run.MonthEnd,
			"best_strategy":     run.BestStrategy,
			"total_interest":    run.TotalInterest,
			"average_rate":      run.AverageRate,
			"crosses_month_end": run.CrossesMonthEnd,
			"segment_count":     run.SegmentCount,
		})
	}

	WriteJSON(w, http.StatusOK, map[string]any{"runs": out})
}
