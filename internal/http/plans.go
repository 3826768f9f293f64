package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/bandhitl/bank-loan-optimizer/internal/loan"
	"github.com/bandhitl/bank-loan-optimizer/internal/report"
	"github.com/bandhitl/bank-loan-optimizer/internal/service"
)

type PlansHandler struct {
	Svc *service.PlanService
}

type planRequest struct {
	Principal decimal.Decimal `json:"principal"`
	TotalDays int             `json:"total_days"`
	StartDate civil.Date      `json:"start_date"`
	MonthEnd  *civil.Date     `json:"month_end"`

	// Overrides; omitted fields fall back to service defaults.
	BankRates    map[string]decimal.Decimal `json:"bank_rates"`
	IncludeBanks *includeBanksReq           `json:"include_banks"`
}

type includeBanksReq struct {
	CIMB    bool `json:"cimb"`
	Permata bool `json:"permata"`
}

func (p planRequest) toService() service.PlanRequest {
	req := service.PlanRequest{
		Principal: p.Principal,
		TotalDays: p.TotalDays,
		StartDate: p.StartDate,
		MonthEnd:  p.MonthEnd,
	}
	if p.BankRates != nil {
		rates := make(loan.BankRates, len(p.BankRates))
		for k, v := range p.BankRates {
			rates[loan.RateID(k)] = v
		}
		req.Rates = rates
	}
	if p.IncludeBanks != nil {
		req.Include = &loan.OptionalBanks{
			CIMB:    p.IncludeBanks.CIMB,
			Permata: p.IncludeBanks.Permata,
		}
	}
	return req
}

// Create prices every strategy for the requested period and returns the
// cheapest one.
func (h *PlansHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.Svc.Plan(r.Context(), req.toService())
	if err != nil {
		if errors.Is(err, loan.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	if res.Best == nil {
		WriteError(w, http.StatusUnprocessableEntity, "no viable strategy for this period")
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"best":       strategyPayload(*res.Best),
		"strategies": strategiesPayload(res.Strategies),
	})
}

// Breakdown returns the plan as the plain-text report used in chat and
// email summaries.
func (h *PlansHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := h.Svc.Plan(r.Context(), req.toService())
	if err != nil {
		if errors.Is(err, loan.ErrInvalidInput) {
			WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
		WriteError(w, http.StatusInternalServerError, "calculation failed")
		return
	}
	if res.Best == nil {
		WriteError(w, http.StatusUnprocessableEntity, "no viable strategy for this period")
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, report.Breakdown(*res.Best))
	_, _ = io.WriteString(w, "\n")
	_, _ = io.WriteString(w, report.Comparison(res.Strategies, res.Best))
}

func strategiesPayload(strategies []loan.Strategy) []map[string]any {
	out := make([]map[string]any, 0, len(strategies))
	for _, s := range strategies {
		out = append(out, strategyPayload(s))
	}
	return out
}

func strategyPayload(s loan.Strategy) map[string]any {
	if !s.Valid {
		return map[string]any{
			"name":   s.Name,
			"valid":  false,
			"reason": s.Reason,
		}
	}

	segs := make([]map[string]any, 0, len(s.Segments))
	for _, seg := range s.Segments {
		segs = append(segs, map[string]any{
			"lender":            seg.Lender,
			"rate":              seg.Rate,
			"start_date":        seg.StartDate,
			"end_date":          seg.EndDate,
			"days":              seg.Days,
			"interest":          seg.Interest,
			"crosses_month_end": seg.CrossesMonthEnd,
		})
	}

	return map[string]any{
		"name":              s.Name,
		"valid":             true,
		"segments":          segs,
		"total_interest":    s.TotalInterest,
		"average_rate":      s.AverageRate,
		"crosses_month_end": s.CrossesMonthEnd,
		"multi_bank":        s.MultiBank,
	}
}
