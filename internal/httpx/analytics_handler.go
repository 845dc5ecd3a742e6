package httpx

import (
	"fmt"
	"net/http"
	"time"

	"github.com/ariefcatur/go-kasir-pos.git/internal/analytics"
	"github.com/ariefcatur/go-kasir-pos.git/internal/apperr"
	"github.com/ariefcatur/go-kasir-pos.git/internal/ledger"
	"github.com/ariefcatur/go-kasir-pos.git/internal/report"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const (
	defaultTopN = 10
	defaultDays = 7
	dateParam   = "2006-01-02"
)

type summaryResp struct {
	Window analytics.Window `json:"window"`
	Total  decimal.Decimal  `json:"total"`
}

type dashboardResp struct {
	analytics.Dashboard
	Recent []ledger.Transaction `json:"recent_transactions"`
}

func (a *API) salesSummary(w http.ResponseWriter, r *http.Request) {
	win := analytics.Window(r.URL.Query().Get("window"))
	if win == "" {
		win = analytics.WindowToday
	}
	total, err := a.Analytics.SalesSummary(r.Context(), win)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summaryResp{Window: win, Total: total})
}

func (a *API) topProducts(w http.ResponseWriter, r *http.Request) {
	n, err := intQuery(r, "n", defaultTopN)
	if err != nil {
		writeError(w, err)
		return
	}
	ps, err := a.Analytics.TopProducts(r.Context(), n)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

func (a *API) dailySeries(w http.ResponseWriter, r *http.Request) {
	days, err := intQuery(r, "days", defaultDays)
	if err != nil {
		writeError(w, err)
		return
	}
	bs, err := a.Analytics.DailySeries(r.Context(), days)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (a *API) hourlySeries(w http.ResponseWriter, r *http.Request) {
	bs, err := a.Analytics.HourlySeries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bs)
}

func (a *API) categoryPerformance(w http.ResponseWriter, r *http.Request) {
	cs, err := a.Analytics.CategoryPerformance(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cs)
}

func (a *API) dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.Analytics.Dashboard(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	recent, err := a.Ledger.Recent(r.Context(), ledger.RecentLimit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboardResp{Dashboard: d, Recent: recent})
}

func (a *API) chart(w http.ResponseWriter, r *http.Request) {
	ps, err := a.Analytics.Chart(r.Context(), chi.URLParam(r, "kind"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// export streams an xlsx for the inclusive date range ?from=YYYY-MM-DD&to=YYYY-MM-DD,
// defaulting to the current month.
func (a *API) export(w http.ResponseWriter, r *http.Request) {
	from, to, err := a.dateRange(r)
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", report.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", report.FileName(from, to)))
	if err := a.Reports.Export(r.Context(), w, from, to); err != nil {
		w.Header().Del("Content-Disposition")
		writeError(w, err)
	}
}

func (a *API) dateRange(r *http.Request) (from, to time.Time, err error) {
	now := time.Now().In(a.loc())
	from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, a.loc())
	to = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, a.loc()).AddDate(0, 0, 1)

	q := r.URL.Query()
	if s := q.Get("from"); s != "" {
		if from, err = time.ParseInLocation(dateParam, s, a.loc()); err != nil {
			return from, to, apperr.Validation("format tanggal harus YYYY-MM-DD")
		}
	}
	if s := q.Get("to"); s != "" {
		end, err := time.ParseInLocation(dateParam, s, a.loc())
		if err != nil {
			return from, to, apperr.Validation("format tanggal harus YYYY-MM-DD")
		}
		to = end.AddDate(0, 0, 1)
	}
	return from, to, nil
}
