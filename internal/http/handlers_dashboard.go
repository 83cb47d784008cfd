package http

import (
	"encoding/json"
	"net/http"
	"time"

	"expenses/internal/core"
	applog "expenses/internal/log"
)

type dashboardViewModel struct {
	Expenses       []core.Expense
	MonthlyTotal   core.Money
	CategoryTotals []core.CategoryTotal
	AlertCount     int64
	Year           int
	Month          string
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	logger := applog.FromContext(r.Context())
	now := time.Now()

	expenses, err := s.store.ListExpenses(r.Context(), user.ID)
	if err != nil {
		logger.ErrorContext(r.Context(), "List expenses failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	overview, err := s.getOverview(r.Context(), user.ID, now.Year(), int(now.Month()))
	if err != nil {
		logger.ErrorContext(r.Context(), "Month overview failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	alertCount, err := s.store.CountUnreadAlerts(r.Context(), user.ID)
	if err != nil {
		logger.WarnContext(r.Context(), "Unread alert count failed", "error", err, "user_id", user.ID)
	}

	s.render(w, r, "dashboard.html", dashboardViewModel{
		Expenses:       expenses,
		MonthlyTotal:   overview.Total,
		CategoryTotals: overview.ByCategory,
		AlertCount:     alertCount,
		Year:           now.Year(),
		Month:          now.Month().String(),
	})
}

// handleChartData returns the last six months of spending totals as chart
// JSON for the dashboard.
func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	logger := applog.FromContext(r.Context())
	today := core.Date{Time: time.Now()}

	totals, err := s.store.MonthlyTotals(r.Context(), user.ID, core.MonthsBack(today, 6))
	if err != nil {
		logger.ErrorContext(r.Context(), "Monthly totals failed", "error", err, "user_id", user.ID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
		return
	}

	chart := core.ChartData{Datasets: []core.ChartDataset{{Label: "Monthly Expenses"}}}
	for _, p := range totals {
		chart.Labels = append(chart.Labels, p.Month)
		chart.Datasets[0].Data = append(chart.Datasets[0].Data, p.Total.Dollars())
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(chart); err != nil {
		logger.ErrorContext(r.Context(), "Chart data encoding failed", "error", err)
	}
}
