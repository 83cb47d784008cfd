package http

import (
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"

	"expenses/internal/core"
)

type monthlyReportViewModel struct {
	Summary       []core.CategorySummary
	Month         int
	Year          int
	MonthName     string
	ExportEnabled bool
}

// handleMonthlyReport renders the per-category report for the selected
// month, defaulting to the current one.
func (s *Server) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	now := time.Now()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	month := formInt(r, "month", int(now.Month()))
	year := formInt(r, "year", now.Year())
	if month < 1 || month > 12 {
		month = int(now.Month())
	}

	summary, err := s.store.MonthlySummary(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly summary failed", "error", err,
			"user_id", user.ID, "year", year, "month", month)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "monthly_report.html", monthlyReportViewModel{
		Summary:       summary,
		Month:         month,
		Year:          year,
		MonthName:     monthName(month),
		ExportEnabled: s.exporter != nil,
	})
}

// handleExportReport pushes the selected month's summary to the configured
// spreadsheet.
func (s *Server) handleExportReport(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	now := time.Now()

	if s.exporter == nil {
		s.setFlash(w, "Report export is not configured")
		http.Redirect(w, r, "/reports/monthly", http.StatusFound)
		return
	}

	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form submission", http.StatusBadRequest)
		return
	}
	month := formInt(r, "month", int(now.Month()))
	year := formInt(r, "year", now.Year())
	if month < 1 || month > 12 {
		month = int(now.Month())
	}

	summary, err := s.store.MonthlySummary(r.Context(), user.ID, year, month)
	if err != nil {
		slog.ErrorContext(r.Context(), "Monthly summary failed", "error", err,
			"user_id", user.ID, "year", year, "month", month)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.exporter.ExportMonthlySummary(r.Context(), user.Email, year, month, summary); err != nil {
		slog.ErrorContext(r.Context(), "Report export failed", "error", err,
			"user_id", user.ID, "year", year, "month", month)
		s.setFlash(w, "Report export failed. Please try again.")
	} else {
		s.setFlash(w, fmt.Sprintf("Report for %s %d exported!", monthName(month), year))
	}
	http.Redirect(w, r, "/reports/monthly", http.StatusFound)
}

type trendsViewModel struct {
	Months        int
	ChartDataJSON template.JS
}

// handleTrends renders the multi-month per-category spending chart. The
// months query parameter controls the range, defaulting to six.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	today := core.Date{Time: time.Now()}

	months := formInt(r, "months", 6)
	if months < 1 || months > 36 {
		months = 6
	}

	start := core.MonthsBack(today, months)
	end := core.PeriodWindow(core.Monthly, today).Last

	points, err := s.store.Trends(r.Context(), user.ID, start, end)
	if err != nil {
		slog.ErrorContext(r.Context(), "Trends query failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	chart := core.BuildTrendChart(monthLabels(start, today), points)

	payload, err := json.Marshal(chart)
	if err != nil {
		slog.ErrorContext(r.Context(), "Chart encoding failed", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "expense_trends.html", trendsViewModel{
		Months:        months,
		ChartDataJSON: template.JS(payload),
	})
}

// monthLabels lists every YYYY-MM between the two dates inclusive, so the
// chart keeps empty months visible.
func monthLabels(start, end core.Date) []string {
	var labels []string
	cur := time.Date(start.Year(), start.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(end.Year(), end.Time.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(last) {
		labels = append(labels, cur.Format("2006-01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return labels
}
