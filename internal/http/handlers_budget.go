package http

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"expenses/internal/core"
)

type budgetsViewModel struct {
	Categories []core.Category
	Limits     []core.Limit
	Error      string
}

func (s *Server) handleBudgets(w http.ResponseWriter, r *http.Request) {
	s.renderBudgets(w, r, "")
}

func (s *Server) handleCreateBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := r.ParseForm(); err != nil {
		s.renderBudgets(w, r, "Invalid form submission")
		return
	}

	// "overall" means the limit applies across every category.
	var categoryID int64
	if v := strings.TrimSpace(r.FormValue("category_id")); v != "" && v != "overall" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			s.renderBudgets(w, r, "Please choose a category")
			return
		}
		categoryID = id
	}

	cents, err := core.ParseDecimalToCents(r.FormValue("limit_amount"))
	if err != nil {
		s.renderBudgets(w, r, "Please enter a valid positive limit amount")
		return
	}

	period := core.Period(strings.TrimSpace(r.FormValue("period")))
	if period == "" {
		period = core.Monthly
	}

	limit := core.Limit{
		UserID:     user.ID,
		CategoryID: categoryID,
		Amount:     core.Money{Cents: cents},
		Period:     period,
	}
	if err := limit.Validate(); err != nil {
		s.renderBudgets(w, r, "Only monthly limits are supported")
		return
	}

	if _, err := s.store.CreateLimit(r.Context(), limit); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.renderBudgets(w, r, "Please choose one of your own categories")
			return
		}
		slog.ErrorContext(r.Context(), "Create limit failed", "error", err, "user_id", user.ID)
		s.renderBudgets(w, r, "An error occurred. Please try again.")
		return
	}

	s.setFlash(w, "Budget limit added successfully!")
	http.Redirect(w, r, "/budgets", http.StatusFound)
}

func (s *Server) handleDeleteBudget(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := r.ParseForm(); err != nil {
		s.renderBudgets(w, r, "Invalid form submission")
		return
	}

	limitID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("limit_id")), 10, 64)
	if err != nil || limitID <= 0 {
		s.renderBudgets(w, r, "Unknown budget limit")
		return
	}

	if err := s.store.DeleteLimit(r.Context(), user.ID, limitID); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			s.renderBudgets(w, r, "Unknown budget limit")
			return
		}
		slog.ErrorContext(r.Context(), "Delete limit failed", "error", err, "user_id", user.ID, "limit_id", limitID)
		s.renderBudgets(w, r, "An error occurred. Please try again.")
		return
	}

	s.setFlash(w, "Budget limit deleted")
	http.Redirect(w, r, "/budgets", http.StatusFound)
}

func (s *Server) renderBudgets(w http.ResponseWriter, r *http.Request, errMsg string) {
	user := userFrom(r)

	categories, err := s.store.ListCategories(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	limits, err := s.store.ListLimits(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List limits failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "budgets.html", budgetsViewModel{
		Categories: categories,
		Limits:     limits,
		Error:      errMsg,
	})
}
