package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expenses/internal/core"
)

type expenseFormViewModel struct {
	Categories []core.Category
	Today      string
	Error      string
}

func (s *Server) handleAddExpenseForm(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)
	categories, err := s.store.ListCategories(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	s.render(w, r, "add_expense.html", expenseFormViewModel{
		Categories: categories,
		Today:      time.Now().Format(dateLayout),
	})
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := r.ParseForm(); err != nil {
		s.renderExpenseFormError(w, r, "Invalid form submission")
		return
	}

	categoryID, err := strconv.ParseInt(strings.TrimSpace(r.FormValue("category_id")), 10, 64)
	if err != nil || categoryID <= 0 {
		s.renderExpenseFormError(w, r, "Please choose a category")
		return
	}

	cents, err := core.ParseDecimalToCents(r.FormValue("amount"))
	if err != nil {
		s.renderExpenseFormError(w, r, "Please enter a valid positive amount")
		return
	}

	date, err := parseDate(r.FormValue("expense_date"))
	if err != nil {
		s.renderExpenseFormError(w, r, "Please enter the date as YYYY-MM-DD")
		return
	}

	expense := core.Expense{
		UserID:      user.ID,
		CategoryID:  categoryID,
		Date:        date,
		Amount:      core.Money{Cents: cents},
		Description: sanitizeInput(r.FormValue("description")),
	}

	_, result, err := s.recorder.RecordExpense(r.Context(), expense)
	if err != nil {
		if errors.Is(err, core.ErrInvalidCategory) || errors.Is(err, core.ErrNotFound) {
			s.renderExpenseFormError(w, r, "Please choose one of your own categories")
			return
		}
		slog.ErrorContext(r.Context(), "Record expense failed", "error", err, "user_id", user.ID)
		s.renderExpenseFormError(w, r, "An error occurred. Please try again.")
		return
	}

	s.invalidateOverview(user.ID, date.Year(), date.Month())

	if result.Exceeded {
		s.setFlash(w, fmt.Sprintf("Expense added, but it exceeds your budget limit of $%s!", result.Limit.String()))
	} else {
		s.setFlash(w, "Expense added successfully!")
	}
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

func (s *Server) renderExpenseFormError(w http.ResponseWriter, r *http.Request, msg string) {
	user := userFrom(r)
	categories, err := s.store.ListCategories(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "user_id", user.ID)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	s.render(w, r, "add_expense.html", expenseFormViewModel{
		Categories: categories,
		Today:      time.Now().Format(dateLayout),
		Error:      msg,
	})
}
