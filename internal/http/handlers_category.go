package http

import (
	"log/slog"
	"net/http"

	"expenses/internal/core"
)

type categoriesViewModel struct {
	Categories []core.Category
	Error      string
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.renderCategories(w, r, "")
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	if err := r.ParseForm(); err != nil {
		s.renderCategories(w, r, "Invalid form submission")
		return
	}

	category := core.Category{
		UserID:      user.ID,
		Name:        sanitizeInput(r.FormValue("category_name")),
		Description: sanitizeInput(r.FormValue("description")),
	}
	if err := category.Validate(); err != nil {
		s.renderCategories(w, r, "Please enter a category name (max 100 characters)")
		return
	}

	if _, err := s.store.CreateCategory(r.Context(), category); err != nil {
		slog.ErrorContext(r.Context(), "Create category failed", "error", err, "user_id", user.ID)
		s.renderCategories(w, r, "An error occurred. Please try again.")
		return
	}

	s.setFlash(w, "Category added successfully!")
	http.Redirect(w, r, "/categories", http.StatusFound)
}

func (s *Server) renderCategories(w http.ResponseWriter, r *http.Request, errMsg string) {
	user := userFrom(r)

	categories, err := s.store.ListCategories(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List categories failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "categories.html", categoriesViewModel{
		Categories: categories,
		Error:      errMsg,
	})
}
