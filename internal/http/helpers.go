package http

import (
	"html/template"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"expenses/internal/core"
)

const dateLayout = "2006-01-02"

var templateFuncs = template.FuncMap{
	"dollars": formatDollars,
}

// formatDollars renders cents as "$1,234.56" (no thousands grouping needed
// for typical amounts, kept plain).
func formatDollars(m core.Money) string {
	return "$" + m.String()
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// parseDate parses a YYYY-MM-DD form value.
func parseDate(s string) (core.Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return core.Date{}, core.ErrInvalidDate
	}
	return core.Date{Time: t}, nil
}

// formInt parses a form value, falling back to def on absence or garbage.
func formInt(r *http.Request, name string, def int) int {
	v := strings.TrimSpace(r.FormValue(name))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// render executes a template with the common page chrome (flash notice,
// current user) merged in.
type pageData struct {
	User  *core.User
	Flash string
	Data  any
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if s.templates == nil {
		slog.ErrorContext(r.Context(), "Templates not loaded", "template", name)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}
	page := pageData{
		User:  userFrom(r),
		Flash: s.popFlash(w, r),
		Data:  data,
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, page); err != nil {
		slog.ErrorContext(r.Context(), "Template execution failed", "error", err, "template", name)
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// monthName spells out a 1-based month for report headings.
func monthName(m int) string {
	if m < 1 || m > 12 {
		return ""
	}
	return time.Month(m).String()
}
