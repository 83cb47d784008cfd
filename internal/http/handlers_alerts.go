package http

import (
	"log/slog"
	"net/http"

	"expenses/internal/core"
)

type alertsViewModel struct {
	Alerts []core.Alert
}

// handleAlerts lists the user's limit alerts, newest first, then marks them
// all read. The rendered page still shows which ones were unread when the
// page was requested.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r)

	alerts, err := s.store.ListAlerts(r.Context(), user.ID)
	if err != nil {
		slog.ErrorContext(r.Context(), "List alerts failed", "error", err, "user_id", user.ID)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if err := s.store.MarkAllAlertsRead(r.Context(), user.ID); err != nil {
		slog.WarnContext(r.Context(), "Mark alerts read failed", "error", err, "user_id", user.ID)
	}

	s.render(w, r, "alerts.html", alertsViewModel{Alerts: alerts})
}
