package http

import (
	"net/http"

	applog "donations/internal/log"
	"donations/internal/theme"
)

// handleTheme toggles the theme, or sets it when the form carries theme=.
// htmx callers get 204 with a theme:changed event and a toast; plain form posts are
// redirected back to the page.
func (s *Server) handleTheme(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		MethodNotAllowedError(http.MethodPost).Write(w)
		return
	}
	ctx := r.Context()
	logger := applog.FromContext(ctx)

	requested, explicit, err := parseThemeForm(r)
	if err != nil {
		BadRequestError("Theme must be light or dark").Write(w)
		return
	}

	var next theme.Theme
	if explicit {
		err = s.prefs.Set(ctx, requested)
		next = requested
	} else {
		next, err = s.prefs.Toggle(ctx)
	}
	if err != nil {
		applog.NewStructuredLogger(logger).LogError(ctx, "Failed to save theme", err, applog.OpToggle, nil)
		InternalServerError("Could not save theme").
			TriggerErrorNotification("Could not save theme").
			Write(w)
		return
	}

	logger.InfoContext(ctx, "Theme changed",
		applog.FieldOperation, applog.OpToggle,
		applog.FieldTheme, next.String())

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	NewHTMXResponse().
		Status(http.StatusNoContent).
		TriggerThemeChanged(next.String()).
		TriggerSuccessNotification("Switched to "+next.String()+" theme").
		Write(w)
}
