package http

import (
	"mime"
	"net/http"
	"strconv"

	"donations/internal/export"
	applog "donations/internal/log"
)

// handleExport streams the displayed rows as a download.
func (s *Server) handleExport(format export.Format) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requireGet(w, r) {
			return
		}
		ctx := r.Context()

		view, err := ParseViewParams(r.URL.Query(), s.settings.DefaultWindow)
		if err != nil {
			BadRequestError("Window must be 3, 6 or 12 months").Write(w)
			return
		}

		doc, err := s.svc.Export(ctx, view, format)
		if err != nil {
			applog.NewStructuredLogger(applog.FromContext(ctx)).LogError(ctx, "Export failed", err, applog.OpExport,
				applog.NewFields().WithView(int(view.Window), view.Filter))
			InternalServerError("Export failed").Write(w)
			return
		}

		w.Header().Set("Content-Type", doc.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename}))
		w.Header().Set("Content-Length", strconv.Itoa(len(doc.Content)))
		w.WriteHeader(http.StatusOK)
		if r.Method != http.MethodHead {
			_, _ = w.Write(doc.Content)
		}
	})
}
