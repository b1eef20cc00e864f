package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/view"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"
)

const (
	resultSuccess = "success"
	resultError   = "error"
)

// envelope is the response shape of every /api route.
type envelope struct {
	Result string `json:"result"`
	Error  string `json:"error,omitempty"`
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeEnvelopeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Result: resultError, Error: msg})
}

// statusFor maps the application error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, application.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, application.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, application.ErrDependency):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the user-facing message of err.
func errorMessage(err error) string {
	var appErr *application.Error
	if errors.As(err, &appErr) {
		return appErr.Error()
	}
	return err.Error()
}

func writeDomainError(w http.ResponseWriter, err error) {
	writeEnvelopeError(w, statusFor(err), errorMessage(err))
}

// writePageError renders the error page for page routes.
func (h *Handler) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logctx.FromOr(r.Context(), h.log).Error("page_failed",
		observability.F("status", status),
		observability.F("error", err),
	)
	if status == http.StatusNotFound {
		h.renderPage(w, r, status, view.PageNotFound, "Not Found", nil)
		return
	}
	h.renderServerError(w, r, status)
}
