package httppresentation

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"os"

	appcontest "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/contest"
	appnewsletter "github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/application/newsletter"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/infrastructure/session"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability"
	"github.com/icemaltacode/sc-bed-ninjacoders-m3u1/internal/observability/logctx"

	"github.com/go-chi/chi/v5"
)

const photoField = "photo"

type newsletterSignupRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Handler) handleNewsletterSignup(w http.ResponseWriter, r *http.Request) {
	var req newsletterSignupRequest
	if isJSON(r) {
		if err := decodeJSON(r, &req); err != nil {
			writeEnvelopeError(w, http.StatusBadRequest, err.Error())
			return
		}
	} else {
		req.Name = r.PostFormValue("name")
		req.Email = r.PostFormValue("email")
	}

	result, err := h.deps.Newsletter.Execute(r.Context(), appnewsletter.SignupInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}

	session.FromContext(r.Context()).SetFlash(session.Flash{
		Type:    result.Notice.Type,
		Intro:   result.Notice.Intro,
		Message: result.Notice.Message,
	})
	writeJSON(w, http.StatusOK, envelope{Result: resultSuccess})
}

// handleSetupPhotoContestUpload streams the "photo" part into a staging file and hands
// it to the contest use case. Parser failures are reported with the parser's message.
func (h *Handler) handleSetupPhotoContestUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.deps.MaxUploadBytes)

	tempPath, originalName, err := h.stageUpload(r)
	if err != nil {
		writeEnvelopeError(w, http.StatusBadRequest, err.Error())
		return
	}

	_, err = h.deps.Contest.Execute(r.Context(), appcontest.StorePhotoInput{
		Year:         chi.URLParam(r, "year"),
		Month:        chi.URLParam(r, "month"),
		TempPath:     tempPath,
		OriginalName: originalName,
	})
	if err != nil {
		if tempPath != "" {
			if rmErr := os.Remove(tempPath); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				logctx.FromOr(r.Context(), h.log).Warn("upload_cleanup_failed", observability.F("error", rmErr))
			}
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, envelope{Result: resultSuccess})
}

// stageUpload copies the first photo part to a temp file. A missing photo yields
// an empty path and lets the use case report it.
func (h *Handler) stageUpload(r *http.Request) (tempPath, originalName string, err error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return "", "", err
	}
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return tempPath, originalName, nil
		}
		if err != nil {
			removeQuietly(tempPath)
			return "", "", err
		}
		if part.FormName() != photoField || part.FileName() == "" || tempPath != "" {
			_, _ = io.Copy(io.Discard, part)
			_ = part.Close()
			continue
		}

		tmp, err := h.deps.Uploads.CreateTemp()
		if err != nil {
			_ = part.Close()
			return "", "", err
		}
		_, copyErr := io.Copy(tmp, part)
		closeErr := tmp.Close()
		_ = part.Close()
		if err := errors.Join(copyErr, closeErr); err != nil {
			removeQuietly(tmp.Name())
			return "", "", err
		}
		tempPath, originalName = tmp.Name(), part.FileName()
	}
}

func removeQuietly(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
