// Package httpapi exposes the punch clock operations over HTTP.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bnema/punchclock/internal/application"
	"github.com/bnema/punchclock/internal/domain"
	"github.com/bnema/punchclock/internal/ports"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 16

// Punchclock is the part of application.Service the HTTP binding calls.
type Punchclock interface {
	SetRate(ctx context.Context, cmd application.SetRateCommand) (application.RateResult, error)
	StartSession(ctx context.Context, cmd application.StartSessionCommand) (application.StartResult, error)
	EndSession(ctx context.Context, cmd application.EndSessionCommand) (application.EndResult, error)
	SessionStatus(ctx context.Context, member domain.MemberID) (application.SessionStatus, error)
	ResolveRate(ctx context.Context, roles []domain.RoleName) (domain.RateResolution, error)
	Board(ctx context.Context) (application.Board, error)
}

var _ Punchclock = (*application.Service)(nil)

type Handler struct {
	svc      Punchclock
	secrets  ports.SecretStore
	tokenKey string
	logger   *zap.Logger
}

func NewHandler(svc Punchclock, secrets ports.SecretStore, tokenKey string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Handler{
		svc:      svc,
		secrets:  secrets,
		tokenKey: tokenKey,
		logger:   logger,
	}
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// StatusFor maps a service error to the response status.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrStorage):
		return http.StatusInternalServerError
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrAlreadyActive), errors.Is(err, domain.ErrNotActive):
		return http.StatusConflict
	case errors.Is(err, domain.ErrDataIntegrity):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		Error(w, status, "internal error")
		return
	}

	Error(w, status, err.Error())
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

// decodeOptionalBody accepts an empty body as the zero value, whether or not
// the request announced its length.
func decodeOptionalBody(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := decodeBody(w, r, dst); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *Handler) listRates(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, NewRatesView(board.Rates))
}

func (h *Handler) setRate(w http.ResponseWriter, r *http.Request) {
	var req setRateRequest
	if err := decodeBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.SetRate(r.Context(), application.SetRateCommand{
		Role: domain.RoleName(req.Role),
		Rate: req.Rate,
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	status := http.StatusOK
	if result.Change == domain.RateCreated {
		status = http.StatusCreated
	}
	JSON(w, status, NewRateChangeView(result))
}

func (h *Handler) resolveRate(w http.ResponseWriter, r *http.Request) {
	var req rolesRequest
	if err := decodeOptionalBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resolution, err := h.svc.ResolveRate(r.Context(), req.roleNames())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, NewResolutionView(resolution))
}

func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	board, err := h.svc.Board(r.Context())
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, NewBoardView(board))
}

func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.SessionStatus(r.Context(), memberParam(r))
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, NewSessionView(status))
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request) {
	var req rolesRequest
	if err := decodeOptionalBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.StartSession(r.Context(), application.StartSessionCommand{
		Member: memberParam(r),
		Roles:  req.roleNames(),
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusCreated, NewStartView(result))
}

func (h *Handler) endSession(w http.ResponseWriter, r *http.Request) {
	var req rolesRequest
	if err := decodeOptionalBody(w, r, &req); err != nil {
		Error(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.svc.EndSession(r.Context(), application.EndSessionCommand{
		Member: memberParam(r),
		Roles:  req.roleNames(),
	})
	if err != nil {
		h.serviceError(w, r, err)
		return
	}

	JSON(w, http.StatusOK, NewEndView(result))
}

func memberParam(r *http.Request) domain.MemberID {
	return domain.MemberID(chi.URLParam(r, "member"))
}
