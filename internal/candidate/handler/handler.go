// Package handler is the HTTP request/response surface for candidate
// operations. It delegates to the candidate service and keeps transport
// concerns out of the domain.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"rollcall/internal/candidate/models"
	"rollcall/internal/platform/middleware"
	dErrors "rollcall/pkg/domain-errors"
	"rollcall/pkg/platform/httputil"
)

// Service defines the interface for candidate operations.
type Service interface {
	List(ctx context.Context) []models.Candidate
	GetByID(ctx context.Context, id int64) (*models.Candidate, error)
	Search(ctx context.Context, query string) []models.Candidate
	Create(ctx context.Context, in models.CandidateInput) (*models.Candidate, error)
	Update(ctx context.Context, id int64, in models.CandidateInput) (*models.Candidate, error)
	Delete(ctx context.Context, id int64) (*models.Candidate, error)
	GenerateRandom(ctx context.Context) (*models.Candidate, error)
	Stats(ctx context.Context) []models.CandidateStats
	TotalCount(ctx context.Context) int
}

// Handler wires candidate endpoints to the candidate service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a candidate handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts candidate endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/candidates", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Post("/", h.handleCreate)
		r.Get("/search", h.handleSearch)
		r.Get("/stats", h.handleStats)
		r.Get("/count", h.handleCount)
		r.Post("/generate", h.handleGenerate)
		r.Get("/{id}", h.handleGetByID)
		r.Put("/{id}", h.handleUpdate)
		r.Delete("/{id}", h.handleDelete)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.List(r.Context()))
}

// handleGetByID returns the candidate or a JSON null: absence is not an error
// for reads, callers distinguish by the body.
func (h *Handler) handleGetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := h.candidateID(w, r)
	if !ok {
		return
	}
	c, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	httputil.WriteJSON(w, http.StatusOK, h.service.Search(r.Context(), query))
}

func (h *Handler) handleStats(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.Stats(r.Context()))
}

func (h *Handler) handleCount(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, h.service.TotalCount(r.Context()))
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CandidateInput](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	created, err := h.service.Create(ctx, *req)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate create failed",
			"request_id", requestID,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)

	id, ok := h.candidateID(w, r)
	if !ok {
		return
	}
	req, ok := httputil.DecodeAndPrepare[models.CandidateInput](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	updated, err := h.service.Update(ctx, id, *req)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate update failed",
			"request_id", requestID,
			"id", id,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := h.candidateID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.Delete(ctx, id)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate delete failed",
			"request_id", middleware.GetRequestID(ctx),
			"id", id,
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, deleted)
}

func (h *Handler) handleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	generated, err := h.service.GenerateRandom(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "candidate generation failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, generated)
}

// candidateID parses the id path parameter. A non-numeric id is a transport
// level bad request, not a domain error.
func (h *Handler) candidateID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid candidate id"))
		return 0, false
	}
	return id, true
}
