/*
handlers.go - HTTP API handlers for the tower engine service

PURPOSE:
  Exposes the premium-allocation engine over REST. Handlers parse the
  request, call the pure engine, and serialize the result; the engine
  itself never sees HTTP.

ENDPOINTS:
  Compute:
    POST   /api/compute               Compute a tower sent in the body

  Quote options:
    GET    /api/options               List stored options
    POST   /api/options               Create an option
    GET    /api/options/{id}          Get the stored document
    PUT    /api/options/{id}          Replace an option
    DELETE /api/options/{id}          Delete an option
    GET    /api/options/{id}/computed Compute a stored option

ERROR HANDLING:
  - 400: malformed body or structural tower errors (the engine's
         limit/order rejections surface here with their messages)
  - 404: unknown option ID
  - 500: storage failures

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/warp/tower-engine/quote"
	"github.com/warp/tower-engine/store/sqlite"
	"github.com/warp/tower-engine/tower"
)

// OptionStore is the storage surface the handlers need. *sqlite.Store
// satisfies it.
type OptionStore interface {
	Save(ctx context.Context, opt sqlite.QuoteOption) error
	Get(ctx context.Context, id string) (*sqlite.QuoteOption, error)
	List(ctx context.Context) ([]sqlite.QuoteOption, error)
	Delete(ctx context.Context, id string) error
}

// Handler holds the handlers' dependencies.
type Handler struct {
	Store OptionStore
}

// NewHandler creates a handler over the given store.
func NewHandler(store OptionStore) *Handler {
	return &Handler{Store: store}
}

// =============================================================================
// COMPUTE
// =============================================================================

// ComputeTower computes a tower document sent in the request body.
// POST /api/compute
func (h *Handler) ComputeTower(w http.ResponseWriter, r *http.Request) {
	var doc quote.PersistedTower
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid tower document", err)
		return
	}

	computed, err := computeDocument(doc)
	if err != nil {
		status := http.StatusInternalServerError
		if tower.IsStructural(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "failed to compute tower", err)
		return
	}

	writeJSON(w, http.StatusOK, computed)
}

// =============================================================================
// QUOTE OPTIONS
// =============================================================================

// ListOptions returns all stored quote options (without documents).
// GET /api/options
func (h *Handler) ListOptions(w http.ResponseWriter, r *http.Request) {
	options, err := h.Store.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to list options", err)
		return
	}

	dtos := make([]OptionDTO, 0, len(options))
	for _, opt := range options {
		dtos = append(dtos, toOptionDTO(opt, false))
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateOption stores a new quote option.
// POST /api/options
func (h *Handler) CreateOption(w http.ResponseWriter, r *http.Request) {
	var req SaveOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	opt, err := h.buildOption(uuid.NewString(), req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tower", err)
		return
	}

	if err := h.Store.Save(r.Context(), opt); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save option", err)
		return
	}
	writeJSON(w, http.StatusCreated, toOptionDTO(opt, true))
}

// GetOption returns a stored option with its tower document.
// GET /api/options/{id}
func (h *Handler) GetOption(w http.ResponseWriter, r *http.Request) {
	opt, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOptionDTO(*opt, true))
}

// UpdateOption replaces a stored option.
// PUT /api/options/{id}
func (h *Handler) UpdateOption(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, err := h.Store.Get(r.Context(), id); err != nil {
		writeStoreError(w, err)
		return
	}

	var req SaveOptionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	opt, err := h.buildOption(id, req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid tower", err)
		return
	}

	if err := h.Store.Save(r.Context(), opt); err != nil {
		writeError(w, http.StatusInternalServerError, "failed to save option", err)
		return
	}
	writeJSON(w, http.StatusOK, toOptionDTO(opt, true))
}

// DeleteOption removes a stored option.
// DELETE /api/options/{id}
func (h *Handler) DeleteOption(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ComputeOption computes a stored option's tower.
// GET /api/options/{id}/computed
func (h *Handler) ComputeOption(w http.ResponseWriter, r *http.Request) {
	opt, err := h.Store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	t, err := quote.Parse(opt.Document)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored document is invalid", err)
		return
	}

	computed, err := tower.Compute(*t)
	if err != nil {
		status := http.StatusInternalServerError
		if tower.IsStructural(err) {
			status = http.StatusBadRequest
		}
		writeError(w, status, "failed to compute tower", err)
		return
	}

	writeJSON(w, http.StatusOK, toComputedDTO(computed))
}

// =============================================================================
// HELPERS
// =============================================================================

// buildOption normalizes and resolves the submitted tower before it is
// stored, so persisted documents always carry fresh attachments and
// the mirrored legacy premium.
func (h *Handler) buildOption(id string, req SaveOptionRequest) (sqlite.QuoteOption, error) {
	t, err := quote.FromPersisted(req.Tower)
	if err != nil {
		return sqlite.QuoteOption{}, err
	}
	document, err := quote.Marshal(*t)
	if err != nil {
		return sqlite.QuoteOption{}, err
	}
	return sqlite.QuoteOption{
		ID:        id,
		Name:      req.Name,
		Position:  string(t.Position),
		TermStart: t.StructureTerm.Start.String(),
		TermEnd:   t.StructureTerm.End.String(),
		Document:  document,
	}, nil
}

func computeDocument(doc quote.PersistedTower) (ComputedTowerDTO, error) {
	t, err := quote.FromPersisted(doc)
	if err != nil {
		return ComputedTowerDTO{}, err
	}
	computed, err := tower.Compute(*t)
	if err != nil {
		return ComputedTowerDTO{}, err
	}
	return toComputedDTO(computed), nil
}

func toOptionDTO(opt sqlite.QuoteOption, includeTower bool) OptionDTO {
	dto := OptionDTO{
		ID:        opt.ID,
		Name:      opt.Name,
		Position:  opt.Position,
		TermStart: opt.TermStart,
		TermEnd:   opt.TermEnd,
	}
	if !opt.CreatedAt.IsZero() {
		dto.CreatedAt = opt.CreatedAt.Format(time.RFC3339)
	}
	if !opt.UpdatedAt.IsZero() {
		dto.UpdatedAt = opt.UpdatedAt.Format(time.RFC3339)
	}
	if includeTower {
		var doc quote.PersistedTower
		if err := json.Unmarshal(opt.Document, &doc); err == nil {
			dto.Tower = &doc
		}
	}
	return dto
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "option not found", nil)
		return
	}
	writeError(w, http.StatusInternalServerError, "storage error", err)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
