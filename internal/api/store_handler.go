package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/phrazzld/storefront-api/internal/api/shared"
	"github.com/phrazzld/storefront-api/internal/domain/search"
	"github.com/phrazzld/storefront-api/internal/service"
)

// Pagination policy of the search endpoint. The resolver only requires
// positive integers; defaults and clamping are this boundary's job.
const (
	defaultPage    = 1
	defaultPerPage = 8
	maxPerPage     = 50
)

// Mutation error messages surfaced in the {data, error} envelope.
const (
	msgNameTaken     = "Store name already taken."
	msgStoreNotFound = "store not found"
	msgInternal      = "Something went wrong."
)

// CreateStoreRequest represents the request body for creating a new store
type CreateStoreRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=500"`
	UserID      string `json:"user_id"     validate:"required,uuid"`
}

// UpdateStoreRequest represents the request body for updating a store
type UpdateStoreRequest struct {
	Name        string `json:"name"        validate:"required,min=3,max=50"`
	Description string `json:"description" validate:"max=500"`
}

// StoreHandler handles store-related HTTP requests
type StoreHandler struct {
	catalogService service.CatalogService
	storeService   service.StoreService
	validator      *validator.Validate
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(
	catalogService service.CatalogService,
	storeService service.StoreService,
) *StoreHandler {
	return &StoreHandler{
		catalogService: catalogService,
		storeService:   storeService,
		validator:      validator.New(),
	}
}

// GetFeaturedStores handles GET /api/stores/featured requests.
// Failures on this path are not softened: a storage error surfaces as
// a 500.
func (h *StoreHandler) GetFeaturedStores(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.catalogService.GetFeaturedStores(r.Context())
	if err != nil {
		slog.Error("failed to get featured stores", "error", err)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to load featured stores")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(summaries))
}

// GetUserStores handles GET /api/users/{userID}/stores requests.
func (h *StoreHandler) GetUserStores(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "userID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user ID")
		return
	}

	summaries, err := h.catalogService.GetUserStores(r.Context(), userID)
	if err != nil {
		slog.Error("failed to get user stores", "error", err, "user_id", userID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to load stores")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summariesToResponse(summaries))
}

// GetStore handles GET /api/stores/{storeID} requests: the detail
// view, enriched with the store's product count.
func (h *StoreHandler) GetStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid store ID")
		return
	}

	row, err := h.catalogService.GetStore(r.Context(), storeID)
	if err != nil {
		if errors.Is(err, service.ErrStoreNotFound) {
			shared.RespondWithError(w, r, http.StatusNotFound, msgStoreNotFound)
			return
		}
		slog.Error("failed to get store", "error", err, "store_id", storeID)
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Failed to load store")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, rowToResponse(*row))
}

// ListStores handles GET /api/stores requests: the dynamic
// filtered/sorted/paginated search. The endpoint is total — malformed
// or failing requests yield an empty page, never an error status.
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	result := h.catalogService.SearchStores(r.Context(), searchRequestFromQuery(r))

	shared.RespondWithJSON(w, r, http.StatusOK, SearchResponse{
		Data:      rowsToResponse(result.Stores),
		PageCount: result.PageCount,
	})
}

// searchRequestFromQuery applies the boundary's default/clamp policy
// to the raw query string. Sort and status tokens pass through
// verbatim; the resolver owns their validation.
func searchRequestFromQuery(r *http.Request) search.Request {
	query := r.URL.Query()

	page := defaultPage
	if v, err := strconv.Atoi(query.Get("page")); err == nil {
		page = v
	}

	// Non-positive per_page values fall back to the default rather
	// than reaching the resolver as an invalid plan.
	perPage := defaultPerPage
	if v, err := strconv.Atoi(query.Get("per_page")); err == nil && v > 0 {
		perPage = v
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	// An unparseable owner filter is treated as absent.
	ownerID, _ := uuid.Parse(query.Get("user_id"))

	return search.Request{
		Page:     page,
		PerPage:  perPage,
		Sort:     query.Get("sort"),
		Statuses: query.Get("statuses"),
		OwnerID:  ownerID,
	}
}

// CreateStore handles POST /api/stores requests.
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	var req CreateStoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Invalid request format"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Validation error: "+err.Error()))
		return
	}

	// Validated as a UUID above.
	ownerID := uuid.MustParse(req.UserID)

	if err := h.storeService.AddStore(r.Context(), ownerID, req.Name, req.Description); err != nil {
		h.respondMutationError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, mutationOK())
}

// UpdateStore handles PATCH /api/stores/{storeID} requests.
func (h *StoreHandler) UpdateStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Invalid store ID"))
		return
	}

	var req UpdateStoreRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Invalid request format"))
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Validation error: "+err.Error()))
		return
	}

	if err := h.storeService.UpdateStore(r.Context(), storeID, req.Name, req.Description); err != nil {
		h.respondMutationError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, mutationOK())
}

// DeleteStore handles DELETE /api/stores/{storeID} requests.
// A successful delete is a control transfer, not a value: the client
// is redirected to the stores listing.
func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	storeID, err := uuid.Parse(chi.URLParam(r, "storeID"))
	if err != nil {
		shared.RespondWithJSON(w, r, http.StatusBadRequest, mutationFailed("Invalid store ID"))
		return
	}

	outcome, err := h.storeService.DeleteStore(r.Context(), storeID)
	if err != nil {
		h.respondMutationError(w, r, err)
		return
	}

	http.Redirect(w, r, outcome.RedirectTo, http.StatusSeeOther)
}

// respondMutationError maps service sentinel errors onto the mutation
// envelope. Unknown errors are logged and reported generically.
func (h *StoreHandler) respondMutationError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrStoreNameTaken):
		shared.RespondWithJSON(w, r, http.StatusConflict, mutationFailed(msgNameTaken))
	case errors.Is(err, service.ErrStoreNotFound):
		shared.RespondWithJSON(w, r, http.StatusNotFound, mutationFailed(msgStoreNotFound))
	default:
		slog.Error("store mutation failed", "error", err, "path", r.URL.Path)
		shared.RespondWithJSON(w, r, http.StatusInternalServerError, mutationFailed(msgInternal))
	}
}
