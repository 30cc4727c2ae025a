package adaptor

import (
	"encoding/json"
	"net/http"

	"store-rating/internal/dto/request"
	"store-rating/internal/usecase"
	"store-rating/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StoreHandler struct {
	service usecase.StoreService
	log     *zap.Logger
}

func NewStoreHandler(service usecase.StoreService, log *zap.Logger) *StoreHandler {
	return &StoreHandler{
		service: service,
		log:     log.With(zap.String("handler", "store")),
	}
}

// ListStores handles GET /api/stores?search=&sortBy=&sortOrder= (user, admin)
func (h *StoreHandler) ListStores(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	query, err := request.StoreQueryFromValues(r.URL.Query())
	if err != nil {
		utils.ResponseError(w, err)
		return
	}

	stores, err := h.service.ListStores(r.Context(), principalID, role, query)
	if err != nil {
		h.log.Warn("List stores failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", stores)
}

// GetOwnedStores handles GET /api/stores/owner (store_owner)
func (h *StoreHandler) GetOwnedStores(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	stores, err := h.service.GetOwnedStores(r.Context(), principalID, role)
	if err != nil {
		h.log.Warn("List owned stores failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", stores)
}

// GetOwnerSummary handles GET /api/stores/owner/summary (store_owner)
func (h *StoreHandler) GetOwnerSummary(w http.ResponseWriter, r *http.Request) {
	principalID, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	summary, err := h.service.GetOwnerSummary(r.Context(), principalID, role)
	if err != nil {
		h.log.Warn("Owner summary failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "success", summary)
}

// CreateStore handles POST /api/admin/stores (admin)
func (h *StoreHandler) CreateStore(w http.ResponseWriter, r *http.Request) {
	_, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	var req request.CreateStoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	store, err := h.service.CreateStore(r.Context(), role, &req)
	if err != nil {
		h.log.Warn("Create store failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseCreated(w, "Store created", store)
}

// AssignOwner handles PUT /api/admin/stores/{id}/owner (admin)
func (h *StoreHandler) AssignOwner(w http.ResponseWriter, r *http.Request) {
	_, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid store ID", nil)
		return
	}

	var req request.AssignOwnerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	store, err := h.service.AssignOwner(r.Context(), role, storeID, &req)
	if err != nil {
		h.log.Warn("Assign owner failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Owner assigned", store)
}

// DeleteStore handles DELETE /api/admin/stores/{id} (admin)
func (h *StoreHandler) DeleteStore(w http.ResponseWriter, r *http.Request) {
	_, role, ok := principalFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	storeID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid store ID", nil)
		return
	}

	if err := h.service.DeleteStore(r.Context(), role, storeID); err != nil {
		h.log.Warn("Delete store failed", zap.Error(err))
		utils.ResponseError(w, err)
		return
	}

	utils.ResponseSuccess(w, "Store deleted", nil)
}
