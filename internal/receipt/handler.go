package receipt

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripcrew/tripsplit/internal/split"
	"github.com/tripcrew/tripsplit/pkg/response"
)

// Handler handles HTTP requests for receipt operations
type Handler struct {
	service *Service
}

// NewHandler creates a new receipt handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for receipt endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/settlement", h.SettleSelection)
	r.Get("/trip/{tripId}", h.ListByTrip)
	r.Get("/trip/{tripId}/settlement", h.SettleTrip)
	r.Get("/{id}", h.GetByID)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)

	return r
}

// Create handles POST /receipts
// @Summary      Record a shared expense
// @Description  Validate the share table, compute who owes the payer what, and save the receipt
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        request body CreateReceiptRequest true "Receipt creation request"
// @Success      201 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to create receipt")
		return
	}

	response.JSON(w, http.StatusCreated, rec.ToResponse())
}

// GetByID handles GET /receipts/{id}
// @Summary      Get receipt by ID
// @Description  Get a single receipt with its share table and debts
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [get]
func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to get receipt")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Update handles PUT /receipts/{id}
// @Summary      Edit a receipt
// @Description  Update a receipt; changing the total or shares recomputes the debts
// @Tags         receipts
// @Accept       json
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Param        request body UpdateReceiptRequest true "Receipt update request"
// @Success      200 {object} response.APIResponse{data=ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	var req UpdateReceiptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	rec, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to update receipt")
		return
	}

	response.JSON(w, http.StatusOK, rec.ToResponse())
}

// Delete handles DELETE /receipts/{id}
// @Summary      Delete a receipt
// @Description  Delete a single receipt independently of its trip
// @Tags         receipts
// @Produce      json
// @Param        id path string true "Receipt ID"
// @Success      200 {object} response.APIResponse
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid receipt ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, ErrReceiptNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to delete receipt")
		return
	}

	response.JSON(w, http.StatusOK, map[string]string{"message": "Receipt deleted successfully"})
}

// ListByTrip handles GET /receipts/trip/{tripId}
// @Summary      List receipts for a trip
// @Description  Get all receipts belonging to a trip, newest first
// @Tags         receipts
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=[]ReceiptResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/trip/{tripId} [get]
func (h *Handler) ListByTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	receipts, err := h.service.ListByTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to list receipts")
		return
	}

	receiptResponses := make([]*ReceiptResponse, len(receipts))
	for i, rec := range receipts {
		receiptResponses[i] = rec.ToResponse()
	}

	response.JSON(w, http.StatusOK, receiptResponses)
}

// SettleTrip handles GET /receipts/trip/{tripId}/settlement
// @Summary      Settle a whole trip
// @Description  Net the debts of every receipt in the trip into one balance per participant pair
// @Tags         settlement
// @Produce      json
// @Param        tripId path int true "Trip ID"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/trip/{tripId}/settlement [get]
func (h *Handler) SettleTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid trip ID")
		return
	}

	summary, err := h.service.SettleTrip(r.Context(), tripID)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to settle trip")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// SettleSelection handles POST /receipts/settlement
// @Summary      Settle selected receipts
// @Description  Net the debts of a chosen subset of one trip's receipts
// @Tags         settlement
// @Accept       json
// @Produce      json
// @Param        request body SettleSelectionRequest true "Settlement request"
// @Success      200 {object} response.APIResponse{data=SettlementResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Router       /receipts/settlement [post]
func (h *Handler) SettleSelection(w http.ResponseWriter, r *http.Request) {
	var req SettleSelectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	summary, err := h.service.SettleSelection(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrTripNotFound) {
			response.NotFound(w, err.Error())
			return
		}
		if isValidationError(err) {
			response.BadRequest(w, err.Error())
			return
		}
		response.InternalError(w, "Failed to settle receipts")
		return
	}

	response.JSON(w, http.StatusOK, summary)
}

// isValidationError reports whether an error should map to a 400
func isValidationError(err error) bool {
	return errors.Is(err, ErrInvalidItemType) ||
		errors.Is(err, ErrMissingTotal) ||
		errors.Is(err, ErrNegativeTotal) ||
		errors.Is(err, ErrInvalidReceiptID) ||
		errors.Is(err, ErrReceiptNotInTrip) ||
		errors.Is(err, ErrNoReceiptsSelected) ||
		errors.Is(err, split.ErrNoParticipants) ||
		errors.Is(err, split.ErrInvalidShareSum) ||
		errors.Is(err, split.ErrNoPayer) ||
		errors.Is(err, split.ErrMultiplePayers) ||
		errors.Is(err, split.ErrPercentOutOfRange)
}
