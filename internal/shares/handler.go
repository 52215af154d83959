// Package shares exposes the share-table editing operations over HTTP so the
// SPA can keep a table normalized while the user edits it, without
// duplicating the redistribution rules client-side. Every endpoint is a thin
// wrapper over a pure function: no state, no persistence.
package shares

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tripcrew/tripsplit/internal/split"
	"github.com/tripcrew/tripsplit/pkg/response"
)

// Handler handles HTTP requests for share-table editing
type Handler struct{}

// NewHandler creates a new shares handler
func NewHandler() *Handler {
	return &Handler{}
}

// Routes returns the router for share-editing endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/init", h.Init)
	r.Post("/recount", h.Recount)
	r.Post("/percent", h.SetPercent)
	r.Post("/payer", h.SetPayer)

	return r
}

// Init handles POST /shares/init
// @Summary      Build an even share table
// @Description  Divide 100% evenly across the given number of participants; the first participant absorbs the rounding remainder and starts as payer
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        request body InitRequest true "Participant count"
// @Success      200 {object} response.APIResponse{data=SharesResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /shares/init [post]
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	var req InitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Count < 1 {
		response.BadRequest(w, "Count must be at least 1")
		return
	}

	response.JSON(w, http.StatusOK, &SharesResponse{Shares: split.InitializeShares(req.Count)})
}

// Recount handles POST /shares/recount
// @Summary      Change the participant count
// @Description  Rebuild an even table for the new count, keeping existing names; the payer resets to the first participant
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        request body RecountRequest true "New count and current shares"
// @Success      200 {object} response.APIResponse{data=SharesResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /shares/recount [post]
func (h *Handler) Recount(w http.ResponseWriter, r *http.Request) {
	var req RecountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if req.Count < 1 {
		response.BadRequest(w, "Count must be at least 1")
		return
	}

	response.JSON(w, http.StatusOK, &SharesResponse{
		Shares: split.ChangeParticipantCount(req.Count, req.Shares),
	})
}

// SetPercent handles POST /shares/percent
// @Summary      Edit one participant's share
// @Description  Set one share and redistribute the rest so the table still sums to 100
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        request body PercentRequest true "Current shares, edited index, new percent"
// @Success      200 {object} response.APIResponse{data=SharesResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /shares/percent [post]
func (h *Handler) SetPercent(w http.ResponseWriter, r *http.Request) {
	var req PercentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if len(req.Shares) == 0 {
		response.BadRequest(w, "Shares are required")
		return
	}
	if req.Index < 0 || req.Index >= len(req.Shares) {
		response.BadRequest(w, "Index out of range")
		return
	}

	response.JSON(w, http.StatusOK, &SharesResponse{
		Shares: split.SetSharePercent(req.Shares, req.Index, req.Percent),
	})
}

// SetPayer handles POST /shares/payer
// @Summary      Move the payer flag
// @Description  Mark one participant as the payer; the table always has exactly one
// @Tags         shares
// @Accept       json
// @Produce      json
// @Param        request body PayerRequest true "Current shares and payer index"
// @Success      200 {object} response.APIResponse{data=SharesResponse}
// @Failure      400 {object} response.APIResponse
// @Router       /shares/payer [post]
func (h *Handler) SetPayer(w http.ResponseWriter, r *http.Request) {
	var req PayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if len(req.Shares) == 0 {
		response.BadRequest(w, "Shares are required")
		return
	}
	if req.Index < 0 || req.Index >= len(req.Shares) {
		response.BadRequest(w, "Index out of range")
		return
	}

	response.JSON(w, http.StatusOK, &SharesResponse{
		Shares: split.SetPayer(req.Shares, req.Index),
	})
}
