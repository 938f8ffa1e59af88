package api

import (
	"net/http"
	"parkhouse/internal/httperr"
)

// PublicHandler serves the read-only JSON projections of lots and spots.
type PublicHandler struct {
	Lots LotService
}

func NewPublicHandler(lots LotService) *PublicHandler {
	return &PublicHandler{Lots: lots}
}

func (h *PublicHandler) ListLots(w http.ResponseWriter, r *http.Request) {
	lots, err := h.Lots.ListLots(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parking_lots": lots})
}

func (h *PublicHandler) LotDetails(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	lot, err := h.Lots.GetLot(r.Context(), lotID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lot)
}

func (h *PublicHandler) ListSpots(w http.ResponseWriter, r *http.Request) {
	spots, err := h.Lots.ListAllSpots(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parking_spots": spots})
}

func (h *PublicHandler) SpotDetails(w http.ResponseWriter, r *http.Request) {
	spotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	spot, err := h.Lots.GetSpot(r.Context(), spotID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, spot)
}
