package api

import (
	"context"
	"encoding/json"
	"net/http"
	"parkhouse/internal/db"
	"parkhouse/internal/entities"
	"parkhouse/internal/httperr"
	"strconv"

	"github.com/gorilla/mux"
)

type LotService interface {
	CreateLot(ctx context.Context, req entities.LotRequest) (*db.ParkingLot, error)
	UpdateLotDetails(ctx context.Context, lotID int, req entities.LotRequest) error
	ResizeLot(ctx context.Context, lotID, newCapacity int) error
	DeleteLot(ctx context.Context, lotID int) error
	ListLots(ctx context.Context) ([]entities.LotSummary, error)
	GetLot(ctx context.Context, lotID int) (*entities.LotDetail, error)
	GetSpotsForLot(ctx context.Context, lotID int) ([]entities.SpotStatus, error)
	ListAllSpots(ctx context.Context) ([]entities.SpotResponse, error)
	GetSpot(ctx context.Context, spotID int) (*entities.SpotDetail, error)
}

type AdminService interface {
	Dashboard(ctx context.Context) (*entities.DashboardSummary, error)
	SearchSpots(ctx context.Context, query, searchType string) ([]entities.SpotSearchResult, error)
	ListUsers(ctx context.Context) ([]entities.UserResponse, error)
}

// LotAdminHandler exposes lot management and occupancy views to admins.
type LotAdminHandler struct {
	Lots  LotService
	Admin AdminService
}

func NewLotAdminHandler(lots LotService, admin AdminService) *LotAdminHandler {
	return &LotAdminHandler{Lots: lots, Admin: admin}
}

func (h *LotAdminHandler) CreateLot(w http.ResponseWriter, r *http.Request) {
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	lot, err := h.Lots.CreateLot(r.Context(), req)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       lot.ID,
		"name":     lot.Name,
		"capacity": lot.Capacity,
	})
}

// UpdateLot changes lot metadata and, when the capacity differs from the
// current spot count, resizes the spot set.
func (h *LotAdminHandler) UpdateLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	var req entities.LotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Lots.UpdateLotDetails(r.Context(), lotID, req); err != nil {
		httperr.Write(w, err)
		return
	}
	if req.Capacity > 0 {
		if err := h.Lots.ResizeLot(r.Context(), lotID, req.Capacity); err != nil {
			httperr.Write(w, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lot updated"})
}

func (h *LotAdminHandler) DeleteLot(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := h.Lots.DeleteLot(r.Context(), lotID); err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Lot deleted"})
}

func (h *LotAdminHandler) LotSpots(w http.ResponseWriter, r *http.Request) {
	lotID, err := pathID(r, "id")
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	spots, err := h.Lots.GetSpotsForLot(r.Context(), lotID)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"parking_spots": spots})
}

func (h *LotAdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Admin.Dashboard(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *LotAdminHandler) SearchSpots(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	searchType := r.URL.Query().Get("type")
	if searchType == "" {
		searchType = "lot_name"
	}
	results, err := h.Admin.SearchSpots(r.Context(), query, searchType)
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (h *LotAdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Admin.ListUsers(r.Context())
	if err != nil {
		httperr.Write(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func pathID(r *http.Request, name string) (int, error) {
	return strconv.Atoi(mux.Vars(r)[name])
}
