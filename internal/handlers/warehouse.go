package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shelfmap/shelfmapgo/internal/middleware"
	"github.com/shelfmap/shelfmapgo/internal/models"
	"github.com/shelfmap/shelfmapgo/internal/services/printer"
)

// maxWarehousesPerUser caps how many zones one account can create
const maxWarehousesPerUser = 3

// ownedWarehouse loads a warehouse scoped to the caller. A warehouse owned
// by someone else reads exactly like a missing one.
func (r *Router) ownedWarehouse(req *http.Request, id string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.Where("id = ? AND user_id = ?", id, middleware.UserID(req)).First(&warehouse).Error
	if err != nil {
		return nil, &models.NotFoundError{Resource: "warehouse"}
	}
	return &warehouse, nil
}

// listWarehouses returns the caller's warehouses with shelf and item counts
func (r *Router) listWarehouses(w http.ResponseWriter, req *http.Request) {
	var warehouses []models.Warehouse
	if err := r.db.Where("user_id = ?", middleware.UserID(req)).Order("created_at ASC").Find(&warehouses).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load warehouses")
		return
	}

	summaries := make([]models.WarehouseSummary, 0, len(warehouses))
	for _, warehouse := range warehouses {
		summary := models.WarehouseSummary{Warehouse: warehouse}
		r.db.Model(&models.Shelf{}).Where("warehouse_id = ?", warehouse.ID).Count(&summary.ShelfCount)
		r.db.Model(&models.Item{}).
			Joins("JOIN shelves ON shelves.id = items.shelf_id").
			Where("shelves.warehouse_id = ?", warehouse.ID).
			Count(&summary.ItemCount)
		summaries = append(summaries, summary)
	}

	respondJSON(w, http.StatusOK, summaries)
}

// CreateWarehouseRequest carries the fields for a new warehouse
type CreateWarehouseRequest struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// createWarehouse creates a zone for the caller, enforcing the per-user cap
func (r *Router) createWarehouse(w http.ResponseWriter, req *http.Request) {
	var createReq CreateWarehouseRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if createReq.Name == "" {
		respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	userID := middleware.UserID(req)
	var count int64
	r.db.Model(&models.Warehouse{}).Where("user_id = ?", userID).Count(&count)
	if count >= maxWarehousesPerUser {
		respondError(w, http.StatusConflict, "Warehouse limit reached")
		return
	}

	warehouse := models.Warehouse{
		UserID: userID,
		Name:   createReq.Name,
		Width:  createReq.Width,
		Height: createReq.Height,
	}
	if err := r.db.Create(&warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create warehouse")
		return
	}

	respondJSON(w, http.StatusCreated, warehouse)
}

// getWarehouse returns one warehouse with its shelves
func (r *Router) getWarehouse(w http.ResponseWriter, req *http.Request) {
	warehouse, err := r.ownedWarehouse(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	shelves, err := r.geoShelves(warehouse.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load shelves")
		return
	}
	warehouse.Shelves = shelves

	respondJSON(w, http.StatusOK, warehouse)
}

// UpdateWarehouseRequest is a partial update; nil fields stay untouched
type UpdateWarehouseRequest struct {
	Name   *string `json:"name"`
	Width  *int    `json:"width"`
	Height *int    `json:"height"`
}

// updateWarehouse renames or resizes the floor plan
func (r *Router) updateWarehouse(w http.ResponseWriter, req *http.Request) {
	warehouse, err := r.ownedWarehouse(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var updateReq UpdateWarehouseRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if updateReq.Name != nil {
		if *updateReq.Name == "" {
			respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		warehouse.Name = *updateReq.Name
	}
	if updateReq.Width != nil {
		warehouse.Width = *updateReq.Width
	}
	if updateReq.Height != nil {
		warehouse.Height = *updateReq.Height
	}

	if err := r.db.Save(warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update warehouse")
		return
	}

	r.broadcast(warehouse.ID, "warehouse.updated", warehouse)
	respondJSON(w, http.StatusOK, warehouse)
}

// deleteWarehouse removes the zone and cascades to shelves and items
func (r *Router) deleteWarehouse(w http.ResponseWriter, req *http.Request) {
	warehouse, err := r.ownedWarehouse(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Schema-level ON DELETE CASCADE takes the shelves and items with it
	if err := r.db.Delete(warehouse).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete warehouse")
		return
	}

	r.broadcast(warehouse.ID, "warehouse.deleted", map[string]string{"id": warehouse.ID})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Warehouse deleted"})
}

// shelfLabels streams a printable PDF of QR labels for every shelf
func (r *Router) shelfLabels(w http.ResponseWriter, req *http.Request) {
	warehouse, err := r.ownedWarehouse(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	shelves, err := r.geoShelves(warehouse.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load shelves")
		return
	}

	pdf, err := printer.GenerateShelfLabelsPDF(warehouse.Name, shelves, printer.DefaultLabelConfig())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="shelf-labels.pdf"`)
	w.WriteHeader(http.StatusOK)
	w.Write(pdf)
}

// geoShelves lists a warehouse's shelves in creation order
func (r *Router) geoShelves(warehouseID string) ([]models.Shelf, error) {
	var shelves []models.Shelf
	err := r.db.Where("warehouse_id = ?", warehouseID).Order("created_at ASC").Find(&shelves).Error
	return shelves, err
}
