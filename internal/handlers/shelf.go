package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/shelfmap/shelfmapgo/internal/geometry"
	"github.com/shelfmap/shelfmapgo/internal/hierarchy"
	"github.com/shelfmap/shelfmapgo/internal/middleware"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

// ownedShelf loads a shelf whose warehouse belongs to the caller
func (r *Router) ownedShelf(req *http.Request, id string) (*models.Shelf, error) {
	var shelf models.Shelf
	err := r.db.
		Joins("JOIN warehouses ON warehouses.id = shelves.warehouse_id").
		Where("shelves.id = ? AND warehouses.user_id = ?", id, middleware.UserID(req)).
		First(&shelf).Error
	if err != nil {
		return nil, &models.NotFoundError{Resource: "shelf"}
	}
	return &shelf, nil
}

// listShelves returns the shelves of one warehouse
func (r *Router) listShelves(w http.ResponseWriter, req *http.Request) {
	warehouseID := req.URL.Query().Get("warehouseId")
	if warehouseID == "" {
		respondError(w, http.StatusBadRequest, "warehouseId query parameter is required")
		return
	}
	if _, err := r.ownedWarehouse(req, warehouseID); err != nil {
		respondDomainError(w, err)
		return
	}

	shelves, err := r.geoShelves(warehouseID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load shelves")
		return
	}
	respondJSON(w, http.StatusOK, shelves)
}

// CreateShelfRequest carries the fields for a new shelf; geometry comes
// from staggered defaults, never from the client.
type CreateShelfRequest struct {
	WarehouseID string `json:"warehouseId"`
	Name        string `json:"name"`
	Color       string `json:"color"`
}

// createShelf places a new shelf with default geometry
func (r *Router) createShelf(w http.ResponseWriter, req *http.Request) {
	var createReq CreateShelfRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if _, err := r.ownedWarehouse(req, createReq.WarehouseID); err != nil {
		respondDomainError(w, err)
		return
	}

	shelf, err := r.geo.Create(createReq.WarehouseID, geometry.CreateInput{
		Name:  createReq.Name,
		Color: createReq.Color,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	r.broadcast(shelf.WarehouseID, "shelf.created", shelf)
	respondJSON(w, http.StatusCreated, shelf)
}

// ShelfDetail is a shelf with its item tree resolved
type ShelfDetail struct {
	models.Shelf
	Items []*hierarchy.TreeNode `json:"items"`
}

// getShelf returns one shelf with its full item tree
func (r *Router) getShelf(w http.ResponseWriter, req *http.Request) {
	shelf, err := r.ownedShelf(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var items []models.Item
	if err := r.db.Where("shelf_id = ?", shelf.ID).Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load items")
		return
	}

	respondJSON(w, http.StatusOK, ShelfDetail{Shelf: *shelf, Items: hierarchy.BuildTree(items)})
}

// UpdateShelfRequest is a partial geometry/display update. Exactly one kind
// of change applies per request: a discrete rotation step, a committed
// transform gesture, a plain move, or a display-field change.
type UpdateShelfRequest struct {
	Name      *string  `json:"name"`
	Color     *string  `json:"color"`
	PositionX *int     `json:"positionX"`
	PositionY *int     `json:"positionY"`
	Width     *int     `json:"width"`
	Depth     *int     `json:"depth"`
	Rotation  *float64 `json:"rotation"`
	RotateBy  *float64 `json:"rotateBy"`
}

// updateShelf applies a partial update through the geometry model
func (r *Router) updateShelf(w http.ResponseWriter, req *http.Request) {
	shelf, err := r.ownedShelf(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var updateReq UpdateShelfRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated := shelf
	switch {
	case updateReq.RotateBy != nil:
		updated, err = r.geo.RotateBy(shelf.ID, *updateReq.RotateBy)

	case updateReq.Width != nil || updateReq.Depth != nil || updateReq.Rotation != nil:
		t := geometry.Transform{
			X:        shelf.PositionX,
			Y:        shelf.PositionY,
			Width:    updateReq.Width,
			Depth:    updateReq.Depth,
			Rotation: shelf.Rotation,
		}
		if updateReq.PositionX != nil {
			t.X = *updateReq.PositionX
		}
		if updateReq.PositionY != nil {
			t.Y = *updateReq.PositionY
		}
		if updateReq.Rotation != nil {
			t.Rotation = *updateReq.Rotation
		}
		updated, err = r.geo.ApplyTransform(shelf.ID, t)

	case updateReq.PositionX != nil || updateReq.PositionY != nil:
		x, y := shelf.PositionX, shelf.PositionY
		if updateReq.PositionX != nil {
			x = *updateReq.PositionX
		}
		if updateReq.PositionY != nil {
			y = *updateReq.PositionY
		}
		updated, err = r.geo.Move(shelf.ID, x, y)
	}
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if updateReq.Name != nil || updateReq.Color != nil {
		name, color := "", ""
		if updateReq.Name != nil {
			name = *updateReq.Name
		}
		if updateReq.Color != nil {
			color = *updateReq.Color
		}
		updated, err = r.geo.Rename(shelf.ID, name, color)
		if err != nil {
			respondDomainError(w, err)
			return
		}
	}

	r.broadcast(updated.WarehouseID, "shelf.updated", updated)
	respondJSON(w, http.StatusOK, updated)
}

// deleteShelf removes a shelf and every item on it
func (r *Router) deleteShelf(w http.ResponseWriter, req *http.Request) {
	shelf, err := r.ownedShelf(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	// Schema-level ON DELETE CASCADE takes the items with it
	if err := r.db.Delete(shelf).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to delete shelf")
		return
	}

	r.broadcast(shelf.WarehouseID, "shelf.deleted", map[string]string{"id": shelf.ID})
	respondJSON(w, http.StatusOK, map[string]string{"message": "Shelf deleted"})
}
