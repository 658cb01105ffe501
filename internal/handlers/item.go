package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/shelfmap/shelfmapgo/internal/hierarchy"
	"github.com/shelfmap/shelfmapgo/internal/middleware"
	"github.com/shelfmap/shelfmapgo/internal/models"
)

// ownedItem loads an item whose shelf's warehouse belongs to the caller
func (r *Router) ownedItem(req *http.Request, id string) (*models.Item, error) {
	var item models.Item
	err := r.db.
		Joins("JOIN shelves ON shelves.id = items.shelf_id").
		Joins("JOIN warehouses ON warehouses.id = shelves.warehouse_id").
		Where("items.id = ? AND warehouses.user_id = ?", id, middleware.UserID(req)).
		First(&item).Error
	if err != nil {
		return nil, &models.NotFoundError{Resource: "item"}
	}
	return &item, nil
}

// listItems returns a shelf's items, flat by default or nested with
// ?view=tree.
func (r *Router) listItems(w http.ResponseWriter, req *http.Request) {
	shelfID := req.URL.Query().Get("shelfId")
	if shelfID == "" {
		respondError(w, http.StatusBadRequest, "shelfId query parameter is required")
		return
	}
	if _, err := r.ownedShelf(req, shelfID); err != nil {
		respondDomainError(w, err)
		return
	}

	var items []models.Item
	if err := r.db.Where("shelf_id = ?", shelfID).Order("sort_order ASC").Find(&items).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load items")
		return
	}

	if req.URL.Query().Get("view") == "tree" {
		respondJSON(w, http.StatusOK, hierarchy.BuildTree(items))
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// CreateItemRequest carries the fields for a new item
type CreateItemRequest struct {
	ShelfID     string  `json:"shelfId"`
	ParentID    *string `json:"parentId"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	IsContainer bool    `json:"isContainer"`
	Quantity    int     `json:"quantity"`
}

// createItem inserts an item into a shelf's hierarchy
func (r *Router) createItem(w http.ResponseWriter, req *http.Request) {
	var createReq CreateItemRequest
	if err := json.NewDecoder(req.Body).Decode(&createReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if _, err := r.ownedShelf(req, createReq.ShelfID); err != nil {
		respondDomainError(w, err)
		return
	}

	item, err := r.engine.Insert(hierarchy.InsertInput{
		ShelfID:     createReq.ShelfID,
		ParentID:    createReq.ParentID,
		Name:        createReq.Name,
		Description: createReq.Description,
		IsContainer: createReq.IsContainer,
		Quantity:    createReq.Quantity,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	r.broadcastItemChange(req, item, "item.created")
	respondJSON(w, http.StatusCreated, item)
}

// getItem returns one item with its nested children
func (r *Router) getItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.ownedItem(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var shelfItems []models.Item
	if err := r.db.Where("shelf_id = ?", item.ShelfID).Find(&shelfItems).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to load items")
		return
	}

	// Pick this item's node out of the shelf forest
	var find func(nodes []*hierarchy.TreeNode) *hierarchy.TreeNode
	find = func(nodes []*hierarchy.TreeNode) *hierarchy.TreeNode {
		for _, node := range nodes {
			if node.ID == item.ID {
				return node
			}
			if found := find(node.Children); found != nil {
				return found
			}
		}
		return nil
	}
	if node := find(hierarchy.BuildTree(shelfItems)); node != nil {
		respondJSON(w, http.StatusOK, node)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// UpdateItemRequest is a partial item update. ParentID distinguishes
// "absent" from an explicit null, which means "move to the root".
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsContainer *bool   `json:"isContainer"`
	Quantity    *int    `json:"quantity"`

	ParentID    *string `json:"-"`
	ParentIDSet bool    `json:"-"`
}

// UnmarshalJSON keeps track of whether parentId appeared in the payload
func (u *UpdateItemRequest) UnmarshalJSON(data []byte) error {
	type alias UpdateItemRequest
	var plain alias
	if err := json.Unmarshal(data, &plain); err != nil {
		return err
	}
	*u = UpdateItemRequest(plain)

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	raw, ok := probe["parentId"]
	if !ok {
		return nil
	}
	u.ParentIDSet = true
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil
	}
	var parentID string
	if err := json.Unmarshal(raw, &parentID); err != nil {
		return err
	}
	u.ParentID = &parentID
	return nil
}

// updateItem applies a partial update; a parentId change goes through the
// hierarchy engine so paths and depths stay consistent.
func (r *Router) updateItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.ownedItem(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	var updateReq UpdateItemRequest
	if err := json.NewDecoder(req.Body).Decode(&updateReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if updateReq.ParentIDSet {
		item, err = r.engine.Reparent(item.ID, updateReq.ParentID)
		if err != nil {
			respondDomainError(w, err)
			return
		}
	}

	if updateReq.Name != nil {
		if *updateReq.Name == "" {
			respondError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		item.Name = *updateReq.Name
	}
	if updateReq.Description != nil {
		item.Description = *updateReq.Description
	}
	if updateReq.Quantity != nil {
		if *updateReq.Quantity < 1 {
			respondError(w, http.StatusBadRequest, "quantity must be at least 1")
			return
		}
		item.Quantity = *updateReq.Quantity
	}
	if updateReq.IsContainer != nil {
		if !*updateReq.IsContainer && item.IsContainer {
			var children int64
			r.db.Model(&models.Item{}).Where("parent_id = ?", item.ID).Count(&children)
			if children > 0 {
				respondError(w, http.StatusConflict, "container still holds items")
				return
			}
		}
		item.IsContainer = *updateReq.IsContainer
	}

	if err := r.db.Save(item).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update item")
		return
	}

	r.broadcastItemChange(req, item, "item.updated")
	respondJSON(w, http.StatusOK, item)
}

// deleteItem removes the item and its whole subtree
func (r *Router) deleteItem(w http.ResponseWriter, req *http.Request) {
	item, err := r.ownedItem(req, mux.Vars(req)["id"])
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if err := r.engine.DeleteSubtree(item.ID); err != nil {
		respondDomainError(w, err)
		return
	}

	r.broadcastItemChange(req, item, "item.deleted")
	respondJSON(w, http.StatusOK, map[string]string{"message": "Item deleted"})
}

// broadcastItemChange notifies live viewers of the item's warehouse
func (r *Router) broadcastItemChange(req *http.Request, item *models.Item, eventType string) {
	shelf, err := r.ownedShelf(req, item.ShelfID)
	if err != nil {
		return
	}
	payload := item
	if strings.HasSuffix(eventType, ".deleted") {
		payload = &models.Item{ID: item.ID, ShelfID: item.ShelfID}
	}
	r.broadcast(shelf.WarehouseID, eventType, payload)
}
