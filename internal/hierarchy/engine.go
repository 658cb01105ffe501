// Package hierarchy maintains the forest of items on a shelf using a
// materialized-path encoding: an item's Path lists its ancestor ids, so the
// whole subtree under an item is found with one prefix match instead of
// recursive parent-pointer queries.
package hierarchy

import (
	"strings"

	"github.com/shelfmap/shelfmapgo/internal/models"
)

// Engine mutates and queries the item forest of a shelf
type Engine struct {
	store ItemStore
}

// NewEngine creates an engine on top of the given store
func NewEngine(store ItemStore) *Engine {
	return &Engine{store: store}
}

// InsertInput carries the fields for a new item
type InsertInput struct {
	ShelfID     string
	ParentID    *string
	Name        string
	Description string
	IsContainer bool
	Quantity    int
}

// Insert validates the parent reference, derives path/depth/sortOrder and
// persists the new item.
func (e *Engine) Insert(in InsertInput) (*models.Item, error) {
	if in.ShelfID == "" || in.Name == "" {
		return nil, &models.ValidationError{Reason: "shelfId and name are required"}
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if in.Quantity < 1 {
		return nil, &models.ValidationError{Reason: "quantity must be at least 1"}
	}

	path, depth := "/", 0
	parentID := normalizeID(in.ParentID)
	if parentID != nil {
		parent, err := e.resolveParent(in.ShelfID, *parentID)
		if err != nil {
			return nil, err
		}
		path = parent.SubtreePrefix()
		depth = parent.Depth + 1
	}

	sortOrder, err := e.nextSortOrder(in.ShelfID, parentID)
	if err != nil {
		return nil, err
	}

	item := &models.Item{
		ShelfID:     in.ShelfID,
		ParentID:    parentID,
		Name:        in.Name,
		Description: in.Description,
		IsContainer: in.IsContainer,
		Quantity:    in.Quantity,
		Path:        path,
		Depth:       depth,
		SortOrder:   sortOrder,
	}
	if err := e.store.Create(item); err != nil {
		return nil, err
	}
	return item, nil
}

// Reparent moves an item under a new parent (or to the root when
// newParentID is nil) and rewrites the paths and depths of the whole
// subtree in one transaction. It is a no-op when the parent is unchanged.
func (e *Engine) Reparent(itemID string, newParentID *string) (*models.Item, error) {
	item, err := e.store.ItemByID(itemID)
	if err != nil {
		return nil, err
	}

	newParentID = normalizeID(newParentID)
	if sameID(item.ParentID, newParentID) {
		return item, nil
	}

	newPath, newDepth := "/", 0
	if newParentID != nil {
		parent, err := e.resolveParent(item.ShelfID, *newParentID)
		if err != nil {
			return nil, err
		}
		// Moving a container under its own subtree would orphan the chain
		if parent.ID == item.ID || strings.HasPrefix(parent.Path, item.SubtreePrefix()) {
			return nil, &models.InvalidStateError{Reason: "cannot move an item inside its own subtree"}
		}
		newPath = parent.SubtreePrefix()
		newDepth = parent.Depth + 1
	}

	oldPrefix := item.SubtreePrefix()
	depthDelta := newDepth - item.Depth

	err = e.store.InTransaction(func(tx ItemStore) error {
		shelfItems, err := tx.ItemsByShelf(item.ShelfID)
		if err != nil {
			return err
		}

		item.ParentID = newParentID
		item.Path = newPath
		item.Depth = newDepth
		if err := tx.Save(item); err != nil {
			return err
		}

		newPrefix := newPath + item.ID + "/"
		for i := range shelfItems {
			desc := &shelfItems[i]
			if !strings.HasPrefix(desc.Path, oldPrefix) {
				continue
			}
			desc.Path = newPrefix + desc.Path[len(oldPrefix):]
			desc.Depth += depthDelta
			if err := tx.Save(desc); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteSubtree removes the item and every descendant, identified purely by
// path prefix. A single shelf scan finds the victims, so no recursive
// queries are needed.
func (e *Engine) DeleteSubtree(itemID string) error {
	item, err := e.store.ItemByID(itemID)
	if err != nil {
		return err
	}

	prefix := item.SubtreePrefix()
	return e.store.InTransaction(func(tx ItemStore) error {
		shelfItems, err := tx.ItemsByShelf(item.ShelfID)
		if err != nil {
			return err
		}
		for i := range shelfItems {
			if strings.HasPrefix(shelfItems[i].Path, prefix) {
				if err := tx.Delete(shelfItems[i].ID); err != nil {
					return err
				}
			}
		}
		return tx.Delete(item.ID)
	})
}

// resolveParent loads a prospective parent and checks it can accept children
// on the given shelf. A parent on another shelf is reported as not found so
// callers cannot probe for foreign ids.
func (e *Engine) resolveParent(shelfID, parentID string) (*models.Item, error) {
	parent, err := e.store.ItemByID(parentID)
	if err != nil {
		return nil, err
	}
	if parent.ShelfID != shelfID {
		return nil, &models.NotFoundError{Resource: "parent item"}
	}
	if !parent.IsContainer {
		return nil, &models.InvalidStateError{Reason: "parent must be a container"}
	}
	return parent, nil
}

// nextSortOrder returns max(sortOrder among siblings)+1, or 0 with no siblings
func (e *Engine) nextSortOrder(shelfID string, parentID *string) (int, error) {
	items, err := e.store.ItemsByShelf(shelfID)
	if err != nil {
		return 0, err
	}
	max := -1
	for i := range items {
		if sameID(items[i].ParentID, parentID) && items[i].SortOrder > max {
			max = items[i].SortOrder
		}
	}
	return max + 1, nil
}

func normalizeID(id *string) *string {
	if id == nil || *id == "" {
		return nil
	}
	return id
}

func sameID(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
