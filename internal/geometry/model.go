package geometry

import (
	"errors"

	"github.com/shelfmap/shelfmapgo/internal/models"
	"gorm.io/gorm"
)

// ShelfStore is the persistence boundary of the geometry model.
type ShelfStore interface {
	// ShelfByID returns the shelf or a models.NotFoundError.
	ShelfByID(id string) (*models.Shelf, error)
	ShelvesByWarehouse(warehouseID string) ([]models.Shelf, error)
	Create(shelf *models.Shelf) error
	Save(shelf *models.Shelf) error
	Delete(id string) error
}

// GormShelfStore implements ShelfStore on a GORM connection
type GormShelfStore struct {
	db *gorm.DB
}

// NewGormShelfStore creates a shelf store backed by db
func NewGormShelfStore(db *gorm.DB) *GormShelfStore {
	return &GormShelfStore{db: db}
}

func (s *GormShelfStore) ShelfByID(id string) (*models.Shelf, error) {
	var shelf models.Shelf
	if err := s.db.First(&shelf, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "shelf"}
		}
		return nil, err
	}
	return &shelf, nil
}

func (s *GormShelfStore) ShelvesByWarehouse(warehouseID string) ([]models.Shelf, error) {
	var shelves []models.Shelf
	if err := s.db.Where("warehouse_id = ?", warehouseID).Order("created_at ASC").Find(&shelves).Error; err != nil {
		return nil, err
	}
	return shelves, nil
}

func (s *GormShelfStore) Create(shelf *models.Shelf) error {
	return s.db.Create(shelf).Error
}

func (s *GormShelfStore) Save(shelf *models.Shelf) error {
	return s.db.Save(shelf).Error
}

func (s *GormShelfStore) Delete(id string) error {
	return s.db.Delete(&models.Shelf{}, "id = ?", id).Error
}

// Model applies validated placement changes to persisted shelves
type Model struct {
	store ShelfStore
}

// NewModel creates a geometry model on top of the given store
func NewModel(store ShelfStore) *Model {
	return &Model{store: store}
}

// CreateInput carries the optional fields for a new shelf. Zero values fall
// back to staggered defaults derived from the warehouse's shelf count.
type CreateInput struct {
	Name  string
	Color string
}

// Create places a new shelf with staggered default geometry
func (m *Model) Create(warehouseID string, in CreateInput) (*models.Shelf, error) {
	if warehouseID == "" {
		return nil, &models.ValidationError{Reason: "warehouseId is required"}
	}

	existing, err := m.store.ShelvesByWarehouse(warehouseID)
	if err != nil {
		return nil, err
	}

	x, y := DefaultPlacement(len(existing))
	shelf := &models.Shelf{
		WarehouseID: warehouseID,
		Name:        in.Name,
		PositionX:   x,
		PositionY:   y,
		Width:       DefaultWidth,
		Depth:       DefaultDepth,
		Color:       in.Color,
	}
	if shelf.Name == "" {
		shelf.Name = DefaultName(len(existing))
	}
	if shelf.Color == "" {
		shelf.Color = DefaultColor
	}
	if err := m.store.Create(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// Move repositions a shelf. The floor plan is a canvas, not a hard boundary,
// so no clamping against warehouse extents happens here.
func (m *Model) Move(shelfID string, x, y int) (*models.Shelf, error) {
	shelf, err := m.store.ShelfByID(shelfID)
	if err != nil {
		return nil, err
	}
	shelf.PositionX = x
	shelf.PositionY = y
	if err := m.store.Save(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// ApplyTransform commits the end state of a drag/resize/rotate gesture.
// Dimensions are clamped to the minimum footprint and rotation is
// normalized before persisting.
func (m *Model) ApplyTransform(shelfID string, t Transform) (*models.Shelf, error) {
	shelf, err := m.store.ShelfByID(shelfID)
	if err != nil {
		return nil, err
	}

	shelf.PositionX = t.X
	shelf.PositionY = t.Y
	shelf.Rotation = NormalizeRotation(t.Rotation)
	if t.Width != nil {
		shelf.Width = ClampDimension(*t.Width)
	}
	if t.Depth != nil {
		shelf.Depth = ClampDimension(*t.Depth)
	}

	if err := m.store.Save(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// RotateBy steps the shelf's rotation by delta degrees, typically ±90
func (m *Model) RotateBy(shelfID string, delta float64) (*models.Shelf, error) {
	shelf, err := m.store.ShelfByID(shelfID)
	if err != nil {
		return nil, err
	}
	shelf.Rotation = StepRotation(shelf.Rotation, delta)
	if err := m.store.Save(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}

// Rename updates display fields without touching geometry
func (m *Model) Rename(shelfID, name, color string) (*models.Shelf, error) {
	shelf, err := m.store.ShelfByID(shelfID)
	if err != nil {
		return nil, err
	}
	if name != "" {
		shelf.Name = name
	}
	if color != "" {
		shelf.Color = color
	}
	if err := m.store.Save(shelf); err != nil {
		return nil, err
	}
	return shelf, nil
}
