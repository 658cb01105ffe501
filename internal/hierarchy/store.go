package hierarchy

import (
	"errors"

	"github.com/shelfmap/shelfmapgo/internal/models"
	"gorm.io/gorm"
)

// ItemStore is the persistence boundary of the hierarchy engine.
type ItemStore interface {
	// ItemByID returns the item or a models.NotFoundError.
	ItemByID(id string) (*models.Item, error)
	// ItemsByShelf returns every item of a shelf, order unspecified.
	ItemsByShelf(shelfID string) ([]models.Item, error)
	Create(item *models.Item) error
	Save(item *models.Item) error
	Delete(id string) error
	// InTransaction runs fn against a store whose writes commit atomically.
	InTransaction(fn func(ItemStore) error) error
}

// GormStore implements ItemStore on a GORM connection
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates an item store backed by db
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) ItemByID(id string) (*models.Item, error) {
	var item models.Item
	if err := s.db.First(&item, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &models.NotFoundError{Resource: "item"}
		}
		return nil, err
	}
	return &item, nil
}

func (s *GormStore) ItemsByShelf(shelfID string) ([]models.Item, error) {
	var items []models.Item
	if err := s.db.Where("shelf_id = ?", shelfID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *GormStore) Create(item *models.Item) error {
	return s.db.Create(item).Error
}

func (s *GormStore) Save(item *models.Item) error {
	return s.db.Save(item).Error
}

func (s *GormStore) Delete(id string) error {
	return s.db.Delete(&models.Item{}, "id = ?", id).Error
}

func (s *GormStore) InTransaction(fn func(ItemStore) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewGormStore(tx))
	})
}
