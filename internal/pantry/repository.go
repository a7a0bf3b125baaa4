package pantry

import "gorm.io/gorm"

type Repository interface {
	ListItems(userID uint) ([]Item, error)
	CreateItem(item *Item) error
	DeleteItemByID(userID, id uint) (int64, error)
	DeleteItemByName(userID uint, name string) (int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListItems(userID uint) ([]Item, error) {
	var items []Item
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&items).Error
	return items, err
}

func (r *repository) CreateItem(item *Item) error {
	return r.db.Create(item).Error
}

func (r *repository) DeleteItemByID(userID, id uint) (int64, error) {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&Item{})
	return result.RowsAffected, result.Error
}

func (r *repository) DeleteItemByName(userID uint, name string) (int64, error) {
	result := r.db.Where("name = ? AND user_id = ?", name, userID).Delete(&Item{})
	return result.RowsAffected, result.Error
}
