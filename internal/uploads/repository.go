package uploads

import (
	"errors"

	"gorm.io/gorm"
)

var ErrUploadNotFound = errors.New("upload not found")

type Repository interface {
	CreateUpload(upload *Upload) error
	GetUpload(userID, id uint) (*Upload, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateUpload(upload *Upload) error {
	return r.db.Create(upload).Error
}

func (r *repository) GetUpload(userID, id uint) (*Upload, error) {
	var upload Upload
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUploadNotFound
		}
		return nil, err
	}
	return &upload, nil
}
