package uploads

import "time"

type Upload struct {
	ID              uint   `gorm:"primaryKey"`
	UserID          uint   `gorm:"index;not null"`
	ImageBase64     string `gorm:"not null"`
	IngredientsJSON string `gorm:"not null"`
	CreatedAt       time.Time
}

func (Upload) TableName() string {
	return "uploads"
}
