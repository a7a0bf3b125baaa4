package pantry

import "time"

type Item struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    uint    `gorm:"index;not null"`
	Name      string  `gorm:"not null"`
	Quantity  float64 `gorm:"not null;default:1"`
	CreatedAt time.Time
}

func (Item) TableName() string {
	return "pantry_items"
}
