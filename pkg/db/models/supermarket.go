package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Supermarket struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null;index"`
	Address   *string   `gorm:"column:address"`
	Latitude  *float64  `gorm:"column:latitude"`
	Longitude *float64  `gorm:"column:longitude"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (s *Supermarket) BeforeCreate(*gorm.DB) error {
	assignID(&s.ID)
	return nil
}
