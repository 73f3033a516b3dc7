package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceEntry is an immutable observation of a product's price at a
// supermarket, contributed by a user.
type PriceEntry struct {
	ID            uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Date          time.Time       `gorm:"column:date;not null;index"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"column:product_id;type:uuid;not null;index"`
	SupermarketID uuid.UUID       `gorm:"column:supermarket_id;type:uuid;not null;index"`
	User          *User           `gorm:"foreignKey:UserID"`
	Product       *Product        `gorm:"foreignKey:ProductID"`
	Supermarket   *Supermarket    `gorm:"foreignKey:SupermarketID"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (p *PriceEntry) BeforeCreate(*gorm.DB) error {
	assignID(&p.ID)
	if p.Date.IsZero() {
		p.Date = time.Now().UTC()
	}
	return nil
}
