package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const DefaultListName = "Minha Lista"

// ShoppingList is owned by exactly one user. Its items are removed by the
// database when the list is deleted.
type ShoppingList struct {
	ID        uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Name      string             `gorm:"column:name;not null;default:'Minha Lista'"`
	UserID    uuid.UUID          `gorm:"column:user_id;type:uuid;not null;index"`
	User      *User              `gorm:"foreignKey:UserID"`
	Items     []ShoppingListItem `gorm:"foreignKey:ShoppingListID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}

func (l *ShoppingList) BeforeCreate(*gorm.DB) error {
	assignID(&l.ID)
	if l.Name == "" {
		l.Name = DefaultListName
	}
	return nil
}

type ShoppingListItem struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;primaryKey"`
	ShoppingListID uuid.UUID `gorm:"column:shopping_list_id;type:uuid;not null;index"`
	ProductID      uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Product        *Product  `gorm:"foreignKey:ProductID"`
	Quantity       int       `gorm:"column:quantity;not null;default:1"`
	Checked        bool      `gorm:"column:checked;not null;default:false"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (i *ShoppingListItem) BeforeCreate(*gorm.DB) error {
	assignID(&i.ID)
	if i.Quantity < 1 {
		i.Quantity = 1
	}
	return nil
}
