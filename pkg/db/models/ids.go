package models

import "github.com/google/uuid"

// assignID fills a zero primary key. IDs are generated in the application so
// both postgres and sqlite behave the same.
func assignID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// All lists every model in dependency order for AutoMigrate.
func All() []any {
	return []any{
		&User{},
		&Product{},
		&Supermarket{},
		&PriceEntry{},
		&ShoppingList{},
		&ShoppingListItem{},
	}
}
