package lists

import (
	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
)

// RecentListCount is how many of the newest lists feed the suggestions.
const RecentListCount = 5

// DistinctProducts walks lists in the given order and their items in order,
// returning each product the first time it is seen.
func DistinctProducts(lists []models.ShoppingList) []products.ProductDTO {
	seen := make(map[uuid.UUID]struct{})
	out := make([]products.ProductDTO, 0)
	for _, list := range lists {
		for _, item := range list.Items {
			if item.Product == nil {
				continue
			}
			if _, dup := seen[item.ProductID]; dup {
				continue
			}
			seen[item.ProductID] = struct{}{}
			out = append(out, *products.FromModel(item.Product))
		}
	}
	return out
}
