package prices

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/guiamercado/guiamercado-backend/internal/products"
	"github.com/guiamercado/guiamercado-backend/internal/supermarkets"
	"github.com/guiamercado/guiamercado-backend/pkg/db/dbtest"
	"github.com/guiamercado/guiamercado-backend/pkg/db/models"
	pkgerrors "github.com/guiamercado/guiamercado-backend/pkg/errors"
	"github.com/guiamercado/guiamercado-backend/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	svc         Service
	db          *gorm.DB
	user        *models.User
	product     *models.Product
	supermarket *models.Supermarket
	recorded    int
}

func (f *fixture) PriceRecorded() { f.recorded++ }

func newFixture(t *testing.T, limits pagination.Limits) *fixture {
	t.Helper()
	conn := dbtest.Open(t)
	fx := &fixture{db: conn}

	fx.user = &models.User{Name: "Ana", Email: "ana@example.com", PasswordHash: "hash"}
	require.NoError(t, conn.Create(fx.user).Error)
	fx.product = &models.Product{Name: "Arroz"}
	require.NoError(t, conn.Create(fx.product).Error)
	fx.supermarket = &models.Supermarket{Name: "Mercado A"}
	require.NoError(t, conn.Create(fx.supermarket).Error)

	svc, err := NewService(ServiceParams{
		Repo:         NewRepository(conn),
		Products:     products.NewRepository(conn),
		Supermarkets: supermarkets.NewRepository(conn),
		Limits:       limits,
		Metrics:      fx,
	})
	require.NoError(t, err)
	fx.svc = svc
	return fx
}

func TestRecordedPriceIsListedWithNestedData(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, pagination.Limits{Default: pagination.DefaultLimit, Max: pagination.MaxLimit})

	created, err := fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
		SupermarketID: fx.supermarket.ID,
		ProductID:     fx.product.ID,
		Price:         decimal.RequireFromString("19.90"),
	})
	require.NoError(t, err)
	assert.Equal(t, 19.90, created.Price)
	assert.Equal(t, 1, fx.recorded)

	page, err := fx.svc.List(ctx, ListInput{})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	entry := page.Items[0]
	assert.Equal(t, 19.90, entry.Price)
	require.NotNil(t, entry.Product)
	assert.Equal(t, "Arroz", entry.Product.Name)
	require.NotNil(t, entry.Supermarket)
	assert.Equal(t, "Mercado A", entry.Supermarket.Name)
	require.NotNil(t, entry.User)
	assert.Equal(t, "Ana", entry.User.Name)
	assert.Empty(t, page.NextCursor)
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, pagination.Limits{Default: pagination.DefaultLimit, Max: pagination.MaxLimit})

	_, err := fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
		SupermarketID: fx.supermarket.ID, ProductID: fx.product.ID, Price: decimal.Zero,
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
		SupermarketID: fx.supermarket.ID, ProductID: fx.product.ID, Price: decimal.NewFromInt(-3),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{ProductID: fx.product.ID, Price: decimal.NewFromInt(3)})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
		SupermarketID: fx.supermarket.ID, ProductID: uuid.New(), Price: decimal.NewFromInt(3),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
		SupermarketID: uuid.New(), ProductID: fx.product.ID, Price: decimal.NewFromInt(3),
	})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
	assert.Zero(t, fx.recorded)
}

func TestListNewestFirstWithCursor(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, pagination.Limits{Default: 2, Max: 10})

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		date := base.Add(time.Duration(i) * time.Hour)
		_, err := fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
			SupermarketID: fx.supermarket.ID,
			ProductID:     fx.product.ID,
			Price:         decimal.NewFromInt(int64(10 + i)),
			Date:          &date,
		})
		require.NoError(t, err)
	}

	var seen []float64
	cursor := ""
	for {
		page, err := fx.svc.List(ctx, ListInput{Pagination: pagination.Params{Cursor: cursor}})
		require.NoError(t, err)
		for _, item := range page.Items {
			seen = append(seen, item.Price)
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}
	assert.Equal(t, []float64{14, 13, 12, 11, 10}, seen)
}

func TestListFiltersByProduct(t *testing.T) {
	ctx := context.Background()
	fx := newFixture(t, pagination.Limits{Default: pagination.DefaultLimit, Max: pagination.MaxLimit})

	other := &models.Product{Name: "Feijão"}
	require.NoError(t, fx.db.Create(other).Error)
	for _, pid := range []uuid.UUID{fx.product.ID, other.ID} {
		_, err := fx.svc.Create(ctx, fx.user.ID, CreatePriceRequest{
			SupermarketID: fx.supermarket.ID, ProductID: pid, Price: decimal.NewFromInt(5),
		})
		require.NoError(t, err)
	}

	page, err := fx.svc.List(ctx, ListInput{ProductID: &other.ID})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Feijão", page.Items[0].Product.Name)
}

func TestListRejectsBadCursor(t *testing.T) {
	fx := newFixture(t, pagination.Limits{Default: pagination.DefaultLimit, Max: pagination.MaxLimit})
	_, err := fx.svc.List(context.Background(), ListInput{Pagination: pagination.Params{Cursor: "!!"}})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
