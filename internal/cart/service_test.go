package cart

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/grocerly/storefront-api/internal/testdb"
	"github.com/grocerly/storefront-api/pkg/db/models"
	pkgerrors "github.com/grocerly/storefront-api/pkg/errors"
)

func newTestService(t *testing.T) (Service, *gorm.DB) {
	t.Helper()
	conn := testdb.Open(t)
	svc, err := NewService(NewRepository(conn))
	require.NoError(t, err)
	return svc, conn
}

func seedProduct(t *testing.T, conn *gorm.DB, name string, price string) models.Product {
	t.Helper()
	product := models.Product{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: 50,
		SellerID: uuid.New(),
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func countLines(t *testing.T, conn *gorm.DB, userID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestAddTwiceSumsQuantityOnOneLine(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	product := seedProduct(t, conn, "Apples", "1.25")

	created, err := svc.Add(ctx, user, product.ID, 2)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Add(ctx, user, product.ID, 3)
	require.NoError(t, err)
	assert.False(t, created)

	lines, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 5, lines[0].Quantity)
	assert.Equal(t, "Apples", lines[0].Name)
	assert.True(t, decimal.RequireFromString("6.25").Equal(lines[0].LineTotal))
	assert.Equal(t, int64(1), countLines(t, conn, user))
}

func TestConcurrentAddsDoNotLoseUpdates(t *testing.T) {
	svc, conn := newTestService(t)
	user := uuid.New()
	product := seedProduct(t, conn, "Rice", "3.00")

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(context.Background(), user, product.ID, 1)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	lines, err := svc.List(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 10, lines[0].Quantity)
}

func TestAddValidation(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	product := seedProduct(t, conn, "Milk", "2.00")

	_, err := svc.Add(ctx, uuid.New(), product.ID, 0)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = svc.Add(ctx, uuid.New(), uuid.New(), 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "unknown product")

	_, err = svc.Add(ctx, uuid.New(), uuid.Nil, 1)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestUpdate(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	product := seedProduct(t, conn, "Bread", "4.00")

	assert.True(t, pkgerrors.IsCode(svc.Update(ctx, user, product.ID, 3), pkgerrors.CodeNotFound))

	_, err := svc.Add(ctx, user, product.ID, 1)
	require.NoError(t, err)

	for _, qty := range []int{0, -2} {
		err := svc.Update(ctx, user, product.ID, qty)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), "qty %d", qty)
	}

	require.NoError(t, svc.Update(ctx, user, product.ID, 7))
	lines, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, 7, lines[0].Quantity)
}

func TestRemoveAndClearAreIdempotent(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user, other := uuid.New(), uuid.New()
	a := seedProduct(t, conn, "A", "1.00")
	b := seedProduct(t, conn, "B", "1.00")

	for _, id := range []uuid.UUID{a.ID, b.ID} {
		_, err := svc.Add(ctx, user, id, 1)
		require.NoError(t, err)
	}
	_, err := svc.Add(ctx, other, a.ID, 1)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, user, a.ID))
	require.NoError(t, svc.Remove(ctx, user, a.ID))
	assert.Equal(t, int64(1), countLines(t, conn, user))

	require.NoError(t, svc.Clear(ctx, user))
	require.NoError(t, svc.Clear(ctx, user))
	assert.Zero(t, countLines(t, conn, user))
	assert.Equal(t, int64(1), countLines(t, conn, other), "other carts untouched")
}

func TestListSkipsDeletedProducts(t *testing.T) {
	svc, conn := newTestService(t)
	ctx := context.Background()
	user := uuid.New()
	keep := seedProduct(t, conn, "Keep", "1.00")
	gone := seedProduct(t, conn, "Gone", "1.00")

	for _, id := range []uuid.UUID{keep.ID, gone.ID} {
		_, err := svc.Add(ctx, user, id, 1)
		require.NoError(t, err)
	}
	require.NoError(t, conn.Where("id = ?", gone.ID).Delete(&models.Product{}).Error)

	lines, err := svc.List(ctx, user)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, keep.ID, lines[0].ProductID)
}
