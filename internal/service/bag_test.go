package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/angkushsahu/pacifio-server/internal/domain"
	apperrors "github.com/angkushsahu/pacifio-server/pkg/errors"
)

func newTestBagService() (*BagService, *mockBagRepository, *mockProductRepository) {
	bags := new(mockBagRepository)
	products := new(mockProductRepository)
	svc := NewBagService(bags, products, newTestLogger())
	return svc, bags, products
}

func TestGetBag_CreatesEmptyBagLazily(t *testing.T) {
	svc, bags, _ := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(nil, apperrors.NotFound("shopping-bag", "user-123"))
	bags.On("Save", ctx, mock.MatchedBy(func(bag *domain.Bag) bool {
		return bag.UserID == "user-123" && len(bag.Items) == 0 && bag.ID != ""
	})).Return(nil)

	view, err := svc.GetBag(ctx, "user-123")

	require.NoError(t, err)
	assert.Equal(t, "user-123", view.UserID)
	assert.Empty(t, view.Items)
	assert.Equal(t, int64(0), view.TotalPrice)
	assert.Equal(t, 0, view.TotalProducts)

	bags.AssertExpectations(t)
}

func TestAddItem_NewEntry(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	product := &domain.Product{
		ID:       "prod-1",
		Name:     "Mechanical Keyboard",
		Price:    100,
		Stock:    10,
		Category: domain.CategoryKeyboard,
	}

	products.On("GetByID", ctx, "prod-1").Return(product, nil)
	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items:  []domain.BagItem{},
	}, nil)
	bags.On("Save", ctx, mock.MatchedBy(func(bag *domain.Bag) bool {
		return len(bag.Items) == 1 && bag.Items[0].Quantity == 3
	})).Return(nil)
	products.On("GetByIDs", ctx, []string{"prod-1"}).Return([]domain.Product{*product}, nil)

	view, err := svc.AddItem(ctx, "user-123", "prod-1", 3)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3, view.Items[0].Quantity)
	assert.Equal(t, int64(300), view.Items[0].ItemPrice)
	assert.Equal(t, int64(300), view.TotalPrice)
	assert.Equal(t, 1, view.TotalProducts)

	bags.AssertExpectations(t)
}

func TestAddItem_ReplacesQuantity(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	product := &domain.Product{ID: "prod-1", Name: "Mouse", Price: 50, Stock: 10, Category: domain.CategoryMouse}

	products.On("GetByID", ctx, "prod-1").Return(product, nil)
	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items:  []domain.BagItem{{ProductID: "prod-1", Quantity: 2}},
	}, nil)
	// Re-adding replaces the quantity rather than accumulating.
	bags.On("Save", ctx, mock.MatchedBy(func(bag *domain.Bag) bool {
		return len(bag.Items) == 1 && bag.Items[0].Quantity == 5
	})).Return(nil)
	products.On("GetByIDs", ctx, []string{"prod-1"}).Return([]domain.Product{*product}, nil)

	view, err := svc.AddItem(ctx, "user-123", "prod-1", 5)

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 5, view.Items[0].Quantity)

	bags.AssertExpectations(t)
}

func TestAddItem_ZeroQuantity(t *testing.T) {
	svc, _, products := newTestBagService()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, "user-123", "prod-1", 0)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	products.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestAddItem_ProductNotFound(t *testing.T) {
	svc, _, products := newTestBagService()
	ctx := context.Background()

	products.On("GetByID", ctx, "missing").Return(nil, apperrors.NotFound("product", "missing"))

	view, err := svc.AddItem(ctx, "user-123", "missing", 1)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestAddItem_ExceedsStock(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	products.On("GetByID", ctx, "prod-1").Return(&domain.Product{
		ID:    "prod-1",
		Price: 100,
		Stock: 2,
	}, nil)

	view, err := svc.AddItem(ctx, "user-123", "prod-1", 3)

	assert.Nil(t, view)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	bags.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRemoveItem_Success(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items: []domain.BagItem{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "prod-2", Quantity: 1},
		},
	}, nil)
	bags.On("Save", ctx, mock.MatchedBy(func(bag *domain.Bag) bool {
		return len(bag.Items) == 1 && bag.Items[0].ProductID == "prod-2"
	})).Return(nil)
	products.On("GetByIDs", ctx, []string{"prod-2"}).Return([]domain.Product{
		{ID: "prod-2", Price: 50},
	}, nil)

	view, err := svc.RemoveItem(ctx, "user-123", "prod-1")

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "prod-2", view.Items[0].Product.ID)

	bags.AssertExpectations(t)
}

func TestRemoveItem_NotInBagIsIdempotent(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items:  []domain.BagItem{{ProductID: "prod-1", Quantity: 2}},
	}, nil)
	products.On("GetByIDs", ctx, []string{"prod-1"}).Return([]domain.Product{
		{ID: "prod-1", Price: 100},
	}, nil)

	view, err := svc.RemoveItem(ctx, "user-123", "not-in-bag")

	require.NoError(t, err)
	assert.Len(t, view.Items, 1)

	// The unchanged bag is not rewritten.
	bags.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestRemoveItem_NoBag(t *testing.T) {
	svc, bags, _ := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(nil, apperrors.NotFound("shopping-bag", "user-123"))

	view, err := svc.RemoveItem(ctx, "user-123", "prod-1")

	assert.Nil(t, view)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGetBag_DeletedProductDropped(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items: []domain.BagItem{
			{ProductID: "prod-1", Quantity: 2},
			{ProductID: "gone", Quantity: 4},
		},
	}, nil)
	// "gone" no longer exists in the catalog.
	products.On("GetByIDs", ctx, []string{"prod-1", "gone"}).Return([]domain.Product{
		{ID: "prod-1", Price: 100, Stock: 10},
	}, nil)

	view, err := svc.GetBag(ctx, "user-123")

	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, "prod-1", view.Items[0].Product.ID)
	assert.Equal(t, int64(200), view.TotalPrice)
	assert.Equal(t, 1, view.TotalProducts)
}

func TestGetBag_TotalProductsCountsEntries(t *testing.T) {
	svc, bags, products := newTestBagService()
	ctx := context.Background()

	bags.On("Get", ctx, "user-123").Return(&domain.Bag{
		ID:     "bag-1",
		UserID: "user-123",
		Items: []domain.BagItem{
			{ProductID: "prod-1", Quantity: 3},
			{ProductID: "prod-2", Quantity: 2},
		},
	}, nil)
	products.On("GetByIDs", ctx, []string{"prod-1", "prod-2"}).Return([]domain.Product{
		{ID: "prod-1", Price: 100, Stock: 10},
		{ID: "prod-2", Price: 50, Stock: 10},
	}, nil)

	view, err := svc.GetBag(ctx, "user-123")

	require.NoError(t, err)
	// Two entries, five units: totalProducts counts entries.
	assert.Equal(t, 2, view.TotalProducts)
	assert.Equal(t, int64(400), view.TotalPrice)
}

func TestClear_Success(t *testing.T) {
	svc, bags, _ := newTestBagService()
	ctx := context.Background()

	bags.On("Delete", ctx, "user-123").Return(nil)

	err := svc.Clear(ctx, "user-123")

	require.NoError(t, err)
	bags.AssertExpectations(t)
}
