package buyer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// --- Mocks ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) FindByUserID(ctx context.Context, userID string) (*Buyer, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Buyer), args.Error(1)
}

func (m *MockRepository) Create(ctx context.Context, b *Buyer) error {
	args := m.Called(ctx, b)
	if args.Error(0) == nil {
		b.ID = 42
	}
	return args.Error(0)
}

func TestService_ResolveOrCreate(t *testing.T) {
	ctx := context.Background()
	info := BuyerInfo{
		UserID:   "2088101117955611",
		LoginID:  "buyer@x",
		Name:     "buyer@x",
		UserType: "PRIVATE",
	}

	t.Run("ReturnsExistingUnchanged", func(t *testing.T) {
		repo := new(MockRepository)
		existing := &Buyer{ID: 7, Name: "old name", UserID: info.UserID}
		repo.On("FindByUserID", ctx, info.UserID).Return(existing, nil)

		svc := NewService(repo)
		b, err := svc.ResolveOrCreate(ctx, info)

		assert.NoError(t, err)
		assert.Same(t, existing, b)
		assert.Equal(t, "old name", b.Name)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("CreatesWhenMissing", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", ctx, info.UserID).Return(nil, ErrBuyerNotFound)
		repo.On("Create", ctx, mock.AnythingOfType("*buyer.Buyer")).Return(nil)

		svc := NewService(repo)
		b, err := svc.ResolveOrCreate(ctx, info)

		assert.NoError(t, err)
		assert.Equal(t, uint(42), b.ID)
		assert.Equal(t, info.LoginID, b.LoginID)
		assert.Equal(t, info.UserType, b.UserType)
	})

	t.Run("IdempotentAcrossCalls", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", ctx, info.UserID).Return(nil, ErrBuyerNotFound).Once()
		repo.On("Create", ctx, mock.AnythingOfType("*buyer.Buyer")).Return(nil).Once()

		svc := NewService(repo)
		first, err := svc.ResolveOrCreate(ctx, info)
		assert.NoError(t, err)

		repo.On("FindByUserID", ctx, info.UserID).Return(first, nil).Once()
		second, err := svc.ResolveOrCreate(ctx, info)
		assert.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		repo.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("MissingUserID", func(t *testing.T) {
		repo := new(MockRepository)
		svc := NewService(repo)

		_, err := svc.ResolveOrCreate(ctx, BuyerInfo{LoginID: "buyer@x"})
		assert.ErrorIs(t, err, ErrMissingUserID)
		repo.AssertNotCalled(t, "FindByUserID", mock.Anything, mock.Anything)
	})

	t.Run("LookupError", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("FindByUserID", ctx, info.UserID).Return(nil, errors.New("db down"))

		svc := NewService(repo)
		_, err := svc.ResolveOrCreate(ctx, info)
		assert.Error(t, err)
	})
}
