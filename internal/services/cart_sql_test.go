package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"cart-discount-service/internal/database"
	"cart-discount-service/internal/models"
	"cart-discount-service/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// openSharedSQLite opens one more handle on the database file, the way a
// second service instance would
func openSharedSQLite(t *testing.T, path string) *database.DB {
	t.Helper()

	db, err := database.NewConnection(database.Config{Driver: database.DriverSQLite, Path: path})
	if err != nil {
		t.Skipf("Failed to open sqlite database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Two instances with their own in-process lockers share one database.
// Only the database row lock keeps them from granting the same discount twice.
func TestCartService_ApplyDiscount_AcrossInstances(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "carts.sqlite")

	first := openSharedSQLite(t, path)
	require.NoError(t, first.RunMigrations(ctx))
	second := openSharedSQLite(t, path)

	seedStore := repositories.NewSQLStore(first.DB, first.Driver)
	require.NoError(t, seedStore.Ledgers().Carts.CreateCart(ctx, testCartID))
	area := 1
	for i := 0; i < 4; i++ {
		_, err := seedStore.Ledgers().Tickets.InsertTicket(ctx, &models.Ticket{
			CartID: testCartID, EventID: 2, Type: models.TicketAdult, Price: 20, GAAreaID: &area,
		})
		require.NoError(t, err)
	}

	publisher := &MockPublisher{}
	publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
	instances := []*CartService{
		NewCartService(repositories.NewSQLStore(first.DB, first.Driver), NewMemoryLocker(), publisher, DefaultCatalog(), zap.NewNop()),
		NewCartService(repositories.NewSQLStore(second.DB, second.Driver), NewMemoryLocker(), publisher, DefaultCatalog(), zap.NewNop()),
	}

	const attempts = 20
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(service *CartService) {
			defer wg.Done()
			_, err := service.ApplyDiscount(ctx, testCartID, models.DiscountProposal{EventID: 2, Type: models.DiscountGroup})
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, models.ErrInvalidDiscount)
		}(instances[i%len(instances)])
	}
	wg.Wait()

	assert.Equal(t, 1, accepted)
	groups, err := seedStore.Ledgers().Discounts.DiscountsByCartEventType(ctx, testCartID, 2, models.DiscountGroup)
	require.NoError(t, err)
	assert.Len(t, groups, 1)
}

func TestCartService_ApplyDiscount_UnknownCartSQL(t *testing.T) {
	ctx := context.Background()
	db := openSharedSQLite(t, filepath.Join(t.TempDir(), "carts.sqlite"))
	require.NoError(t, db.RunMigrations(ctx))

	service := NewCartService(repositories.NewSQLStore(db.DB, db.Driver), NewMemoryLocker(), &MockPublisher{}, DefaultCatalog(), zap.NewNop())
	_, err := service.ApplyDiscount(ctx, 999, models.DiscountProposal{EventID: 2, Type: models.DiscountGroup})

	assert.ErrorIs(t, err, models.ErrCartNotFound)
}
