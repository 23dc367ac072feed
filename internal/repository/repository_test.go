package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/garyjia/trip-expense/internal/domain/entity"
	"github.com/garyjia/trip-expense/pkg/database"
)

func testDB(t *testing.T) *database.DB {
	t.Helper()

	logger := zap.NewNop()
	db, err := database.New(database.Config{
		Path:            filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns:    2,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Minute,
	}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := database.NewMigrator(db, logger)
	require.NoError(t, migrator.RunMigrations("../../migrations"))

	return db
}

func TestTripRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewTripRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	trip := &entity.TripRecord{
		ID:           "trip-1",
		TripNumber:   "T-2025-001",
		Title:        "Beijing client visit",
		EmployeeID:   "emp-1",
		EmployeeName: "Zhang Wei",
		Currency:     "CNY",
		StartDate:    time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC),
		Status:       "completed",
		Outbound: &entity.RouteLeg{
			Departure:   entity.Location{Name: "Shanghai"},
			Destination: entity.Location{Name: "Beijing"},
		},
		OutboundBudget: entity.BudgetMap{"meals": entity.NumberAllocation(150)},
		MultiCityBudgets: []entity.BudgetMap{
			{"hotel": entity.StructuredAllocationValue(entity.StructuredAllocation{Subtotal: "480"})},
		},
	}
	require.NoError(t, repo.Create(ctx, trip))

	got, err := repo.GetByID(ctx, "trip-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, "Beijing client visit", got.Title)
	require.NotNil(t, got.Outbound)
	assert.Equal(t, "Shanghai", got.Outbound.Departure.Name)
	assert.Nil(t, got.Inbound)

	amount, ok := got.OutboundBudget["meals"].PositiveAmount()
	assert.True(t, ok)
	assert.Equal(t, 150.0, amount)

	require.Len(t, got.MultiCityBudgets, 1)
	amount, ok = got.MultiCityBudgets[0]["hotel"].PositiveAmount()
	assert.True(t, ok)
	assert.Equal(t, 480.0, amount)

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)

	completed, err := repo.ListCompleted(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}

func TestLineItemRepository(t *testing.T) {
	db := testDB(t)
	repo := NewLineItemRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &entity.LineItem{
		ID: "meals", Name: "Meals", Category: entity.CategoryMeals, Active: true,
	}))
	require.NoError(t, repo.Create(ctx, &entity.LineItem{
		ID: "old", Name: "Retired", Category: entity.CategoryOther, Active: false,
	}))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1, "inactive items are excluded")
	assert.Equal(t, "meals", items[0].ID)
	assert.Equal(t, entity.CategoryMeals, items[0].Category)

	item, err := repo.GetByID(ctx, "old")
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.False(t, item.Active)
}

func TestReceiptRepositoryLinkCycle(t *testing.T) {
	db := testDB(t)
	repo := NewReceiptRepository(db.DB, zap.NewNop())
	ctx := context.Background()

	inWindow := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
	outOfWindow := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entity.Receipt{
		ID: "r-1", EmployeeID: "emp-1", Category: "meals", Date: inWindow, Amount: 40, Currency: "CNY",
		Vendor: entity.Vendor{Name: "Canteen"},
	}))
	require.NoError(t, repo.Create(ctx, &entity.Receipt{
		ID: "r-2", EmployeeID: "emp-1", Category: "transportation", Date: inWindow, Amount: 120, Currency: "CNY",
		Traveler: &entity.Traveler{
			Name:        "Zhang Wei",
			Departure:   entity.Location{Name: "Shanghai"},
			Destination: entity.Location{Name: "Beijing"},
		},
	}))
	require.NoError(t, repo.Create(ctx, &entity.Receipt{
		ID: "r-3", EmployeeID: "emp-1", Category: "meals", Date: outOfWindow, Amount: 15, Currency: "CNY",
	}))

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC)

	available, err := repo.FindAvailable(ctx, "emp-1", start, end)
	require.NoError(t, err)
	require.Len(t, available, 2, "out-of-window receipts are excluded")

	require.NotNil(t, available[1].Traveler)
	assert.Equal(t, "Zhang Wei", available[1].Traveler.Name)

	// Linking removes a receipt from the available pool.
	require.NoError(t, repo.Link(ctx, "r-1", "claim-1", "meals"))
	available, err = repo.FindAvailable(ctx, "emp-1", start, end)
	require.NoError(t, err)
	assert.Len(t, available, 1)

	byIDs, err := repo.GetByIDs(ctx, []string{"r-2", "r-1"})
	require.NoError(t, err)
	require.Len(t, byIDs, 2)
	assert.Equal(t, "r-2", byIDs[0].ID, "caller order is preserved")
	assert.True(t, byIDs[1].Linked())

	require.NoError(t, repo.Unlink(ctx, "r-1"))
	available, err = repo.FindAvailable(ctx, "emp-1", start, end)
	require.NoError(t, err)
	assert.Len(t, available, 2)
}

func TestClaimRepositoryRoundTrip(t *testing.T) {
	db := testDB(t)
	repo := NewClaimRepository(db, zap.NewNop())
	ctx := context.Background()

	c := &entity.Claim{
		ID:         "claim-1",
		TripID:     "trip-1",
		EmployeeID: "emp-1",
		Title:      "Beijing client visit expense claim",
		Amount:     160,
		Currency:   "CNY",
		Status:     entity.ClaimStatusSubmitted,
		Lines: []entity.ClaimLine{
			{LineItemID: "meals", ReceiptIDs: []string{"r-1"}, Amount: 40, Currency: "CNY", Category: entity.CategoryMeals},
			{LineItemID: "transport", ReceiptIDs: []string{"r-2"}, Amount: 120, Currency: "CNY", Category: entity.CategoryTransportation},
		},
	}
	require.NoError(t, repo.Create(ctx, c))

	got, err := repo.GetByID(ctx, "claim-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, 160.0, got.Amount)
	assert.Equal(t, entity.ClaimStatusSubmitted, got.Status)
	require.Len(t, got.Lines, 2)
	assert.Equal(t, []string{"r-1"}, got.Lines[0].ReceiptIDs)
	assert.Equal(t, entity.CategoryTransportation, got.Lines[1].Category)
	assert.False(t, got.SubmittedAt.IsZero())

	missing, err := repo.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
