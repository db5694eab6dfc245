package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

func validRecord(location string) models.StockRecord {
	return models.StockRecord{
		Product:      " Etanol ",
		Manufacturer: "Química X",
		Batch:        "L1",
		Quantity:     dec("10.5"),
		Unit:         "L",
		MinimumStock: dec("2"),
		Location:     location,
		Status:       models.StatusAvailable,
	}
}

func TestCreateStockValidatesAndLogs(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "Armário 2")
	svc := newTestService(t, store)

	created, err := svc.CreateStock(context.Background(), validRecord("Lab A - Armário 2"))
	require.NoError(t, err)

	assert.Equal(t, "prod_000001", created.ID)
	assert.Equal(t, "Etanol", created.Product)
	assert.Equal(t, lab.ID, created.Location)
	assert.Equal(t, 1, created.PackagingNumber)
	assert.Equal(t, []string{models.ActionAddProduct}, logActions(t, store))

	entries, _ := store.ListLogs(context.Background())
	assert.Equal(t, "log_test_1", entries[0].ID)
	assert.Equal(t, "Etanol (Lote: L1)", entries[0].Details)
	assert.Equal(t, testNow, entries[0].Timestamp)
}

func TestCreateStockZeroQuantityIsUnavailable(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	svc := newTestService(t, store)

	rec := validRecord(lab.ID)
	rec.Quantity = dec("0")
	created, err := svc.CreateStock(context.Background(), rec)
	require.NoError(t, err)
	assert.Equal(t, models.StatusUnavailable, created.Status)
}

func TestCreateStockValidation(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	svc := newTestService(t, store)

	cases := map[string]func(r *models.StockRecord){
		"missing product":      func(r *models.StockRecord) { r.Product = "  " },
		"missing batch":        func(r *models.StockRecord) { r.Batch = "" },
		"missing unit":         func(r *models.StockRecord) { r.Unit = "" },
		"missing status":       func(r *models.StockRecord) { r.Status = "" },
		"unknown status":       func(r *models.StockRecord) { r.Status = "esgotado" },
		"negative quantity":    func(r *models.StockRecord) { r.Quantity = dec("-1") },
		"negative minimum":     func(r *models.StockRecord) { r.MinimumStock = dec("-0.5") },
		"negative packages":    func(r *models.StockRecord) { r.PackagingNumber = -2 },
		"unknown location":     func(r *models.StockRecord) { r.Location = "local_404" },
		"missing location ref": func(r *models.StockRecord) { r.Location = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := validRecord(lab.ID)
			mutate(&rec)
			_, err := svc.CreateStock(context.Background(), rec)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}

	all, _ := store.ListStock(context.Background())
	assert.Empty(t, all)
	assert.Empty(t, logActions(t, store))
}

func TestUpdateAndDeleteStock(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	existing := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("3"), PackagingNumber: 1, Location: lab.ID})
	svc := newTestService(t, store)
	ctx := context.Background()

	rec := validRecord(lab.ID)
	rec.Batch = "L2"
	updated, err := svc.UpdateStock(ctx, existing.ID, rec)
	require.NoError(t, err)
	assert.Equal(t, existing.ID, updated.ID)
	assert.Equal(t, "L2", updated.Batch)

	_, err = svc.UpdateStock(ctx, "prod_404040", rec)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, svc.DeleteStock(ctx, existing.ID))
	assert.ErrorIs(t, svc.DeleteStock(ctx, existing.ID), models.ErrNotFound)

	assert.Equal(t, []string{models.ActionEditProduct, models.ActionDeleteProduct}, logActions(t, store))
}

func TestUse(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	rec := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("10"), PackagingNumber: 1, Location: lab.ID})
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Use(ctx, rec.ID, dec("0"))
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.Use(ctx, rec.ID, dec("10.01"))
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
	unchanged, _ := store.GetStock(ctx, rec.ID)
	assert.True(t, dec("10").Equal(unchanged.Quantity))

	used, err := svc.Use(ctx, rec.ID, dec("2.5"))
	require.NoError(t, err)
	assert.True(t, dec("7.5").Equal(used.Quantity))
	assert.Equal(t, models.StatusAvailable, used.Status)

	used, err = svc.Use(ctx, rec.ID, dec("7.5"))
	require.NoError(t, err)
	assert.True(t, used.Quantity.IsZero())
	assert.Equal(t, models.StatusUnavailable, used.Status)

	entries, _ := store.ListLogs(ctx)
	require.Len(t, entries, 2)
	assert.Equal(t, "Etanol (Lote: L1) - 2.5 L", entries[0].Details)
}

func TestExhaustRequiresConfirmation(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	rec := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("10"), PackagingNumber: 2, Location: lab.ID})
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Exhaust(ctx, rec.ID, false)
	assert.ErrorIs(t, err, models.ErrConfirmationRequired)
	unchanged, _ := store.GetStock(ctx, rec.ID)
	assert.Equal(t, models.StatusAvailable, unchanged.Status)

	out, err := svc.Exhaust(ctx, rec.ID, true)
	require.NoError(t, err)
	assert.True(t, out.Quantity.IsZero())
	assert.Equal(t, models.StatusUnavailable, out.Status)
	assert.Equal(t, []string{models.ActionExhaustProduct}, logActions(t, store))
}

func TestMutationFailureSurfacesRepositoryError(t *testing.T) {
	store := newFaultyStore()
	lab := seedLocation(t, store, "Lab A", "")
	rec := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("10"), PackagingNumber: 1, Location: lab.ID})
	store.failUpdate = func(models.StockRecord) error { return models.ErrRepository }
	svc := newTestService(t, store)

	_, err := svc.Use(context.Background(), rec.ID, dec("1"))
	assert.ErrorIs(t, err, models.ErrRepository)
	assert.Empty(t, logActions(t, store))
}
