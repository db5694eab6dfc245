package inventory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

func TestTransferSplitsOnePackage(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "Armário 1")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{
		Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4,
		MinimumStock: dec("10"), Location: labA.ID, Packaging: "Frasco",
	})
	svc := newTestService(t, store)

	res, err := svc.Transfer(context.Background(), src.ID, labB.ID)
	require.NoError(t, err)

	assert.False(t, res.Merged)
	assert.True(t, dec("75").Equal(res.Source.Quantity))
	assert.Equal(t, 3, res.Source.PackagingNumber)
	assert.Equal(t, models.StatusAvailable, res.Source.Status)

	assert.NotEqual(t, src.ID, res.Destination.ID)
	assert.True(t, dec("25").Equal(res.Destination.Quantity))
	assert.Equal(t, 1, res.Destination.PackagingNumber)
	assert.Equal(t, labB.ID, res.Destination.Location)
	assert.Equal(t, "Frasco", res.Destination.Packaging)

	persisted, err := store.GetStock(context.Background(), src.ID)
	require.NoError(t, err)
	assert.True(t, dec("75").Equal(persisted.Quantity))

	assert.Equal(t, []string{models.ActionTransferProduct}, logActions(t, store))
	entries, _ := store.ListLogs(context.Background())
	assert.Equal(t, "Etanol (Lote: L1) -> Lab B - Sem armário", entries[0].Details)

	records, err := svc.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestTransferMergesIntoMatchingRecord(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	other := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("5"), PackagingNumber: 1, Location: labB.ID})
	svc := newTestService(t, store)

	res, err := svc.Transfer(context.Background(), src.ID, "Lab B - Sem armário")
	require.NoError(t, err)

	assert.True(t, res.Merged)
	assert.Equal(t, other.ID, res.Destination.ID)
	assert.True(t, dec("30").Equal(res.Destination.Quantity))
	assert.Equal(t, 2, res.Destination.PackagingNumber)

	all, _ := store.ListStock(context.Background())
	assert.Len(t, all, 2)
}

func TestRepeatedTransfersUsePreDecrementQuantityPerPackage(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	svc := newTestService(t, store)

	for i := 0; i < 3; i++ {
		_, err := svc.Transfer(context.Background(), src.ID, labB.ID)
		require.NoError(t, err)
	}

	source, _ := store.GetStock(context.Background(), src.ID)
	assert.True(t, dec("25").Equal(source.Quantity), "source keeps one full package")
	assert.Equal(t, 1, source.PackagingNumber)

	all, _ := store.ListStock(context.Background())
	require.Len(t, all, 2)
	dest := all[1]
	assert.True(t, dec("75").Equal(dest.Quantity))
	assert.Equal(t, 3, dest.PackagingNumber)
}

func TestTransferRejections(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	single := seedStock(t, store, models.StockRecord{Product: "Acetona", Batch: "X", Quantity: dec("10"), PackagingNumber: 1, Location: labA.ID})
	multi := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	svc := newTestService(t, store)
	ctx := context.Background()

	_, err := svc.Transfer(ctx, single.ID, labB.ID)
	assert.ErrorIs(t, err, models.ErrInvalidOperation)

	_, err = svc.Transfer(ctx, multi.ID, labA.ID)
	assert.ErrorIs(t, err, models.ErrInvalidOperation)

	_, err = svc.Transfer(ctx, multi.ID, "local_999")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Transfer(ctx, "prod_999999", labB.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.Transfer(ctx, multi.ID, " ")
	assert.ErrorIs(t, err, models.ErrValidation)

	unchanged, _ := store.GetStock(ctx, single.ID)
	assert.Equal(t, single, unchanged)
	all, _ := store.ListStock(ctx)
	assert.Len(t, all, 2)
	assert.Empty(t, logActions(t, store))
}

func TestTransferCompensatesCreatedRecordWhenSourceUpdateFails(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	store.failUpdate = func(rec models.StockRecord) error {
		if rec.ID == src.ID {
			return errStoreIO
		}
		return nil
	}
	svc := newTestService(t, store)

	_, err := svc.Transfer(context.Background(), src.ID, labB.ID)
	require.ErrorIs(t, err, errStoreIO)

	all, _ := store.ListStock(context.Background())
	require.Len(t, all, 1)
	assert.Equal(t, src, all[0])
	assert.Empty(t, logActions(t, store))
}

func TestTransferRestoresMergedRecordWhenSourceUpdateFails(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	other := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("5"), PackagingNumber: 1, Location: labB.ID})
	store.failUpdate = func(rec models.StockRecord) error {
		if rec.ID == src.ID {
			return errStoreIO
		}
		return nil
	}
	svc := newTestService(t, store)

	_, err := svc.Transfer(context.Background(), src.ID, labB.ID)
	require.ErrorIs(t, err, errStoreIO)

	restored, _ := store.GetStock(context.Background(), other.ID)
	assert.Equal(t, other, restored)
}

func TestTransferJoinsCompensationFailure(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	store.failUpdate = func(rec models.StockRecord) error {
		if rec.ID == src.ID {
			return errStoreIO
		}
		return nil
	}
	store.failDelete = models.ErrRepository
	svc := newTestService(t, store)

	_, err := svc.Transfer(context.Background(), src.ID, labB.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, errStoreIO)
	assert.ErrorIs(t, err, models.ErrRepository)
	assert.Contains(t, err.Error(), "compensate destination")

	all, _ := store.ListStock(context.Background())
	assert.Len(t, all, 2, "the created destination is left behind")
}

func TestTransferSurfacesLogFailureButKeepsStockChanges(t *testing.T) {
	store := newFaultyStore()
	labA := seedLocation(t, store, "Lab A", "")
	labB := seedLocation(t, store, "Lab B", "")
	src := seedStock(t, store, models.StockRecord{Product: "Etanol", Batch: "L1", Quantity: dec("100"), PackagingNumber: 4, Location: labA.ID})
	store.failAppend = errStoreIO
	svc := newTestService(t, store)

	res, err := svc.Transfer(context.Background(), src.ID, labB.ID)
	require.ErrorIs(t, err, errStoreIO)
	assert.Equal(t, 3, res.Source.PackagingNumber)

	persisted, _ := store.GetStock(context.Background(), src.ID)
	assert.Equal(t, 3, persisted.PackagingNumber)

	records, err := svc.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2, "cache was rebuilt after the failed log append")
}
