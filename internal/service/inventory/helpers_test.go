package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/repository/memory"
	"github.com/estoque-lab/estoque/internal/service/reporting"
)

var (
	testNow    = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	errStoreIO = errors.New("sheets unavailable")
)

// faultyStore fails selected calls of the wrapped memory store.
type faultyStore struct {
	*memory.Store

	mu          sync.Mutex
	failUpdate  func(models.StockRecord) error
	failCreate  error
	failDelete  error
	failAppend  error
	failListing error
	listCalls   int
}

func newFaultyStore() *faultyStore {
	return &faultyStore{Store: memory.NewStore()}
}

func (f *faultyStore) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	f.mu.Lock()
	f.listCalls++
	err := f.failListing
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.Store.ListStock(ctx)
}

func (f *faultyStore) CreateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error) {
	if f.failCreate != nil {
		return models.StockRecord{}, f.failCreate
	}
	return f.Store.CreateStock(ctx, rec)
}

func (f *faultyStore) UpdateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error) {
	if f.failUpdate != nil {
		if err := f.failUpdate(rec); err != nil {
			return models.StockRecord{}, err
		}
	}
	return f.Store.UpdateStock(ctx, rec)
}

func (f *faultyStore) DeleteStock(ctx context.Context, id string) error {
	if f.failDelete != nil {
		return f.failDelete
	}
	return f.Store.DeleteStock(ctx, id)
}

func (f *faultyStore) AppendLog(ctx context.Context, entry models.LogEntry) error {
	if f.failAppend != nil {
		return f.failAppend
	}
	return f.Store.AppendLog(ctx, entry)
}

type mockRecorder struct {
	mock.Mock
}

func (m *mockRecorder) Operation(name string, err error) {
	m.Called(name, err)
}

func (m *mockRecorder) Refresh(elapsed time.Duration, err error) {
	m.Called(elapsed, err)
}

func (m *mockRecorder) Inventory(lowStockGroups, expiringRecords int) {
	m.Called(lowStockGroups, expiringRecords)
}

func newTestService(t *testing.T, store *faultyStore) *Service {
	t.Helper()
	reporter := reporting.NewReporter(reporting.Options{Clock: func() time.Time { return testNow }}, nil)
	seq := 0
	return NewService(store, reporter, Options{
		Clock: func() time.Time { return testNow },
		NewLogID: func() string {
			seq++
			return fmt.Sprintf("log_test_%d", seq)
		},
	}, nil)
}

func seedLocation(t *testing.T, store *faultyStore, room, cabinet string) models.LocationRecord {
	t.Helper()
	loc, err := store.Store.CreateLocation(context.Background(), models.LocationRecord{Room: room, Cabinet: cabinet})
	require.NoError(t, err)
	return loc
}

func seedStock(t *testing.T, store *faultyStore, rec models.StockRecord) models.StockRecord {
	t.Helper()
	if rec.Status == "" {
		rec.Status = models.StatusAvailable
	}
	if rec.Unit == "" {
		rec.Unit = "L"
	}
	created, err := store.Store.CreateStock(context.Background(), rec)
	require.NoError(t, err)
	return created
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func logActions(t *testing.T, store *faultyStore) []string {
	t.Helper()
	entries, err := store.Store.ListLogs(context.Background())
	require.NoError(t, err)
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Action)
	}
	return out
}
