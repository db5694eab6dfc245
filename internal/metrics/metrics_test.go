package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsExposition(t *testing.T) {
	m := New()
	m.Operation("transfer_stock", nil)
	m.Operation("transfer_stock", nil)
	m.Operation("use_stock", errors.New("boom"))
	m.Refresh(150*time.Millisecond, nil)
	m.Inventory(3, 7)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	out := string(body)

	assert.Contains(t, out, `estoque_operations_total{operation="transfer_stock",result="success"} 2`)
	assert.Contains(t, out, `estoque_operations_total{operation="use_stock",result="error"} 1`)
	assert.Contains(t, out, `estoque_store_refresh_seconds_count{result="success"} 1`)
	assert.Contains(t, out, "estoque_low_stock_groups 3")
	assert.Contains(t, out, "estoque_expiring_records 7")
	assert.Contains(t, out, "go_goroutines")
}

func TestNewUsesPrivateRegistry(t *testing.T) {
	assert.NotPanics(t, func() {
		New()
		New()
	})
}
