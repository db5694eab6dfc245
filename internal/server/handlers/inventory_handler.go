package handlers

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/export"
	"github.com/estoque-lab/estoque/internal/service/inventory"
	"github.com/estoque-lab/estoque/internal/service/reporting"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// InventoryService describes the inventory operations the HTTP layer exposes.
type InventoryService interface {
	Records(ctx context.Context) ([]models.StockRecord, error)
	Stock(ctx context.Context, q reporting.Query) (reporting.Page[reporting.Group], error)
	Groups(ctx context.Context, f reporting.Filter) ([]reporting.Group, error)
	Totals(ctx context.Context) ([]reporting.Group, error)
	Expiring(ctx context.Context) (reporting.ExpiringSummary, error)
	Refresh(ctx context.Context) (inventory.Snapshot, error)

	CreateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error)
	UpdateStock(ctx context.Context, id string, rec models.StockRecord) (models.StockRecord, error)
	DeleteStock(ctx context.Context, id string) error
	Use(ctx context.Context, id string, quantity decimal.Decimal) (models.StockRecord, error)
	Exhaust(ctx context.Context, id string, confirm bool) (models.StockRecord, error)
	Transfer(ctx context.Context, id, destination string) (inventory.TransferResult, error)

	Locations(ctx context.Context) ([]models.LocationRecord, error)
	CreateLocation(ctx context.Context, loc models.LocationRecord) (models.LocationRecord, error)
	UpdateLocation(ctx context.Context, id string, loc models.LocationRecord) (models.LocationRecord, error)
	DeleteLocation(ctx context.Context, id string) error

	Logs(ctx context.Context, limit int) ([]models.LogEntry, error)
	AppendLog(ctx context.Context, action, details string) error
	Minimums(ctx context.Context) ([]models.MinimumThreshold, error)
	SetMinimum(ctx context.Context, product string, minimum decimal.Decimal) error
}

// InventoryHandler adapts the inventory service to HTTP.
type InventoryHandler struct {
	svc    InventoryService
	logger *zap.Logger
	now    func() time.Time
}

// NewInventoryHandler constructs the HTTP handler adapter.
func NewInventoryHandler(svc InventoryService, logger *zap.Logger) *InventoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryHandler{svc: svc, logger: logger, now: time.Now}
}

// ListStock returns the raw records.
func (h *InventoryHandler) ListStock(c *gin.Context) {
	records, err := h.svc.Records(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, records)
}

// StockGroups returns one page of the grouped stock view.
func (h *InventoryHandler) StockGroups(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	page, err := intQuery(c, "page", 1)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	pageSize, err := intQuery(c, "pageSize", 0)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	view, err := h.svc.Stock(c.Request.Context(), reporting.Query{
		Search:   filter.Search,
		Status:   filter.Status,
		Page:     page,
		PageSize: pageSize,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, view)
}

// StockTotals returns per-product totals.
func (h *InventoryHandler) StockTotals(c *gin.Context) {
	totals, err := h.svc.Totals(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, totals)
}

// Expiring returns the expiry banner summary.
func (h *InventoryHandler) Expiring(c *gin.Context) {
	summary, err := h.svc.Expiring(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, summary)
}

// ExportStock streams the filtered grouped view as an xlsx workbook.
func (h *InventoryHandler) ExportStock(c *gin.Context) {
	filter, err := filterFromQuery(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	ctx := c.Request.Context()

	groups, err := h.svc.Groups(ctx, filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	locations, err := h.svc.Locations(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var buf bytes.Buffer
	if err := export.WriteStockXLSX(&buf, groups, locations); err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("estoque_%s.xlsx", h.now().Format("20060102_150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// CreateStock adds a record.
func (h *InventoryHandler) CreateStock(c *gin.Context) {
	var req stockPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	rec, err := req.record()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	created, err := h.svc.CreateStock(c.Request.Context(), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusCreated, created)
}

// UpdateStock replaces a record.
func (h *InventoryHandler) UpdateStock(c *gin.Context) {
	var req stockPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}
	rec, err := req.record()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	updated, err := h.svc.UpdateStock(c.Request.Context(), c.Param("id"), rec)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, updated)
}

// DeleteStock removes a record.
func (h *InventoryHandler) DeleteStock(c *gin.Context) {
	if err := h.svc.DeleteStock(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, nil)
}

// UseStock draws quantity from a record.
func (h *InventoryHandler) UseStock(c *gin.Context) {
	var req usePayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	rec, err := h.svc.Use(c.Request.Context(), c.Param("id"), req.Quantity.Value)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, rec)
}

// ExhaustStock zeroes a record once confirmed.
func (h *InventoryHandler) ExhaustStock(c *gin.Context) {
	var req exhaustPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	rec, err := h.svc.Exhaust(c.Request.Context(), c.Param("id"), req.Confirm)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, rec)
}

// TransferStock moves one package to another location.
func (h *InventoryHandler) TransferStock(c *gin.Context) {
	var req transferPayload
	if err := bind(c, &req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	res, err := h.svc.Transfer(c.Request.Context(), c.Param("id"), req.Destination)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, res)
}

// Refresh reloads the snapshot from the store.
func (h *InventoryHandler) Refresh(c *gin.Context) {
	snap, err := h.svc.Refresh(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	respond(c, http.StatusOK, gin.H{
		"stock":     len(snap.Stock),
		"locations": len(snap.Locations),
		"loadedAt":  snap.LoadedAt,
	})
}

func filterFromQuery(c *gin.Context) (reporting.Filter, error) {
	f := reporting.Filter{
		Search: c.Query("search"),
		Status: models.StockStatus(strings.TrimSpace(c.Query("status"))),
	}
	if f.Status != "" && !f.Status.Valid() {
		return reporting.Filter{}, fmt.Errorf("%w: unknown status %q", models.ErrValidation, f.Status)
	}
	return f, nil
}

func intQuery(c *gin.Context, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, key)
	}
	return v, nil
}
