package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// Stock sheet columns, Estoque!A:M.
const (
	colID = iota
	colProduct
	colManufacturer
	colBatch
	colQuantity
	colUnit
	colPackaging
	colPackagingNumber
	colMinimumStock
	colInvoice
	colExpirationDate
	colLocation
	colStatus
)

func cellString(row []interface{}, idx int) string {
	if idx >= len(row) || row[idx] == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(row[idx]))
}

func blankRow(row []interface{}) bool {
	for i := range row {
		if cellString(row, i) != "" {
			return false
		}
	}
	return true
}

// decodeStock maps a sheet row onto a record. Malformed numbers fall back to
// the same defaults as an empty cell; the returned error lists them.
func decodeStock(row []interface{}) (models.StockRecord, error) {
	rec := models.StockRecord{
		ID:              cellString(row, colID),
		Product:         cellString(row, colProduct),
		Manufacturer:    cellString(row, colManufacturer),
		Batch:           cellString(row, colBatch),
		Quantity:        decimal.Zero,
		Unit:            cellString(row, colUnit),
		Packaging:       cellString(row, colPackaging),
		PackagingNumber: 1,
		MinimumStock:    decimal.Zero,
		Invoice:         cellString(row, colInvoice),
		ExpirationDate:  models.ParseOptionalDate(cellString(row, colExpirationDate)),
		Location:        cellString(row, colLocation),
		Status:          models.StockStatus(cellString(row, colStatus)),
	}

	var problems []string

	if raw := cellString(row, colQuantity); raw != "" {
		if v, err := models.ParseDecimal(raw); err == nil {
			rec.Quantity = v
		} else {
			problems = append(problems, "quantity="+raw)
		}
	}
	if raw := cellString(row, colMinimumStock); raw != "" {
		if v, err := models.ParseDecimal(raw); err == nil {
			rec.MinimumStock = v
		} else {
			problems = append(problems, "minimumStock="+raw)
		}
	}
	if raw := cellString(row, colPackagingNumber); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n >= 1 {
			rec.PackagingNumber = n
		} else {
			problems = append(problems, "packagingNumber="+raw)
		}
	}
	if raw := cellString(row, colExpirationDate); raw != "" && rec.ExpirationDate == nil {
		problems = append(problems, "expirationDate="+raw)
	}
	if rec.Status == "" {
		rec.Status = models.StatusAvailable
	}

	if len(problems) > 0 {
		return rec, fmt.Errorf("malformed cells: %s", strings.Join(problems, ", "))
	}
	return rec, nil
}

func encodeStock(rec models.StockRecord) []interface{} {
	expiration := ""
	if rec.ExpirationDate != nil {
		expiration = rec.ExpirationDate.String()
	}
	return []interface{}{
		rec.ID,
		rec.Product,
		rec.Manufacturer,
		rec.Batch,
		rec.Quantity.String(),
		rec.Unit,
		rec.Packaging,
		strconv.Itoa(rec.PackagingNumber),
		rec.MinimumStock.String(),
		rec.Invoice,
		expiration,
		rec.Location,
		string(rec.Status),
	}
}

func decodeLocation(row []interface{}) models.LocationRecord {
	return models.LocationRecord{
		ID:      cellString(row, 0),
		Room:    cellString(row, 1),
		Cabinet: cellString(row, 2),
	}
}

func encodeLocation(loc models.LocationRecord) []interface{} {
	return []interface{}{loc.ID, loc.Room, loc.Cabinet}
}

func decodeLog(row []interface{}) (models.LogEntry, error) {
	entry := models.LogEntry{
		ID:      cellString(row, 0),
		Action:  cellString(row, 1),
		Details: cellString(row, 2),
	}
	raw := cellString(row, 3)
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return entry, fmt.Errorf("malformed timestamp %q", raw)
	}
	entry.Timestamp = ts
	return entry, nil
}

func encodeLog(entry models.LogEntry) []interface{} {
	return []interface{}{entry.ID, entry.Action, entry.Details, entry.Timestamp.UTC().Format(time.RFC3339Nano)}
}

func decodeMinimum(row []interface{}) (models.MinimumThreshold, error) {
	m := models.MinimumThreshold{Product: cellString(row, 0), MinimumStock: decimal.Zero}
	raw := cellString(row, 1)
	if raw == "" {
		return m, nil
	}
	v, err := models.ParseDecimal(raw)
	if err != nil {
		return m, fmt.Errorf("malformed minimum %q", raw)
	}
	m.MinimumStock = v
	return m, nil
}
