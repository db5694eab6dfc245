// Package export renders inventory views as spreadsheet files.
package export

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/service/reporting"
)

// StockSheet is the worksheet name of the stock export.
const StockSheet = "Estoque"

var stockHeader = []interface{}{
	"Produto",
	"Lote",
	"Fabricante",
	"Quantidade",
	"Unidade",
	"Estoque mínimo",
	"Embalagens",
	"Validade",
	"Dias restantes",
	"Situação",
	"Localidade",
	"Status",
	"Estoque baixo",
}

// WriteStockXLSX writes one row per group to w. Location ids are rendered
// with their labels when known.
func WriteStockXLSX(w io.Writer, groups []reporting.Group, locations []models.LocationRecord) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), StockSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(StockSheet, "A1", &stockHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	labels := make(map[string]string, len(locations))
	for _, loc := range locations {
		labels[loc.ID] = loc.Label()
	}

	for i, g := range groups {
		expiration, days := "", ""
		if g.ExpirationDate != nil {
			expiration = g.ExpirationDate.String()
		}
		if g.Expiry.DaysRemaining != nil {
			days = strconv.Itoa(*g.Expiry.DaysRemaining)
		}
		location := g.Location
		if label, ok := labels[location]; ok {
			location = label
		}
		lowStock := "não"
		if g.IsLowStock {
			lowStock = "sim"
		}

		row := []interface{}{
			g.Product,
			g.Batch,
			g.Manufacturer,
			g.TotalQuantity.InexactFloat64(),
			g.Unit,
			g.MinimumStock.InexactFloat64(),
			g.PackagingNumber,
			expiration,
			days,
			string(g.Expiry.Tier),
			location,
			string(g.Status),
			lowStock,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("locate row %d: %w", i+2, err)
		}
		if err := f.SetSheetRow(StockSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
