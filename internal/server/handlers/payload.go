package handlers

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/estoque-lab/estoque/internal/domain/models"
)

// flexDecimal accepts JSON numbers and locale formatted strings ("12,5").
type flexDecimal struct {
	Value decimal.Decimal
	Set   bool
}

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return nil
	}

	str := string(raw)
	if raw[0] == '"' {
		unquoted, err := strconv.Unquote(str)
		if err != nil {
			return err
		}
		if strings.TrimSpace(unquoted) == "" {
			return nil
		}
		str = unquoted
	}

	v, err := models.ParseDecimal(str)
	if err != nil {
		return fmt.Errorf("invalid number %s", raw)
	}
	f.Value, f.Set = v, true
	return nil
}

// flexInt accepts JSON integers and numeric strings.
type flexInt struct {
	Value int
	Set   bool
}

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var d flexDecimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	if !d.Set {
		return nil
	}
	if !d.Value.IsInteger() {
		return fmt.Errorf("invalid integer %s", data)
	}
	f.Value, f.Set = int(d.Value.IntPart()), true
	return nil
}

type stockPayload struct {
	Product         string      `json:"product"`
	Manufacturer    string      `json:"manufacturer"`
	Batch           string      `json:"batch"`
	Quantity        flexDecimal `json:"quantity"`
	Unit            string      `json:"unit"`
	Packaging       string      `json:"packaging"`
	PackagingNumber flexInt     `json:"packagingNumber"`
	MinimumStock    flexDecimal `json:"minimumStock"`
	Invoice         string      `json:"invoice"`
	ExpirationDate  string      `json:"expirationDate"`
	Location        string      `json:"location"`
	Status          string      `json:"status"`
}

func (p stockPayload) record() (models.StockRecord, error) {
	if !p.Quantity.Set {
		return models.StockRecord{}, fmt.Errorf("%w: missing required fields: quantity", models.ErrValidation)
	}

	rec := models.StockRecord{
		Product:         p.Product,
		Manufacturer:    p.Manufacturer,
		Batch:           p.Batch,
		Quantity:        p.Quantity.Value,
		Unit:            p.Unit,
		Packaging:       p.Packaging,
		PackagingNumber: p.PackagingNumber.Value,
		MinimumStock:    p.MinimumStock.Value,
		Invoice:         p.Invoice,
		Location:        p.Location,
		Status:          models.StockStatus(p.Status),
	}

	if strings.TrimSpace(p.ExpirationDate) != "" {
		d, err := models.ParseDate(p.ExpirationDate)
		if err != nil {
			return models.StockRecord{}, fmt.Errorf("%w: expirationDate: %w", models.ErrValidation, err)
		}
		rec.ExpirationDate = &d
	}
	return rec, nil
}

type usePayload struct {
	Quantity flexDecimal `json:"quantity"`
}

type exhaustPayload struct {
	Confirm bool `json:"confirm"`
}

type transferPayload struct {
	Destination string `json:"destination"`
}

type locationPayload struct {
	Room    string `json:"room"`
	Cabinet string `json:"cabinet"`
}

type logPayload struct {
	Action  string `json:"action"`
	Details string `json:"details"`
}

type minimumPayload struct {
	Product      string      `json:"product"`
	MinimumStock flexDecimal `json:"minimumStock"`
}
