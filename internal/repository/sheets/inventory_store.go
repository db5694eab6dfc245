package sheets

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/estoque-lab/estoque/internal/domain/models"
	"github.com/estoque-lab/estoque/internal/repository"
)

const (
	stockSheet    = "Estoque"
	locationSheet = "Localidades"
	minimumSheet  = "Minimos"

	stockDataRange    = "Estoque!A2:M"
	stockWriteRange   = "Estoque!A:M"
	stockIDRange      = "Estoque!A2:A"
	locationDataRange = "Localidades!A2:C"
	locationWrite     = "Localidades!A:C"
	locationIDRange   = "Localidades!A2:A"
	logDataRange      = "Logs!A2:D"
	logWriteRange     = "Logs!A:D"
	minimumDataRange  = "Minimos!A2:B"
	minimumWriteRange = "Minimos!A:B"

	// firstDataRow is the sheet row of index 0 in the A2-anchored ranges.
	firstDataRow = 2
)

// InventoryStore implements repository.Store on top of four worksheets.
// Rows are located by scanning the id column right before every write.
type InventoryStore struct {
	repo   Repository
	logger *zap.Logger
	// mu serializes locate-then-write sequences issued by this process.
	mu sync.Mutex
}

var _ repository.Store = (*InventoryStore)(nil)

// NewInventoryStore wraps a cell level repository.
func NewInventoryStore(repo Repository, logger *zap.Logger) *InventoryStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryStore{repo: repo, logger: logger}
}

func (s *InventoryStore) ListStock(ctx context.Context) ([]models.StockRecord, error) {
	rows, err := s.repo.ReadRange(ctx, stockDataRange)
	if err != nil {
		return nil, fmt.Errorf("load stock range: %w", err)
	}

	out := make([]models.StockRecord, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		rec, err := decodeStock(row)
		if err != nil {
			s.logger.Debug("stock row has malformed cells", zap.Int("row", i+firstDataRow), zap.Error(err))
		}
		if rec.ID == "" {
			s.logger.Debug("skip stock row without id", zap.Int("row", i+firstDataRow))
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *InventoryStore) GetStock(ctx context.Context, id string) (models.StockRecord, error) {
	all, err := s.ListStock(ctx)
	if err != nil {
		return models.StockRecord{}, err
	}
	for _, rec := range all {
		if rec.ID == id {
			return rec, nil
		}
	}
	return models.StockRecord{}, fmt.Errorf("%w: stock record %s", models.ErrNotFound, id)
}

func (s *InventoryStore) CreateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIDs(ctx, stockIDRange)
	if err != nil {
		return models.StockRecord{}, err
	}
	if rec.ID == "" {
		rec.ID = repository.NextStockID(ids)
	} else if indexOf(ids, rec.ID) >= 0 {
		return models.StockRecord{}, fmt.Errorf("%w: stock id %s already exists", models.ErrValidation, rec.ID)
	}

	if err := s.repo.WriteRow(ctx, stockWriteRange, encodeStock(rec)); err != nil {
		return models.StockRecord{}, err
	}
	return rec, nil
}

func (s *InventoryStore) UpdateStock(ctx context.Context, rec models.StockRecord) (models.StockRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.locate(ctx, stockIDRange, rec.ID, "stock record")
	if err != nil {
		return models.StockRecord{}, err
	}
	if err := s.repo.UpdateRow(ctx, rowRange(stockSheet, "A", "M", row), encodeStock(rec)); err != nil {
		return models.StockRecord{}, err
	}
	return rec, nil
}

func (s *InventoryStore) DeleteStock(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.locate(ctx, stockIDRange, id, "stock record")
	if err != nil {
		return err
	}
	return s.repo.ClearRange(ctx, rowRange(stockSheet, "A", "M", row))
}

func (s *InventoryStore) ListLocations(ctx context.Context) ([]models.LocationRecord, error) {
	rows, err := s.repo.ReadRange(ctx, locationDataRange)
	if err != nil {
		return nil, fmt.Errorf("load locations range: %w", err)
	}

	out := make([]models.LocationRecord, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		loc := decodeLocation(row)
		if loc.ID == "" {
			s.logger.Debug("skip location row without id", zap.Int("row", i+firstDataRow))
			continue
		}
		out = append(out, loc)
	}
	return out, nil
}

func (s *InventoryStore) GetLocation(ctx context.Context, id string) (models.LocationRecord, error) {
	all, err := s.ListLocations(ctx)
	if err != nil {
		return models.LocationRecord{}, err
	}
	for _, loc := range all {
		if loc.ID == id {
			return loc, nil
		}
	}
	return models.LocationRecord{}, fmt.Errorf("%w: location %s", models.ErrNotFound, id)
}

func (s *InventoryStore) CreateLocation(ctx context.Context, loc models.LocationRecord) (models.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids, err := s.readIDs(ctx, locationIDRange)
	if err != nil {
		return models.LocationRecord{}, err
	}
	if loc.ID == "" {
		loc.ID = repository.NextLocationID(ids)
	} else if indexOf(ids, loc.ID) >= 0 {
		return models.LocationRecord{}, fmt.Errorf("%w: location id %s already exists", models.ErrValidation, loc.ID)
	}

	if err := s.repo.WriteRow(ctx, locationWrite, encodeLocation(loc)); err != nil {
		return models.LocationRecord{}, err
	}
	return loc, nil
}

func (s *InventoryStore) UpdateLocation(ctx context.Context, loc models.LocationRecord) (models.LocationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.locate(ctx, locationIDRange, loc.ID, "location")
	if err != nil {
		return models.LocationRecord{}, err
	}
	if err := s.repo.UpdateRow(ctx, rowRange(locationSheet, "A", "C", row), encodeLocation(loc)); err != nil {
		return models.LocationRecord{}, err
	}
	return loc, nil
}

func (s *InventoryStore) DeleteLocation(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, err := s.locate(ctx, locationIDRange, id, "location")
	if err != nil {
		return err
	}
	return s.repo.ClearRange(ctx, rowRange(locationSheet, "A", "C", row))
}

func (s *InventoryStore) AppendLog(ctx context.Context, entry models.LogEntry) error {
	return s.repo.WriteRow(ctx, logWriteRange, encodeLog(entry))
}

// ListLogs returns entries in sheet (chronological) order.
func (s *InventoryStore) ListLogs(ctx context.Context) ([]models.LogEntry, error) {
	rows, err := s.repo.ReadRange(ctx, logDataRange)
	if err != nil {
		return nil, fmt.Errorf("load logs range: %w", err)
	}

	out := make([]models.LogEntry, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		entry, err := decodeLog(row)
		if err != nil {
			s.logger.Debug("log row has malformed timestamp", zap.Int("row", i+firstDataRow), zap.Error(err))
		}
		out = append(out, entry)
	}
	return out, nil
}

func (s *InventoryStore) ListMinimums(ctx context.Context) ([]models.MinimumThreshold, error) {
	rows, err := s.repo.ReadRange(ctx, minimumDataRange)
	if err != nil {
		return nil, fmt.Errorf("load minimums range: %w", err)
	}

	out := make([]models.MinimumThreshold, 0, len(rows))
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		m, err := decodeMinimum(row)
		if err != nil || m.Product == "" {
			s.logger.Debug("skip invalid minimum row", zap.Int("row", i+firstDataRow), zap.Error(err))
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (s *InventoryStore) SetMinimum(ctx context.Context, product string, minimum decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values := []interface{}{product, minimum.String()}

	products, err := s.readIDs(ctx, "Minimos!A2:A")
	if err != nil {
		return err
	}
	if idx := indexOf(products, product); idx >= 0 {
		return s.repo.UpdateRow(ctx, rowRange(minimumSheet, "A", "B", idx+firstDataRow), values)
	}
	return s.repo.WriteRow(ctx, minimumWriteRange, values)
}

// readIDs returns column A positionally; cleared rows yield "".
func (s *InventoryStore) readIDs(ctx context.Context, idRange string) ([]string, error) {
	rows, err := s.repo.ReadRange(ctx, idRange)
	if err != nil {
		return nil, fmt.Errorf("load id column %s: %w", idRange, err)
	}
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = cellString(row, 0)
	}
	return ids, nil
}

func (s *InventoryStore) locate(ctx context.Context, idRange, id, kind string) (int, error) {
	if id == "" {
		return 0, fmt.Errorf("%w: %s id is required", models.ErrValidation, kind)
	}
	ids, err := s.readIDs(ctx, idRange)
	if err != nil {
		return 0, err
	}
	idx := indexOf(ids, id)
	if idx < 0 {
		return 0, fmt.Errorf("%w: %s %s", models.ErrNotFound, kind, id)
	}
	return idx + firstDataRow, nil
}

func indexOf(values []string, want string) int {
	for i, v := range values {
		if v == want {
			return i
		}
	}
	return -1
}

func rowRange(sheet, fromCol, toCol string, row int) string {
	return fmt.Sprintf("%s!%s%d:%s%d", sheet, fromCol, row, toCol, row)
}
