package sheets

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// fakeGrid is an in-memory spreadsheet that understands the A1 ranges the
// store issues. Row 1 of every sheet is a header.
type fakeGrid struct {
	mu     sync.Mutex
	sheets map[string][][]string
	fail   map[string]error
}

func newFakeGrid() *fakeGrid {
	return &fakeGrid{
		sheets: map[string][][]string{
			"Estoque":     {{"id", "produto", "fabricante", "lote", "quantidade", "unidade", "embalagem", "numero", "minimo", "nota", "validade", "local", "status"}},
			"Localidades": {{"id", "sala", "armario"}},
			"Logs":        {{"id", "acao", "detalhes", "data"}},
			"Minimos":     {{"produto", "minimo"}},
		},
		fail: map[string]error{},
	}
}

func (g *fakeGrid) seed(sheet string, rows ...[]string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.sheets[sheet] = append(g.sheets[sheet], rows...)
}

func (g *fakeGrid) row(sheet string, n int) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	grid := g.sheets[sheet]
	if n-1 >= len(grid) {
		return nil
	}
	return grid[n-1]
}

type a1 struct {
	sheet            string
	col0, row0       int
	col1, row1       int
	openRows, hasEnd bool
}

func parseCell(ref string) (col, row int) {
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i < len(ref) {
		row, _ = strconv.Atoi(ref[i:])
	}
	return col - 1, row
}

func parseA1(r string) a1 {
	sheet, cells, _ := strings.Cut(r, "!")
	from, to, _ := strings.Cut(cells, ":")
	out := a1{sheet: sheet}
	out.col0, out.row0 = parseCell(from)
	out.col1, out.row1 = parseCell(to)
	if out.row0 == 0 {
		out.row0 = 1
	}
	out.openRows = out.row1 == 0
	return out
}

func (g *fakeGrid) check(op string) error {
	if err, ok := g.fail[op]; ok {
		return err
	}
	return nil
}

func (g *fakeGrid) ReadRange(_ context.Context, sheetRange string) ([][]interface{}, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("read"); err != nil {
		return nil, err
	}

	r := parseA1(sheetRange)
	grid, ok := g.sheets[r.sheet]
	if !ok {
		return nil, fmt.Errorf("unknown sheet %s", r.sheet)
	}
	last := len(grid)
	if !r.openRows && r.row1 < last {
		last = r.row1
	}

	var out [][]interface{}
	for n := r.row0; n <= last; n++ {
		src := grid[n-1]
		var cells []interface{}
		for c := r.col0; c <= r.col1 && c < len(src); c++ {
			cells = append(cells, src[c])
		}
		for len(cells) > 0 && cells[len(cells)-1] == "" {
			cells = cells[:len(cells)-1]
		}
		out = append(out, cells)
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out, nil
}

func (g *fakeGrid) WriteRow(_ context.Context, sheetRange string, values []interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("append"); err != nil {
		return err
	}

	r := parseA1(sheetRange)
	row := make([]string, len(values))
	for i, v := range values {
		row[i] = fmt.Sprint(v)
	}
	g.sheets[r.sheet] = append(g.sheets[r.sheet], row)
	return nil
}

func (g *fakeGrid) UpdateRow(_ context.Context, sheetRange string, values []interface{}) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("update"); err != nil {
		return err
	}

	r := parseA1(sheetRange)
	grid := g.sheets[r.sheet]
	for len(grid) < r.row0 {
		grid = append(grid, nil)
	}
	row := grid[r.row0-1]
	for len(row) < r.col0+len(values) {
		row = append(row, "")
	}
	for i, v := range values {
		row[r.col0+i] = fmt.Sprint(v)
	}
	grid[r.row0-1] = row
	g.sheets[r.sheet] = grid
	return nil
}

func (g *fakeGrid) ClearRange(_ context.Context, sheetRange string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.check("clear"); err != nil {
		return err
	}

	r := parseA1(sheetRange)
	grid := g.sheets[r.sheet]
	for n := r.row0; n <= r.row1 && n <= len(grid); n++ {
		row := grid[n-1]
		for c := r.col0; c <= r.col1 && c < len(row); c++ {
			row[c] = ""
		}
	}
	return nil
}
