package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"tecnostore/internal/domain"
)

// ProductWriter is the catalog side the importer writes through, so ids,
// validation and persistence follow the same rules as the admin panel.
type ProductWriter interface {
	Find(id int64) (domain.Product, error)
	Add(ctx context.Context, f domain.ProductFields) (domain.Product, error)
	Update(ctx context.Context, id int64, f domain.ProductFields) (domain.Product, error)
}

// CSVImporter reads a product sheet and adds or updates catalog entries.
// Rows whose id matches an existing product update it; all other rows are
// added under a fresh id.
type CSVImporter struct {
	reader  *csv.Reader
	catalog ProductWriter
	logger  *zap.Logger
}

func NewCSVImporter(r io.Reader, catalog ProductWriter, logger *zap.Logger) *CSVImporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	csvr.TrimLeadingSpace = true
	return &CSVImporter{
		reader:  csvr,
		catalog: catalog,
		logger:  logger,
	}
}

type csvRow struct {
	line   int
	id     int64
	fields domain.ProductFields
}

// Run imports every row and returns how many products were written. It stops
// at the first invalid row; rows before it stay imported.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)
	if _, ok := index["name"]; !ok {
		return 0, fmt.Errorf("%w: missing name column", domain.ErrInvalidInput)
	}

	var imported int
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}
		line, _ := i.reader.FieldPos(0)

		row, err := parseRow(record, index, line)
		if err != nil {
			return imported, err
		}
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.id > 0 {
		if _, err := i.catalog.Find(row.id); err == nil {
			if _, err := i.catalog.Update(ctx, row.id, row.fields); err != nil {
				return fmt.Errorf("line %d: update product %d: %w", row.line, row.id, err)
			}
			return nil
		} else if !errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("line %d: find product %d: %w", row.line, row.id, err)
		}
		i.logger.Debug("importer: unknown id, adding as new product", zap.Int64("id", row.id), zap.Int("line", row.line))
	}
	if _, err := i.catalog.Add(ctx, row.fields); err != nil {
		return fmt.Errorf("line %d: add product %q: %w", row.line, row.fields.Name, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

// parseRow returns nil for blank rows.
func parseRow(record []string, index map[string]int, line int) (*csvRow, error) {
	name := pick(record, index, "name")
	if name == "" && strings.TrimSpace(strings.Join(record, "")) == "" {
		return nil, nil
	}

	row := &csvRow{
		line: line,
		fields: domain.ProductFields{
			Name:        name,
			Category:    pick(record, index, "category"),
			Description: pick(record, index, "description"),
			Image:       pick(record, index, "image"),
			Badge:       pick(record, index, "badge"),
		},
	}

	var err error
	if row.id, err = parseInt(pick(record, index, "id")); err != nil {
		return nil, rowError(line, "id", err)
	}
	if row.fields.Price, err = parseInt(pick(record, index, "price")); err != nil {
		return nil, rowError(line, "price", err)
	}
	if s := pick(record, index, "originalprice"); s != "" {
		orig, err := parseInt(s)
		if err != nil {
			return nil, rowError(line, "originalPrice", err)
		}
		row.fields.OriginalPrice = &orig
	}
	stock, err := parseInt(pick(record, index, "stock"))
	if err != nil {
		return nil, rowError(line, "stock", err)
	}
	row.fields.Stock = int(stock)
	if s := pick(record, index, "rating"); s != "" {
		if row.fields.Rating, err = strconv.ParseFloat(s, 64); err != nil {
			return nil, rowError(line, "rating", err)
		}
	}
	return row, nil
}

func parseInt(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(strings.ReplaceAll(s, ",", ""), 10, 64)
}

func rowError(line int, column string, err error) error {
	return fmt.Errorf("%w: line %d: column %s: %v", domain.ErrInvalidInput, line, column, err)
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
