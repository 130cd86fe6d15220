package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Ayoublby/full-store/internal/domain"
)

type ProductWriter interface {
	Create(ctx context.Context, fields domain.Product) (*domain.Product, error)
}

// CSVImporter reads product rows from a CSV export and inserts them into the
// store. Header order is free; columns are resolved by name.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and creates one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		p, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if p == nil {
			continue
		}

		if _, err := i.productRepo.Create(ctx, *p); err != nil {
			return imported, fmt.Errorf("create product %q: %w", p.Name, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	name := pick(record, index, "name")
	if name == "" {
		// Blank filler rows are tolerated.
		if strings.TrimSpace(strings.Join(record, "")) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("product row missing name: %v", record)
	}

	priceStr := pick(record, index, "price")
	price, err := strconv.ParseFloat(priceStr, 64)
	if err != nil || price < 0 {
		return nil, fmt.Errorf("invalid price %q for product %q", priceStr, name)
	}

	category := pick(record, index, "category")
	if _, ok := domain.Categories[category]; !ok {
		return nil, fmt.Errorf("unknown category %q for product %q", category, name)
	}

	p := &domain.Product{
		Name:        name,
		Description: pick(record, index, "description"),
		Price:       price,
		Category:    category,
		Images:      splitList(pick(record, index, "images")),
		ShowInPages: splitList(pick(record, index, "showInPages")),
		InStock:     parseBool(pick(record, index, "inStock"), true),
		Featured:    parseBool(pick(record, index, "featured"), false),
	}

	if v := pick(record, index, "originalPrice"); v != "" {
		p.OriginalPrice, _ = strconv.ParseFloat(v, 64)
	}
	if v := pick(record, index, "discount"); v != "" {
		p.Discount, _ = strconv.ParseFloat(v, 64)
	}
	if v := pick(record, index, "limitedQuantity"); v != "" {
		p.LimitedQuantity, _ = strconv.Atoi(v)
	}

	return p, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}

// splitList parses a semicolon-separated cell into a slice.
func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseBool(value string, def bool) bool {
	if value == "" {
		return def
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return def
	}
	return b
}
