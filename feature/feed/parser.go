package feed

import (
	"strconv"
	"strings"

	"catalog-sync/feature/catalog"
)

// Parser turns raw feed lines into Records according to a field-offset map.
// It holds no per-line state: ParseLine is pure and deterministic, so the
// pipeline is free to stream lines or batch them.
type Parser struct {
	offsets   map[string]int
	delimiter string
	minFields int
}

// NewParser builds a parser from configuration. Offsets from the config
// override the defaults field by field.
func NewParser(cfg Config) *Parser {
	offsets := DefaultOffsets()
	for name, idx := range cfg.Offsets {
		offsets[name] = idx
	}

	delimiter := cfg.Delimiter
	if delimiter == "" {
		delimiter = ";"
	}

	minFields := cfg.MinFields
	if minFields <= 0 {
		minFields = 70
	}

	return &Parser{
		offsets:   offsets,
		delimiter: delimiter,
		minFields: minFields,
	}
}

// ParseLine parses one feed line into a Record.
//
// Blank lines return ErrBlankLine. Lines with fewer than the configured
// minimum field count, or missing a required field, return a *ParseError.
// Numeric fields that fail to parse fall back to 0 and are recorded in the
// Record's Coercions list; a bad price never kills the batch, but it never
// disappears silently either.
func (p *Parser) ParseLine(line string) (*Record, error) {
	if strings.TrimSpace(line) == "" {
		return nil, ErrBlankLine
	}

	fields := strings.Split(line, p.delimiter)
	if len(fields) < p.minFields {
		return nil, &ParseError{Reason: ReasonTooFewFields}
	}

	rec := &Record{}

	rec.StockNumber = catalog.StockNumber(p.text(fields, FieldStockNumber))
	rec.Description = p.text(fields, FieldDescription)
	if rec.StockNumber == "" {
		return nil, &ParseError{Reason: ReasonMissingRequired, Field: FieldStockNumber}
	}
	if rec.Description == "" {
		return nil, &ParseError{Reason: ReasonMissingRequired, Field: FieldDescription}
	}

	rec.UPC = p.text(fields, FieldUPC)
	rec.DepartmentCode = p.text(fields, FieldDepartmentCode)
	rec.ManufacturerCode = p.text(fields, FieldManufacturerCode)
	rec.Model = p.text(fields, FieldModel)
	rec.ManufacturerName = p.text(fields, FieldManufacturerName)
	rec.ManufacturerPartNumber = catalog.SKU(p.text(fields, FieldManufacturerPartNumber))
	rec.FullDescription = p.text(fields, FieldFullDescription)
	rec.ImageRef = p.text(fields, FieldImageRef)

	rec.MSRP = p.decimal(fields, FieldMSRP, rec)
	rec.DealerPrice = p.decimal(fields, FieldDealerPrice, rec)
	rec.MAPPrice = p.decimal(fields, FieldMAPPrice, rec)
	rec.Weight = p.decimal(fields, FieldWeight, rec)
	rec.QuantityOnHand = p.integer(fields, FieldQuantityOnHand, rec)
	if rec.QuantityOnHand < 0 {
		rec.QuantityOnHand = 0
		rec.Coercions = append(rec.Coercions, FieldQuantityOnHand)
	}

	rec.DropShipBlocked = strings.EqualFold(p.text(fields, FieldDropShipBlocked), "Y")
	rec.Allocation = parseAllocation(p.text(fields, FieldAllocation))

	return rec, nil
}

// MinFields exposes the configured minimum for run reporting.
func (p *Parser) MinFields() int {
	return p.minFields
}

// text returns the trimmed raw value of a logical field, or "" when the
// field has no configured offset or the offset is past the end of the line.
func (p *Parser) text(fields []string, name string) string {
	idx, ok := p.offsets[name]
	if !ok || idx < 0 || idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// decimal parses a price/weight field, falling back to 0 on failure and
// recording the coercion. Empty fields are not coercions: an absent MAP
// price is normal feed data.
func (p *Parser) decimal(fields []string, name string, rec *Record) float64 {
	raw := p.text(fields, name)
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		rec.Coercions = append(rec.Coercions, name)
		return 0
	}
	return v
}

func (p *Parser) integer(fields []string, name string, rec *Record) int {
	raw := p.text(fields, name)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		rec.Coercions = append(rec.Coercions, name)
		return 0
	}
	return v
}

func parseAllocation(raw string) AllocationFlag {
	switch strings.ToUpper(raw) {
	case "ALLOCATED":
		return AllocationAllocated
	case "CLOSEOUT":
		return AllocationCloseout
	case "DELETED":
		return AllocationDeleted
	default:
		return AllocationNormal
	}
}
