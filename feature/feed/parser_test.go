package feed

import (
	"strings"
	"testing"

	"catalog-sync/feature/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildLine creates a synthetic 77-field feed line with the given logical
// field values filled in at their default offsets.
func buildLine(values map[string]string) string {
	fields := make([]string, 77)
	offsets := DefaultOffsets()
	for name, value := range values {
		fields[offsets[name]] = value
	}
	return strings.Join(fields, ";")
}

func validLine() map[string]string {
	return map[string]string{
		FieldStockNumber:            "GLOCK19GEN5",
		FieldUPC:                    "764503037276",
		FieldDescription:            "GLOCK 19 GEN5 9MM 15RD",
		FieldDepartmentCode:         "1",
		FieldManufacturerCode:       "GLOCK",
		FieldMSRP:                   "599.00",
		FieldDealerPrice:            "418.50",
		FieldWeight:                 "1.85",
		FieldQuantityOnHand:         "42",
		FieldModel:                  "G19 G5",
		FieldManufacturerName:       "Glock Inc",
		FieldManufacturerPartNumber: "PA195S203",
		FieldFullDescription:        "GLOCK 19 GEN5 9MM LUGER 4.02IN BARREL",
		FieldImageRef:               "GLOCK19GEN5_1.jpg",
		FieldMAPPrice:               "539.00",
	}
}

func TestParseLine(t *testing.T) {
	p := NewParser(Config{})

	rec, err := p.ParseLine(buildLine(validLine()))
	require.NoError(t, err)

	assert.Equal(t, catalog.StockNumber("GLOCK19GEN5"), rec.StockNumber)
	assert.Equal(t, catalog.SKU("PA195S203"), rec.ManufacturerPartNumber)
	assert.Equal(t, "GLOCK 19 GEN5 9MM 15RD", rec.Description)
	assert.Equal(t, 599.00, rec.MSRP)
	assert.Equal(t, 418.50, rec.DealerPrice)
	assert.Equal(t, 539.00, rec.MAPPrice)
	assert.Equal(t, 42, rec.QuantityOnHand)
	assert.Equal(t, AllocationNormal, rec.Allocation)
	assert.Empty(t, rec.Coercions)
}

func TestParseLine_Deterministic(t *testing.T) {
	p := NewParser(Config{})
	line := buildLine(validLine())

	first, err := p.ParseLine(line)
	require.NoError(t, err)
	second, err := p.ParseLine(line)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParseLine_Rejections(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		name   string
		line   string
		reason string
		field  string
	}{
		{
			name:   "Too few fields",
			line:   "A;B;C;D;E",
			reason: ReasonTooFewFields,
		},
		{
			name: "Missing stock number",
			line: buildLine(func() map[string]string {
				v := validLine()
				delete(v, FieldStockNumber)
				return v
			}()),
			reason: ReasonMissingRequired,
			field:  FieldStockNumber,
		},
		{
			name: "Missing description",
			line: buildLine(func() map[string]string {
				v := validLine()
				delete(v, FieldDescription)
				return v
			}()),
			reason: ReasonMissingRequired,
			field:  FieldDescription,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := p.ParseLine(tt.line)
			assert.Nil(t, rec)

			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.reason, pe.Reason)
			assert.Equal(t, tt.field, pe.Field)
		})
	}
}

func TestParseLine_BlankLines(t *testing.T) {
	p := NewParser(Config{})

	for _, line := range []string{"", "   ", "\t\t"} {
		_, err := p.ParseLine(line)
		assert.ErrorIs(t, err, ErrBlankLine)
	}
}

func TestParseLine_NumericCoercion(t *testing.T) {
	p := NewParser(Config{})

	v := validLine()
	v[FieldMSRP] = "N/A"
	v[FieldQuantityOnHand] = "many"

	rec, err := p.ParseLine(buildLine(v))
	require.NoError(t, err)

	assert.Zero(t, rec.MSRP)
	assert.Zero(t, rec.QuantityOnHand)
	assert.ElementsMatch(t, []string{FieldMSRP, FieldQuantityOnHand}, rec.Coercions)
}

func TestParseLine_EmptyNumericIsNotCoercion(t *testing.T) {
	p := NewParser(Config{})

	v := validLine()
	delete(v, FieldMAPPrice) // products without MAP are normal

	rec, err := p.ParseLine(buildLine(v))
	require.NoError(t, err)
	assert.Zero(t, rec.MAPPrice)
	assert.Empty(t, rec.Coercions)
}

func TestParseLine_AllocationFlags(t *testing.T) {
	p := NewParser(Config{})

	tests := []struct {
		raw  string
		want AllocationFlag
	}{
		{"", AllocationNormal},
		{"Allocated", AllocationAllocated},
		{"CLOSEOUT", AllocationCloseout},
		{"Deleted", AllocationDeleted},
		{"whatever", AllocationNormal},
	}

	for _, tt := range tests {
		v := validLine()
		v[FieldAllocation] = tt.raw
		rec, err := p.ParseLine(buildLine(v))
		require.NoError(t, err)
		assert.Equal(t, tt.want, rec.Allocation, "allocation %q", tt.raw)
	}
}

func TestParseLine_OffsetOverride(t *testing.T) {
	// A feed revision that moves the MAP price is handled by config alone.
	p := NewParser(Config{Offsets: map[string]int{FieldMAPPrice: 75}})

	fields := make([]string, 77)
	offsets := DefaultOffsets()
	for name, value := range validLine() {
		if name == FieldMAPPrice {
			continue
		}
		fields[offsets[name]] = value
	}
	fields[75] = "549.00"

	rec, err := p.ParseLine(strings.Join(fields, ";"))
	require.NoError(t, err)
	assert.Equal(t, 549.00, rec.MAPPrice)
}

func TestParseLine_MinFieldsOverride(t *testing.T) {
	p := NewParser(Config{MinFields: 15})

	fields := make([]string, 15)
	offsets := DefaultOffsets()
	for name, value := range validLine() {
		if offsets[name] < 15 {
			fields[offsets[name]] = value
		}
	}

	rec, err := p.ParseLine(strings.Join(fields, ";"))
	require.NoError(t, err)
	// Fields past the end of a short line read as empty, not as errors.
	assert.Zero(t, rec.MAPPrice)
	assert.False(t, rec.DropShipBlocked)
}
