package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"catalog-sync/feature/catalog"
	"catalog-sync/feature/classify"
	"catalog-sync/feature/feed"
)

func testEngine() *Engine {
	return NewEngine(testPricing(), zap.NewNop())
}

func glockRecord() *feed.Record {
	return &feed.Record{
		StockNumber:            "GLPA195S203",
		UPC:                    "764503037108",
		Description:            "GLOCK 19 GEN5 9MM 15RD STRIKER FIRED BLACK",
		DepartmentCode:         "1",
		ManufacturerCode:       "GLO",
		MSRP:                   100,
		DealerPrice:            70,
		QuantityOnHand:         12,
		Model:                  "19 Gen5",
		ManufacturerName:       "Glock",
		ManufacturerPartNumber: "PA195S203",
		Allocation:             feed.AllocationNormal,
	}
}

func classified(rec *feed.Record) *Incoming {
	return &Incoming{Record: rec, Attrs: classify.Extract(rec, classify.DefaultRuleSets())}
}

func TestDecide_InsertForUnknownSKU(t *testing.T) {
	op := testEngine().Decide(nil, classified(glockRecord()))

	require.Equal(t, OpInsert, op.Type)
	require.NotNil(t, op.Entity)

	p := op.Entity
	assert.Equal(t, catalog.SKU("PA195S203"), p.SKU)
	assert.Equal(t, catalog.StockNumber("GLPA195S203"), p.DistributorStockNumber)
	assert.Equal(t, catalog.CategoryHandguns, p.Category)
	assert.Equal(t, "9mm", p.Caliber)
	assert.Equal(t, "Striker Fired", p.ActionType)
	assert.Equal(t, 100.00, p.PriceBronze)
	assert.Equal(t, 95.00, p.PriceGold)
	assert.Equal(t, 71.40, p.PricePlatinum)
	assert.True(t, p.InStock)
	assert.True(t, p.RequiresFFL)
	assert.True(t, p.IsActive)
	assert.Contains(t, []string(p.Tags), "Handguns")
	assert.Contains(t, []string(p.Tags), "9mm")
}

func TestDecide_RejectsMissingManufacturerPartNumber(t *testing.T) {
	rec := glockRecord()
	rec.ManufacturerPartNumber = ""

	op := testEngine().Decide(nil, classified(rec))

	assert.Equal(t, OpRejected, op.Type)
	assert.Equal(t, "missing manufacturer part number", op.Reason)
	assert.Nil(t, op.Entity)
}

func TestDecide_SecondPassIsNoOp(t *testing.T) {
	e := testEngine()

	first := e.Decide(nil, classified(glockRecord()))
	require.Equal(t, OpInsert, first.Type)

	stored := *first.Entity
	stored.ID = 42

	second := e.Decide(&stored, classified(glockRecord()))
	assert.Equal(t, OpNoOp, second.Type)
}

func TestDecide_SingleFieldUpdate(t *testing.T) {
	e := testEngine()

	first := e.Decide(nil, classified(glockRecord()))
	stored := *first.Entity
	stored.ID = 42

	rec := glockRecord()
	rec.QuantityOnHand = 8

	op := e.Decide(&stored, classified(rec))

	require.Equal(t, OpUpdate, op.Type)
	assert.Equal(t, uint(42), op.ID)
	assert.Equal(t, catalog.FieldDiff{"stock_quantity": 8}, op.Diff)
}

func TestDecide_PriceChangeAtCentPrecision(t *testing.T) {
	e := testEngine()

	first := e.Decide(nil, classified(glockRecord()))
	stored := *first.Entity
	stored.ID = 7

	// Representation noise below a cent must not produce an update.
	stored.PriceBronze += 0.0001
	op := e.Decide(&stored, classified(glockRecord()))
	assert.Equal(t, OpNoOp, op.Type)

	rec := glockRecord()
	rec.MSRP = 109.99
	op = e.Decide(&stored, classified(rec))
	require.Equal(t, OpUpdate, op.Type)
	assert.Equal(t, 109.99, op.Diff["price_bronze"])
	assert.Equal(t, 109.99, op.Diff["price_msrp"])
	assert.Equal(t, round2(109.99*0.95), op.Diff["price_gold"])
}

func TestDecide_StockNumberIsNotIdentity(t *testing.T) {
	e := testEngine()

	// Same distributor stock number under a different part number is a
	// different product, so a store keyed correctly finds no match.
	rec := glockRecord()
	rec.ManufacturerPartNumber = "PA195S204"

	op := e.Decide(nil, classified(rec))
	require.Equal(t, OpInsert, op.Type)
	assert.Equal(t, catalog.SKU("PA195S204"), op.SKU)

	// A renumbered stock number under the same part number is an update,
	// not a new product.
	stored := *e.Decide(nil, classified(glockRecord())).Entity
	stored.ID = 3
	renumbered := glockRecord()
	renumbered.StockNumber = "GLK19G5NEW"

	op = e.Decide(&stored, classified(renumbered))
	require.Equal(t, OpUpdate, op.Type)
	assert.Equal(t, catalog.FieldDiff{"distributor_stock_number": "GLK19G5NEW"}, op.Diff)
}

func TestDecide_DisqualifiedHandgunBecomesParts(t *testing.T) {
	rec := glockRecord()
	rec.Description = "AR-15 PISTOL STRIPPED LOWER RECEIVER"

	op := testEngine().Decide(nil, classified(rec))

	require.Equal(t, OpInsert, op.Type)
	assert.Equal(t, catalog.CategoryParts, op.Entity.Category)
	// Serialized receivers still transfer through an FFL.
	assert.True(t, op.Entity.RequiresFFL)
}

func TestDecide_ReactivatesInactiveProduct(t *testing.T) {
	e := testEngine()

	stored := *e.Decide(nil, classified(glockRecord())).Entity
	stored.ID = 9
	stored.IsActive = false

	op := e.Decide(&stored, classified(glockRecord()))

	require.Equal(t, OpUpdate, op.Type)
	assert.Equal(t, catalog.FieldDiff{"is_active": true}, op.Diff)
}

func TestReconcile_CountsByOpType(t *testing.T) {
	e := testEngine()

	known := glockRecord()
	stored := *e.Decide(nil, classified(known)).Entity
	stored.ID = 1
	index := map[catalog.SKU]*catalog.Product{stored.SKU: &stored}

	changed := glockRecord()
	changed.QuantityOnHand = 0

	fresh := glockRecord()
	fresh.ManufacturerPartNumber = "PA175S203"
	fresh.StockNumber = "GLPA175S203"

	unkeyed := glockRecord()
	unkeyed.ManufacturerPartNumber = ""

	cs := e.Reconcile(index, []Incoming{
		*classified(known),
		*classified(fresh),
		*classified(unkeyed),
	})

	assert.Equal(t, 1, cs.NoOps)
	assert.Equal(t, 1, cs.Inserts)
	assert.Equal(t, 1, cs.Rejected)
	assert.Len(t, cs.Mutations(), 1)

	cs = e.Reconcile(index, []Incoming{*classified(changed)})
	assert.Equal(t, 1, cs.Updates)
	assert.Equal(t, false, cs.Ops[0].Diff["in_stock"])
}

func TestChangesetMutations(t *testing.T) {
	cs := &Changeset{}
	cs.Add(ChangeOp{Type: OpInsert, SKU: "A"})
	cs.Add(ChangeOp{Type: OpNoOp, SKU: "B"})
	cs.Add(ChangeOp{Type: OpUpdate, SKU: "C"})
	cs.Add(ChangeOp{Type: OpRejected})

	muts := cs.Mutations()
	require.Len(t, muts, 2)
	assert.Equal(t, catalog.SKU("A"), muts[0].SKU)
	assert.Equal(t, catalog.SKU("C"), muts[1].SKU)
}
