package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evalOn(t *testing.T, e *Engine, src string) map[string]interface{} {
	t.Helper()
	result, err := e.evalScript(src, nil)
	require.NoError(t, err)
	return result
}

func TestHelperGetPlayerCount(t *testing.T) {
	e := newTestEngine(t, 3)
	result := evalOn(t, e, `return { n = get_player_count() }`)
	assert.Equal(t, 3, result["n"])
}

func TestHelperRound100000(t *testing.T) {
	e := newTestEngine(t, 2)
	result := evalOn(t, e, `return { a = round100000(149999), b = round100000(150000), c = round100000(49999) }`)
	assert.Equal(t, 100000, result["a"])
	assert.Equal(t, 200000, result["b"])
	assert.Equal(t, 0, result["c"])
}

func TestHelperFindNextTileOfType(t *testing.T) {
	e := newTestEngine(t, 2)

	// Properties sit at 1 and 2: forward from 1 finds 2, from 2 wraps to 1
	result := evalOn(t, e, `return {
		forward = find_next_tile_of_type(1, "Property"),
		wrapped = find_next_tile_of_type(2, "Property"),
		missing = find_next_tile_of_type(5, "Casino")
	}`)
	assert.Equal(t, 2, result["forward"])
	assert.Equal(t, 1, result["wrapped"])
	assert.Equal(t, 5, result["missing"])
}

func TestHelperGetCoastalCities(t *testing.T) {
	e := newTestEngine(t, 2)
	result := evalOn(t, e, `return { cities = get_coastal_cities() }`)
	assert.Equal(t, []interface{}{"Taipei"}, result["cities"])
}

func TestEvalScriptInjectsFacts(t *testing.T) {
	e := newTestEngine(t, 2)
	result, err := e.evalScript(`return { sum = a + b, tag = label, yes = flag }`, map[string]interface{}{
		"a":     int64(40),
		"b":     2,
		"label": "hello",
		"flag":  true,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, result["sum"])
	assert.Equal(t, "hello", result["tag"])
	assert.Equal(t, true, result["yes"])
}

func TestEvalScriptExposesTiles(t *testing.T) {
	e := newTestEngine(t, 2)
	result, err := e.evalScript(`return {
		name = tile.name,
		price = tile.price,
		coastal = tile.is_coastal
	}`, map[string]interface{}{"tile": e.TileAt(1)})
	require.NoError(t, err)
	assert.Equal(t, "Taipei", result["name"])
	assert.Equal(t, 200000, result["price"])
	assert.Equal(t, true, result["coastal"])
}

func TestEvalScriptExposesTickets(t *testing.T) {
	e := newTestEngine(t, 2)
	result, err := e.evalScript(`return { n = tickets.no_tax, h = tickets.free_hospital }`,
		map[string]interface{}{"tickets": TicketCount{NoTax: 2, FreeHospital: 1}})
	require.NoError(t, err)
	assert.Equal(t, 2, result["n"])
	assert.Equal(t, 1, result["h"])
}

func TestEvalScriptNestedTables(t *testing.T) {
	e := newTestEngine(t, 2)
	result := evalOn(t, e, `return {
		list = {1, 2, 3},
		dict = { x = "y" },
		frac = 1.5
	}`)
	assert.Equal(t, []interface{}{1, 2, 3}, result["list"])
	assert.Equal(t, map[string]interface{}{"x": "y"}, result["dict"])
	assert.Equal(t, 1.5, result["frac"])
}

func TestEvalScriptSyntaxError(t *testing.T) {
	e := newTestEngine(t, 2)
	_, err := e.evalScript(`return {`, nil)
	assert.Error(t, err)
}

func TestEvalScriptRuntimeError(t *testing.T) {
	e := newTestEngine(t, 2)
	_, err := e.evalScript(`error("boom")`, nil)
	assert.Error(t, err)
}

func TestEvalScriptNonTableReturn(t *testing.T) {
	e := newTestEngine(t, 2)
	_, err := e.evalScript(`return "flat"`, nil)
	assert.Error(t, err)
}
