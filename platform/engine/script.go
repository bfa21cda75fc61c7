package engine

import (
	"fmt"
	"math"

	"github.com/Shopify/go-lua"
)

// The helper surface exposed to rule scripts. Helpers are registered once
// at construction and close over state frozen at that moment; they are
// pure reads, never mutations.
func (e *Engine) registerHelpers() {
	board := make([]Tile, len(e.state.Board))
	copy(board, e.state.Board)
	playerCount := len(e.state.Players)

	e.lua.Register("get_player_count", func(l *lua.State) int {
		l.PushInteger(playerCount)
		return 1
	})

	e.lua.Register("round100000", func(l *lua.State) int {
		x := lua.CheckInteger(l, 1)
		l.PushInteger(int(roundTo(int64(x), 100000)))
		return 1
	})

	// Wrapping forward search for the next tile of a type, skipping the
	// current position. Returns the same position if none is found.
	e.lua.Register("find_next_tile_of_type", func(l *lua.State) int {
		currentPos := lua.CheckInteger(l, 1)
		tileType := lua.CheckString(l, 2)
		first, firstAfter := -1, -1
		for i, tile := range board {
			if i == currentPos || tile.Type != tileType {
				continue
			}
			if first < 0 {
				first = i
			}
			if i > currentPos && firstAfter < 0 {
				firstAfter = i
			}
		}
		switch {
		case firstAfter >= 0:
			l.PushInteger(firstAfter)
		case first >= 0:
			l.PushInteger(first)
		default:
			l.PushInteger(currentPos)
		}
		return 1
	})

	e.lua.Register("get_coastal_cities", func(l *lua.State) int {
		l.NewTable()
		n := 0
		for _, tile := range board {
			if tile.IsCoastal {
				n++
				l.PushString(tile.Name)
				l.RawSetInt(-2, n)
			}
		}
		return 1
	})
}

// evalScript injects the fact scope as globals, runs one rule script to
// completion and hands back its returned table as a Go map. The script
// must end with `return { type = ..., ... }`.
func (e *Engine) evalScript(src string, facts map[string]interface{}) (map[string]interface{}, error) {
	l := e.lua
	for name, value := range facts {
		pushGoValue(l, value)
		l.SetGlobal(name)
	}
	if err := lua.LoadString(l, src); err != nil {
		return nil, fmt.Errorf("load script: %w", err)
	}
	if err := l.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run script: %w", err)
	}
	if l.TypeOf(-1) != lua.TypeTable {
		l.Pop(1)
		return nil, fmt.Errorf("script must return a table")
	}
	result := tableToMap(l, l.AbsIndex(-1))
	l.Pop(1)
	return result, nil
}

func pushGoValue(l *lua.State, value interface{}) {
	switch v := value.(type) {
	case nil:
		l.PushNil()
	case bool:
		l.PushBoolean(v)
	case int:
		l.PushInteger(v)
	case int64:
		l.PushInteger(int(v))
	case uint32:
		l.PushInteger(int(v))
	case float64:
		l.PushNumber(v)
	case string:
		l.PushString(v)
	case []string:
		l.NewTable()
		for i, s := range v {
			l.PushString(s)
			l.RawSetInt(-2, i+1)
		}
	case []interface{}:
		l.NewTable()
		for i, item := range v {
			pushGoValue(l, item)
			l.RawSetInt(-2, i+1)
		}
	case map[string]interface{}:
		l.NewTable()
		for key, item := range v {
			pushGoValue(l, item)
			l.SetField(-2, key)
		}
	case map[string]int64:
		l.NewTable()
		for key, item := range v {
			l.PushInteger(int(item))
			l.SetField(-2, key)
		}
	case Tile:
		l.NewTable()
		l.PushString(v.Name)
		l.SetField(-2, "name")
		l.PushString(v.Type)
		l.SetField(-2, "type")
		l.PushInteger(int(v.Price))
		l.SetField(-2, "price")
		l.PushInteger(int(v.Amount))
		l.SetField(-2, "amount")
		l.PushBoolean(v.IsCoastal)
		l.SetField(-2, "is_coastal")
		l.PushBoolean(v.IsMegacity)
		l.SetField(-2, "is_megacity")
	case TicketCount:
		l.NewTable()
		l.PushInteger(int(v.FreeHospital))
		l.SetField(-2, "free_hospital")
		l.PushInteger(int(v.FreeProperty))
		l.SetField(-2, "free_property")
		l.PushInteger(int(v.DoubleLotto))
		l.SetField(-2, "double_lotto")
		l.PushInteger(int(v.NoTax))
		l.SetField(-2, "no_tax")
		l.PushInteger(int(v.ReleaseFromJail))
		l.SetField(-2, "release_from_jail")
		l.PushInteger(int(v.Bonus))
		l.SetField(-2, "bonus")
	default:
		l.PushNil()
	}
}

func tableToMap(l *lua.State, index int) map[string]interface{} {
	output := map[string]interface{}{}
	if l.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = l.AbsIndex(index)
	l.PushNil()
	for l.Next(index) {
		if l.TypeOf(-2) == lua.TypeString {
			key, _ := l.ToString(-2)
			output[key] = luaToGo(l, -1)
		}
		l.Pop(1)
	}
	return output
}

func luaToGo(l *lua.State, index int) interface{} {
	switch l.TypeOf(index) {
	case lua.TypeString:
		value, _ := l.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := l.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return l.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(l, index)
	default:
		return nil
	}
}

func tableToGo(l *lua.State, index int) interface{} {
	index = l.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	l.PushNil()
	for l.Next(index) {
		if isArray {
			if l.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := l.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		l.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]interface{}, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			l.RawGetInt(index, i)
			result = append(result, luaToGo(l, -1))
			l.Pop(1)
		}
		return result
	}

	return tableToMap(l, index)
}

func normalizeNumber(value float64) interface{} {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
