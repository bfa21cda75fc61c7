package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"

	"github.com/Shopify/go-lua"
)

// Engine drives a single game: board, players, the situation machine and
// the Lua rule-script interpreter. It is strictly single-threaded; a host
// embedding multiple actors must serialize calls against one instance.
type Engine struct {
	lua          *lua.State
	state        GameState
	salary       int64
	buildingCost int64
	now          Situation

	pendingChanceCardID string

	// randomness hooks, replaced in tests
	luckRoll func() bool
	pickCard func(n int) int
}

// New builds an engine from raw JSON definitions. Malformed input fails
// construction with a descriptive error and no engine is produced.
func New(boardJSON, chanceCardsJSON, constsJSON []byte, playersCount int, initialMoney, salary, buildingCost int64) (*Engine, error) {
	var board []Tile
	if err := json.Unmarshal(boardJSON, &board); err != nil {
		return nil, fmt.Errorf("parse board: %w", err)
	}
	if len(board) == 0 {
		return nil, errors.New("board must have at least one tile")
	}
	var cards map[string]ChanceCard
	if err := json.Unmarshal(chanceCardsJSON, &cards); err != nil {
		return nil, fmt.Errorf("parse chance cards: %w", err)
	}
	var consts map[string]int64
	if err := json.Unmarshal(constsJSON, &consts); err != nil {
		return nil, fmt.Errorf("parse consts: %w", err)
	}
	if playersCount < 1 {
		return nil, fmt.Errorf("players count must be positive, got %d", playersCount)
	}

	players := make([]Player, playersCount)
	for i := range players {
		players[i] = Player{
			ID:              uint32(i + 1),
			Money:           initialMoney,
			EducationStatus: NotYet,
		}
	}

	e := &Engine{
		state: GameState{
			Board:         board,
			ChanceCards:   cards,
			Players:       players,
			Properties:    map[string]Ownership{},
			Log:           []string{"Game started!"},
			Consts:        consts,
			LuckTestCache: -1,
		},
		salary:       salary,
		buildingCost: buildingCost,
		now:          PendingRollResponse,
		luckRoll:     func() bool { return rand.Float64() < 1.0/10.0 },
		pickCard:     rand.Intn,
	}

	e.lua = lua.NewState()
	lua.OpenLibraries(e.lua)
	e.registerHelpers()
	return e, nil
}

// Situation reports the state-machine discriminator the host must consult
// before every call.
func (e *Engine) Situation() Situation { return e.now }

// CurrentPlayerID returns the id of the player whose turn it is.
func (e *Engine) CurrentPlayerID() uint32 {
	return e.state.Players[e.state.CurrentTurnIdx].ID
}

// CurrentPosition returns the acting player's board position.
func (e *Engine) CurrentPosition() int {
	return e.state.Players[e.state.CurrentTurnIdx].Position
}

// BoardLen returns the number of tiles on the board.
func (e *Engine) BoardLen() int { return len(e.state.Board) }

// TileAt returns the tile at a position.
func (e *Engine) TileAt(pos int) Tile { return e.state.Board[pos] }

// PendingChanceCardID returns the drawn-but-unresolved card id, empty when
// nothing is pending.
func (e *Engine) PendingChanceCardID() string { return e.pendingChanceCardID }

// ExportJSON serializes the complete game state for the host.
func (e *Engine) ExportJSON() ([]byte, error) {
	return json.Marshal(e.state)
}

func (e *Engine) logf(format string, args ...interface{}) {
	e.state.Log = append(e.state.Log, fmt.Sprintf(format, args...))
}

func (e *Engine) currentPlayer() *Player {
	return &e.state.Players[e.state.CurrentTurnIdx]
}

func (e *Engine) playerByID(id uint32) *Player {
	for i := range e.state.Players {
		if e.state.Players[i].ID == id {
			return &e.state.Players[i]
		}
	}
	return nil
}

func (e *Engine) maxBuildings() int64 {
	if v, ok := e.state.Consts["MAX_BUILDINGS"]; ok && v > 0 {
		return v
	}
	return 1
}

func (e *Engine) findTileOfType(tileType string) (int, bool) {
	for i, tile := range e.state.Board {
		if tile.Type == tileType {
			return i, true
		}
	}
	return 0, false
}

func (e *Engine) promptFinancialCrisis() {
	e.now = PendingFinancialCrisisResponse
}

// roundTo rounds x to the nearest multiple of n, half away from zero.
func roundTo(x, n int64) int64 {
	rem := x % n
	if 2*rem >= n {
		return x - rem + n
	}
	return x - rem
}
