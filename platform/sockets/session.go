package socket

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/marblecore/bluemarble-backend/platform/board"
	"github.com/marblecore/bluemarble-backend/platform/engine"
)

// session is one running game: the engine plus the seat order that maps
// user ids onto engine player ids. The engine is single-threaded, so
// every event handler takes the session lock for the whole operation.
type session struct {
	mu    sync.Mutex
	eng   *engine.Engine
	defs  *board.Definitions
	order []string
}

var (
	sessionsMu sync.Mutex
	sessions   = map[string]*session{}
)

func getSession(game_id string) *session {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	return sessions[game_id]
}

func putSession(game_id string, sess *session) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	sessions[game_id] = sess
}

func dropSession(game_id string) {
	sessionsMu.Lock()
	defer sessionsMu.Unlock()
	delete(sessions, game_id)
}

// playerID maps a user to their engine seat (1-based, seat order).
func (s *session) playerID(user_id string) (uint32, bool) {
	for idx, id := range s.order {
		if id == user_id {
			return uint32(idx + 1), true
		}
	}
	return 0, false
}

// userOf is the reverse mapping, engine player id to user id.
func (s *session) userOf(playerID uint32) string {
	idx := int(playerID) - 1
	if idx < 0 || idx >= len(s.order) {
		return ""
	}
	return s.order[idx]
}

func (s *session) isUserTurn(user_id string) bool {
	pid, ok := s.playerID(user_id)
	return ok && pid == s.eng.CurrentPlayerID()
}

// gameConsts are the construction numbers the host reads from the same
// consts.json the engine receives.
type gameConsts struct {
	InitialMoney int64
	Salary       int64
	BuildingCost int64
}

func loadGameConsts(constsJSON []byte) (gameConsts, error) {
	consts := map[string]int64{}
	if err := json.Unmarshal(constsJSON, &consts); err != nil {
		return gameConsts{}, fmt.Errorf("parse consts: %w", err)
	}
	gc := gameConsts{
		InitialMoney: 3000000,
		Salary:       2000000,
		BuildingCost: 100000,
	}
	if v, ok := consts["INITIAL_MONEY"]; ok {
		gc.InitialMoney = v
	}
	if v, ok := consts["SALARY"]; ok {
		gc.Salary = v
	}
	if v, ok := consts["BUILDING_COST"]; ok {
		gc.BuildingCost = v
	}
	return gc, nil
}
