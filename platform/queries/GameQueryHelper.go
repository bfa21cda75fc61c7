package queries

import (
	"fmt"

	"github.com/gomodule/redigo/redis"

	"github.com/marblecore/bluemarble-backend/platform/cache"
)

// The engine owns the turn index; redis just mirrors whose turn it is so
// reconnecting clients and other processes can ask cheaply.

func IsUserTurn(game_id string, user_id string, conn *redis.Conn) bool {
	val, err := cache.Get(game_id, conn)
	if err != nil {
		return false
	}
	return val == user_id
}

func SetCurrentTurn(game_id string, user_id string, conn *redis.Conn) {
	cache.Set(game_id, user_id, conn)
}

func GetTurnOrder(game_id string, conn *redis.Conn) ([]string, error) {
	return cache.LGET(orderKey(game_id), conn)
}

// SnapshotKey is where the serialized engine state of a game lives.
func SnapshotKey(game_id string) string {
	return fmt.Sprintf("%s.state", game_id)
}

// SaveSnapshot stores the full engine export after a mutating operation.
func SaveSnapshot(game_id string, state []byte, conn *redis.Conn) error {
	return cache.Set(SnapshotKey(game_id), state, conn)
}

// LoadSnapshot returns the last stored engine export.
func LoadSnapshot(game_id string, conn *redis.Conn) (string, error) {
	return cache.Get(SnapshotKey(game_id), conn)
}
