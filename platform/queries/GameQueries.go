package queries

import (
	"fmt"

	"github.com/go-pg/pg/v10"
	"github.com/gomodule/redigo/redis"
	socketio "github.com/googollee/go-socket.io"
	log "github.com/sirupsen/logrus"

	"github.com/marblecore/bluemarble-backend/app/models"
	"github.com/marblecore/bluemarble-backend/platform/cache"
)

func VerifyGame(id string, db *pg.DB) bool {
	game := &models.Game{Id: id}
	return db.Model(game).WherePK().Select() == nil
}

func CreatePlayer(player models.Player, db *pg.DB) error {
	_, err := db.Model(&player).Insert()
	return err
}

// DeletePlayer removes a player from the lobby tables and the session
// keys. When fewer than two players remain the whole game is torn down.
func DeletePlayer(user_id string, game_id string, db *pg.DB, server *socketio.Server) error {
	conn, err := cache.CreateRedisConnection()
	if err != nil {
		return err
	}
	defer conn.Close()

	player := new(models.Player)
	_, errDelete := db.Model(player).Where("user_id = ? and game_id = ?", user_id, game_id).Delete()

	CheckDB(game_id, db)

	cache.LREM(orderKey(game_id), user_id, &conn)

	length, _ := cache.LLEN(orderKey(game_id), &conn)
	if length <= 1 {
		CleanUp(game_id, db, &conn)
		server.BroadcastToRoom("/", game_id, "game-over")
	}

	return errDelete
}

// CheckDB drops the game row once it has no players left.
func CheckDB(game_id string, db *pg.DB) {
	var players []models.Player
	err := db.Model(&players).Where("game_id = ?", game_id).Select()
	if err != nil || len(players) == 0 {
		game := new(models.Game)
		if _, err := db.Model(game).Where("id = ?", game_id).Delete(); err != nil {
			log.WithError(err).Warn("failed deleting empty game")
		}
	}
}

// CleanUp removes every trace of a finished game from postgres and redis.
func CleanUp(game_id string, db *pg.DB, conn *redis.Conn) {
	player := new(models.Player)
	game := new(models.Game)
	db.Model(player).Where("game_id = ?", game_id).Delete()
	db.Model(game).Where("id = ?", game_id).Delete()

	cache.Del(SnapshotKey(game_id), conn)
	cache.Del(orderKey(game_id), conn)
	cache.Del(game_id, conn)
}

// StartGame flips the lobby row to in-progress and seeds the turn order
// list in redis. Returns the seat order (user ids) or nil when the game
// cannot start.
func StartGame(game_id string, db *pg.DB, conn *redis.Conn) []string {
	var players []models.Player

	err := db.Model(&players).Where("game_id = ?", game_id).Order("id ASC").Select()
	if err != nil || len(players) <= 1 {
		return nil
	}

	order := make([]string, 0, len(players))
	var ids []interface{}
	for _, player := range players {
		order = append(order, player.User_id)
		ids = append(ids, player.User_id)
	}
	cache.Del(orderKey(game_id), conn)
	if err := cache.RPUSH(orderKey(game_id), ids, conn); err != nil {
		log.WithError(err).Error("failed seeding turn order")
		return nil
	}
	cache.Set(game_id, order[0], conn)

	game := &models.Game{Id: game_id}
	if _, err := db.Model(game).WherePK().Set("status = ?", "in progress").Update(); err != nil {
		log.WithError(err).Error("failed marking game in progress")
		return nil
	}
	return order
}

func orderKey(game_id string) string {
	return fmt.Sprintf("%s.order", game_id)
}
