package socket

import (
	"encoding/json"
	"math/rand"
	"net/http"
	"os"
	"strconv"

	"github.com/gomodule/redigo/redis"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"

	"github.com/marblecore/bluemarble-backend/app/models"
	"github.com/marblecore/bluemarble-backend/platform/board"
	"github.com/marblecore/bluemarble-backend/platform/cache"
	"github.com/marblecore/bluemarble-backend/platform/database"
	"github.com/marblecore/bluemarble-backend/platform/engine"
	"github.com/marblecore/bluemarble-backend/platform/queries"
)

func dataDir() string {
	if dir := os.Getenv("BOARD_DATA_DIR"); dir != "" {
		return dir
	}
	return "platform/board/data"
}

func rollDice() engine.DicePair {
	return engine.DicePair{A: rand.Intn(6) + 1, B: rand.Intn(6) + 1}
}

// syncState snapshots the engine to redis and pushes state + situation to
// the room after every mutating operation.
func syncState(server *socketio.Server, game_id string, sess *session, conn *redis.Conn) {
	state, err := sess.eng.ExportJSON()
	if err != nil {
		log.WithError(err).Error("failed exporting game state")
		return
	}
	if err := queries.SaveSnapshot(game_id, state, conn); err != nil {
		log.WithError(err).Warn("failed saving snapshot")
	}
	server.BroadcastToRoom("/", game_id, "game-state", string(state))
	server.BroadcastToRoom("/", game_id, "situation", string(sess.eng.Situation()))
}

func CreateSocketIOServer() {

	server, err := socketio.NewServer(nil)
	if err != nil {
		panic(err)
	}
	db := database.PostgreSQLConnection()
	defer db.Close()

	pool := cache.CreateRedisPool()
	defer pool.Close()

	server.OnConnect("/", func(s socketio.Conn) error {
		s.SetContext("")
		return nil
	})

	server.OnEvent("/", "see", func(s socketio.Conn) {
		log.Debug("pinged")
	})

	server.OnEvent("/", "join-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		id, ok := result["game_id"]
		if !ok {
			log.Warn("game_id not passed")
			return
		}
		if !queries.VerifyGame(id, db) {
			s.Emit("error-message", "Invalid game")
			s.Emit("failed")
			return
		}
		user_id, ok := result["user_id"]
		if !ok {
			s.Emit("error-message", "User not authenticated")
			s.Emit("failed")
			return
		}

		user, err := queries.GetUserData(user_id, db)
		if err != nil {
			s.Emit("error-message", "User retrieval failed")
			s.Emit("failed")
			return
		}
		err = queries.CreatePlayer(models.Player{
			Game_id:  id,
			User_id:  user_id,
			Username: user.Email,
		}, db)
		if err != nil {
			log.WithError(err).Warn("failed creating player")
			s.Emit("error-message", "Failed creating player")
			s.Emit("failed")
			return
		}

		server.BroadcastToRoom("/", id, "player-join")
		s.Join(id)
		players := server.RoomLen("/", id)
		s.Emit("joined-game", strconv.Itoa(players))
		log.Infof("%s joined room %s", s.ID(), id)
	})

	server.OnEvent("/", "leave-game", func(s socketio.Conn, jsonStr string) {
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)

		s.Leave(result["game_id"])
		go queries.DeletePlayer(result["user_id"], result["game_id"], db, server)
		server.BroadcastToRoom("/", result["game_id"], "player-left")
	})

	server.OnEvent("/", "start-game", func(s socketio.Conn, game_id string) {
		conn := pool.Get()
		defer conn.Close()

		order := queries.StartGame(game_id, db, &conn)
		if order == nil {
			s.Emit("error-message", "Unable to start game")
			return
		}

		defs, err := board.Load(dataDir())
		if err != nil {
			log.WithError(err).Error("failed loading board definitions")
			s.Emit("error-message", "Unable to start game")
			return
		}
		gc, err := loadGameConsts(defs.ConstsJSON)
		if err != nil {
			log.WithError(err).Error("bad consts definition")
			s.Emit("error-message", "Unable to start game")
			return
		}
		eng, err := engine.New(defs.BoardJSON, defs.CardsJSON, defs.ConstsJSON,
			len(order), gc.InitialMoney, gc.Salary, gc.BuildingCost)
		if err != nil {
			log.WithError(err).Error("failed constructing engine")
			s.Emit("error-message", "Unable to start game")
			return
		}

		sess := &session{eng: eng, defs: defs, order: order}
		putSession(game_id, sess)

		server.BroadcastToRoom("/", game_id, "game-start")
		syncState(server, game_id, sess, &conn)
		server.BroadcastToRoom("/", game_id, "change-turn", sess.userOf(eng.CurrentPlayerID()))
	})

	server.OnEvent("/", "roll-dice", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			s.Emit("error-message", "Game not started")
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		if sess.eng.Situation() != engine.PendingRollResponse {
			s.Emit("error-message", "You have already rolled the dice")
			return
		}

		dices := rollDice()
		dest := (sess.eng.CurrentPosition() + dices.Sum()) % sess.eng.BoardLen()
		tile := sess.eng.TileAt(dest)
		actionScript, err := sess.defs.ScriptFor(tile)
		if err != nil {
			log.WithError(err).Error("no action script")
			s.Emit("error-message", "Game data is broken")
			return
		}
		cycleScript, err := sess.defs.CycleScript()
		if err != nil {
			log.WithError(err).Error("no cycle script")
			s.Emit("error-message", "Game data is broken")
			return
		}

		if err := sess.eng.RunTurnScript(actionScript, dices, cycleScript); err != nil {
			log.WithError(err).Error("turn script failed")
			s.Emit("error-message", "Rule script failed")
		}
		server.BroadcastToRoom("/", game_id, "dice-result",
			strconv.Itoa(dices.A)+","+strconv.Itoa(dices.B))
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "request-buy", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		sess.eng.Buy(sess.eng.CurrentPosition())
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "use-ticket", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}

		// kind may be empty, that declines the ticket
		toUse := engine.OneTicket(result["kind"])
		tile := sess.eng.TileAt(sess.eng.CurrentPosition())
		actionScript, err := sess.defs.ScriptFor(tile)
		if err != nil {
			log.WithError(err).Error("no action script")
			return
		}
		cycleScript, _ := sess.defs.CycleScript()
		if err := sess.eng.UseTicket(toUse, actionScript, cycleScript); err != nil {
			log.WithError(err).Error("use-ticket script failed")
			s.Emit("error-message", "Rule script failed")
		}
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "luck-test", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		sess.eng.LuckTest(result["boosted"] == "true")
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "jailbreak", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		switch result["method"] {
		case "dice":
			dices := rollDice()
			sess.eng.TryToJailbreakByDices(dices)
			server.BroadcastToRoom("/", game_id, "dice-result",
				strconv.Itoa(dices.A)+","+strconv.Itoa(dices.B))
		case "money":
			sess.eng.TryToJailbreakByMoney()
		default:
			sess.eng.GiveUpJailbreak()
		}
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "draw-chance-card", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		sess.eng.GetRandomChanceCard()
		server.BroadcastToRoom("/", game_id, "chance-card", sess.eng.PendingChanceCardID())
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "check-chance-card", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		chanceScript, err := sess.defs.ChanceScript()
		if err != nil {
			log.WithError(err).Error("no chance script")
			return
		}
		cycleScript, _ := sess.defs.CycleScript()
		if err := sess.eng.CheckChanceCard(chanceScript, cycleScript, result["payload"]); err != nil {
			log.WithError(err).Error("chance script failed")
			s.Emit("error-message", "Rule script failed")
		}
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "borrow-money", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		pid, ok := sess.playerID(result["user_id"])
		if !ok {
			return
		}
		amount, err := strconv.ParseInt(result["amount"], 10, 64)
		if err != nil {
			s.Emit("error-message", "Bad amount")
			return
		}
		sess.eng.BorrowMoney(pid, amount)
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "repay-loan", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		pid, ok := sess.playerID(result["user_id"])
		if !ok {
			return
		}
		loan_id, err1 := strconv.ParseUint(result["loan_id"], 10, 32)
		amount, err2 := strconv.ParseInt(result["amount"], 10, 64)
		if err1 != nil || err2 != nil {
			s.Emit("error-message", "Bad loan payment")
			return
		}
		sess.eng.RepayLoan(pid, uint32(loan_id), amount)
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "resolve-crisis", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		sess.eng.ResolveFinancialCrisis()
		syncState(server, game_id, sess, &conn)
	})

	server.OnEvent("/", "end-turn", func(s socketio.Conn, jsonStr string) {
		conn := pool.Get()
		defer conn.Close()
		var result map[string]string
		json.Unmarshal([]byte(jsonStr), &result)
		game_id := result["game_id"]

		sess := getSession(game_id)
		if sess == nil {
			return
		}
		sess.mu.Lock()
		defer sess.mu.Unlock()

		if !sess.isUserTurn(result["user_id"]) {
			s.Emit("error-message", "Not your turn")
			return
		}
		sess.eng.EndTurn()

		next := sess.userOf(sess.eng.CurrentPlayerID())
		queries.SetCurrentTurn(game_id, next, &conn)
		server.BroadcastToRoom("/", game_id, "change-turn", next)
		syncState(server, game_id, sess, &conn)

		if sess.eng.Situation() == engine.EndGame {
			server.BroadcastToRoom("/", game_id, "game-over")
			queries.CleanUp(game_id, db, &conn)
			dropSession(game_id)
		}
	})

	server.OnError("/", func(s socketio.Conn, e error) {
		log.WithError(e).Error("socket error")
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		rooms := s.Rooms()
		for _, room := range rooms {
			server.BroadcastToRoom("/", room, "player-left")
		}
		s.LeaveAll()
	})

	go server.Serve()
	defer server.Close()

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowCredentials: true,
	})

	mux := http.NewServeMux()
	mux.Handle("/socket.io/", server)
	http.ListenAndServe(":8000", c.Handler(mux))
}
