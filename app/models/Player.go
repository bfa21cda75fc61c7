package models

// Player is a lobby membership row; the in-game player lives inside the
// engine state, keyed by seat order.
type Player struct {
	User_id  string `json:"user_id"`
	Game_id  string `json:"game_id"`
	Username string `json:"username"`
	Active   string `json:"active"`
}
