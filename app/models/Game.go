package models

// Game is a lobby row. Status is "false" until the room starts, then
// "in progress".
type Game struct {
	Id     string `json:"id"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Type   string `json:"type"`
}

type GameCreateDto struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type VerifyGameDto struct {
	Code    string `query:"code"`
	User_id string `query:"user_id"`
}
