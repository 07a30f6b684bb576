package game

import (
	"time"

	"goban/internal/engine"
)

type Game struct {
	ID          string          `json:"id" bson:"_id"`
	CreatedAt   time.Time       `json:"created_at" bson:"created_at"`
	FinishedAt  *time.Time      `json:"finished_at,omitempty" bson:"finished_at,omitempty"`
	Status      string          `json:"status" bson:"status"`
	BoardSize   int             `json:"board_size" bson:"board_size"`
	Komi        float64         `json:"komi" bson:"komi"`
	PlayerBlack string          `json:"player_black,omitempty" bson:"player_black,omitempty"`
	PlayerWhite string          `json:"player_white,omitempty" bson:"player_white,omitempty"`
	Setup       *Setup          `json:"setup,omitempty" bson:"setup,omitempty"`
	Moves       []Move          `json:"moves" bson:"moves"`
	State       engine.Snapshot `json:"state" bson:"state"`
	Result      *Result         `json:"result,omitempty" bson:"result,omitempty"`
}

// Setup holds stones placed before the first move, as in SGF AB/AW/PL.
type Setup struct {
	Black  []string `json:"black,omitempty" bson:"black,omitempty"`
	White  []string `json:"white,omitempty" bson:"white,omitempty"`
	ToMove string   `json:"to_move,omitempty" bson:"to_move,omitempty"` // "B" or "W"
}

type Result struct {
	Black  float64 `json:"black" bson:"black"`
	White  float64 `json:"white" bson:"white"`
	Winner string  `json:"winner" bson:"winner"` // "black", "white" or "draw"
}

type CreateGameRequest struct {
	BoardSize   int      `json:"board_size"`
	Komi        *float64 `json:"komi,omitempty"`
	PlayerBlack string   `json:"player_black,omitempty"`
	PlayerWhite string   `json:"player_white,omitempty"`
}

type ImportGameRequest struct {
	SGF string `json:"sgf"`
}

type GameCreateResponse struct {
	ID string `json:"id"`
}

type GameStateResponse struct {
	Move *Move `json:"move,omitempty"`
	Game Game  `json:"game"`
}

type LegalMovesResponse struct {
	ID    string   `json:"id"`
	Moves []string `json:"moves"`
}
