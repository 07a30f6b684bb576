package game

// @name Move
type Move struct {
	Color       string `json:"color" bson:"color"`             // SGF property: "B" or "W"
	Coordinates string `json:"coordinates" bson:"coordinates"` // "dd" style, or "pass"
}

// @name MoveRequest
type MoveRequest struct {
	Coordinates string `json:"coordinates"`
}

// @name Moves
type Moves struct {
	Moves []Move `json:"moves"`
}
