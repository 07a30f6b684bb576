package engine

import "encoding/json"

// Snapshot is the serializable form of a GameState.
type Snapshot struct {
	Size       int       `json:"size"`
	Rows       []string  `json:"rows"`
	ToMove     string    `json:"to_move"`
	Ko         *Position `json:"ko,omitempty"`
	PassStreak int       `json:"pass_streak"`
	MoveCount  int       `json:"move_count"`
	Captures   Captures  `json:"captures"`
	Komi       float64   `json:"komi"`
}

func (s GameState) Snapshot() Snapshot {
	sn := Snapshot{
		Size:       s.board.size,
		Rows:       s.board.Rows(),
		ToMove:     s.toMove.String(),
		PassStreak: s.passStreak,
		MoveCount:  s.moveCount,
		Captures:   s.captures,
		Komi:       s.komi,
	}
	if s.hasKo {
		ko := s.ko
		sn.Ko = &ko
	}
	return sn
}

// FromSnapshot rebuilds a state and checks the invariants a state produced
// by Step always satisfies.
func FromSnapshot(sn Snapshot) (GameState, error) {
	if sn.Size < MinBoardSize || sn.Size > MaxBoardSize || len(sn.Rows) != sn.Size {
		return GameState{}, ErrInvalidSnapshot
	}
	b, err := ParseBoard(sn.Rows)
	if err != nil {
		return GameState{}, err
	}

	s := GameState{
		board:      b,
		passStreak: sn.PassStreak,
		moveCount:  sn.MoveCount,
		captures:   sn.Captures,
		komi:       sn.Komi,
	}
	switch sn.ToMove {
	case "black":
		s.toMove = Black
	case "white":
		s.toMove = White
	default:
		return GameState{}, ErrInvalidSnapshot
	}
	if sn.PassStreak < 0 || sn.PassStreak > 2 || sn.MoveCount < 0 || sn.Captures.Black < 0 || sn.Captures.White < 0 {
		return GameState{}, ErrInvalidSnapshot
	}
	if sn.Ko != nil {
		if !b.InBounds(*sn.Ko) || b.At(*sn.Ko) != Empty {
			return GameState{}, ErrInvalidSnapshot
		}
		s.ko, s.hasKo = *sn.Ko, true
	}
	return s, nil
}

func (s GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Snapshot())
}

func (s *GameState) UnmarshalJSON(data []byte) error {
	var sn Snapshot
	if err := json.Unmarshal(data, &sn); err != nil {
		return err
	}
	decoded, err := FromSnapshot(sn)
	if err != nil {
		return err
	}
	*s = decoded
	return nil
}

// Equal reports whether two states describe the same position and history
// counters.
func (s GameState) Equal(o GameState) bool {
	return s.board.Equal(o.board) &&
		s.toMove == o.toMove &&
		s.hasKo == o.hasKo &&
		s.ko == o.ko &&
		s.passStreak == o.passStreak &&
		s.moveCount == o.moveCount &&
		s.captures == o.captures &&
		s.komi == o.komi
}
