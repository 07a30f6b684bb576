package engine

const (
	MinBoardSize = 2
	// MaxBoardSize is bounded by the two-letter coordinate alphabet.
	MaxBoardSize = 26
)

// Captures counts stones each side has taken from the other.
type Captures struct {
	Black int `json:"black"`
	White int `json:"white"`
}

// GameState is a complete, immutable position. All methods have value
// receivers and return new states, so branching from one position is safe.
type GameState struct {
	board      Board
	toMove     Color
	ko         Position
	hasKo      bool
	passStreak int
	moveCount  int
	captures   Captures
	komi       float64
}

type Option func(*GameState)

// WithKomi adds k points to White's final score.
func WithKomi(k float64) Option {
	return func(s *GameState) {
		s.komi = k
	}
}

func NewGame(size int, opts ...Option) (GameState, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return GameState{}, ErrInvalidSize
	}
	s := GameState{
		board:  NewBoard(size),
		toMove: Black,
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s, nil
}

func (s GameState) Board() Board {
	return s.board
}

func (s GameState) Size() int {
	return s.board.size
}

func (s GameState) ToMove() Color {
	return s.toMove
}

// KoPoint returns the point banned for the side to move, if any.
func (s GameState) KoPoint() (Position, bool) {
	return s.ko, s.hasKo
}

func (s GameState) PassStreak() int {
	return s.passStreak
}

func (s GameState) MoveCount() int {
	return s.moveCount
}

func (s GameState) Captures() Captures {
	return s.captures
}

func (s GameState) Komi() float64 {
	return s.komi
}

// IsTerminal reports whether both players passed in a row.
func (s GameState) IsTerminal() bool {
	return s.passStreak >= 2
}

// Step applies m and returns the resulting state. On error s is unchanged
// and no new state exists. Once the game is over every move fails with
// ErrGameOver.
func (s GameState) Step(m Move) (GameState, error) {
	acc, err := Validate(s, m)
	if err != nil {
		return GameState{}, err
	}

	next := s
	next.board = acc.Board
	next.toMove = s.toMove.Opponent()
	next.moveCount++
	if m.Pass {
		next.passStreak++
		next.ko, next.hasKo = Position{}, false
		return next, nil
	}

	next.passStreak = 0
	switch s.toMove {
	case Black:
		next.captures.Black += len(acc.Captured)
	case White:
		next.captures.White += len(acc.Captured)
	}
	next.ko, next.hasKo = nextKo(acc.Captured, acc.Group)
	next.mustBeConsistent()
	return next, nil
}

// LegalMoves lists every placement the side to move may make, followed by
// pass, which is legal until the game is over. A finished game has no legal
// moves.
func (s GameState) LegalMoves() []Move {
	if s.IsTerminal() {
		return []Move{}
	}
	size := s.board.size
	moves := make([]Move, 0, size*size+1)
	for r := 0; r < size; r++ {
		for c := 0; c < size; c++ {
			m := Place(r, c)
			if _, err := Validate(s, m); err == nil {
				moves = append(moves, m)
			}
		}
	}
	return append(moves, Pass())
}

func (s GameState) mustBeConsistent() {
	stones := s.board.Count(Black) + s.board.Count(White)
	if stones > len(s.board.cells) || s.passStreak < 0 || s.captures.Black < 0 || s.captures.White < 0 {
		panic("engine: inconsistent game state")
	}
	if s.hasKo && s.board.At(s.ko) != Empty {
		panic("engine: ko point is occupied")
	}
}
