package engine

// Score is an area count: stones on the board plus empty regions bordered
// by a single color. Komi, if any, is included in White.
type Score struct {
	Black float64 `json:"black"`
	White float64 `json:"white"`
}

// Winner returns Empty on a tie.
func (s Score) Winner() Color {
	switch {
	case s.Black > s.White:
		return Black
	case s.White > s.Black:
		return White
	}
	return Empty
}

// Margin is Black minus White.
func (s Score) Margin() float64 {
	return s.Black - s.White
}

// Score is only defined once the game is over.
func (s GameState) Score() (Score, error) {
	if !s.IsTerminal() {
		return Score{}, ErrNotTerminal
	}
	sc := AreaScore(s.board)
	sc.White += s.komi
	return sc, nil
}

// AreaScore counts b without komi. Empty regions touching both colors, or
// no stones at all, count for nobody.
func AreaScore(b Board) Score {
	var sc Score
	sc.Black = float64(b.Count(Black))
	sc.White = float64(b.Count(White))

	seen := make([]bool, len(b.cells))
	for i, cell := range b.cells {
		if cell != Empty || seen[i] {
			continue
		}
		start := Position{Row: i / b.size, Col: i % b.size}
		seen[i] = true
		stack := []Position{start}
		area := 0
		var borders Color
		mixed := false

		for len(stack) > 0 {
			p := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++
			for _, n := range b.neighbors(p) {
				switch c := b.At(n); c {
				case Empty:
					if j := b.index(n); !seen[j] {
						seen[j] = true
						stack = append(stack, n)
					}
				default:
					if borders == Empty {
						borders = c
					} else if borders != c {
						mixed = true
					}
				}
			}
		}

		if mixed {
			continue
		}
		switch borders {
		case Black:
			sc.Black += float64(area)
		case White:
			sc.White += float64(area)
		}
	}
	return sc
}
