package engine

// CaptureResult is the outcome of resolving captures around a played stone.
type CaptureResult struct {
	Board    Board
	Captured []Position
	// Group is the played stone's group on the resulting board.
	Group   Group
	Suicide bool
}

// ApplyCapture places a stone of color at played and removes every opponent
// group left without liberties. Only then is the played group checked, so a
// capture can make an otherwise suicidal placement legal. The input board is
// never modified.
func ApplyCapture(b Board, played Position, color Color) CaptureResult {
	next := b.with(played, color)
	opponent := color.Opponent()

	var captured []Position
	checked := make(map[Position]struct{})
	for _, n := range next.neighbors(played) {
		if next.At(n) != opponent {
			continue
		}
		if _, ok := checked[n]; ok {
			continue
		}
		g := FindGroup(next, n)
		for _, s := range g.Stones {
			checked[s] = struct{}{}
		}
		if len(g.Liberties) == 0 {
			captured = append(captured, g.Stones...)
		}
	}
	next.clear(captured)

	own := FindGroup(next, played)
	return CaptureResult{
		Board:    next,
		Captured: captured,
		Group:    own,
		Suicide:  len(own.Liberties) == 0,
	}
}
