package engine

// Group is a maximal set of same-colored stones connected orthogonally,
// together with the empty points adjacent to it.
type Group struct {
	Color     Color
	Stones    []Position
	Liberties []Position
}

func (g Group) Size() int {
	return len(g.Stones)
}

func (g Group) InAtari() bool {
	return len(g.Liberties) == 1
}

func (g Group) Contains(p Position) bool {
	for _, s := range g.Stones {
		if s == p {
			return true
		}
	}
	return false
}

// FindGroup flood-fills from start over same-colored neighbours and collects
// the liberties on the way. Work is proportional to the group, not the board.
// start must hold a stone.
func FindGroup(b Board, start Position) Group {
	color := b.At(start)
	if color == Empty {
		panic("engine: FindGroup started on an empty point")
	}

	g := Group{Color: color}
	seen := map[Position]struct{}{start: {}}
	libs := make(map[Position]struct{})
	stack := []Position{start}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.Stones = append(g.Stones, p)

		for _, n := range b.neighbors(p) {
			switch b.At(n) {
			case Empty:
				if _, ok := libs[n]; !ok {
					libs[n] = struct{}{}
					g.Liberties = append(g.Liberties, n)
				}
			case color:
				if _, ok := seen[n]; !ok {
					seen[n] = struct{}{}
					stack = append(stack, n)
				}
			}
		}
	}
	return g
}
