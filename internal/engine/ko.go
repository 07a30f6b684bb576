package engine

// nextKo returns the point the opponent may not play on the next turn. Only
// the simple shape bans a point: one stone captured by a lone stone that is
// now in atari.
func nextKo(captured []Position, own Group) (Position, bool) {
	if len(captured) != 1 || own.Size() != 1 || !own.InAtari() {
		return Position{}, false
	}
	return captured[0], true
}
