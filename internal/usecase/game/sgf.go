package game

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"goban/internal/coord"
	"goban/internal/domain/game"
	sgf "goban/internal/domain/sgf"
	"goban/internal/engine"
	"goban/internal/errors"
)

func (g *GameUseCase) ExportSGF(ctx context.Context, id string) (string, error) {
	play, err := g.store.GetGame(ctx, id)
	if err != nil {
		return "", err
	}
	record := PrepareSgfFile(play)
	AddMovesToSgf(record.Root, play.Moves)
	return SerializeSGF(&record), nil
}

// ImportGame replays the main line of an SGF record through the engine and
// stores the result as a new game. Any illegal move rejects the record.
func (g *GameUseCase) ImportGame(ctx context.Context, sgfText string) (game.Game, error) {
	record, err := ParseSGF(sgfText)
	if err != nil {
		return game.Game{}, err
	}
	nodes := mainLine(record.Root)
	if len(nodes) == 0 {
		return game.Game{}, fmt.Errorf("%w: empty record", errors.ErrInvalidSGF)
	}

	root := nodes[0]
	req := game.CreateGameRequest{
		BoardSize:   19,
		PlayerBlack: first(root, "PB"),
		PlayerWhite: first(root, "PW"),
	}
	if sz := first(root, "SZ"); sz != "" {
		if req.BoardSize, err = strconv.Atoi(sz); err != nil {
			return game.Game{}, fmt.Errorf("%w: SZ[%s]", errors.ErrInvalidSGF, sz)
		}
	}
	if km := first(root, "KM"); km != "" {
		komi, err := strconv.ParseFloat(km, 64)
		if err != nil {
			return game.Game{}, fmt.Errorf("%w: KM[%s]", errors.ErrInvalidSGF, km)
		}
		req.Komi = &komi
	}

	play, state, err := g.newRecord(req)
	if err != nil {
		return game.Game{}, err
	}
	if state, play.Setup, err = applySetup(state, root, nodes); err != nil {
		return game.Game{}, err
	}

	for i, node := range nodes {
		if i > 0 && hasSetup(node) {
			return game.Game{}, fmt.Errorf("%w: node %d places setup stones after the root", errors.ErrInvalidSGF, i)
		}
		color, value, ok := nodeMove(node)
		if !ok {
			continue
		}
		if state.IsTerminal() {
			return game.Game{}, fmt.Errorf("%w: node %d moves after the game ended", errors.ErrInvalidSGF, i)
		}
		if color != sgfColor(state.ToMove()) {
			return game.Game{}, fmt.Errorf("%w: node %d plays %s out of turn", errors.ErrInvalidSGF, i, color)
		}
		m, err := sgfMove(value, state.Size())
		if err != nil {
			return game.Game{}, fmt.Errorf("%w: node %d: %v", errors.ErrInvalidSGF, i, err)
		}
		if state, err = state.Step(m); err != nil {
			return game.Game{}, fmt.Errorf("%w: node %d: %w", errors.ErrInvalidSGF, i, err)
		}
		play.Moves = append(play.Moves, game.Move{Color: color, Coordinates: coord.Format(m)})
	}
	play.State = state.Snapshot()

	if state.IsTerminal() {
		if err := g.finish(ctx, &play, state); err != nil {
			return game.Game{}, err
		}
	} else if err := g.store.SaveGame(ctx, play); err != nil {
		return game.Game{}, err
	}
	g.log.Infow("game imported", "id", play.ID, "moves", len(play.Moves))
	return play, nil
}

func PrepareSgfFile(gameData game.Game) sgf.SGF {
	props := map[string][]string{
		"FF": {"4"},
		"GM": {"1"},
		"SZ": {strconv.Itoa(gameData.BoardSize)},
		"PB": {gameData.PlayerBlack},
		"PW": {gameData.PlayerWhite},
		"DT": {gameData.CreatedAt.Format("2006-01-02")},
		"RE": {resultString(gameData.Result)},
		"KM": {strconv.FormatFloat(gameData.Komi, 'f', 1, 64)},
		"RU": {"Chinese"},
	}
	if setup := gameData.Setup; setup != nil {
		if len(setup.Black) > 0 {
			props["AB"] = setup.Black
		}
		if len(setup.White) > 0 {
			props["AW"] = setup.White
		}
		if setup.ToMove != "" {
			props["PL"] = []string{setup.ToMove}
		}
	}
	return sgf.SGF{
		Root: &sgf.GameTree{
			Nodes: []sgf.Node{{Properties: props}},
		},
	}
}

func AddMovesToSgf(tree *sgf.GameTree, moves []game.Move) {
	for _, move := range moves {
		value := move.Coordinates
		if value == coord.PassString {
			value = ""
		}
		node := sgf.Node{
			Properties: map[string][]string{
				move.Color: {value},
			},
		}
		tree.Nodes = append(tree.Nodes, node)
	}
}

func SerializeSGF(s *sgf.SGF) string {
	var builder strings.Builder
	builder.WriteString("(")
	serializeGameTree(&builder, s.Root)
	builder.WriteString(")")
	return builder.String()
}

func serializeGameTree(builder *strings.Builder, tree *sgf.GameTree) {
	for _, node := range tree.Nodes {
		builder.WriteString(";")

		// fixed order for the well-known properties
		orderedKeys := []string{"FF", "GM", "SZ", "PB", "PW", "DT", "RE", "KM", "RU", "AB", "AW", "PL", "C", "B", "W"}
		used := make(map[string]bool)
		for _, key := range orderedKeys {
			if values, ok := node.Properties[key]; ok {
				used[key] = true
				writeProperty(builder, key, values)
			}
		}

		for key, values := range node.Properties {
			if !used[key] {
				writeProperty(builder, key, values)
			}
		}
	}

	for _, child := range tree.Children {
		builder.WriteString("(")
		serializeGameTree(builder, child)
		builder.WriteString(")")
	}
}

func writeProperty(builder *strings.Builder, key string, values []string) {
	builder.WriteString(key)
	for _, v := range values {
		v = strings.ReplaceAll(v, `\`, `\\`)
		v = strings.ReplaceAll(v, "]", `\]`)
		builder.WriteString("[" + v + "]")
	}
}

// ParseSGF reads a single game tree with variations.
func ParseSGF(text string) (*sgf.SGF, error) {
	p := &sgfParser{src: text}
	p.skipSpace()
	tree, err := p.tree()
	if err != nil {
		return nil, err
	}
	return &sgf.SGF{Root: tree}, nil
}

type sgfParser struct {
	src string
	pos int
}

func (p *sgfParser) fail(msg string) error {
	return fmt.Errorf("%w: %s at offset %d", errors.ErrInvalidSGF, msg, p.pos)
}

func (p *sgfParser) skipSpace() {
	for p.pos < len(p.src) && strings.ContainsRune(" \t\r\n", rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *sgfParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *sgfParser) tree() (*sgf.GameTree, error) {
	if p.peek() != '(' {
		return nil, p.fail("expected '('")
	}
	p.pos++
	tree := &sgf.GameTree{}
	for {
		p.skipSpace()
		switch p.peek() {
		case ';':
			p.pos++
			node, err := p.node()
			if err != nil {
				return nil, err
			}
			tree.Nodes = append(tree.Nodes, node)
		case '(':
			child, err := p.tree()
			if err != nil {
				return nil, err
			}
			tree.Children = append(tree.Children, child)
		case ')':
			p.pos++
			return tree, nil
		default:
			return nil, p.fail("unexpected character")
		}
	}
}

func (p *sgfParser) node() (sgf.Node, error) {
	node := sgf.Node{Properties: map[string][]string{}}
	for {
		p.skipSpace()
		start := p.pos
		for c := p.peek(); c >= 'A' && c <= 'Z'; c = p.peek() {
			p.pos++
		}
		if start == p.pos {
			return node, nil
		}
		key := p.src[start:p.pos]

		p.skipSpace()
		if p.peek() != '[' {
			return node, p.fail("property without value")
		}
		for p.peek() == '[' {
			value, err := p.value()
			if err != nil {
				return node, err
			}
			node.Properties[key] = append(node.Properties[key], value)
			p.skipSpace()
		}
	}
}

func (p *sgfParser) value() (string, error) {
	p.pos++ // '['
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\\' && p.pos+1 < len(p.src):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		case c == ']':
			p.pos++
			return b.String(), nil
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", p.fail("unterminated value")
}

// mainLine follows the first variation at every branch.
func mainLine(tree *sgf.GameTree) []sgf.Node {
	var nodes []sgf.Node
	for tree != nil {
		nodes = append(nodes, tree.Nodes...)
		if len(tree.Children) == 0 {
			break
		}
		tree = tree.Children[0]
	}
	return nodes
}

func first(node sgf.Node, key string) string {
	if values := node.Properties[key]; len(values) > 0 {
		return values[0]
	}
	return ""
}

func nodeMove(node sgf.Node) (color string, value string, ok bool) {
	for _, key := range []string{"B", "W"} {
		if values, found := node.Properties[key]; found && len(values) > 0 {
			return key, values[0], true
		}
	}
	return "", "", false
}

var setupKeys = []string{"AB", "AW", "AE"}

func hasSetup(node sgf.Node) bool {
	for _, key := range setupKeys {
		if _, ok := node.Properties[key]; ok {
			return true
		}
	}
	return false
}

// applySetup places the root's AB and AW stones and picks the side to move
// from PL, or else from the first move of the record. AE is refused: there is
// nothing to erase on an empty board.
func applySetup(state engine.GameState, root sgf.Node, nodes []sgf.Node) (engine.GameState, *game.Setup, error) {
	if _, ok := root.Properties["AE"]; ok {
		return state, nil, fmt.Errorf("%w: AE is not supported", errors.ErrInvalidSGF)
	}
	if !hasSetup(root) && first(root, "PL") == "" {
		return state, nil, nil
	}

	sn := state.Snapshot()
	rows := make([][]byte, len(sn.Rows))
	for i, row := range sn.Rows {
		rows[i] = []byte(row)
	}
	setup := &game.Setup{}
	place := func(key string, c engine.Color) ([]string, error) {
		var placed []string
		for _, value := range root.Properties[key] {
			points, err := setupPoints(value, sn.Size)
			if err != nil {
				return nil, err
			}
			for _, p := range points {
				if rows[p.Row][p.Col] != engine.Empty.Symbol() {
					return nil, fmt.Errorf("%w: setup point %s given twice", errors.ErrInvalidSGF, coord.Format(engine.PlaceAt(p)))
				}
				rows[p.Row][p.Col] = c.Symbol()
				placed = append(placed, coord.Format(engine.PlaceAt(p)))
			}
		}
		return placed, nil
	}
	var err error
	if setup.Black, err = place("AB", engine.Black); err != nil {
		return state, nil, err
	}
	if setup.White, err = place("AW", engine.White); err != nil {
		return state, nil, err
	}

	setup.ToMove = first(root, "PL")
	if setup.ToMove == "" {
		setup.ToMove = "B"
		for _, node := range nodes {
			if color, _, ok := nodeMove(node); ok {
				setup.ToMove = color
				break
			}
		}
	}
	switch setup.ToMove {
	case "B":
		sn.ToMove = engine.Black.String()
	case "W":
		sn.ToMove = engine.White.String()
	default:
		return state, nil, fmt.Errorf("%w: PL[%s]", errors.ErrInvalidSGF, setup.ToMove)
	}

	for i, row := range rows {
		sn.Rows[i] = string(row)
	}
	next, err := engine.FromSnapshot(sn)
	if err != nil {
		return state, nil, fmt.Errorf("%w: %w", errors.ErrInvalidSGF, err)
	}
	if err := checkLiberties(next.Board()); err != nil {
		return state, nil, err
	}
	return next, setup, nil
}

// setupPoints expands a point or a compressed "aa:cc" rectangle.
func setupPoints(value string, size int) ([]engine.Position, error) {
	from, to, compressed := strings.Cut(value, ":")
	if !compressed {
		to = from
	}
	a, errA := coord.Parse(from, size)
	b, errB := coord.Parse(to, size)
	if errA != nil || errB != nil || a.Pass || b.Pass {
		return nil, fmt.Errorf("%w: setup point %q", errors.ErrInvalidSGF, value)
	}

	var points []engine.Position
	for r := min(a.Pos.Row, b.Pos.Row); r <= max(a.Pos.Row, b.Pos.Row); r++ {
		for c := min(a.Pos.Col, b.Pos.Col); c <= max(a.Pos.Col, b.Pos.Col); c++ {
			points = append(points, engine.Position{Row: r, Col: c})
		}
	}
	return points, nil
}

// checkLiberties refuses setups that leave a group with no liberties, which
// no sequence of legal moves can produce.
func checkLiberties(b engine.Board) error {
	seen := make(map[engine.Position]bool)
	for r := 0; r < b.Size(); r++ {
		for c := 0; c < b.Size(); c++ {
			p := engine.Position{Row: r, Col: c}
			if seen[p] || b.At(p) == engine.Empty {
				continue
			}
			g := engine.FindGroup(b, p)
			for _, s := range g.Stones {
				seen[s] = true
			}
			if len(g.Liberties) == 0 {
				return fmt.Errorf("%w: setup group at %s has no liberties", errors.ErrInvalidSGF, coord.Format(engine.PlaceAt(p)))
			}
		}
	}
	return nil
}

// sgfMove treats an empty value, and "tt" on boards up to 19, as a pass.
func sgfMove(value string, size int) (engine.Move, error) {
	if value == "" || (value == "tt" && size <= 19) {
		return engine.Pass(), nil
	}
	return coord.Parse(value, size)
}

func resultString(res *game.Result) string {
	if res == nil {
		return ""
	}
	switch res.Winner {
	case "black":
		return "B+" + strconv.FormatFloat(res.Black-res.White, 'f', -1, 64)
	case "white":
		return "W+" + strconv.FormatFloat(res.White-res.Black, 'f', -1, 64)
	}
	return "0"
}
