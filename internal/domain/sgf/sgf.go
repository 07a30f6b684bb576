package sgf

// GameTree is one SGF tree: the main line of nodes plus variations.
type GameTree struct {
	Nodes    []Node
	Children []*GameTree
}

// Node is one SGF node. Properties may repeat, e.g. AB[aa][bb].
type Node struct {
	Properties map[string][]string
}

// SGF is the root of a record.
type SGF struct {
	Root *GameTree
}
