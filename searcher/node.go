package searcher

import (
	"fmt"

	"gomoku/game"
)

// NoAction is the action of a root node that was not reached by a move.
const NoAction = -1

// Expansion is the three way state of a node's children.
type Expansion uint8

const (
	Unexpanded Expansion = iota // not visited yet
	Terminal                    // the game is over here, no children
	Expanded                    // one child per legal move
)

func (e Expansion) String() string {
	switch e {
	case Unexpanded:
		return "unexpanded"
	case Terminal:
		return "terminal"
	case Expanded:
		return "expanded"
	default:
		return fmt.Sprintf("Expansion(%d)", uint8(e))
	}
}

// Node is an edge of the search tree together with the position it leads to. Statistics are
// from the perspective of the player who played Action.
//
// A node owns its children. Nodes must not be modified while a search runs on their tree.
type Node struct {
	Action    int
	Prior     float64 // prior probability assigned by the evaluator
	Visits    int
	ValueSum  float64
	MeanValue float64

	expansion Expansion
	children  []*Node
}

// NewRoot returns an unexpanded root for a position that was not reached through the tree.
func NewRoot() *Node {
	return newNode(NoAction)
}

func newNode(action int) *Node {
	return &Node{Action: action}
}

func (n *Node) Expansion() Expansion {
	return n.expansion
}

// Children in legal move order. The slice is owned by n.
func (n *Node) Children() []*Node {
	return n.children
}

// Child returns the child reached by action, nil if there is none.
func (n *Node) Child(action int) *Node {
	for _, child := range n.children {
		if child.Action == action {
			return child
		}
	}
	return nil
}

func (n *Node) isLeaf() bool {
	return n.expansion != Expanded || len(n.children) == 0
}

func (n *Node) expand(moves []int) {
	n.children = make([]*Node, len(moves))
	for i, move := range moves {
		n.children[i] = newNode(move)
	}
	n.expansion = Expanded
}

func (n *Node) markTerminal() {
	n.children = nil
	n.expansion = Terminal
}

// selectChild returns the child with the highest score, the first one on ties.
func (n *Node) selectChild() *Node {
	p := newPUCT(n.Visits)
	best := n.children[0]
	bestScore := p.evaluate(best)
	for _, child := range n.children[1:] {
		if score := p.evaluate(child); score > bestScore {
			best = child
			bestScore = score
		}
	}
	return best
}

// addVisit counts a visit before its value is known.
func (n *Node) addVisit() {
	n.Visits++
	n.MeanValue = n.ValueSum / float64(n.Visits)
}

// addValue records the value of an already counted visit.
func (n *Node) addValue(value float64) {
	n.ValueSum += value
	n.MeanValue = n.ValueSum / float64(n.Visits)
}

// Advance returns the subtree reached by action, to be used as the next root after the move
// was played. An unexpanded node yields a fresh root. The receiver gives up its children.
func (n *Node) Advance(action int) (*Node, error) {
	switch n.expansion {
	case Unexpanded:
		return newNode(action), nil
	case Terminal:
		return nil, fmt.Errorf("%w: cannot play %d from a terminal node", game.ErrIllegalMove, action)
	}
	child := n.Child(action)
	if child == nil {
		return nil, fmt.Errorf("%w: action %d is not a child of the root", game.ErrIllegalMove, action)
	}
	n.children = nil
	n.expansion = Unexpanded
	return child, nil
}

// Size counts the nodes of the subtree rooted at n.
func (n *Node) Size() int {
	size := 1
	for _, child := range n.children {
		size += child.Size()
	}
	return size
}

func (n *Node) String() string {
	return fmt.Sprintf("Node{Action=%d, Prior=%.3f, Visits=%d, Mean=%.3f, %s}",
		n.Action, n.Prior, n.Visits, n.MeanValue, n.expansion)
}
