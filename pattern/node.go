package pattern

import (
	"fmt"
	"strings"
)

// nodeState is implemented by the closed set of node kinds below.
type nodeState interface {
	isNodeState()
}

type literalState struct {
	char byte
}

type wildcardState struct{}

type sequenceState struct {
	children []*node
}

// left is preferred over right
type alternationState struct {
	left  *node
	right *node
}

type groupState struct {
	expr  *node
	index int
}

// one or more, greedy
type repeatState struct {
	expr *node
}

type countState struct {
	expr  *node
	count int
}

type ignoreCaseState struct {
	expr *node
}

func (*literalState) isNodeState()     {}
func (*wildcardState) isNodeState()    {}
func (*sequenceState) isNodeState()    {}
func (*alternationState) isNodeState() {}
func (*groupState) isNodeState()       {}
func (*repeatState) isNodeState()      {}
func (*countState) isNodeState()       {}
func (*ignoreCaseState) isNodeState()  {}

type node struct {
	state nodeState
}

// match tries to match n at ctx.pos. On success the position is advanced past
// the consumed input. On failure ctx is left exactly as it was on entry.
func (n *node) match(ctx *matchContext) bool {
	switch s := n.state.(type) {
	case *literalState:
		if ctx.atEnd() {
			return false
		}
		c := ctx.current()
		if c != s.char && !(ctx.ignoreCase && equalFold(c, s.char)) {
			return false
		}
		ctx.pos++
		return true
	case *wildcardState:
		if ctx.atEnd() {
			return false
		}
		ctx.pos++
		return true
	case *sequenceState:
		cp := ctx.checkpoint()
		for _, c := range s.children {
			if !c.match(ctx) {
				ctx.restore(cp)
				return false
			}
		}
		return true
	case *alternationState:
		cp := ctx.checkpoint()
		if s.left.match(ctx) {
			return true
		}
		ctx.restore(cp)
		if s.right.match(ctx) {
			return true
		}
		ctx.restore(cp)
		return false
	case *groupState:
		start := ctx.pos
		if !s.expr.match(ctx) {
			return false
		}
		ctx.capture(s.index, start, ctx.pos)
		return true
	case *repeatState:
		cp := ctx.checkpoint()
		matched := 0
		for {
			iter := ctx.checkpoint()
			if !s.expr.match(ctx) {
				ctx.restore(iter)
				break
			}
			matched++
			// an empty iteration would repeat forever
			if ctx.pos == iter.pos {
				break
			}
		}
		if matched == 0 {
			ctx.restore(cp)
			return false
		}
		return true
	case *countState:
		cp := ctx.checkpoint()
		for i := 0; i < s.count; i++ {
			if !s.expr.match(ctx) {
				ctx.restore(cp)
				return false
			}
		}
		return true
	case *ignoreCaseState:
		restore := ctx.foldCase()
		defer restore()
		return s.expr.match(ctx)
	default:
		panic(fmt.Sprintf("unexpected node state %T", n.state))
	}
}

// String renders the tree in a compact prefix notation, e.g. seq('a', plus(.)).
func (n *node) String() string {
	sb := strings.Builder{}
	n.write(&sb)
	return sb.String()
}

func (n *node) write(sb *strings.Builder) {
	switch s := n.state.(type) {
	case *literalState:
		fmt.Fprintf(sb, "%q", rune(s.char))
	case *wildcardState:
		sb.WriteByte('.')
	case *sequenceState:
		sb.WriteString("seq(")
		for i, c := range s.children {
			if i > 0 {
				sb.WriteString(", ")
			}
			c.write(sb)
		}
		sb.WriteByte(')')
	case *alternationState:
		sb.WriteString("alt(")
		s.left.write(sb)
		sb.WriteString(", ")
		s.right.write(sb)
		sb.WriteByte(')')
	case *groupState:
		fmt.Fprintf(sb, "group%d(", s.index)
		s.expr.write(sb)
		sb.WriteByte(')')
	case *repeatState:
		sb.WriteString("plus(")
		s.expr.write(sb)
		sb.WriteByte(')')
	case *countState:
		fmt.Fprintf(sb, "count%d(", s.count)
		s.expr.write(sb)
		sb.WriteByte(')')
	case *ignoreCaseState:
		sb.WriteString("icase(")
		s.expr.write(sb)
		sb.WriteByte(')')
	default:
		panic(fmt.Sprintf("unexpected node state %T", n.state))
	}
}
