package pattern

// CaptureGroup is the span [Start, End) of the input matched by a capturing group.
// Valid is false if the group did not take part in the match.
type CaptureGroup struct {
	Start int
	End   int
	Valid bool
}

type captureUndo struct {
	index int
	prev  CaptureGroup
}

// checkpoint marks a position and the length of the capture trail so that a
// failed subtree can be undone completely.
type checkpoint struct {
	pos   int
	trail int
}

// matchContext is the mutable state of a single match attempt.
// It must not be shared between attempts.
type matchContext struct {
	input      string
	pos        int
	captures   []CaptureGroup
	ignoreCase bool
	trail      []captureUndo
}

func newMatchContext(input string, start, groups int) *matchContext {
	return &matchContext{
		input:    input,
		pos:      start,
		captures: make([]CaptureGroup, groups+1),
	}
}

func (c *matchContext) atEnd() bool {
	return c.pos >= len(c.input)
}

func (c *matchContext) current() byte {
	return c.input[c.pos]
}

func (c *matchContext) checkpoint() checkpoint {
	return checkpoint{pos: c.pos, trail: len(c.trail)}
}

// restore rewinds the position and undoes every capture write made after cp was taken.
func (c *matchContext) restore(cp checkpoint) {
	c.pos = cp.pos
	for len(c.trail) > cp.trail {
		u := c.trail[len(c.trail)-1]
		c.captures[u.index] = u.prev
		c.trail = c.trail[:len(c.trail)-1]
	}
}

func (c *matchContext) capture(index, start, end int) {
	c.trail = append(c.trail, captureUndo{index: index, prev: c.captures[index]})
	c.captures[index] = CaptureGroup{Start: start, End: end, Valid: true}
}

// foldCase turns on case-insensitive comparison and returns a function
// restoring the previous setting.
func (c *matchContext) foldCase() (restore func()) {
	prev := c.ignoreCase
	c.ignoreCase = true
	return func() { c.ignoreCase = prev }
}

func equalFold(a, b byte) bool {
	return toLower(a) == toLower(b)
}

func toLower(c byte) byte {
	if c >= 'A' && c <= 'Z' {
		return c + 'a' - 'A'
	}
	return c
}
