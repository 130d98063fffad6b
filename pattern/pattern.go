// Package pattern implements a small backtracking pattern matcher.
//
// The pattern language knows literal characters, '.' for any character,
// '(...)' capturing groups, '+' for alternation, and the postfix modifiers
// '*' (one or more), '{N}' (exactly N) and '\I' (ignore case). A trailing
// '\O{N}' selects which capture group is reported as the output of a match.
//
// Repetition is greedy and never gives back input once consumed, so 'a*a'
// can never match.
package pattern

import (
	"fmt"
	"strings"
	"unicode"
)

// Pattern is a compiled pattern. It is safe for concurrent use.
type Pattern struct {
	expr   string
	root   *node
	groups int
	output int
}

// Compile parses expr. On failure the returned error is a *ParseError.
func Compile(expr string) (*Pattern, error) {
	p := &parser{re: expr}
	root, err := p.parsePattern()
	if err != nil {
		return nil, fmt.Errorf("failed to compile pattern %q: %w", expr, err)
	}
	return &Pattern{
		expr:   expr,
		root:   root,
		groups: p.groups,
		output: p.output,
	}, nil
}

// MustCompile is like Compile but panics if expr cannot be parsed.
func MustCompile(expr string) *Pattern {
	p, err := Compile(expr)
	if err != nil {
		panic(err)
	}
	return p
}

// String returns the source text of the pattern.
func (p *Pattern) String() string {
	return p.expr
}

// NumGroups returns the number of capturing groups, not counting the whole match.
func (p *Pattern) NumGroups() int {
	return p.groups
}

// OutputGroup returns the group selected by a trailing \O{N}, 0 by default.
func (p *Pattern) OutputGroup() int {
	return p.output
}

// Tree renders the compiled syntax tree, e.g. seq('a', plus('b')).
func (p *Pattern) Tree() string {
	return p.root.String()
}

// MatchAt attempts a single match that starts exactly at offset start.
// It returns nil if the pattern does not match there.
func (p *Pattern) MatchAt(s string, start int) *Match {
	if start < 0 || start > len(s) {
		return nil
	}

	ctx := newMatchContext(s, start, p.groups)
	if !p.root.match(ctx) {
		return nil
	}
	if !ctx.captures[0].Valid {
		ctx.captures[0] = CaptureGroup{Start: start, End: ctx.pos, Valid: true}
	}
	return &Match{input: s, groups: ctx.captures, output: p.output}
}

// Find returns the leftmost match in s, or nil if there is none.
// The first start offset that matches wins, no matter how long other matches would be.
func (p *Pattern) Find(s string) *Match {
	return p.findFrom(s, 0)
}

func (p *Pattern) findFrom(s string, from int) *Match {
	for i := from; i <= len(s); i++ {
		if m := p.MatchAt(s, i); m != nil {
			return m
		}
	}
	return nil
}

// FindAll finds up to maxCount successive non-overlapping matches in s.
// To return all matches pass a maxCount of -1
func (p *Pattern) FindAll(s string, maxCount int) []*Match {
	var matches []*Match
	for i := 0; i <= len(s); {
		if maxCount >= 0 && len(matches) >= maxCount {
			break
		}

		m := p.findFrom(s, i)
		if m == nil {
			break
		}
		matches = append(matches, m)

		i = m.End()
		if m.End() == m.Start() {
			i++
		}
	}
	return matches
}

// Match reports whether s contains a match of the pattern.
func (p *Pattern) Match(s string) bool {
	return p.Find(s) != nil
}

// Replace replaces the first match in s with with, expanding $N to the text of group N.
// Unknown or unset groups expand to the empty string. s is returned unchanged if there is no match.
func (p *Pattern) Replace(s string, with string) string {
	m := p.Find(s)
	if m == nil {
		return s
	}

	out := strings.Builder{}
	out.WriteString(s[:m.Start()])
	for i := 0; i < len(with); i++ {
		if with[i] == '$' && i+1 < len(with) && unicode.IsDigit(rune(with[i+1])) {
			num := 0
			for j := i + 1; j < len(with) && unicode.IsDigit(rune(with[j])); j++ {
				num *= 10
				num += int(with[j] - '0')
				i++
			}

			g, _ := m.Group(num)
			out.WriteString(g)
		} else {
			out.WriteByte(with[i])
		}
	}
	out.WriteString(s[m.End():])
	return out.String()
}

// Match is the result of a successful match attempt.
type Match struct {
	input  string
	groups []CaptureGroup
	output int
}

// Start returns the offset at which the match begins.
func (m *Match) Start() int {
	return m.groups[0].Start
}

// End returns the offset just past the end of the match.
func (m *Match) End() int {
	return m.groups[0].End
}

// String returns the text of the whole match.
func (m *Match) String() string {
	return m.input[m.Start():m.End()]
}

// Group returns the text captured by group i. ok is false if i is out of
// range or the group did not take part in the match.
func (m *Match) Group(i int) (text string, ok bool) {
	if i < 0 || i >= len(m.groups) || !m.groups[i].Valid {
		return "", false
	}
	g := m.groups[i]
	return m.input[g.Start:g.End], true
}

// Groups returns a copy of the capture table. Index 0 is the whole match.
func (m *Match) Groups() []CaptureGroup {
	groups := make([]CaptureGroup, len(m.groups))
	copy(groups, m.groups)
	return groups
}

// OutputGroup returns the group index selected by the pattern's \O{N} directive.
func (m *Match) OutputGroup() int {
	return m.output
}

// Output returns the text of the group selected by the pattern's \O{N} directive.
func (m *Match) Output() (string, bool) {
	return m.Group(m.output)
}
