package pattern

import (
	"errors"
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	tests := map[string]struct {
		givenRe    string
		wantTree   string
		wantGroups int
		wantOutput int
	}{
		"single literal": {
			givenRe:  "a",
			wantTree: `'a'`,
		},
		"sequence": {
			givenRe:  "ab.",
			wantTree: `seq('a', 'b', .)`,
		},
		"alternation is left associative": {
			givenRe:  "a+b+c",
			wantTree: `alt(alt('a', 'b'), 'c')`,
		},
		"sequence binds tighter than alternation": {
			givenRe:  "ab+cd",
			wantTree: `alt(seq('a', 'b'), seq('c', 'd'))`,
		},
		"star binds to the preceding factor": {
			givenRe:  "ab*c",
			wantTree: `seq('a', plus('b'), 'c')`,
		},
		"exact count": {
			givenRe:  "x{3}",
			wantTree: `count3('x')`,
		},
		"exact count of zero": {
			givenRe:  "x{0}",
			wantTree: `count0('x')`,
		},
		"ignore case upper": {
			givenRe:  `a\I`,
			wantTree: `icase('a')`,
		},
		"ignore case lower": {
			givenRe:  `a\i`,
			wantTree: `icase('a')`,
		},
		"star then ignore case": {
			givenRe:  `.*\I`,
			wantTree: `icase(plus(.))`,
		},
		"count then ignore case": {
			givenRe:    `(ab){2}\i`,
			wantTree:   `icase(count2(group1(seq('a', 'b'))))`,
			wantGroups: 1,
		},
		"groups numbered left to right": {
			givenRe:    "(a)+(b)",
			wantTree:   `alt(group1('a'), group2('b'))`,
			wantGroups: 2,
		},
		"nested groups numbered when closed": {
			givenRe:    "((a)b)",
			wantTree:   `group2(seq(group1('a'), 'b'))`,
			wantGroups: 2,
		},
		"alternation inside group": {
			givenRe:    "x(a+b)*",
			wantTree:   `seq('x', plus(group1(alt('a', 'b'))))`,
			wantGroups: 1,
		},
		"output directive": {
			givenRe:    `(a)(b)\O{2}`,
			wantTree:   `seq(group1('a'), group2('b'))`,
			wantGroups: 2,
			wantOutput: 2,
		},
		"lower case output directive": {
			givenRe:    `(a)\o{1}`,
			wantTree:   `group1('a')`,
			wantGroups: 1,
			wantOutput: 1,
		},
		"output directive may name a missing group": {
			givenRe:    `(a)\O{7}`,
			wantTree:   `group1('a')`,
			wantGroups: 1,
			wantOutput: 7,
		},
		"other characters are literals": {
			givenRe:  "a-b ?",
			wantTree: `seq('a', '-', 'b', ' ', '?')`,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			p := &parser{re: tt.givenRe}
			gotRoot, err := p.parsePattern()
			if err != nil {
				t.Fatalf("parse %q: %v", tt.givenRe, err)
			}

			// then
			if d := cmp.Diff(tt.wantTree, gotRoot.String()); d != "" {
				t.Errorf("tree: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantGroups, p.groups); d != "" {
				t.Errorf("groups: got diff (-want +got):\n%s", d)
			}
			if d := cmp.Diff(tt.wantOutput, p.output); d != "" {
				t.Errorf("output: got diff (-want +got):\n%s", d)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := map[string]struct {
		givenRe string
		wantPos int
	}{
		"empty pattern":               {givenRe: "", wantPos: 0},
		"unterminated count":          {givenRe: "a{", wantPos: 2},
		"count without closing":       {givenRe: "a{3", wantPos: 1},
		"count without digits":        {givenRe: "a{}", wantPos: 2},
		"unclosed group":              {givenRe: "(ab", wantPos: 0},
		"empty group":                 {givenRe: "()", wantPos: 1},
		"stray closing paren":         {givenRe: "a)", wantPos: 1},
		"leading star":                {givenRe: "*a", wantPos: 0},
		"double star":                 {givenRe: "a**", wantPos: 2},
		"missing right alternative":   {givenRe: "a+", wantPos: 2},
		"missing left alternative":    {givenRe: "+a", wantPos: 0},
		"stray closing brace":         {givenRe: "a}", wantPos: 1},
		"unknown escape":              {givenRe: `a\x`, wantPos: 1},
		"trailing backslash":          {givenRe: `a\`, wantPos: 1},
		"malformed output directive":  {givenRe: `a\O{}`, wantPos: 1},
		"unclosed output directive":   {givenRe: `a\O{1`, wantPos: 1},
		"text after output directive": {givenRe: `a\O{0}b`, wantPos: 6},
		"group closed by wrong char":  {givenRe: "(a}", wantPos: 2},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			// when
			got, err := Compile(tt.givenRe)

			// then
			if err == nil {
				t.Fatalf("Compile(%q) = %v, want error", tt.givenRe, got)
			}
			if got != nil {
				t.Errorf("Compile(%q) returned a pattern alongside the error", tt.givenRe)
			}
			if !errors.Is(err, ErrSyntax) {
				t.Errorf("error %v does not wrap ErrSyntax", err)
			}

			var perr *ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("error %v is not a *ParseError", err)
			}
			if d := cmp.Diff(tt.wantPos, perr.Pos); d != "" {
				t.Errorf("position: got diff (-want +got):\n%s\n%v", d, err)
			}
		})
	}
}

func TestParseCountOverflow(t *testing.T) {
	_, err := Compile("a{99999999999999999999999}")
	if err == nil {
		t.Fatal("expected error for overflowing count")
	}
	if !errors.Is(err, strconv.ErrRange) {
		t.Errorf("error %v does not wrap strconv.ErrRange", err)
	}
}

func TestGroupCounterIsPerCompile(t *testing.T) {
	first := MustCompile("(a)(b)")
	second := MustCompile("(c)")

	if first.NumGroups() != 2 {
		t.Errorf("first: got %d groups, want 2", first.NumGroups())
	}
	if second.NumGroups() != 1 {
		t.Errorf("second: got %d groups, want 1", second.NumGroups())
	}
	if d := cmp.Diff(`group1('c')`, second.root.String()); d != "" {
		t.Errorf("got diff (-want +got):\n%s", d)
	}
}
