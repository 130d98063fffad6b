package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"
	"github.com/fatih/color"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mfroeh/rematch/pattern"
)

const (
	exitMatch   = 0
	exitNoMatch = 1
	exitError   = 2
)

var submatchColors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

type cli struct {
	Pattern string   `arg:"" name:"pattern" help:"Pattern to search for" type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Files to search, standard input if none are given" type:"path"`
	All     bool     `short:"a" help:"Print the output group of every non-overlapping match"`
	Color   string   `default:"auto" enum:"auto,always,never" env:"REMATCH_COLOR" help:"Highlight matches (${enum})"`
	Verbose bool     `short:"v" env:"REMATCH_VERBOSE" help:"Log the compiled pattern and the captures of every match"`
}

type input struct {
	name string
	text string
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var c cli
	exitCode := -1
	parser, err := kong.New(&c,
		kong.Name("rematch"),
		kong.Description("Searches the input for the leftmost match of a pattern and prints the selected group."),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Exit(func(code int) { exitCode = code }),
	)
	if err != nil {
		panic(err)
	}

	_, err = parser.Parse(args)
	if exitCode >= 0 {
		// --help
		return exitCode
	}
	if err != nil {
		parser.FatalIfErrorf(err)
		return exitError
	}

	logger := newLogger(stderr, c.Verbose)
	defer func() { _ = logger.Sync() }()

	setColorMode(c.Color)

	re, err := pattern.Compile(c.Pattern)
	if err != nil {
		logger.Error("failed to build pattern", zap.Error(err))
		return exitError
	}
	logger.Debug("compiled pattern",
		zap.String("pattern", re.String()),
		zap.String("tree", re.Tree()),
		zap.Int("groups", re.NumGroups()),
		zap.Int("output", re.OutputGroup()),
	)

	inputs, err := readInputs(c.Paths, stdin)
	if err != nil {
		logger.Error("failed to read input", zap.Error(err))
		return exitError
	}

	matched := false
	for _, in := range inputs {
		if search(stdout, logger, re, in, c.All, len(inputs) > 1) {
			matched = true
		}
	}

	if !matched {
		return exitNoMatch
	}
	return exitMatch
}

func newLogger(w io.Writer, verbose bool) *zap.Logger {
	level := zapcore.WarnLevel
	if verbose {
		level = zapcore.DebugLevel
	}

	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.TimeKey = ""
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), level)
	return zap.New(core)
}

// auto leaves the decision to the color package, which checks whether stdout is a terminal
func setColorMode(mode string) {
	for _, c := range submatchColors {
		switch mode {
		case "always":
			c.EnableColor()
		case "never":
			c.DisableColor()
		}
	}
}

func readInputs(paths []string, stdin io.Reader) ([]input, error) {
	if len(paths) == 0 {
		content, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}
		return []input{{name: "(standard input)", text: string(content)}}, nil
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, input{name: path, text: string(content)})
	}
	return inputs, nil
}

// search prints the output group of the first match, or of every match if all is set.
// It reports whether anything matched, even if the output group did not capture.
func search(w io.Writer, logger *zap.Logger, re *pattern.Pattern, in input, all bool, prefix bool) bool {
	var matches []*pattern.Match
	if all {
		matches = re.FindAll(in.text, -1)
	} else if m := re.Find(in.text); m != nil {
		matches = append(matches, m)
	}

	if len(matches) == 0 {
		logger.Debug("no match", zap.String("input", in.name))
		return false
	}

	for _, m := range matches {
		logger.Debug("match",
			zap.String("input", in.name),
			zap.Int("start", m.Start()),
			zap.Int("end", m.End()),
			zap.String("captures", repr.String(m.Groups())),
		)

		out, ok := m.Output()
		if !ok {
			continue
		}

		if prefix {
			fmt.Fprintf(w, "%s:", in.name)
		}
		if m.OutputGroup() == 0 {
			fmt.Fprintln(w, formatMatch(m))
		} else {
			fmt.Fprintln(w, submatchColors[0].Sprint(out))
		}
	}
	return true
}

// formatMatch highlights the whole match and, in their own colors, the submatches inside it.
func formatMatch(m *pattern.Match) string {
	fullMatch := m.String()
	groups := m.Groups()
	if len(groups) == 1 || len(groups) > len(submatchColors) {
		return submatchColors[0].Sprint(fullMatch)
	}

	out := strings.Builder{}
	matchOff := 0
	for i, sm := range groups[1:] {
		offRelativeToMatch := sm.Start - m.Start()
		// unset, nested and out of order submatches keep the color of the enclosing match
		if !sm.Valid || offRelativeToMatch < matchOff {
			continue
		}
		submatchColors[0].Fprint(&out, fullMatch[matchOff:offRelativeToMatch])
		submatchColors[i+1].Fprint(&out, fullMatch[offRelativeToMatch:sm.End-m.Start()])
		matchOff = sm.End - m.Start()
	}
	submatchColors[0].Fprint(&out, fullMatch[matchOff:])
	return out.String()
}
