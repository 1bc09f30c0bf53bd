// Package report renders engine errors as colored, source-anchored
// terminal output: the offending line with a caret marker underneath.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"grammarlab/grammar"
	"grammarlab/parser"
	"grammarlab/transform"
	"grammarlab/tree"
)

// Render formats any engine error against the source it was raised for.
// Errors without position information render as a bare header line.
func Render(path, source string, err error) string {
	switch err := err.(type) {
	case *grammar.Error:
		return render(path, source, "grammar "+err.Kind.String(), err.Message, err.Pos, 1)
	case *parser.Error:
		msg := err.Message
		if msg == "" && err.Token != "" {
			msg = fmt.Sprintf("unexpected %q", err.Token)
		}
		if len(err.Expected) > 0 {
			msg += fmt.Sprintf(" (expected %s)", strings.Join(err.Expected, ", "))
		}
		return render(path, source, err.Kind.String(), msg, err.Pos, maxInt(1, len(err.Token)))
	case *transform.Error:
		msg := err.Cause.Error()
		if err.Node != "" {
			msg = fmt.Sprintf("handler for %q: %s", err.Node, msg)
		}
		length := err.Pos.End.Offset - err.Pos.Start.Offset
		return render(path, source, err.Kind.String(), msg, err.Pos.Start, maxInt(1, length))
	default:
		red := color.New(color.FgRed).SprintFunc()
		return fmt.Sprintf("%s: %v\n", red("error"), err)
	}
}

func render(path, source, kind, msg string, pos tree.Position, length int) string {
	var b strings.Builder

	red := color.New(color.FgRed).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	fmt.Fprintf(&b, "%s: %s\n", red(kind), bold(msg))
	if pos.Line <= 0 {
		return b.String()
	}

	lines := strings.Split(source, "\n")
	var lineContent string
	if pos.Line-1 < len(lines) {
		lineContent = lines[pos.Line-1]
	}

	lineNumberWidth := maxInt(3, len(fmt.Sprintf("%d", pos.Line)))
	indent := strings.Repeat(" ", lineNumberWidth)

	fmt.Fprintf(&b, "%s %s %s:%d:%d\n", indent, dim("-->"), path, pos.Line, pos.Column)
	fmt.Fprintf(&b, "%s %s\n", indent, dim("|"))
	fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%*d", lineNumberWidth, pos.Line)), dim("|"), lineContent)

	marker := strings.Repeat(" ", maxInt(0, pos.Column-1)) + red(strings.Repeat("^", maxInt(1, length)))
	fmt.Fprintf(&b, "%s %s %s\n", indent, dim("|"), marker)

	return b.String()
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
