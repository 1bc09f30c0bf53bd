// Package repl provides an interactive loop for trying inputs against a
// compiled grammar: every line is parsed and the resulting tree printed.
package repl

import (
	"bufio"
	"fmt"
	"io"

	"grammarlab/format"
	"grammarlab/grammar"
	"grammarlab/internal/report"
	"grammarlab/parser"
)

const PROMPT = ">> "

func Start(in io.Reader, g *grammar.Grammar, start string, alg parser.Algorithm) {
	scanner := bufio.NewScanner(in)

	for {
		fmt.Print(PROMPT)
		if !scanner.Scan() {
			return
		}

		line := scanner.Text()
		if line == "" {
			continue
		}

		t, err := parser.Parse(g, start, alg, line)
		if err != nil {
			fmt.Print(report.Render("<repl>", line, err))
			continue
		}

		fmt.Println(format.Tree(t))
	}
}
