package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"

	"grammarlab"
	"grammarlab/grammar"
	"grammarlab/internal/report"
	"grammarlab/parser"
	"grammarlab/repl"
)

func main() {
	startRule := flag.String("start", grammarlab.DefaultStart, "start rule name")
	algorithm := flag.String("algorithm", "general", "parsing algorithm: general, deterministic, or quadratic")
	interactive := flag.Bool("repl", false, "read inputs interactively instead of from a file")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || (len(args) < 2 && !*interactive) {
		fmt.Fprintln(os.Stderr, "Usage: grammarlab-cli [flags] <grammar-file> <input-file>")
		fmt.Fprintln(os.Stderr, "       grammarlab-cli -repl [flags] <grammar-file>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	alg, err := parseAlgorithm(*algorithm)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	grammarPath := args[0]
	grammarText, err := os.ReadFile(grammarPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read grammar: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		runRepl(grammarPath, string(grammarText), *startRule, alg)
		return
	}

	inputPath := args[1]
	input, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read input: %v\n", err)
		os.Exit(1)
	}

	startTime := time.Now()
	res := grammarlab.Run(grammarlab.Request{
		Grammar:   string(grammarText),
		Start:     *startRule,
		Algorithm: alg,
		Input:     string(input),
	})
	duration := formatDuration(time.Since(startTime))

	if res.Tree != nil {
		fmt.Println(res.TreeText)
	}
	if res.ParseErr != nil {
		source := string(input)
		if res.Stage == grammarlab.StageCompile {
			source = string(grammarText)
			inputPath = grammarPath
		}
		fmt.Print(report.Render(inputPath, source, res.ParseErr))
		color.Red("Failed after %s", duration)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println(res.ValueText)
	color.Green("Parsed %s with the %s algorithm in %s", inputPath, alg, duration)
}

func runRepl(path, grammarText, start string, alg parser.Algorithm) {
	g, err := grammar.Compile(grammarText)
	if err != nil {
		fmt.Print(report.Render(path, grammarText, err))
		os.Exit(1)
	}
	repl.Start(os.Stdin, g, start, alg)
}

func parseAlgorithm(name string) (parser.Algorithm, error) {
	switch name {
	case "general", "earley":
		return parser.General, nil
	case "deterministic", "ll1":
		return parser.Deterministic, nil
	case "quadratic", "exhaustive-quadratic", "cyk":
		return parser.ExhaustiveQuadratic, nil
	default:
		return 0, fmt.Errorf("unknown algorithm %q (want general, deterministic, or quadratic)", name)
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.1fms", float64(d.Nanoseconds())/1000000.0)
	case d >= time.Microsecond:
		return fmt.Sprintf("%.1fµs", float64(d.Nanoseconds())/1000.0)
	default:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	}
}
