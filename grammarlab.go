// Package grammarlab is a grammar-driven parsing and transformation
// engine: it compiles a grammar, parses input text with a selectable
// algorithm, and runs a host-supplied transformation program over the
// resulting tree.
//
// Run executes the whole pipeline for one request. Each call is an
// independent, synchronous unit of work with no shared state, so hosts
// that want concurrency run each pipeline on its own goroutine and
// collect the Result.
package grammarlab

import (
	"grammarlab/format"
	"grammarlab/grammar"
	"grammarlab/parser"
	"grammarlab/transform"
	"grammarlab/tree"
)

// DefaultStart is the start rule used when a request leaves it empty.
const DefaultStart = "start"

// Request is one pipeline invocation: grammar text, start rule, algorithm,
// input text, and an optional transformation program (nil means identity).
type Request struct {
	Grammar   string
	Start     string
	Algorithm parser.Algorithm
	Input     string
	Program   *transform.Program
}

// Stage names the pipeline stage a Result stopped at, for host-side
// status display.
type Stage int

const (
	StageCompile Stage = iota
	StageParse
	StageTransform
	StageDone
)

func (s Stage) String() string {
	switch s {
	case StageCompile:
		return "compile"
	case StageParse:
		return "parse"
	case StageTransform:
		return "transform"
	case StageDone:
		return "done"
	default:
		return "unknown"
	}
}

// Result holds the two output halves independently: a transform failure
// leaves the already-produced tree and its rendering intact.
type Result struct {
	Grammar *grammar.Grammar

	Tree     *tree.Tree
	TreeText string
	ParseErr error

	Value        transform.Value
	ValueText    string
	TransformErr error

	Stage Stage
}

// Err returns the first error in pipeline order, or nil.
func (r *Result) Err() error {
	if r.ParseErr != nil {
		return r.ParseErr
	}
	return r.TransformErr
}

// Run compiles, parses, and transforms. It fails fast per stage: a compile
// or parse failure stops before transformation, and a transform failure
// still returns the parse tree half.
func Run(req Request) *Result {
	res := &Result{Stage: StageCompile}

	start := req.Start
	if start == "" {
		start = DefaultStart
	}

	g, err := grammar.Compile(req.Grammar)
	if err != nil {
		res.ParseErr = err
		return res
	}
	res.Grammar = g
	res.Stage = StageParse

	t, err := parser.Parse(g, start, req.Algorithm, req.Input)
	if err != nil {
		res.ParseErr = err
		return res
	}
	res.Tree = t
	res.TreeText = format.Tree(t)
	res.Stage = StageTransform

	v, err := transform.Apply(t, req.Program)
	if err != nil {
		res.TransformErr = err
		return res
	}
	res.Value = v
	res.ValueText = format.Value(v)
	res.Stage = StageDone
	return res
}
