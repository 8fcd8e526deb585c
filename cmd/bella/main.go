// Command bella is the CLI entry point for the Bella toolchain.
//
// Usage:
//
//	bella tokens <file>            Print tokens
//	bella tokens <file> --json     Print tokens as JSON
//	bella parse  <file>            Print AST as JSON
//	bella run    <file>            Run a source file
//	bella repl                     Start interactive REPL
package main

import (
	"fmt"
	"os"

	"github.com/alexflint/go-arg"

	"bella-lang/internal/ast"
	"bella-lang/internal/diag"
	"bella-lang/internal/lexer"
	"bella-lang/internal/parser"
	"bella-lang/internal/runtime"
)

type tokensCmd struct {
	File string `arg:"positional,required" help:"source file to tokenize"`
	JSON bool   `arg:"--json" help:"print tokens as JSON"`
}

type parseCmd struct {
	File string `arg:"positional,required" help:"source file to parse"`
}

type runCmd struct {
	File string `arg:"positional,required" help:"source file to run"`
}

type replCmd struct{}

type cli struct {
	Tokens *tokensCmd `arg:"subcommand:tokens" help:"tokenize and print tokens"`
	Parse  *parseCmd  `arg:"subcommand:parse" help:"parse and print AST (JSON)"`
	Run    *runCmd    `arg:"subcommand:run" help:"run a source file"`
	Repl   *replCmd   `arg:"subcommand:repl" help:"start interactive REPL"`
}

func (cli) Description() string {
	return "bella is the interpreter and toolchain for the Bella language"
}

func main() {
	var args cli
	p := arg.MustParse(&args)

	switch {
	case args.Tokens != nil:
		cmdTokens(readFile(args.Tokens.File), args.Tokens.File, args.Tokens.JSON)
	case args.Parse != nil:
		cmdParse(readFile(args.Parse.File), args.Parse.File)
	case args.Run != nil:
		cmdRun(readFile(args.Run.File), args.Run.File)
	case args.Repl != nil:
		cmdRepl()
	default:
		p.WriteUsage(os.Stderr)
		os.Exit(1)
	}
}

func readFile(filename string) string {
	source, err := os.ReadFile(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: cannot read file %s: %v\n", filename, err)
		os.Exit(1)
	}
	return string(source)
}

// ---- tokens command ----

func cmdTokens(source, filename string, jsonMode bool) {
	l := lexer.New(source, filename)
	tokens, diags := l.Tokenize()

	if jsonMode {
		printTokensJSON(tokens, diags)
	} else {
		printTokensText(tokens, diags)
	}

	if len(diags) > 0 {
		os.Exit(1)
	}
}

// ---- parse command ----

func cmdParse(source, filename string) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()

	allDiags := append(lexDiags, parseDiags...)

	output := map[string]interface{}{
		"ast":         ast.NodeToMap(prog),
		"diagnostics": diagsToSlice(allDiags),
	}
	printJSON(output)

	if len(allDiags) > 0 {
		os.Exit(1)
	}
}

// ---- run command ----

func cmdRun(source, filename string) {
	prog, diags := frontend(source, filename)
	if len(diags) > 0 {
		printDiagsText(diags)
		os.Exit(1)
	}

	interp := runtime.NewInterpreter(os.Stdout)
	if err := interp.Run(prog); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// frontend tokenizes and parses source into a program.
func frontend(source, filename string) (*ast.Program, []diag.Diagnostic) {
	l := lexer.New(source, filename)
	tokens, lexDiags := l.Tokenize()
	if len(lexDiags) > 0 {
		return nil, lexDiags
	}

	p := parser.New(tokens)
	prog, parseDiags := p.ParseProgram()
	if len(parseDiags) > 0 {
		return nil, parseDiags
	}
	return prog, nil
}
