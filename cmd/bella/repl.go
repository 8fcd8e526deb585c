package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"

	"bella-lang/internal/diag"
	"bella-lang/internal/runtime"
)

// ---- ANSI colors ----

const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// ---- repl command ----

func cmdRepl() {
	// Determine history file path (~/.bella_history)
	historyFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		historyFile = filepath.Join(home, ".bella_history")
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:            colorGreen + "bella> " + colorReset,
		HistoryFile:       historyFile,
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
		HistorySearchFold: true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "readline init failed: %v\n", err)
		os.Exit(1)
	}
	defer rl.Close()

	// Welcome banner
	fmt.Fprintf(rl.Stdout(), "%s%sBella REPL%s %s(type 'exit' or Ctrl+D to quit)%s\n\n",
		colorBold, colorCyan, colorReset, colorGray, colorReset)

	interp := runtime.NewInterpreter(rl.Stdout())
	var accumulated strings.Builder
	braceDepth := 0

	for {
		// Update prompt based on multi-line state
		if braceDepth > 0 {
			rl.SetPrompt(colorGray + "...   " + colorReset)
		} else {
			rl.SetPrompt(colorGreen + "bella> " + colorReset)
		}

		line, err := rl.Readline()
		if err != nil {
			if err == readline.ErrInterrupt {
				if braceDepth > 0 {
					// Cancel multi-line input
					accumulated.Reset()
					braceDepth = 0
					continue
				}
				fmt.Fprintf(rl.Stdout(), "\n%s(use 'exit' or Ctrl+D to quit)%s\n", colorGray, colorReset)
				continue
			}
			// EOF (Ctrl+D) or other error → exit
			if err == io.EOF {
				fmt.Fprintln(rl.Stdout())
			}
			break
		}

		// Exit command
		if braceDepth == 0 && strings.TrimSpace(line) == "exit" {
			break
		}

		// Count braces for multi-line while bodies
		braceDepth += strings.Count(line, "{") - strings.Count(line, "}")
		accumulated.WriteString(line)
		accumulated.WriteString("\n")

		// If braces are unbalanced, keep reading
		if braceDepth > 0 {
			continue
		}
		braceDepth = 0

		source := accumulated.String()
		accumulated.Reset()

		// Skip empty input
		if strings.TrimSpace(source) == "" {
			continue
		}

		prog, diags := frontend(source, "<repl>")
		if len(diags) > 0 {
			printDiagsColored(rl.Stderr(), diags)
			continue
		}

		if err := interp.Run(prog); err != nil {
			fmt.Fprintf(rl.Stderr(), "%s%s%s\n", colorRed, err, colorReset)
			continue
		}
	}
}

// printDiagsColored prints diagnostics with red color for REPL display.
func printDiagsColored(w io.Writer, diags []diag.Diagnostic) {
	for _, d := range diags {
		fmt.Fprintf(w, "%s%s%s\n", colorRed, d.String(), colorReset)
	}
}
