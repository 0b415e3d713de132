package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/dkoosis/scalafo/pkg/pattern"
	"github.com/dkoosis/scalafo/pkg/render"
)

// readInput reads the named file, or stdin when args is empty or "-".
func (a *app) readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		if len(data) == 0 {
			return nil, fmt.Errorf("%w on stdin", errNoInput)
		}
		return data, nil
	}
	// #nosec G304 -- input paths are supplied by the user
	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	return data, nil
}

// emit renders patterns and records the exit code they imply.
func (a *app) emit(patterns []pattern.Pattern) {
	mode := resolveFormat(a.cfg.Format, a.stdout)
	width, _ := termSize(a.stdout)
	out := render.ForFormat(mode, render.ThemeByName(a.cfg.Theme), width).Render(patterns)
	fmt.Fprint(a.stdout, out)
	a.exitCode = exitCode(patterns)
}

// isTTYWriter reports whether w is a terminal.
func isTTYWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// termSize returns the terminal dimensions for w, defaulting to 80x24.
func termSize(w io.Writer) (width, height int) {
	width, height = 80, 24
	if f, ok := w.(*os.File); ok {
		if tw, th, err := term.GetSize(int(f.Fd())); err == nil {
			if tw > 0 {
				width = tw
			}
			if th > 0 {
				height = th
			}
		}
	}
	return width, height
}

func resolveFormat(format string, w io.Writer) string {
	if format != "auto" {
		return format
	}
	// Auto-detect: TTY = terminal, piped = llm
	if isTTYWriter(w) {
		return "terminal"
	}
	return "llm"
}

// exitCode returns 0 for clean, 1 for failures present.
// Failures propagate through TestTable fail items (error diagnostics,
// failing tests), Error patterns (section parse failures) or a failed tool
// in a report summary, which covers sections marked status:fail.
func exitCode(patterns []pattern.Pattern) int {
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if v.Kind != pattern.SummaryKindReport {
				continue
			}
			for _, m := range v.Metrics {
				if m.Kind == "error" {
					return 1
				}
			}
		case *pattern.TestTable:
			for _, r := range v.Results {
				if r.Status == "fail" {
					return 1
				}
			}
		case *pattern.Error:
			return 1
		}
	}
	return 0
}
