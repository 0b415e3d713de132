// scalafo renders scalastyle, Cobertura and JUnit output from Scala builds
// as information-dense review output.
//
// Usage:
//
//	scalastyle -c scalastyle-config.xml src/main/scala | scalafo
//	scalafo coverage --paths src/main/scala/a/Foo.scala target/scala-2.13/coverage-report/cobertura.xml
//	scalafo test --coverage cobertura.xml --paths src/main/scala/a/Foo.scala target/test-reports/*.xml
//	scalafo wrap sarif scalastyle.txt > scalastyle.sarif
//
// Output modes (auto-detected):
//
//	terminal  styled Unicode output (default when TTY)
//	llm       terse plain text for AI consumption (default when piped)
//	json      structured JSON for automation
//
// Exit codes: 0 clean, 1 findings (error diagnostics, failing tests, parse
// errors inside a report), 2 usage or input errors.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dkoosis/scalafo/internal/config"
	"github.com/dkoosis/scalafo/internal/logger"
	"github.com/dkoosis/scalafo/internal/version"
	"github.com/dkoosis/scalafo/pkg/coverage"
	"github.com/dkoosis/scalafo/pkg/source"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// app carries per-invocation state shared by all subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	flags config.CliFlags
	paths []string

	cfg *config.ResolvedConfig
	log *slog.Logger

	exitCode int
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}
	root := newRootCmd(a)
	if args == nil {
		// cobra falls back to os.Args for a nil slice.
		args = []string{}
	}
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "scalafo: %v\n", err)
		return 2
	}
	return a.exitCode
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "scalafo [file]",
		Short: "Render Scala build tool output for review",
		Long: `scalafo reads scalastyle output, Cobertura coverage, JUnit test reports,
SARIF or a delimited multi-tool report, detects which one it got, and renders it.`,
		Version:           version.String(),
		Args:              cobra.MaximumNArgs(1),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runAuto,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.ConfigPath, "config", "", "config file (.yaml, .yml or .toml); never discovered implicitly")
	pf.StringVar(&a.flags.ProjectRoot, "root", "", "project root that source paths are relative to")
	pf.StringVar(&a.flags.SourceRoot, "source-root", "", "prefix joined to Cobertura class filenames (default src/main/scala/)")
	pf.StringVar(&a.flags.Format, "format", "", "output format: auto, terminal, llm, json")
	pf.StringVar(&a.flags.Theme, "theme", "", "terminal theme: default, orca, mono")
	pf.BoolVar(&a.flags.Debug, "debug", false, "log debug details to stderr")
	pf.StringSliceVar(&a.paths, "paths", nil, "files under review, relative to the project root (comma separated)")

	root.AddCommand(newLintCmd(a), newCoverageCmd(a), newTestCmd(a), newReportCmd(a), newWrapCmd(a))
	return root
}

// setup resolves configuration once the command line is parsed.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	a.flags.DebugSet = cmd.Flags().Changed("debug")
	cfg, err := config.ResolveConfig(a.flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg
	a.log = logger.New(a.stderr, cfg.Debug)
	a.log.Debug("configuration resolved",
		"config", cfg.ConfigPath,
		"root", cfg.ProjectRoot,
		"source_root", cfg.SourceRoot,
		"theme", cfg.Theme, "theme_source", cfg.ThemeSource,
		"format", cfg.Format, "format_source", cfg.FormatSource,
	)
	return nil
}

func (a *app) fs() source.FS {
	return source.NewDir(a.cfg.ProjectRoot)
}

func (a *app) reconstructor() *coverage.Reconstructor {
	return coverage.NewReconstructor(a.fs(),
		coverage.WithSourceRoot(a.cfg.SourceRoot),
		coverage.WithLogger(a.log),
	)
}

func (a *app) pathSet() coverage.PathSet {
	return coverage.NewPathSet(a.paths...)
}

var errNoInput = errors.New("no input")
